package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
}

func TestGetLandmarkFilePaths(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a_landmarks.json"))
	touch(t, filepath.Join(dir, "b_landmarks.json"))
	touch(t, filepath.Join(dir, "readme.md"))

	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	touch(t, filepath.Join(sub, "c_landmarks.json"))

	paths, err := GetLandmarkFilePaths(dir)
	require.NoError(t, err)

	// only the matching files at the top level
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a_landmarks.json"),
		filepath.Join(dir, "b_landmarks.json"),
	}, paths)
}

func TestGetLandmarkFilePathsMissingDir(t *testing.T) {
	_, err := GetLandmarkFilePaths(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestWriteMotionFiles(t *testing.T) {
	dir := t.TempDir()
	outputs := map[string][]byte{
		filepath.Join(dir, "walk.bvh"): []byte("HIERARCHY"),
		filepath.Join(dir, "walk.glb"): {0x67, 0x6c, 0x54, 0x46},
	}

	require.NoError(t, WriteMotionFiles(outputs))

	for path, want := range outputs {
		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestWriteMotionFilesError(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "absent", "out.bvh")
	err := WriteMotionFiles(map[string][]byte{bad: []byte("x")})
	assert.Error(t, err)
}

func TestWriteMotionFilesEmpty(t *testing.T) {
	assert.NoError(t, WriteMotionFiles(nil))
}
