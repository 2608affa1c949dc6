package usecase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLandmarkFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validSequenceJSON = `{
	"frames": [
		{"timestamp": 0.0, "landmarks": [{"x": 0.1, "y": 0.2, "z": 0.3, "visibility": 0.9}]},
		{"timestamp": 0.033, "landmarks": [{"x": 0.2, "y": 0.3, "z": 0.4}]}
	]
}`

func TestUnpack(t *testing.T) {
	dir := t.TempDir()
	path := writeLandmarkFile(t, dir, "walk_landmarks.json", validSequenceJSON)
	writeLandmarkFile(t, dir, "notes.txt", "ignored")

	sequences, err := Unpack(dir)
	require.NoError(t, err)
	require.Len(t, sequences, 1)

	seq := sequences[0]
	assert.Equal(t, path, seq.Path)
	require.Len(t, seq.Frames, 2)
	assert.Equal(t, 0.033, seq.Frames[1].Timestamp)
	assert.Equal(t, 0.9, seq.Frames[0].Landmarks[0].Visibility)
	assert.Equal(t, 0.1, seq.Frames[0].Landmarks[0].X)
}

func TestUnpackSkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeLandmarkFile(t, dir, "run_landmarks.json", validSequenceJSON)

	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeLandmarkFile(t, sub, "deep_landmarks.json", validSequenceJSON)

	sequences, err := Unpack(dir)
	require.NoError(t, err)
	assert.Len(t, sequences, 1)
}

func TestUnpackNoFiles(t *testing.T) {
	_, err := Unpack(t.TempDir())
	assert.Error(t, err)
}

func TestUnpackRejectsInvalidSequences(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", `{"frames": [`},
		{"empty frames", `{"frames": []}`},
		{"non-increasing timestamps", `{"frames": [
			{"timestamp": 0.1, "landmarks": [{"x": 0, "y": 0, "z": 0}]},
			{"timestamp": 0.1, "landmarks": [{"x": 0, "y": 0, "z": 0}]}
		]}`},
		{"varying landmark count", `{"frames": [
			{"timestamp": 0.0, "landmarks": [{"x": 0, "y": 0, "z": 0}]},
			{"timestamp": 0.1, "landmarks": []}
		]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeLandmarkFile(t, dir, "bad_landmarks.json", tt.content)

			_, err := Unpack(dir)
			assert.Error(t, err)
		})
	}
}
