package usecase

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmocap/pose2motion/pkg/model"
)

func exportBvhLines(t *testing.T, frames []model.Frame, fps float64) []string {
	t.Helper()
	data, err := ExportBvh(frames, fps)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func motionLines(t *testing.T, lines []string) []string {
	t.Helper()
	for i, line := range lines {
		if line == "MOTION" {
			// skip the Frames: and Frame Time: headers
			return lines[i+3:]
		}
	}
	t.Fatal("no MOTION block")
	return nil
}

func TestExportBvhHierarchy(t *testing.T) {
	lines := exportBvhLines(t, standingFrames(1, 30), 30)
	doc := strings.Join(lines, "\n")

	assert.Equal(t, "HIERARCHY", lines[0])
	assert.Equal(t, "ROOT Hips", lines[1])

	// 14 joints under the root, one End Site per leaf
	assert.Equal(t, 14, strings.Count(doc, "JOINT "))
	assert.Equal(t, 5, strings.Count(doc, "End Site"))

	// absolute positioning: every offset is zero
	for _, line := range lines {
		if strings.Contains(line, "OFFSET") {
			assert.Equal(t, "OFFSET 0.0000 0.0000 0.0000", strings.TrimLeft(line, " "))
		}
	}

	// six channels per bone, positions leading
	assert.Equal(t, 15, strings.Count(doc, "CHANNELS 6 Xposition Yposition Zposition Zrotation Xrotation Yrotation"))
}

func TestExportBvhMotionHeaders(t *testing.T) {
	lines := exportBvhLines(t, standingFrames(4, 30), 30)
	doc := strings.Join(lines, "\n")

	assert.Contains(t, doc, "\nMOTION\n")
	assert.Contains(t, doc, "\nFrames: 4\n")
	assert.Contains(t, doc, "\nFrame Time: 0.033333\n")
}

func TestExportBvhMotionLines(t *testing.T) {
	frames := standingFrames(3, 30)
	motion := motionLines(t, exportBvhLines(t, frames, 30))
	require.Len(t, motion, len(frames))

	for _, line := range motion {
		tokens := strings.Fields(line)
		require.Len(t, tokens, 15*6)

		// rotation slots are zero-filled
		for b := 0; b < 15; b++ {
			for c := 3; c < 6; c++ {
				assert.Equal(t, "0.0000", tokens[b*6+c])
			}
		}
	}
}

func TestExportBvhTransformsCoordinates(t *testing.T) {
	frame := standingFrame(0)
	motion := motionLines(t, exportBvhLines(t, []model.Frame{frame}, 30))
	tokens := strings.Fields(motion[0])

	// bone order is the hierarchy pre-order; the root comes first,
	// its first child second
	sk := model.PositionalSkeleton()
	spine, _ := sk.IndexOf("Spine")
	require.Equal(t, spine, sk.PreOrder()[1])

	parse := func(tok string) float64 {
		v, err := strconv.ParseFloat(tok, 64)
		require.NoError(t, err)
		return v
	}

	// hip center (0,0,0) stays at the origin
	assert.InDelta(t, 0, parse(tokens[0]), 1e-9)
	assert.InDelta(t, 0, parse(tokens[1]), 1e-9)
	assert.InDelta(t, 0, parse(tokens[2]), 1e-9)

	// neck center (0,0.5,0): meters to centimeters with the second
	// axis inverted
	assert.InDelta(t, 0, parse(tokens[6]), 1e-9)
	assert.InDelta(t, -50, parse(tokens[7]), 1e-9)
	assert.InDelta(t, 0, parse(tokens[8]), 1e-9)
}

func TestExportBvhErrors(t *testing.T) {
	_, err := ExportBvh(nil, 30)
	assert.ErrorIs(t, err, ErrNoFrames)

	_, err = ExportBvh(standingFrames(1, 30), 0)
	assert.Error(t, err)
}
