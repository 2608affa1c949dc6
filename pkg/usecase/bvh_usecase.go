package usecase

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/openmocap/pose2motion/pkg/model"
	"github.com/openmocap/pose2motion/pkg/utils"
)

// ErrNoFrames rejects an export call with an empty frame sequence
// before any output is produced.
var ErrNoFrames = errors.New("no frames to export")

// Output coordinate convention: the first axis is mirrored and the
// second inverted to undo the capture convention, and all three are
// scaled from meters to centimeters.
const captureScale = 100.0

// rootHeightOffset lifts the animation root to compensate for the
// capture positions being relative to the hip.
const rootHeightOffset = 100.0

func exportPosition(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{-v.X() * captureScale, -v.Y() * captureScale, v.Z() * captureScale}
}

// The six channels declared for every bone, in emission order. The
// rotation channels are always zero-filled: this format carries raw
// tracked positions only.
const bvhChannels = "Xposition Yposition Zposition Zrotation Xrotation Yrotation"

// ExportBvh serializes the smoothed frames into the positional text
// format: a HIERARCHY block over the 15-bone tree with zero offsets
// (absolute positioning, no rig lengths to guess) and a MOTION block
// with one line per frame in hierarchy pre-order. The whole document
// is built in memory so a failure never leaves a partial file.
func ExportBvh(frames []model.Frame, fps float64) ([]byte, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	if fps <= 0 {
		return nil, errors.Errorf("bvh: fps must be positive, got %v", fps)
	}

	log.Info().Int("frames", len(frames)).Msg("Start: Bvh =============================")

	sk := model.PositionalSkeleton()

	var sb strings.Builder
	sb.WriteString("HIERARCHY\n")
	writeBvhBone(&sb, sk, sk.Root(), 0)

	sb.WriteString("MOTION\n")
	fmt.Fprintf(&sb, "Frames: %d\n", len(frames))
	fmt.Fprintf(&sb, "Frame Time: %.6f\n", 1/fps)

	bar := utils.NewProgressBar(len(frames))
	for _, frame := range frames {
		bar.Increment()
		sb.WriteString(bvhMotionLine(frame, sk))
		sb.WriteByte('\n')
	}
	bar.Finish()

	log.Info().Msg("End: Bvh =============================")

	return []byte(sb.String()), nil
}

func writeBvhBone(sb *strings.Builder, sk *model.Skeleton, index, depth int) {
	indent := strings.Repeat("  ", depth)
	inner := strings.Repeat("  ", depth+1)

	tag := "JOINT"
	if depth == 0 {
		tag = "ROOT"
	}

	fmt.Fprintf(sb, "%s%s %s\n", indent, tag, sk.At(index).Name)
	fmt.Fprintf(sb, "%s{\n", indent)
	fmt.Fprintf(sb, "%sOFFSET 0.0000 0.0000 0.0000\n", inner)
	fmt.Fprintf(sb, "%sCHANNELS 6 %s\n", inner, bvhChannels)

	children := sk.Children(index)
	if len(children) == 0 {
		fmt.Fprintf(sb, "%sEnd Site\n", inner)
		fmt.Fprintf(sb, "%s{\n", inner)
		fmt.Fprintf(sb, "%s  OFFSET 0.0000 0.0000 0.0000\n", inner)
		fmt.Fprintf(sb, "%s}\n", inner)
	}
	for _, child := range children {
		writeBvhBone(sb, sk, child, depth+1)
	}

	fmt.Fprintf(sb, "%s}\n", indent)
}

func bvhMotionLine(frame model.Frame, sk *model.Skeleton) string {
	pose := SolvePose(frame, sk)

	tokens := make([]string, 0, sk.Len()*6)
	for _, i := range sk.PreOrder() {
		pos := exportPosition(pose[i])
		tokens = append(tokens,
			fmt.Sprintf("%.4f", pos.X()),
			fmt.Sprintf("%.4f", pos.Y()),
			fmt.Sprintf("%.4f", pos.Z()),
			"0.0000", "0.0000", "0.0000",
		)
	}
	return strings.Join(tokens, " ")
}
