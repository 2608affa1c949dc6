package usecase

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"

	"github.com/openmocap/pose2motion/pkg/model"
)

// ReduceClip thins every track of a clip down to the keys that carry
// signal: a key survives when any of its channels deviates from the
// straight line through its neighbors by more than the tolerance.
// First and last keys always survive, and spacing enforces a minimum
// frame gap between kept keys. The input clip is not modified.
func ReduceClip(clip *model.AnimationClip, posTolerance, rotTolerance float64, spacing int) *model.AnimationClip {
	reduced := &model.AnimationClip{Name: clip.Name, Duration: clip.Duration}

	before, after := 0, 0
	for _, track := range clip.Tracks {
		var out *model.KeyframeTrack
		if track.Channel == model.ChannelPosition {
			out = reduceTrack(track, positionDeviation(track), posTolerance, spacing)
		} else {
			out = reduceTrack(track, rotationDeviation(track), rotTolerance, spacing)
		}
		before += track.Len()
		after += out.Len()
		reduced.Tracks = append(reduced.Tracks, out)
	}

	log.Info().Int("before", before).Int("after", after).Msg("reduced keyframes")

	return reduced
}

// positionDeviation measures, per key, how far any axis strays from
// the midpoint of its neighbors. Endpoints read as zero.
func positionDeviation(track *model.KeyframeTrack) []float64 {
	axes := [3][]float64{}
	for a := range axes {
		axes[a] = make([]float64, len(track.Positions))
		for i, p := range track.Positions {
			axes[a][i] = p[a]
		}
	}

	dev := make([]float64, track.Len())
	for a := range axes {
		d := channelDeviation(axes[a])
		for i := range dev {
			dev[i] = math.Max(dev[i], d[i])
		}
	}
	return dev
}

// rotationDeviation runs the same neighbor-midpoint measure over the
// successive-dot signal of the quaternion sequence.
func rotationDeviation(track *model.KeyframeTrack) []float64 {
	dots := make([]float64, len(track.Rotations))
	for i, q := range track.Rotations {
		if i == 0 {
			dots[i] = 1
			continue
		}
		dots[i] = q.Dot(track.Rotations[i-1])
	}
	return channelDeviation(dots)
}

func channelDeviation(vals []float64) []float64 {
	dev := make([]float64, len(vals))
	for i := 1; i < len(vals)-1; i++ {
		dev[i] = math.Abs(vals[i] - (vals[i-1]+vals[i+1])/2)
	}
	return dev
}

func reduceTrack(track *model.KeyframeTrack, dev []float64, tolerance float64, spacing int) *model.KeyframeTrack {
	n := track.Len()
	if n <= 2 {
		return copyTrackAt(track, allIndices(n))
	}

	// Flat track: endpoints are enough.
	if floats.Max(dev) <= tolerance {
		return copyTrackAt(track, []int{0, n - 1})
	}

	keep := []int{0}
	last := 0
	for i := 1; i < n-1; i++ {
		if dev[i] <= tolerance {
			continue
		}
		if spacing > 0 && i-last < spacing {
			continue
		}
		keep = append(keep, i)
		last = i
	}
	keep = append(keep, n-1)

	return copyTrackAt(track, keep)
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func copyTrackAt(track *model.KeyframeTrack, indices []int) *model.KeyframeTrack {
	out := &model.KeyframeTrack{
		Bone:    track.Bone,
		Channel: track.Channel,
		Times:   make([]float64, len(indices)),
	}
	if track.Rotations != nil {
		out.Rotations = make([]mgl64.Quat, len(indices))
	}
	if track.Positions != nil {
		out.Positions = make([]mgl64.Vec3, len(indices))
	}

	for o, i := range indices {
		out.Times[o] = track.Times[i]
		if track.Rotations != nil {
			out.Rotations[o] = track.Rotations[i]
		}
		if track.Positions != nil {
			out.Positions[o] = track.Positions[i]
		}
	}
	return out
}
