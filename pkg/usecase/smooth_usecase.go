package usecase

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/openmocap/pose2motion/pkg/model"
)

// Smooth applies a recursive exponential low-pass filter to every
// landmark coordinate:
//
//	smoothed = alpha*raw + (1-alpha)*previousSmoothed
//
// Each step feeds on the filter's own prior output, so the pass is
// strictly sequential across frames. The first output frame is a value
// copy of the first input frame, timestamps are untouched, and
// visibility is always carried from the current raw sample.
func Smooth(frames []model.Frame, alpha float64) ([]model.Frame, error) {
	if alpha <= 0 || alpha > 1 {
		return nil, errors.Errorf("smooth: alpha must be in (0,1], got %v", alpha)
	}
	if len(frames) == 0 {
		return []model.Frame{}, nil
	}

	log.Debug().Float64("alpha", alpha).Int("frames", len(frames)).Msg("smoothing landmarks")

	smoothed := make([]model.Frame, len(frames))
	smoothed[0] = copyFrame(frames[0])

	for i := 1; i < len(frames); i++ {
		raw := frames[i]
		prev := smoothed[i-1].Landmarks

		out := model.Frame{
			Timestamp: raw.Timestamp,
			Landmarks: make([]model.Landmark, len(raw.Landmarks)),
		}
		for j, lm := range raw.Landmarks {
			out.Landmarks[j] = model.Landmark{
				X:          alpha*lm.X + (1-alpha)*prev[j].X,
				Y:          alpha*lm.Y + (1-alpha)*prev[j].Y,
				Z:          alpha*lm.Z + (1-alpha)*prev[j].Z,
				Visibility: lm.Visibility,
			}
		}
		smoothed[i] = out
	}

	return smoothed, nil
}

func copyFrame(frame model.Frame) model.Frame {
	out := model.Frame{
		Timestamp: frame.Timestamp,
		Landmarks: make([]model.Landmark, len(frame.Landmarks)),
	}
	copy(out.Landmarks, frame.Landmarks)
	return out
}
