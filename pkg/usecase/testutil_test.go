package usecase

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/openmocap/pose2motion/pkg/model"
)

// standingFrame builds a full 33-slot frame for a T-pose facing the
// camera: hip center at the origin, shoulders half a meter up, arms
// stretched sideways and legs straight down. Slots the pipeline does
// not consume stay zero.
func standingFrame(timestamp float64) model.Frame {
	frame := model.Frame{
		Timestamp: timestamp,
		Landmarks: make([]model.Landmark, model.LandmarkCount),
	}

	set := func(index int, x, y, z float64) {
		frame.Landmarks[index] = model.Landmark{X: x, Y: y, Z: z, Visibility: 1}
	}

	set(model.LandmarkNose, 0, 0.6, 0)
	set(model.LandmarkLeftShoulder, 0.2, 0.5, 0)
	set(model.LandmarkRightShoulder, -0.2, 0.5, 0)
	set(model.LandmarkLeftElbow, 0.5, 0.5, 0)
	set(model.LandmarkRightElbow, -0.5, 0.5, 0)
	set(model.LandmarkLeftWrist, 0.8, 0.5, 0)
	set(model.LandmarkRightWrist, -0.8, 0.5, 0)
	set(model.LandmarkLeftHip, 0.1, 0, 0)
	set(model.LandmarkRightHip, -0.1, 0, 0)
	set(model.LandmarkLeftKnee, 0.1, -0.45, 0)
	set(model.LandmarkRightKnee, -0.1, -0.45, 0)
	set(model.LandmarkLeftAnkle, 0.1, -0.9, 0)
	set(model.LandmarkRightAnkle, -0.1, -0.9, 0)

	return frame
}

func standingFrames(count int, fps float64) []model.Frame {
	frames := make([]model.Frame, count)
	for i := range frames {
		frames[i] = standingFrame(float64(i) / fps)
	}
	return frames
}

func vec3Delta(a, b mgl64.Vec3) float64 {
	return a.Sub(b).Len()
}
