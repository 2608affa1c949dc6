package usecase

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/openmocap/pose2motion/pkg/model"
)

// Spine interpolation fractions between hip center and neck center.
const (
	spineLowerFraction = 0.3
	spineMidFraction   = 0.6
	spineUpperFraction = 0.9
)

// VirtualJoints are the derived points not directly sampled by the
// pose model. Recomputed per frame, never cached.
type VirtualJoints struct {
	HipCenter  mgl64.Vec3
	NeckCenter mgl64.Vec3
	SpineLower mgl64.Vec3
	SpineMid   mgl64.Vec3
	SpineUpper mgl64.Vec3
	Head       mgl64.Vec3
}

// DeriveJoints computes the virtual joints for one frame.
func DeriveJoints(frame model.Frame) VirtualJoints {
	hip := midpoint(
		landmarkPosition(frame, model.LandmarkLeftHip),
		landmarkPosition(frame, model.LandmarkRightHip),
	)
	neck := midpoint(
		landmarkPosition(frame, model.LandmarkLeftShoulder),
		landmarkPosition(frame, model.LandmarkRightShoulder),
	)

	return VirtualJoints{
		HipCenter:  hip,
		NeckCenter: neck,
		SpineLower: lerp(hip, neck, spineLowerFraction),
		SpineMid:   lerp(hip, neck, spineMidFraction),
		SpineUpper: lerp(hip, neck, spineUpperFraction),
		Head:       landmarkPosition(frame, model.LandmarkNose),
	}
}

// SolvePose resolves every bone of a hierarchy to a capture-space
// position for one frame. The result is indexed by bone arena index.
func SolvePose(frame model.Frame, sk *model.Skeleton) []mgl64.Vec3 {
	joints := DeriveJoints(frame)

	pose := make([]mgl64.Vec3, sk.Len())
	for i := 0; i < sk.Len(); i++ {
		pose[i] = resolveSource(frame, joints, sk.At(i).Source)
	}
	return pose
}

func resolveSource(frame model.Frame, joints VirtualJoints, src model.PositionSource) mgl64.Vec3 {
	switch src.Kind {
	case model.SourceHipCenter:
		return joints.HipCenter
	case model.SourceNeckCenter:
		return joints.NeckCenter
	case model.SourceSpine:
		return lerp(joints.HipCenter, joints.NeckCenter, src.Fraction)
	default:
		return landmarkPosition(frame, src.Landmark)
	}
}

// landmarkPosition reads one landmark slot, substituting the zero
// vector for indices absent from the frame. Downstream tooling
// tolerates zero-filled joints, so this never becomes an error.
func landmarkPosition(frame model.Frame, index int) mgl64.Vec3 {
	if index < 0 || index >= len(frame.Landmarks) {
		return mgl64.Vec3{}
	}
	lm := frame.Landmarks[index]
	return mgl64.Vec3{lm.X, lm.Y, lm.Z}
}

func midpoint(a, b mgl64.Vec3) mgl64.Vec3 {
	return a.Add(b).Mul(0.5)
}

func lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
