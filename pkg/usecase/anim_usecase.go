package usecase

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog/log"

	"github.com/openmocap/pose2motion/pkg/model"
)

// SceneEncoder is the narrow contract with the external serialization
// backend: it receives an acyclic joint graph plus a clip whose track
// time arrays are non-empty and monotonically non-decreasing, and
// returns the opaque output buffer.
type SceneEncoder interface {
	Encode(root *model.Joint, clip *model.AnimationClip) ([]byte, error)
}

// AnimationOptions tune the optional keyframe reduction pass. The zero
// value leaves the clip fully sampled.
type AnimationOptions struct {
	Reduce            bool
	PositionTolerance float64
	RotationTolerance float64
	MinSpacing        int
}

const clipName = "pose2motion"

// ExportAnimation solves bone rotations for every frame, assembles the
// joint scene graph and keyframe clip, and hands both to the encoder.
// An encoder failure is returned to the caller as-is, with no partial
// output and no retry.
func ExportAnimation(frames []model.Frame, enc SceneEncoder, opts AnimationOptions) ([]byte, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}

	log.Info().Int("frames", len(frames)).Msg("Start: Animation =============================")

	sk := model.RotationSkeleton()
	scene := BuildScene(sk)
	clip := BuildClip(frames, sk)

	if opts.Reduce {
		clip = ReduceClip(clip, opts.PositionTolerance, opts.RotationTolerance, opts.MinSpacing)
	}

	data, err := enc.Encode(scene, clip)
	if err != nil {
		return nil, err
	}

	log.Info().Int("bytes", len(data)).Msg("End: Animation =============================")

	return data, nil
}

// BuildScene creates one joint per bone, parented per the hierarchy
// table, with the root bone attached to a scene root node.
func BuildScene(sk *model.Skeleton) *model.Joint {
	joints := make([]*model.Joint, sk.Len())
	for _, i := range sk.PreOrder() {
		joints[i] = &model.Joint{Name: sk.At(i).Name}
		if parent := sk.At(i).Parent; parent >= 0 {
			joints[parent].Children = append(joints[parent].Children, joints[i])
		}
	}

	scene := &model.Joint{Name: "Scene"}
	scene.Children = append(scene.Children, joints[sk.Root()])
	return scene
}

// BuildClip samples a quaternion track for every direction-resolved
// bone and a position track for the root bone only. Non-root bones
// carry no position track: their spatial offset is fixed by the rig,
// and per-frame length jitter from noisy triangulation is discarded
// rather than baked into the animation.
func BuildClip(frames []model.Frame, sk *model.Skeleton) *model.AnimationClip {
	orientations := Rotate(frames, sk)

	times := make([]float64, len(frames))
	for i, frame := range frames {
		times[i] = frame.Timestamp
	}

	clip := &model.AnimationClip{Name: clipName, Duration: -1}

	for _, i := range sk.PreOrder() {
		if !sk.HasDirection(i) {
			continue
		}
		track := &model.KeyframeTrack{
			Bone:      sk.At(i).Name,
			Channel:   model.ChannelRotation,
			Times:     append([]float64(nil), times...),
			Rotations: make([]mgl64.Quat, len(frames)),
		}
		for f := range frames {
			track.Rotations[f] = orientations[f].Local[i]
		}
		clip.Tracks = append(clip.Tracks, track)
	}

	clip.Tracks = append(clip.Tracks, rootPositionTrack(frames, sk, times))

	return clip
}

func rootPositionTrack(frames []model.Frame, sk *model.Skeleton, times []float64) *model.KeyframeTrack {
	root := sk.Root()

	track := &model.KeyframeTrack{
		Bone:      sk.At(root).Name,
		Channel:   model.ChannelPosition,
		Times:     append([]float64(nil), times...),
		Positions: make([]mgl64.Vec3, len(frames)),
	}
	for f, frame := range frames {
		pos := exportPosition(SolvePose(frame, sk)[root])
		track.Positions[f] = pos.Add(mgl64.Vec3{0, rootHeightOffset, 0})
	}
	return track
}
