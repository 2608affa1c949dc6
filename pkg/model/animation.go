package model

import "github.com/go-gl/mathgl/mgl64"

// Joint is one node of the scene graph handed to the serialization
// backend. Children keep the hierarchy's declaration order.
type Joint struct {
	Name     string
	Children []*Joint
}

// Channel names the animated property of a keyframe track.
type Channel string

const (
	ChannelRotation Channel = "quaternion"
	ChannelPosition Channel = "position"
)

// KeyframeTrack holds one bone's sampled values. Times are frame
// timestamps in seconds; exactly one of Rotations or Positions is
// populated depending on Channel.
type KeyframeTrack struct {
	Bone      string
	Channel   Channel
	Times     []float64
	Rotations []mgl64.Quat
	Positions []mgl64.Vec3
}

// Name returns the bone-qualified channel name, e.g. "Hips.quaternion".
func (t *KeyframeTrack) Name() string {
	return t.Bone + "." + string(t.Channel)
}

// Len returns the number of keyframes.
func (t *KeyframeTrack) Len() int { return len(t.Times) }

// AnimationClip packages all tracks of one export. Duration -1 means
// the backend derives it from the track extents.
type AnimationClip struct {
	Name     string
	Duration float64
	Tracks   []*KeyframeTrack
}
