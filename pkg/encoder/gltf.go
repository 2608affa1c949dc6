// Package encoder provides the default scene-serialization backend:
// a binary glTF (GLB) writer for the joint graph and animation clip.
package encoder

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/openmocap/pose2motion/pkg/model"
)

// GltfEncoder serializes a joint hierarchy plus one animation clip
// into a self-contained GLB buffer.
type GltfEncoder struct{}

// NewGltfEncoder returns a ready-to-use encoder.
func NewGltfEncoder() *GltfEncoder {
	return &GltfEncoder{}
}

var identityMatrix = [16]float64{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// Encode builds a glTF document with one node per joint and one
// animation whose samplers carry the clip tracks, then writes it as
// GLB. Track times and values land in a single embedded binary buffer.
func (e *GltfEncoder) Encode(root *model.Joint, clip *model.AnimationClip) ([]byte, error) {
	if root == nil {
		return nil, errors.New("gltf: nil scene root")
	}
	if clip == nil || len(clip.Tracks) == 0 {
		return nil, errors.New("gltf: clip has no tracks")
	}

	doc := &gltf.Document{
		Asset: gltf.Asset{Version: "2.0", Generator: "pose2motion"},
		Scene: gltf.Index(0),
	}

	nodeIndex := map[string]uint32{}
	rootIdx := addJoint(doc, nodeIndex, root)
	doc.Scenes = []*gltf.Scene{{Name: root.Name, Nodes: []uint32{rootIdx}}}

	var bin bytes.Buffer
	anim := &gltf.Animation{Name: clip.Name}

	for _, track := range clip.Tracks {
		if err := validateTrack(track); err != nil {
			return nil, err
		}
		node, ok := nodeIndex[track.Bone]
		if !ok {
			return nil, errors.Errorf("gltf: track targets unknown joint %q", track.Bone)
		}

		input := addTimeAccessor(doc, &bin, track.Times)

		var output uint32
		var path gltf.TRSProperty
		if track.Channel == model.ChannelPosition {
			output = addVectorAccessor(doc, &bin, flattenPositions(track), gltf.AccessorVec3)
			path = gltf.TRSTranslation
		} else {
			output = addVectorAccessor(doc, &bin, flattenRotations(track), gltf.AccessorVec4)
			path = gltf.TRSRotation
		}

		sampler := uint32(len(anim.Samplers))
		anim.Samplers = append(anim.Samplers, &gltf.AnimationSampler{
			Input:         input,
			Output:        output,
			Interpolation: gltf.InterpolationLinear,
		})
		anim.Channels = append(anim.Channels, &gltf.Channel{
			Sampler: gltf.Index(sampler),
			Target:  gltf.ChannelTarget{Node: gltf.Index(node), Path: path},
		})
	}

	doc.Animations = []*gltf.Animation{anim}
	doc.Buffers = []*gltf.Buffer{{ByteLength: uint32(bin.Len()), Data: bin.Bytes()}}

	var out bytes.Buffer
	if err := gltf.NewEncoder(&out).Encode(doc); err != nil {
		return nil, errors.Wrap(err, "gltf: failed to encode document")
	}
	return out.Bytes(), nil
}

// addJoint appends the joint and its subtree as nodes, depth-first in
// child declaration order, and records each node's index by name.
func addJoint(doc *gltf.Document, nodeIndex map[string]uint32, joint *model.Joint) uint32 {
	index := uint32(len(doc.Nodes))
	node := &gltf.Node{
		Name:     joint.Name,
		Matrix:   identityMatrix,
		Rotation: [4]float64{0, 0, 0, 1},
		Scale:    [3]float64{1, 1, 1},
	}
	doc.Nodes = append(doc.Nodes, node)
	nodeIndex[joint.Name] = index

	for _, child := range joint.Children {
		node.Children = append(node.Children, addJoint(doc, nodeIndex, child))
	}
	return index
}

func validateTrack(track *model.KeyframeTrack) error {
	if track.Len() == 0 {
		return errors.Errorf("gltf: track %s has no keyframes", track.Name())
	}
	for i := 1; i < len(track.Times); i++ {
		if track.Times[i] < track.Times[i-1] {
			return errors.Errorf("gltf: track %s times are not monotonic", track.Name())
		}
	}
	return nil
}

func addTimeAccessor(doc *gltf.Document, bin *bytes.Buffer, times []float64) uint32 {
	data := make([]float32, len(times))
	for i, t := range times {
		data[i] = float32(t)
	}
	index := addAccessor(doc, bin, data, 1, gltf.AccessorScalar)

	// Animation input accessors must declare their bounds.
	acc := doc.Accessors[index]
	acc.Min = []float64{float64(data[0])}
	acc.Max = []float64{float64(data[len(data)-1])}
	return index
}

func addVectorAccessor(doc *gltf.Document, bin *bytes.Buffer, data []float32, accType gltf.AccessorType) uint32 {
	components := 3
	if accType == gltf.AccessorVec4 {
		components = 4
	}
	return addAccessor(doc, bin, data, components, accType)
}

func addAccessor(doc *gltf.Document, bin *bytes.Buffer, data []float32, components int, accType gltf.AccessorType) uint32 {
	offset := uint32(bin.Len())
	binary.Write(bin, binary.LittleEndian, data)

	doc.BufferViews = append(doc.BufferViews, &gltf.BufferView{
		Buffer:     0,
		ByteOffset: offset,
		ByteLength: uint32(len(data) * 4),
	})
	view := uint32(len(doc.BufferViews) - 1)

	doc.Accessors = append(doc.Accessors, &gltf.Accessor{
		BufferView:    gltf.Index(view),
		ComponentType: gltf.ComponentFloat,
		Count:         uint32(len(data) / components),
		Type:          accType,
	})
	return uint32(len(doc.Accessors) - 1)
}

func flattenPositions(track *model.KeyframeTrack) []float32 {
	data := make([]float32, 0, len(track.Positions)*3)
	for _, p := range track.Positions {
		data = append(data, float32(p.X()), float32(p.Y()), float32(p.Z()))
	}
	return data
}

func flattenRotations(track *model.KeyframeTrack) []float32 {
	data := make([]float32, 0, len(track.Rotations)*4)
	for _, q := range track.Rotations {
		data = append(data, float32(q.X()), float32(q.Y()), float32(q.Z()), float32(q.W))
	}
	return data
}
