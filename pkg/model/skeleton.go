package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// SourceKind selects how a bone's per-frame position is resolved
// from one frame's landmarks.
type SourceKind int

const (
	// SourceLandmark reads a raw landmark slot.
	SourceLandmark SourceKind = iota
	// SourceHipCenter is the midpoint of the two hip landmarks.
	SourceHipCenter
	// SourceNeckCenter is the midpoint of the two shoulder landmarks.
	SourceNeckCenter
	// SourceSpine interpolates between hip center and neck center.
	SourceSpine
)

// PositionSource describes a bone's per-frame position resolver.
type PositionSource struct {
	Kind     SourceKind
	Landmark int     // slot index for SourceLandmark
	Fraction float64 // interpolation fraction for SourceSpine
}

// BoneSpec declares one bone of a hierarchy. Parent is the name of a
// previously declared bone, empty for the root.
type BoneSpec struct {
	Name     string
	Parent   string
	Source   PositionSource
	Rest     mgl64.Vec3 // expected direction toward the primary child in the reference stance
	HasRest  bool
	Fixed    mgl64.Vec3 // hardcoded current-frame direction for bones without a tracked child
	HasFixed bool
}

// Bone is the resolved, index-linked form of a BoneSpec.
type Bone struct {
	Name     string
	Parent   int // index into the same skeleton, -1 for the root
	Source   PositionSource
	Rest     mgl64.Vec3
	HasRest  bool
	Fixed    mgl64.Vec3
	HasFixed bool
}

// Skeleton is an immutable bone tree. Parent/child relations are stored
// as indices into one arena, and the pre-order traversal is resolved once
// at construction so per-frame code never looks bones up by name.
type Skeleton struct {
	bones    []Bone
	byName   map[string]int
	children [][]int
	primary  []int
	order    []int
}

const restUnitTolerance = 1e-6

// NewSkeleton validates and links a bone declaration list: exactly one
// root, unique names, every parent declared before its children (which
// also rules out cycles), rest directions unit-norm.
func NewSkeleton(specs []BoneSpec) (*Skeleton, error) {
	if len(specs) == 0 {
		return nil, errors.New("skeleton: no bones declared")
	}

	s := &Skeleton{
		bones:    make([]Bone, len(specs)),
		byName:   make(map[string]int, len(specs)),
		children: make([][]int, len(specs)),
		primary:  make([]int, len(specs)),
		order:    make([]int, 0, len(specs)),
	}

	rootCount := 0
	rootIndex := -1
	for i, spec := range specs {
		if spec.Name == "" {
			return nil, errors.Errorf("skeleton: bone %d has no name", i)
		}
		if _, ok := s.byName[spec.Name]; ok {
			return nil, errors.Errorf("skeleton: duplicate bone %q", spec.Name)
		}

		parent := -1
		if spec.Parent == "" {
			rootCount++
			rootIndex = i
		} else {
			p, ok := s.byName[spec.Parent]
			if !ok {
				return nil, errors.Errorf("skeleton: bone %q references undeclared parent %q", spec.Name, spec.Parent)
			}
			parent = p
		}

		if spec.HasRest && math.Abs(spec.Rest.Len()-1) > restUnitTolerance {
			return nil, errors.Errorf("skeleton: bone %q rest direction is not unit length", spec.Name)
		}

		s.bones[i] = Bone{
			Name:     spec.Name,
			Parent:   parent,
			Source:   spec.Source,
			Rest:     spec.Rest,
			HasRest:  spec.HasRest,
			Fixed:    spec.Fixed,
			HasFixed: spec.HasFixed,
		}
		s.byName[spec.Name] = i
		s.primary[i] = -1
		if parent >= 0 {
			if len(s.children[parent]) == 0 {
				s.primary[parent] = i
			}
			s.children[parent] = append(s.children[parent], i)
		}
	}

	if rootCount != 1 {
		return nil, errors.Errorf("skeleton: expected exactly one root, got %d", rootCount)
	}

	s.buildOrder(rootIndex)
	return s, nil
}

func mustSkeleton(specs []BoneSpec) *Skeleton {
	s, err := NewSkeleton(specs)
	if err != nil {
		panic(err)
	}
	return s
}

// buildOrder records the pre-order traversal: node first, then children
// in declaration order, recursively.
func (s *Skeleton) buildOrder(index int) {
	s.order = append(s.order, index)
	for _, child := range s.children[index] {
		s.buildOrder(child)
	}
}

// Len returns the number of bones.
func (s *Skeleton) Len() int { return len(s.bones) }

// At returns the bone at the given arena index.
func (s *Skeleton) At(index int) *Bone { return &s.bones[index] }

// IndexOf returns the arena index of the named bone.
func (s *Skeleton) IndexOf(name string) (int, bool) {
	i, ok := s.byName[name]
	return i, ok
}

// Root returns the index of the single parentless bone.
func (s *Skeleton) Root() int { return s.order[0] }

// Children returns the child indices of a bone in declaration order.
func (s *Skeleton) Children(index int) []int { return s.children[index] }

// PrimaryChild returns the first declared child of a bone, -1 if none.
func (s *Skeleton) PrimaryChild(index int) int { return s.primary[index] }

// PreOrder returns the canonical traversal order shared by both
// serializers. The returned slice must not be mutated.
func (s *Skeleton) PreOrder() []int { return s.order }

// HasDirection reports whether a bone's orientation can be solved: it
// needs a rest direction plus either a primary child or a hardcoded
// current-frame direction.
func (s *Skeleton) HasDirection(index int) bool {
	b := &s.bones[index]
	return b.HasRest && (b.HasFixed || s.primary[index] >= 0)
}

var (
	up      = mgl64.Vec3{0, 1, 0}
	down    = mgl64.Vec3{0, -1, 0}
	left    = mgl64.Vec3{1, 0, 0}
	right   = mgl64.Vec3{-1, 0, 0}
	forward = mgl64.Vec3{0, 0, 1}

	diagLeft  = mgl64.Vec3{1, 1, 0}.Normalize()
	diagRight = mgl64.Vec3{-1, 1, 0}.Normalize()
)

func landmarkSource(index int) PositionSource {
	return PositionSource{Kind: SourceLandmark, Landmark: index}
}

func spineSource(fraction float64) PositionSource {
	return PositionSource{Kind: SourceSpine, Fraction: fraction}
}

// positionalBones is the 15-bone hierarchy backing the positional text
// format. Every bone sits on a tracked landmark or a derived joint;
// offsets in the emitted file are zero because positions are absolute.
var positionalBones = []BoneSpec{
	{Name: "Hips", Source: PositionSource{Kind: SourceHipCenter}},
	{Name: "Spine", Parent: "Hips", Source: PositionSource{Kind: SourceNeckCenter}},
	{Name: "Head", Parent: "Spine", Source: landmarkSource(LandmarkNose)},
	{Name: "LeftArm", Parent: "Spine", Source: landmarkSource(LandmarkLeftShoulder)},
	{Name: "LeftForeArm", Parent: "LeftArm", Source: landmarkSource(LandmarkLeftElbow)},
	{Name: "LeftHand", Parent: "LeftForeArm", Source: landmarkSource(LandmarkLeftWrist)},
	{Name: "RightArm", Parent: "Spine", Source: landmarkSource(LandmarkRightShoulder)},
	{Name: "RightForeArm", Parent: "RightArm", Source: landmarkSource(LandmarkRightElbow)},
	{Name: "RightHand", Parent: "RightForeArm", Source: landmarkSource(LandmarkRightWrist)},
	{Name: "LeftUpLeg", Parent: "Hips", Source: landmarkSource(LandmarkLeftHip)},
	{Name: "LeftLeg", Parent: "LeftUpLeg", Source: landmarkSource(LandmarkLeftKnee)},
	{Name: "LeftFoot", Parent: "LeftLeg", Source: landmarkSource(LandmarkLeftAnkle)},
	{Name: "RightUpLeg", Parent: "Hips", Source: landmarkSource(LandmarkRightHip)},
	{Name: "RightLeg", Parent: "RightUpLeg", Source: landmarkSource(LandmarkRightKnee)},
	{Name: "RightFoot", Parent: "RightLeg", Source: landmarkSource(LandmarkRightAnkle)},
}

// rotationBones is the 20-bone hierarchy backing the animation format.
// The names follow the Mixamo humanoid convention so the exported clip
// can drive a pre-rigged character by name alone; renaming a bone here
// breaks that contract. The spine runs through four segments and each
// arm hangs off a clavicle anchored at the neck center.
//
// The feet have no tracked child, so they carry a hardcoded forward
// rest and current direction: their orientation stays identity instead
// of being derived from foot landmarks.
var rotationBones = []BoneSpec{
	{Name: "Hips", Source: PositionSource{Kind: SourceHipCenter}, Rest: up, HasRest: true},
	{Name: "Spine", Parent: "Hips", Source: spineSource(0.3), Rest: up, HasRest: true},
	{Name: "Spine1", Parent: "Spine", Source: spineSource(0.6), Rest: up, HasRest: true},
	{Name: "Spine2", Parent: "Spine1", Source: spineSource(0.9), Rest: up, HasRest: true},
	{Name: "Neck", Parent: "Spine2", Source: PositionSource{Kind: SourceNeckCenter}, Rest: up, HasRest: true},
	{Name: "Head", Parent: "Neck", Source: landmarkSource(LandmarkNose)},
	{Name: "LeftShoulder", Parent: "Neck", Source: PositionSource{Kind: SourceNeckCenter}, Rest: diagLeft, HasRest: true},
	{Name: "LeftArm", Parent: "LeftShoulder", Source: landmarkSource(LandmarkLeftShoulder), Rest: left, HasRest: true},
	{Name: "LeftForeArm", Parent: "LeftArm", Source: landmarkSource(LandmarkLeftElbow), Rest: left, HasRest: true},
	{Name: "LeftHand", Parent: "LeftForeArm", Source: landmarkSource(LandmarkLeftWrist)},
	{Name: "RightShoulder", Parent: "Neck", Source: PositionSource{Kind: SourceNeckCenter}, Rest: diagRight, HasRest: true},
	{Name: "RightArm", Parent: "RightShoulder", Source: landmarkSource(LandmarkRightShoulder), Rest: right, HasRest: true},
	{Name: "RightForeArm", Parent: "RightArm", Source: landmarkSource(LandmarkRightElbow), Rest: right, HasRest: true},
	{Name: "RightHand", Parent: "RightForeArm", Source: landmarkSource(LandmarkRightWrist)},
	{Name: "LeftUpLeg", Parent: "Hips", Source: landmarkSource(LandmarkLeftHip), Rest: down, HasRest: true},
	{Name: "LeftLeg", Parent: "LeftUpLeg", Source: landmarkSource(LandmarkLeftKnee), Rest: down, HasRest: true},
	{Name: "LeftFoot", Parent: "LeftLeg", Source: landmarkSource(LandmarkLeftAnkle), Rest: forward, HasRest: true, Fixed: forward, HasFixed: true},
	{Name: "RightUpLeg", Parent: "Hips", Source: landmarkSource(LandmarkRightHip), Rest: down, HasRest: true},
	{Name: "RightLeg", Parent: "RightUpLeg", Source: landmarkSource(LandmarkRightKnee), Rest: down, HasRest: true},
	{Name: "RightFoot", Parent: "RightLeg", Source: landmarkSource(LandmarkRightAnkle), Rest: forward, HasRest: true, Fixed: forward, HasFixed: true},
}

var (
	positionalSkeleton = mustSkeleton(positionalBones)
	rotationSkeleton   = mustSkeleton(rotationBones)
)

// PositionalSkeleton returns the shared read-only 15-bone hierarchy.
func PositionalSkeleton() *Skeleton { return positionalSkeleton }

// RotationSkeleton returns the shared read-only 20-bone hierarchy.
func RotationSkeleton() *Skeleton { return rotationSkeleton }
