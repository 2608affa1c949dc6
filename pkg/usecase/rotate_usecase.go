package usecase

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog/log"

	"github.com/openmocap/pose2motion/pkg/model"
	"github.com/openmocap/pose2motion/pkg/utils"
)

// BoneOrientations holds one frame's solved orientations, indexed by
// bone arena index. Global is world-space, Local is parent-relative.
type BoneOrientations struct {
	Global []mgl64.Quat
	Local  []mgl64.Quat
}

// Rotate solves per-bone orientations for every frame. Each bone's
// global orientation is the shortest-arc rotation mapping its rest
// direction onto the observed direction toward its primary child; the
// solver therefore cannot recover twist/roll about the bone's own
// axis. That information loss is inherent to the algorithm and is not
// compensated for.
//
// Frames carry no data dependency on each other here, so they are
// solved in parallel and reassembled in frame order.
func Rotate(frames []model.Frame, sk *model.Skeleton) []BoneOrientations {
	log.Info().Msg("Start: Rotate =============================")

	all := make([]BoneOrientations, len(frames))

	bar := utils.NewProgressBar(len(frames))
	var wg sync.WaitGroup

	for i := range frames {
		wg.Add(1)

		go func(i int, frame model.Frame) {
			defer wg.Done()
			defer bar.Increment()
			all[i] = solveOrientations(frame, sk)
		}(i, frames[i])
	}

	wg.Wait()
	bar.Finish()

	log.Info().Msg("End: Rotate =============================")

	return all
}

func solveOrientations(frame model.Frame, sk *model.Skeleton) BoneOrientations {
	pose := SolvePose(frame, sk)

	global := make([]mgl64.Quat, sk.Len())
	local := make([]mgl64.Quat, sk.Len())

	for i := 0; i < sk.Len(); i++ {
		global[i] = solveGlobal(sk, pose, i)
	}

	// Parent-relative composition; parents precede children in the
	// traversal order, and globals are already final either way.
	for _, i := range sk.PreOrder() {
		parent := sk.At(i).Parent
		if parent < 0 {
			local[i] = global[i]
			continue
		}
		local[i] = global[parent].Inverse().Mul(global[i]).Normalize()
	}

	return BoneOrientations{Global: global, Local: local}
}

func solveGlobal(sk *model.Skeleton, pose []mgl64.Vec3, index int) mgl64.Quat {
	bone := sk.At(index)
	if !sk.HasDirection(index) {
		return mgl64.QuatIdent()
	}

	var current mgl64.Vec3
	if bone.HasFixed {
		current = bone.Fixed
	} else {
		child := sk.PrimaryChild(index)
		dir := pose[child].Sub(pose[index])
		if dir.Len() < directionEpsilon {
			return mgl64.QuatIdent()
		}
		current = dir.Normalize()
	}

	return quatBetween(bone.Rest, current)
}

const directionEpsilon = 1e-10

// quatBetween returns the minimal rotation mapping one unit vector
// onto another. Antiparallel inputs have no unique shortest arc; an
// arbitrary perpendicular axis is used for the half-turn.
func quatBetween(from, to mgl64.Vec3) mgl64.Quat {
	d := from.Dot(to)

	switch {
	case d >= 1-directionEpsilon:
		return mgl64.QuatIdent()
	case d <= -1+directionEpsilon:
		return mgl64.QuatRotate(math.Pi, perpendicular(from))
	}

	axis := from.Cross(to).Normalize()
	angle := math.Acos(mgl64.Clamp(d, -1, 1))
	return mgl64.QuatRotate(angle, axis).Normalize()
}

// perpendicular picks any unit vector orthogonal to v.
func perpendicular(v mgl64.Vec3) mgl64.Vec3 {
	axis := v.Cross(mgl64.Vec3{1, 0, 0})
	if axis.Len() < directionEpsilon {
		axis = v.Cross(mgl64.Vec3{0, 1, 0})
	}
	return axis.Normalize()
}
