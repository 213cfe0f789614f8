package levelgen

import (
	"math"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// Reach is how far the player can travel in one airborne move, in window
// pixels.
type Reach struct {
	// Height gained above the take-off platform.
	Rise float64
	// Horizontal distance between the edges of two platforms.
	Gap float64
}

// JumpReach derives a Reach from per-frame kinematics, chaining jumps at
// the apex of the previous one.
func JumpReach(gravity, jumpVelocity, runSpeed float64, jumps int) Reach {
	if gravity <= 0 || jumps <= 0 {
		return Reach{}
	}
	v := math.Abs(jumpVelocity)
	apex := v * v / (2 * gravity)
	airtime := 2 * v / gravity * float64(jumps)
	return Reach{Rise: apex * float64(jumps), Gap: airtime * runSpeed}
}

// CanReach reports whether the player standing on from can land on to.
func (r Reach) CanReach(from, to Platform) bool {
	if from.Top()-to.Top() > r.Rise {
		return false
	}
	gap := math.Max(from.X, to.X) - math.Min(from.X+from.W, to.X+to.W)
	return gap <= r.Gap
}

// Reachable returns the indices of the platforms the player can get to
// starting from the ground.
func Reachable(platforms []Platform, r Reach) mapset.Set[int] {
	visited := mapset.New[int]()
	var queue []int
	for i, p := range platforms {
		if p.Ground {
			queue = append(queue, i)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited.Has(current) {
			continue
		}
		visited.Put(current)

		for i, p := range platforms {
			if !visited.Has(i) && r.CanReach(platforms[current], p) {
				queue = append(queue, i)
			}
		}
	}

	return visited
}

// Unreachable returns the indices of the platforms Reachable leaves out,
// in ascending order.
func Unreachable(platforms []Platform, r Reach) []int {
	reached := Reachable(platforms, r)
	var lost []int
	for i := range platforms {
		if !reached.Has(i) {
			lost = append(lost, i)
		}
	}
	sort.Ints(lost)
	return lost
}
