package gameplay

import (
	"math"

	"chromatica/pkg/game/levelgen"
	"chromatica/pkg/game/state"
)

// Dog tuning. The dog is slower and floatier than the player so it trails
// behind on long runs.
const (
	DogMaxSpeed     = 3.0
	DogGravity      = 0.4
	DogJumpVelocity = -12.0
	// Where the dog tries to stand relative to the player.
	DogFollowX = 100.0
	DogFollowY = 10.0
	// A player this far above makes the dog jump.
	DogJumpTrigger = 50.0
	// How far below a platform's top the dog's feet may sink and still land.
	DogLandingDepth = 10.0
	// Tail flips every half second.
	DogWagFrames = 30
)

// stepDog moves the dog one frame toward a spot beside the player, on the
// side the player is running away from.
func stepDog(d *state.Dog, p state.Player, platforms []levelgen.Platform, viewW, viewH float64) {
	switch {
	case p.X > d.LastPlayerX:
		d.FacingRight = true
	case p.X < d.LastPlayerX:
		d.FacingRight = false
	}
	targetX := p.X - DogFollowX
	if !d.FacingRight {
		targetX = p.X + DogFollowX
	}
	// the player's Y is its top; the dog stands a little lower
	targetY := p.Y + DogFollowY

	dx, dy := targetX-d.X, targetY-d.Y
	if dist := math.Hypot(dx, dy); dist > 10 {
		d.VX = dx / dist * DogMaxSpeed * math.Min(1, dist/200)
		if d.OnGround && dy < -DogJumpTrigger && !d.Jumping {
			d.VY = DogJumpVelocity
			d.Jumping = true
			d.OnGround = false
		}
	} else {
		d.VX *= 0.8
	}

	if !d.OnGround {
		// falling no faster than the landing depth never skips a platform
		d.VY = math.Min(d.VY+DogGravity, DogLandingDepth)
	}
	d.X += d.VX
	d.Y += d.VY
	settleDog(d, platforms, viewW, viewH)

	d.WagFrames++
	if d.WagFrames >= DogWagFrames {
		d.WagFrames = 0
		d.TailUp = !d.TailUp
	}
	d.LastPlayerX, d.LastPlayerY = p.X, p.Y
}

// settleDog lands the dog on the first platform its feet are just inside,
// then keeps it above the window bottom and between the side edges.
func settleDog(d *state.Dog, platforms []levelgen.Platform, viewW, viewH float64) {
	d.OnGround = false
	bottom := d.Y + state.DogSize
	for _, pl := range platforms {
		if d.X+state.DogSize > pl.X && d.X < pl.X+pl.W && bottom >= pl.Top() && bottom <= pl.Top()+DogLandingDepth {
			landDog(d, pl.Top())
			break
		}
	}
	if d.Y+state.DogSize > viewH {
		landDog(d, viewH)
	}
	d.X = math.Max(0, math.Min(d.X, viewW-state.DogSize))
}

func landDog(d *state.Dog, top float64) {
	d.Y = top - state.DogSize
	d.VY = 0
	d.OnGround = true
	d.Jumping = false
}
