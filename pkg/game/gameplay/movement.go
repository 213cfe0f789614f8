package gameplay

import (
	"math"

	"chromatica/pkg/engine/input"
	"chromatica/pkg/game/levelgen"
	"chromatica/pkg/game/state"
)

// Movement tuning, per frame at 60 ticks per second.
const (
	Gravity      = 0.5
	MoveSpeed    = 5.0
	JumpVelocity = -15.0
	// Fall speed stays below platform thickness so a landing is never skipped.
	MaxFallSpeed = 15.0
	MaxJumps     = 2
	// 150ms of grace after walking off a ledge, and for an early jump press.
	CoyoteFrames     = 9
	JumpBufferFrames = 9
	// Releasing jump while rising keeps this share of the upward speed.
	JumpCutFactor = 0.6
)

// playerReach is how far a double jump carries the player.
var playerReach = levelgen.JumpReach(Gravity, JumpVelocity, MoveSpeed, MaxJumps)

// landingSlack absorbs float error for a player standing exactly on a top.
const landingSlack = 0.01

// stepResult reports what happened during one movement step.
type stepResult struct {
	Jumped bool
	// Index of the platform landed on this step, or -1.
	Landed  int
	FellOff bool
}

// stepPlayer advances the player by one frame: horizontal movement, jump
// timers, jumping, gravity and one-way platform landing.
func stepPlayer(p *state.Player, c *input.Controls, cw *collisionWorld, platforms []levelgen.Platform, viewW, viewH float64) stepResult {
	res := stepResult{Landed: -1}

	p.VX = 0
	if c.Held(input.ActionMoveLeft) {
		p.VX -= MoveSpeed
		p.FacingRight = false
	}
	if c.Held(input.ActionMoveRight) {
		p.VX += MoveSpeed
		p.FacingRight = true
	}
	p.X = math.Max(0, math.Min(p.X+p.VX, viewW-p.W))

	if p.OnGround {
		p.CoyoteFrames = CoyoteFrames
		p.JumpCount = 0
	} else if p.CoyoteFrames > 0 {
		p.CoyoteFrames--
		if p.CoyoteFrames == 0 && p.JumpCount == 0 {
			// walked off a ledge; the ground jump is gone
			p.JumpCount = 1
		}
	}

	if c.Pressed(input.ActionJump) {
		p.JumpBufferFrames = JumpBufferFrames
	} else if p.JumpBufferFrames > 0 {
		p.JumpBufferFrames--
	}

	if p.JumpBufferFrames > 0 {
		switch {
		case p.OnGround || p.CoyoteFrames > 0:
			p.VY = JumpVelocity
			p.JumpCount = 1
			p.CoyoteFrames = 0
			p.JumpBufferFrames = 0
			p.OnGround = false
			res.Jumped = true
		case c.Pressed(input.ActionJump) && p.JumpCount < MaxJumps:
			p.VY = JumpVelocity
			p.JumpCount++
			p.JumpBufferFrames = 0
			res.Jumped = true
		}
	}

	if c.Released(input.ActionJump) && p.VY < 0 {
		p.VY *= JumpCutFactor
	}
	p.JumpHeld = c.Held(input.ActionJump)

	p.VY = math.Min(p.VY+Gravity, MaxFallSpeed)
	prevBottom := p.Y + p.H
	p.Y += p.VY
	p.OnGround = false

	if p.VY >= 0 {
		if i, ok := landing(p, prevBottom, cw.overlapping(p.X, p.Y, p.W, p.H), platforms); ok {
			p.Y = platforms[i].Top() - p.H
			p.VY = 0
			p.OnGround = true
			res.Landed = i
		}
	}

	res.FellOff = p.Y > viewH
	return res
}

// landing picks the highest candidate platform the player's feet crossed
// this step. Floating platforms only catch a player coming from above; the
// ground catches anything that sinks into it.
func landing(p *state.Player, prevBottom float64, candidates []int, platforms []levelgen.Platform) (int, bool) {
	bottom := p.Y + p.H
	best, found := -1, false
	for _, i := range candidates {
		pl := platforms[i]
		if p.X+p.W <= pl.X || p.X >= pl.X+pl.W || bottom < pl.Top() || p.Y >= pl.Y+pl.H {
			continue
		}
		if !pl.Ground && prevBottom > pl.Top()+landingSlack {
			continue
		}
		if !found || pl.Top() < platforms[best].Top() {
			best, found = i, true
		}
	}
	return best, found
}
