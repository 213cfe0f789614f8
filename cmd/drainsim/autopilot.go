package main

import (
	engineinput "chromatica/pkg/engine/input"
	"chromatica/pkg/game/state"
)

// Jump cadence, in frames.
const (
	jumpEvery = 45
	jumpHold  = 12
	// second press of a double jump, counted from the first
	doubleJumpAt = 18
)

// autopilot runs back and forth across the window and double-jumps at a
// fixed cadence so the brush reaches the upper part of the city.
type autopilot struct {
	viewW     float64
	rightward bool
}

func newAutopilot(viewW float64) *autopilot {
	return &autopilot{viewW: viewW, rightward: true}
}

// steer sets the held actions for the given frame.
func (a *autopilot) steer(c *engineinput.Controls, p state.Player, frame int) {
	if a.rightward && p.X+p.W >= a.viewW-1 {
		a.rightward = false
	} else if !a.rightward && p.X <= 1 {
		a.rightward = true
	}
	hold(c, engineinput.ActionMoveRight, a.rightward)
	hold(c, engineinput.ActionMoveLeft, !a.rightward)

	phase := frame % jumpEvery
	jumping := phase < jumpHold || (phase >= doubleJumpAt && phase < doubleJumpAt+jumpHold)
	hold(c, engineinput.ActionJump, jumping)
}

// hold presses or releases a so that it ends up in the wanted state.
func hold(c *engineinput.Controls, a engineinput.Action, down bool) {
	if c.Held(a) == down {
		return
	}
	edge := engineinput.EdgePress
	if !down {
		edge = engineinput.EdgeRelease
	}
	c.Apply(engineinput.Intent{Action: a, Edge: edge})
}
