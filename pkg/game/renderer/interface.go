package renderer

import (
	"chromatica/pkg/game/gameplay"
)

// TextStyle represents different text styling options
type TextStyle int

const (
	StyleNormal TextStyle = iota
	StyleAction
	StyleActionShort
	StyleValue
	StyleSubtle
	StyleTitle
	StyleDenied
	StyleSuccess
)

// Renderer defines the interface for game rendering backends.
// Implementations own the frame loop: they gather input, call Tick on the
// session and present the result until the player quits.
type Renderer interface {
	// Name is the value of the -renderer flag that selects this backend.
	Name() string

	// Run blocks until the session ends or the backend fails.
	Run(s *gameplay.Session) error
}
