// Package devtools provides developer tools for testing and debugging.
package devtools

import (
	"image"
	"image/draw"
	"regexp"
	"time"

	"chromatica/pkg/engine/drain"
)

// Snapshot describes one rendered frame. Frame may be a buffer the game
// loop reuses on the next tick; anything kept past ObserveFrame must be
// copied with CopyFrame.
type Snapshot struct {
	Frame  *image.RGBA
	Number int
	At     time.Time

	Level    int
	Seed     int64
	Progress drain.Progress
	Target   float64
	Complete bool
	GameOver bool
	Lives    int

	PlayerX, PlayerY float64
	Messages         []string
}

// CopyFrame returns a private copy of src, or nil.
func CopyFrame(src *image.RGBA) *image.RGBA {
	if src == nil {
		return nil
	}
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Rect, src, src.Rect.Min, draw.Src)
	return dst
}

var markup = regexp.MustCompile(`([a-zA-Z_]*){([a-z A-Z0-9_,:]+)}`)

// stripMarkup removes message markup, keeping the operand text.
func stripMarkup(s string) string {
	return markup.ReplaceAllString(s, "$2")
}
