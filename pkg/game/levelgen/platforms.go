// Package levelgen lays out the platforms the player runs and jumps on.
package levelgen

import (
	"image"
	"math"
	"math/rand"
)

// Platform layout constants, in window pixels.
const (
	GroundHeight   = 50
	PlatformHeight = 20
	// One platform per this many pixels of window width.
	PlatformSpacing = 300
	MaxPlatformW    = 200
)

// Platform is a one-way platform: it can be jumped through from below and
// landed on from above. The ground is solid.
type Platform struct {
	X, Y, W, H float64
	Ground     bool
}

// Top returns the y coordinate the player stands on.
func (p Platform) Top() float64 {
	return p.Y
}

// Rect returns the platform as a pixel rectangle.
func (p Platform) Rect() image.Rectangle {
	return image.Rect(int(p.X), int(p.Y), int(math.Ceil(p.X+p.W)), int(math.Ceil(p.Y+p.H)))
}

// Spans reports whether x lies between the platform's edges.
func (p Platform) Spans(x float64) bool {
	return x >= p.X && x <= p.X+p.W
}

// GeneratePlatforms lays out the ground plus width/300 platforms spread
// across the window in the 30-80% height band, and half as many short
// platforms scattered in the 20-80% band.
func GeneratePlatforms(width, height int, rng *rand.Rand) []Platform {
	if width <= 0 || height <= 0 {
		return nil
	}
	w, h := float64(width), float64(height)
	platforms := []Platform{{X: 0, Y: h - GroundHeight, W: w, H: GroundHeight, Ground: true}}

	count := width / PlatformSpacing
	if count == 0 {
		return platforms
	}
	pw := math.Min(MaxPlatformW, w/5)
	section := w / float64(count)

	for i := 0; i < count; i++ {
		x := float64(i)*section + rng.Float64()*math.Max(0, section-pw)
		y := h*0.3 + rng.Float64()*h*0.5
		platforms = append(platforms, Platform{X: x, Y: y, W: pw, H: PlatformHeight})
	}
	for i := 0; i < (count+1)/2; i++ {
		x := rng.Float64() * (w - pw/2)
		y := h*0.2 + rng.Float64()*h*0.6
		platforms = append(platforms, Platform{X: x, Y: y, W: pw / 2, H: PlatformHeight})
	}
	return platforms
}
