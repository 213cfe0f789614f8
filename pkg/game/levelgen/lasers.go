package levelgen

import (
	"image"
	"math"
)

// LaserWidth is the thickness of a laser beam.
const LaserWidth = 10

// LaserLevel is the first city with lasers.
const LaserLevel = 2

// Laser is a moving beam that costs the player a life on contact.
type Laser struct {
	X, Y, W, H float64

	// Vertical lasers travel up and down between the window edges, the
	// rest left and right between MinX and MaxX.
	Vertical   bool
	MinX, MaxX float64

	// Signed pixels per frame along the axis of travel.
	Speed float64
}

// Rect returns the beam as a pixel rectangle.
func (l Laser) Rect() image.Rectangle {
	return image.Rect(int(l.X), int(l.Y), int(math.Ceil(l.X+l.W)), int(math.Ceil(l.Y+l.H)))
}

// Overlaps reports whether a w x h box with its top left at (x, y)
// intersects the beam.
func (l Laser) Overlaps(x, y, w, h float64) bool {
	return x < l.X+l.W && x+w > l.X && y < l.Y+l.H && y+h > l.Y
}

// Step moves the laser one frame. On reaching a limit it turns back toward
// the inside of its range.
func (l *Laser) Step(viewH float64) {
	if l.Vertical {
		l.Y += l.Speed
		switch {
		case l.Y <= 0:
			l.Speed = math.Abs(l.Speed)
		case l.Y+l.H >= viewH:
			l.Speed = -math.Abs(l.Speed)
		}
		return
	}
	l.X += l.Speed
	switch {
	case l.X <= l.MinX:
		l.Speed = math.Abs(l.Speed)
	case l.X+l.W >= l.MaxX:
		l.Speed = -math.Abs(l.Speed)
	}
}

// GenerateLasers returns the lasers for city level in a width x height
// window: none before LaserLevel, then two sweeping sideways, two posts
// and a long beam moving up and down. speed is the base speed in pixels
// per frame; zero turns lasers off.
func GenerateLasers(width, height, level int, speed float64) []Laser {
	if level < LaserLevel || speed <= 0 || width <= 0 || height <= 0 {
		return nil
	}
	w, h := float64(width), float64(height)
	lasers := []Laser{
		{X: 100, Y: 150, W: 200, H: LaserWidth, MinX: 50, MaxX: w - 250, Speed: speed},
		{X: w - 300, Y: h / 2, W: 200, H: LaserWidth, MinX: w / 2, MaxX: w - 200, Speed: speed * 1.2},
		{X: 200, Y: 100, W: LaserWidth, H: 300, Vertical: true, Speed: speed * 0.8},
		{X: w - 200, Y: h/2 - 150, W: LaserWidth, H: 300, Vertical: true, Speed: speed},
		{X: w/2 - 150, Y: h / 2, W: 300, H: LaserWidth, Vertical: true, Speed: speed * 1.5},
	}
	for i := range lasers {
		if l := &lasers[i]; !l.Vertical {
			// start inside the range, or as far left as a short range allows
			l.X = math.Max(l.MinX, math.Min(l.X, l.MaxX-l.W))
		}
	}
	return lasers
}
