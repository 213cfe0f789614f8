// Package skyline paints the procedural city backgrounds that get drained.
package skyline

import (
	"image"
	"image/color"
	"math/rand"

	"github.com/pkg/errors"

	"chromatica/pkg/engine/bitmap"
)

// ErrInvalidSize is returned for non-positive image dimensions.
var ErrInvalidSize = errors.New("skyline: invalid size")

// Generator is an interface for background painting algorithms
type Generator interface {
	Generate(width, height int, rng *rand.Rand) (*bitmap.BackgroundImage, error)
	Name() string
}

// Available generators
var (
	City  = &CityGenerator{}
	Plain = &PlainGenerator{}
)

// DefaultGenerator is the default background generator
var DefaultGenerator Generator = City

// ByName returns the generator with the given name, or nil.
func ByName(name string) Generator {
	for _, g := range []Generator{City, Plain} {
		if g.Name() == name {
			return g
		}
	}
	return nil
}

var skyStops = []bitmap.Stop{
	{Offset: 0, Color: color.NRGBA{0x1a, 0x29, 0x80, 0xff}},
	{Offset: 0.4, Color: color.NRGBA{0x26, 0xd0, 0xce, 0xff}},
	{Offset: 0.7, Color: color.NRGBA{0x4a, 0x54, 0xa3, 0xff}},
	{Offset: 1, Color: color.NRGBA{0x00, 0x00, 0x00, 0xff}},
}

var groundColor = color.NRGBA{0x22, 0x22, 0x22, 0xff}

func checkSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.Wrapf(ErrInvalidSize, "%dx%d", width, height)
	}
	return nil
}

// paintSky fills the canvas with the night sky gradient.
func paintSky(c *bitmap.Canvas) {
	c.VerticalGradient(c.Bounds(), skyStops)
}

// paintGround draws the strip along the bottom 5% of the image.
func paintGround(c *bitmap.Canvas) {
	b := c.Bounds()
	h := b.Dy() * 5 / 100
	if h < 1 {
		h = 1
	}
	c.FillRect(image.Rect(0, b.Max.Y-h, b.Max.X, b.Max.Y), groundColor)
}

// PlainGenerator paints only the sky and the ground. It uses no randomness.
type PlainGenerator struct{}

// Name returns the generator name.
func (*PlainGenerator) Name() string {
	return "plain"
}

// Generate paints a plain background.
func (*PlainGenerator) Generate(width, height int, _ *rand.Rand) (*bitmap.BackgroundImage, error) {
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	c := bitmap.NewCanvas(width, height)
	paintSky(c)
	paintGround(c)
	return bitmap.New(c.Image())
}
