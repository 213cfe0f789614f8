// Package bitmap holds the background image pair used by the drain engine:
// the colored ground truth and its grayscale twin, derived once at load time.
package bitmap

import (
	"image"

	"github.com/pkg/errors"
)

// ErrEmptyImage is returned when a background is built from an image with no pixels.
var ErrEmptyImage = errors.New("bitmap: empty image")

// BackgroundImage is an immutable pair of equally sized RGBA buffers.
// Both buffers are anchored at (0,0) and never mutated after New returns.
type BackgroundImage struct {
	width  int
	height int
	color  *image.RGBA
	gray   *image.RGBA
}

// New wraps a color buffer and derives the grayscale buffer from it.
// The color buffer is copied so later writes by the caller cannot leak in.
func New(src *image.RGBA) (*BackgroundImage, error) {
	if src == nil {
		return nil, ErrEmptyImage
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, errors.Wrapf(ErrEmptyImage, "bounds %v", b)
	}

	col := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		srcOff := src.PixOffset(b.Min.X, b.Min.Y+y)
		dstOff := col.PixOffset(0, y)
		copy(col.Pix[dstOff:dstOff+b.Dx()*4], src.Pix[srcOff:srcOff+b.Dx()*4])
	}

	return &BackgroundImage{
		width:  b.Dx(),
		height: b.Dy(),
		color:  col,
		gray:   Grayscale(col),
	}, nil
}

// Width returns the width in pixels.
func (bg *BackgroundImage) Width() int {
	return bg.width
}

// Height returns the height in pixels.
func (bg *BackgroundImage) Height() int {
	return bg.height
}

// Bounds returns the pixel rectangle shared by both buffers.
func (bg *BackgroundImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, bg.width, bg.height)
}

// Color returns the colored buffer. Callers must treat it as read-only.
func (bg *BackgroundImage) Color() *image.RGBA {
	return bg.color
}

// Gray returns the grayscale buffer. Callers must treat it as read-only.
func (bg *BackgroundImage) Gray() *image.RGBA {
	return bg.gray
}

// Luminance returns the channel average used for draining, rounded to nearest.
func Luminance(r, g, b uint8) uint8 {
	return uint8((uint16(r) + uint16(g) + uint16(b) + 1) / 3)
}

// Grayscale returns a new buffer where R, G and B are replaced by their
// average. Alpha is copied unchanged.
func Grayscale(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	p := src.Pix
	q := dst.Pix
	for i := 0; i+3 < len(p); i += 4 {
		l := Luminance(p[i], p[i+1], p[i+2])
		q[i] = l
		q[i+1] = l
		q[i+2] = l
		q[i+3] = p[i+3]
	}
	return dst
}
