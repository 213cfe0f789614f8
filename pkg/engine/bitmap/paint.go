package bitmap

import (
	"image"
	"image/color"
	"math"
	"sort"
)

// Stop is one color stop of a gradient. Offset is in [0,1].
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// Canvas paints simple shapes onto an RGBA buffer. Every operation clips to
// the buffer bounds and blends non-premultiplied colors source-over.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas allocates a transparent canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Image returns the backing buffer.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Bounds returns the canvas rectangle.
func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Rect
}

// blend composites col over the pixel at byte offset off.
func (c *Canvas) blend(off int, col color.NRGBA) {
	p := c.img.Pix[off : off+4 : off+4]
	sa := uint32(col.A)
	if sa == 0xff {
		p[0], p[1], p[2], p[3] = col.R, col.G, col.B, 0xff
		return
	}
	inv := 0xff - sa
	p[0] = uint8((uint32(col.R)*sa + uint32(p[0])*inv + 127) / 0xff)
	p[1] = uint8((uint32(col.G)*sa + uint32(p[1])*inv + 127) / 0xff)
	p[2] = uint8((uint32(col.B)*sa + uint32(p[2])*inv + 127) / 0xff)
	p[3] = uint8(sa + (uint32(p[3])*inv+127)/0xff)
}

// Fill paints the whole canvas.
func (c *Canvas) Fill(col color.NRGBA) {
	c.FillRect(c.img.Rect, col)
}

// FillRect paints the rectangle r.
func (c *Canvas) FillRect(r image.Rectangle, col color.NRGBA) {
	r = r.Intersect(c.img.Rect)
	if r.Empty() || col.A == 0 {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := c.img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			c.blend(off, col)
			off += 4
		}
	}
}

// StrokeRect paints a one pixel outline just inside r.
func (c *Canvas) StrokeRect(r image.Rectangle, col color.NRGBA) {
	if r.Empty() {
		return
	}
	c.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), col)
	c.FillRect(image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), col)
	c.FillRect(image.Rect(r.Min.X, r.Min.Y+1, r.Min.X+1, r.Max.Y-1), col)
	c.FillRect(image.Rect(r.Max.X-1, r.Min.Y+1, r.Max.X, r.Max.Y-1), col)
}

// VerticalGradient fills r with colors interpolated top to bottom between stops.
func (c *Canvas) VerticalGradient(r image.Rectangle, stops []Stop) {
	if len(stops) == 0 {
		return
	}
	sorted := append([]Stop(nil), stops...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	h := r.Dy()
	clipped := r.Intersect(c.img.Rect)
	for y := clipped.Min.Y; y < clipped.Max.Y; y++ {
		t := 0.0
		if h > 1 {
			t = float64(y-r.Min.Y) / float64(h-1)
		}
		row := image.Rect(clipped.Min.X, y, clipped.Max.X, y+1)
		c.FillRect(row, gradientAt(sorted, t))
	}
}

func gradientAt(stops []Stop, t float64) color.NRGBA {
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].Offset {
			a, b := stops[i-1], stops[i]
			span := b.Offset - a.Offset
			if span <= 0 {
				return b.Color
			}
			return Lerp(a.Color, b.Color, (t-a.Offset)/span)
		}
	}
	return stops[len(stops)-1].Color
}

// Lerp interpolates two colors; t is clamped to [0,1].
func Lerp(a, b color.NRGBA, t float64) color.NRGBA {
	t = math.Max(0, math.Min(1, t))
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.NRGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), mix(a.A, b.A)}
}

// Disc paints every pixel whose centre lies within radius of (cx, cy).
func (c *Canvas) Disc(cx, cy, radius float64, col color.NRGBA) {
	c.radial(cx, cy, radius, func(float64) color.NRGBA { return col })
}

// RadialGlow paints a disc whose alpha falls off linearly from col.A at the
// centre to zero at radius.
func (c *Canvas) RadialGlow(cx, cy, radius float64, col color.NRGBA) {
	c.radial(cx, cy, radius, func(d float64) color.NRGBA {
		out := col
		out.A = uint8(float64(col.A)*(1-d/radius) + 0.5)
		return out
	})
}

func (c *Canvas) radial(cx, cy, radius float64, shade func(d float64) color.NRGBA) {
	if radius <= 0 {
		return
	}
	box := image.Rect(
		int(math.Floor(cx-radius)), int(math.Floor(cy-radius)),
		int(math.Ceil(cx+radius))+1, int(math.Ceil(cy+radius))+1,
	).Intersect(c.img.Rect)
	r2 := radius * radius
	for y := box.Min.Y; y < box.Max.Y; y++ {
		dy := float64(y) - cy
		off := c.img.PixOffset(box.Min.X, y)
		for x := box.Min.X; x < box.Max.X; x++ {
			dx := float64(x) - cx
			if d2 := dx*dx + dy*dy; d2 < r2 {
				c.blend(off, shade(math.Sqrt(d2)))
			}
			off += 4
		}
	}
}
