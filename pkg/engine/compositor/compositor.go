// Package compositor produces the displayed frame from a background image,
// its drain map and the current cursor.
//
// The committed state (color with drained cells gray) is kept in a base
// buffer that is patched only where the drain map reports changes. The cursor
// preview is painted over a copy of it and undone on the next processed frame.
package compositor

import (
	"image"
	"image/draw"
	"math"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"chromatica/pkg/engine/bitmap"
	"chromatica/pkg/engine/drain"
)

// ErrDimensionMismatch is returned when the drain map does not cover the image.
var ErrDimensionMismatch = errors.New("compositor: image and drain map dimensions differ")

// BlendBand is the width of the soft edge past the drain radius, as a
// fraction of the radius.
const BlendBand = 0.5

// Stats describes the compositor's recent work.
type Stats struct {
	Frames      int
	Processed   int
	Rebuilds    int
	DirtyCells  int
	Touched     int
	LastElapsed time.Duration
}

// Compositor owns the frame and base buffers. It is not safe for concurrent use.
type Compositor struct {
	every int
	count int

	img *bitmap.BackgroundImage
	m   *drain.Map
	gen uint64

	base  *image.RGBA
	frame *image.RGBA

	// cells painted by the last cursor preview, restored from base before the next one
	touched []image.Rectangle

	stats Stats
}

// New returns a compositor that does work on every every-th frame.
// Values below 1 mean every frame.
func New(every int) *Compositor {
	if every < 1 {
		every = 1
	}
	return &Compositor{every: every}
}

// Every returns the processing interval in frames.
func (c *Compositor) Every() int {
	return c.every
}

// Stats returns counters for the frames composited so far.
func (c *Compositor) Stats() Stats {
	return c.stats
}

// Frame returns the last composited frame, or nil before the first call.
func (c *Compositor) Frame() *image.RGBA {
	return c.frame
}

// Invalidate forces a full rebuild on the next call.
func (c *Compositor) Invalidate() {
	c.img = nil
	c.m = nil
}

// Composite returns the frame for the current state. Drained cells are always
// shown gray. Undrained cells within the cursor radius are shown gray and
// cells just past it fade back to color. cursor may be nil.
//
// On frames skipped by the throttle the previous frame is returned unchanged;
// the drain map is not consulted and its dirty region accumulates until the
// next processed frame. A new image, map or map generation is always
// processed immediately.
//
// The returned image is owned by the compositor and is overwritten by later calls.
func (c *Compositor) Composite(img *bitmap.BackgroundImage, m *drain.Map, cursor *drain.Cursor) (*image.RGBA, error) {
	if img == nil || m == nil {
		return nil, errors.Wrap(ErrDimensionMismatch, "nil image or map")
	}
	if img.Width() != m.Width() || img.Height() != m.Height() {
		return nil, errors.Wrapf(ErrDimensionMismatch, "image %dx%d, map covers %dx%d",
			img.Width(), img.Height(), m.Width(), m.Height())
	}

	changed := img != c.img || m != c.m || m.Generation() != c.gen
	due := c.count%c.every == 0
	c.count++
	c.stats.Frames++
	if !changed && !due && c.frame != nil {
		return c.frame, nil
	}

	start := time.Now()
	if changed {
		c.rebuild(img, m)
	} else {
		c.patch(m.Flush())
	}
	c.preview(cursor)

	c.stats.Processed++
	c.stats.LastElapsed = time.Since(start)
	if glog.V(2) {
		glog.Infof("composite: dirty=%d touched=%d in %v", c.stats.DirtyCells, c.stats.Touched, c.stats.LastElapsed)
	}
	return c.frame, nil
}

func (c *Compositor) rebuild(img *bitmap.BackgroundImage, m *drain.Map) {
	c.img, c.m, c.gen = img, m, m.Generation()
	bounds := img.Bounds()
	if c.base == nil || c.base.Bounds() != bounds {
		c.base = image.NewRGBA(bounds)
		c.frame = image.NewRGBA(bounds)
	}
	copy(c.base.Pix, img.Color().Pix)
	m.Flush()
	c.stats.DirtyCells = 0
	m.ForEachCell(func(cx, cy int, drained bool) {
		if drained {
			r := m.CellBounds(cx, cy)
			draw.Draw(c.base, r, img.Gray(), r.Min, draw.Src)
			c.stats.DirtyCells++
		}
	})
	copy(c.frame.Pix, c.base.Pix)
	c.touched = c.touched[:0]
	c.stats.Rebuilds++
	glog.V(1).Infof("composite: full rebuild %v, %d drained cells", bounds, c.stats.DirtyCells)
}

// patch re-rasterises the cells in dirty into base and frame, then undoes the
// previous cursor preview.
func (c *Compositor) patch(dirty image.Rectangle) {
	c.stats.DirtyCells = 0
	for cy := dirty.Min.Y; cy < dirty.Max.Y; cy++ {
		for cx := dirty.Min.X; cx < dirty.Max.X; cx++ {
			r := c.m.CellBounds(cx, cy)
			src := c.img.Color()
			if c.m.IsDrained(cx, cy) {
				src = c.img.Gray()
				c.stats.DirtyCells++
			}
			draw.Draw(c.base, r, src, r.Min, draw.Src)
		}
	}
	if !dirty.Empty() {
		q := c.m.Quality()
		px := image.Rect(dirty.Min.X*q, dirty.Min.Y*q, dirty.Max.X*q, dirty.Max.Y*q).Intersect(c.base.Bounds())
		draw.Draw(c.frame, px, c.base, px.Min, draw.Src)
	}
	for _, r := range c.touched {
		draw.Draw(c.frame, r, c.base, r.Min, draw.Src)
	}
	c.touched = c.touched[:0]
}

// preview paints the transient cursor effect over frame.
func (c *Compositor) preview(cursor *drain.Cursor) {
	c.stats.Touched = 0
	if cursor == nil {
		return
	}
	r := cursor.Radius
	outer := r * (1 + BlendBand)
	if !(r > 0) || !(drain.Cursor{X: cursor.X, Y: cursor.Y, Radius: outer}).Near(c.m.Width(), c.m.Height()) {
		return
	}

	q := float64(c.m.Quality())
	half := (q - 1) / 2
	minCx := clamp(int(math.Floor((cursor.X-outer-half)/q)), 0, c.m.Cols()-1)
	maxCx := clamp(int(math.Ceil((cursor.X+outer-half)/q)), 0, c.m.Cols()-1)
	minCy := clamp(int(math.Floor((cursor.Y-outer-half)/q)), 0, c.m.Rows()-1)
	maxCy := clamp(int(math.Ceil((cursor.Y+outer-half)/q)), 0, c.m.Rows()-1)

	col, gray := c.img.Color(), c.img.Gray()
	outer2 := outer * outer
	for cy := minCy; cy <= maxCy; cy++ {
		for cx := minCx; cx <= maxCx; cx++ {
			if c.m.IsDrained(cx, cy) {
				continue
			}
			x, y := c.m.CellCenter(cx, cy)
			d2 := (x-cursor.X)*(x-cursor.X) + (y-cursor.Y)*(y-cursor.Y)
			if d2 >= outer2 {
				continue
			}
			rect := c.m.CellBounds(cx, cy)
			if d2 < r*r {
				draw.Draw(c.frame, rect, gray, rect.Min, draw.Src)
			} else {
				t := (math.Sqrt(d2) - r) / (r * BlendBand)
				blendBlock(c.frame, gray, col, rect, t)
			}
			c.touched = append(c.touched, rect)
		}
	}
	c.stats.Touched = len(c.touched)
}

// blendBlock writes lerp(from, to, t) into dst over r.
func blendBlock(dst, from, to *image.RGBA, r image.Rectangle, t float64) {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	k := int(256*t + 0.5)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := dst.PixOffset(r.Min.X, y)
		n := r.Dx() * 4
		d, f, g := dst.Pix[i:i+n], from.Pix[i:i+n], to.Pix[i:i+n]
		for j := 0; j < n; j += 4 {
			for ch := 0; ch < 3; ch++ {
				a, b := int(f[j+ch]), int(g[j+ch])
				d[j+ch] = uint8(a + ((b-a)*k+128)>>8)
			}
			d[j+3] = g[j+3]
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
