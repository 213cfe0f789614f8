package compositor

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/pkg/errors"

	"chromatica/pkg/engine/bitmap"
	"chromatica/pkg/engine/drain"
)

// gradientImage returns a background whose color differs per pixel.
func gradientImage(t *testing.T, w, h int) *bitmap.BackgroundImage {
	t.Helper()
	src := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src.SetRGBA(x, y, color.RGBA{uint8(x * 7), uint8(y * 11), 200, 255})
		}
	}
	img, err := bitmap.New(src)
	if err != nil {
		t.Fatalf("bitmap.New: %v", err)
	}
	return img
}

// solidImage returns a background of one color.
func solidImage(t *testing.T, w, h int, c color.RGBA) *bitmap.BackgroundImage {
	t.Helper()
	src := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	img, err := bitmap.New(src)
	if err != nil {
		t.Fatalf("bitmap.New: %v", err)
	}
	return img
}

func newMap(t *testing.T, img *bitmap.BackgroundImage, quality int) (*drain.Map, *drain.Progress) {
	t.Helper()
	m, err := drain.NewMapForImage(img.Width(), img.Height(), quality)
	if err != nil {
		t.Fatalf("NewMapForImage: %v", err)
	}
	p := drain.NewProgress(m)
	return m, &p
}

func composite(t *testing.T, c *Compositor, img *bitmap.BackgroundImage, m *drain.Map, cur *drain.Cursor) *image.RGBA {
	t.Helper()
	frame, err := c.Composite(img, m, cur)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	return frame
}

func samePixel(a, b *image.RGBA, x, y int) bool {
	i := a.PixOffset(x, y)
	return a.Pix[i] == b.Pix[i] && a.Pix[i+1] == b.Pix[i+1] && a.Pix[i+2] == b.Pix[i+2] && a.Pix[i+3] == b.Pix[i+3]
}

func TestComposite_DrainedCellsAreGrayUnderAnyCursor(t *testing.T) {
	img := gradientImage(t, 37, 29)
	m, p := newMap(t, img, 4)
	c := New(1)

	drain.ApplyDrain(m, p, drain.Cursor{X: 12, Y: 10, Radius: 8})
	drain.ApplyDrain(m, p, drain.Cursor{X: 36, Y: 28, Radius: 5})

	cursors := []*drain.Cursor{
		nil,
		{X: 12, Y: 10, Radius: 8},
		{X: 20, Y: 15, Radius: 30},
		{X: -100, Y: -100, Radius: 4},
	}
	for _, cur := range cursors {
		frame := composite(t, c, img, m, cur)
		m.ForEachCell(func(cx, cy int, drained bool) {
			if !drained {
				return
			}
			r := m.CellBounds(cx, cy)
			for y := r.Min.Y; y < r.Max.Y; y++ {
				for x := r.Min.X; x < r.Max.X; x++ {
					if !samePixel(frame, img.Gray(), x, y) {
						t.Fatalf("cursor %+v: drained pixel (%d,%d) is not gray", cur, x, y)
					}
				}
			}
		})
	}
}

func TestComposite_UntouchedCellsKeepColor(t *testing.T) {
	img := gradientImage(t, 40, 40)
	m, p := newMap(t, img, 2)
	c := New(1)

	drain.ApplyDrain(m, p, drain.Cursor{X: 5, Y: 5, Radius: 4})
	cur := &drain.Cursor{X: 30, Y: 30, Radius: 4}
	frame := composite(t, c, img, m, cur)

	m.ForEachCell(func(cx, cy int, drained bool) {
		x, y := m.CellCenter(cx, cy)
		if drained || math.Hypot(x-cur.X, y-cur.Y) < cur.Radius*(1+BlendBand) {
			return
		}
		r := m.CellBounds(cx, cy)
		if !samePixel(frame, img.Color(), r.Min.X, r.Min.Y) {
			t.Errorf("cell (%d,%d) away from the cursor lost its color", cx, cy)
		}
	})
}

func TestComposite_BlendBand(t *testing.T) {
	img := solidImage(t, 100, 100, color.RGBA{30, 90, 150, 255})
	m, _ := newMap(t, img, 1)
	c := New(1)

	frame := composite(t, c, img, m, &drain.Cursor{X: 50, Y: 50, Radius: 10})

	tests := []struct {
		x       int
		r, g, b int
	}{
		{50, 90, 90, 90},  // centre
		{59, 90, 90, 90},  // inside radius
		{62, 66, 90, 114}, // t = 0.4
		{65, 30, 90, 150}, // at 1.5r
		{80, 30, 90, 150}, // outside
	}
	for _, tt := range tests {
		got := frame.RGBAAt(tt.x, 50)
		if absDiff(int(got.R), tt.r) > 1 || absDiff(int(got.G), tt.g) > 1 || absDiff(int(got.B), tt.b) > 1 || got.A != 255 {
			t.Errorf("pixel (%d,50) = %v, want ~(%d,%d,%d,255)", tt.x, got, tt.r, tt.g, tt.b)
		}
	}

	if m.Count() != 0 {
		t.Errorf("compositing drained %d cells, want 0", m.Count())
	}
}

func TestComposite_PreviewIsUndone(t *testing.T) {
	img := gradientImage(t, 30, 30)
	m, _ := newMap(t, img, 1)
	c := New(1)

	composite(t, c, img, m, &drain.Cursor{X: 15, Y: 15, Radius: 6})
	frame := composite(t, c, img, m, nil)

	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			if !samePixel(frame, img.Color(), x, y) {
				t.Fatalf("pixel (%d,%d) still shows the previous cursor", x, y)
			}
		}
	}
}

func TestComposite_ThrottleLag(t *testing.T) {
	img := gradientImage(t, 20, 20)
	m, p := newMap(t, img, 1)
	c := New(3)

	composite(t, c, img, m, nil) // frame 0, processed
	drain.ApplyDrain(m, p, drain.Cursor{X: 10, Y: 10, Radius: 2})

	for i := 1; i < 3; i++ {
		frame := composite(t, c, img, m, nil)
		if samePixel(frame, img.Gray(), 10, 10) {
			t.Fatalf("frame %d: throttled frame already shows the drain", i)
		}
	}
	frame := composite(t, c, img, m, nil) // frame 3, processed
	if !samePixel(frame, img.Gray(), 10, 10) {
		t.Error("drain not visible after every frames")
	}

	s := c.Stats()
	if s.Frames != 4 || s.Processed != 2 {
		t.Errorf("Stats = %+v, want 4 frames and 2 processed", s)
	}
}

func TestComposite_ResetRestoresColorImmediately(t *testing.T) {
	img := gradientImage(t, 24, 24)
	m, p := newMap(t, img, 3)
	c := New(5)

	drain.ApplyDrain(m, p, drain.Cursor{X: 12, Y: 12, Radius: 50})
	composite(t, c, img, m, nil)
	composite(t, c, img, m, nil)

	m.Reset()
	frame := composite(t, c, img, m, nil)
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			if !samePixel(frame, img.Color(), x, y) {
				t.Fatalf("pixel (%d,%d) still gray after Reset", x, y)
			}
		}
	}
}

func TestComposite_NewImageRebuilds(t *testing.T) {
	a := gradientImage(t, 16, 16)
	b := solidImage(t, 8, 8, color.RGBA{10, 20, 30, 255})
	ma, _ := newMap(t, a, 2)
	mb, _ := newMap(t, b, 2)
	c := New(10)

	composite(t, c, a, ma, nil)
	frame := composite(t, c, b, mb, nil)
	if frame.Bounds() != b.Bounds() {
		t.Fatalf("frame bounds %v, want %v", frame.Bounds(), b.Bounds())
	}
	if got := frame.RGBAAt(3, 3); got != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("pixel = %v, want new image color", got)
	}
	if c.Stats().Rebuilds != 2 {
		t.Errorf("Rebuilds = %d, want 2", c.Stats().Rebuilds)
	}
}

func TestComposite_ReusesBuffer(t *testing.T) {
	img := gradientImage(t, 16, 16)
	m, p := newMap(t, img, 1)
	c := New(1)

	first := composite(t, c, img, m, nil)
	drain.ApplyDrain(m, p, drain.Cursor{X: 4, Y: 4, Radius: 3})
	second := composite(t, c, img, m, &drain.Cursor{X: 8, Y: 8, Radius: 3})
	if first != second {
		t.Error("Composite allocated a new frame for an unchanged image")
	}
}

func TestComposite_DimensionMismatch(t *testing.T) {
	img := gradientImage(t, 20, 20)
	m, err := drain.NewMapForImage(21, 20, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(1).Composite(img, m, nil); errors.Cause(err) != ErrDimensionMismatch {
		t.Errorf("err = %v, want ErrDimensionMismatch", err)
	}
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
