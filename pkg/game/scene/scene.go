// Package scene owns the drainable city: its background image, drain map,
// progress counter and compositor. All four are replaced together by
// Regenerate so they always describe the same image.
package scene

import (
	"image"
	"math/rand"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"chromatica/pkg/engine/bitmap"
	"chromatica/pkg/engine/compositor"
	"chromatica/pkg/engine/drain"
	"chromatica/pkg/game/config"
	"chromatica/pkg/game/skyline"
)

// Scene is not safe for concurrent use; the frame loop owns it.
type Scene struct {
	cfg config.Config
	gen skyline.Generator

	img      *bitmap.BackgroundImage
	m        *drain.Map
	progress drain.Progress
	comp     *compositor.Compositor

	// top-left of the city in window coordinates
	origin image.Point
	viewW  int
	viewH  int
	seed   int64

	last    drain.Cursor
	hasLast bool
}

// New returns an empty scene. Call Regenerate before anything else.
func New(cfg config.Config, gen skyline.Generator) *Scene {
	if gen == nil {
		gen = skyline.DefaultGenerator
	}
	return &Scene{cfg: cfg, gen: gen, comp: compositor.New(cfg.CompositeEvery)}
}

// CitySize returns the city image size for a viewW x viewH window.
func CitySize(cfg config.Config, viewW, viewH int) (w, h int) {
	h = int(float64(viewH) * cfg.CityHeightPercent / 100)
	if h < 1 && viewH > 0 {
		h = 1
	}
	return viewW, h
}

// Regenerate paints a new city for a viewW x viewH window and starts a
// fresh drain map for it. On error the previous city is kept.
func (s *Scene) Regenerate(viewW, viewH int, seed int64) error {
	w, h := CitySize(s.cfg, viewW, viewH)
	img, err := s.gen.Generate(w, h, rand.New(rand.NewSource(seed)))
	if err != nil {
		return errors.Wrapf(err, "generate %s city %dx%d", s.gen.Name(), w, h)
	}
	m, err := drain.NewMapForImage(img.Width(), img.Height(), s.cfg.Quality)
	if err != nil {
		return errors.Wrap(err, "allocate drain map")
	}

	s.img = img
	s.m = m
	s.progress = drain.NewProgress(m)
	s.origin = image.Pt(0, viewH-h)
	s.viewW, s.viewH = viewW, viewH
	s.seed = seed
	s.hasLast = false

	glog.Infof("Scene regenerated: %s city %dx%d at %v, %dx%d cells, seed %d",
		s.gen.Name(), w, h, s.origin, m.Cols(), m.Rows(), seed)
	return nil
}

// Ready reports whether Regenerate has succeeded at least once.
func (s *Scene) Ready() bool {
	return s.img != nil
}

// Reset clears the drain map. The city image stays the same.
func (s *Scene) Reset() {
	if s.m == nil {
		return
	}
	s.m.Reset()
	s.progress = drain.NewProgress(s.m)
	s.hasLast = false
	glog.Infof("Drain map reset")
}

// ToImage converts window coordinates to city image coordinates.
func (s *Scene) ToImage(x, y float64) (float64, float64) {
	return x - float64(s.origin.X), y - float64(s.origin.Y)
}

// ToWindow converts city image coordinates to window coordinates.
func (s *Scene) ToWindow(x, y float64) (float64, float64) {
	return x + float64(s.origin.X), y + float64(s.origin.Y)
}

// cursor builds the brush for a window position.
func (s *Scene) cursor(x, y float64) drain.Cursor {
	ix, iy := s.ToImage(x, y)
	return drain.Cursor{X: ix, Y: iy, Radius: s.cfg.Radius, Stride: s.cfg.DrainStride}
}

// Drain applies the brush at window position (x, y), filling in the path
// from the previous call. It returns the number of newly drained cells.
func (s *Scene) Drain(x, y float64) int {
	if s.m == nil {
		return 0
	}
	c := s.cursor(x, y)
	var n int
	if s.hasLast {
		n = drain.ApplyTrail(s.m, &s.progress, s.last, c, s.cfg.TrailDistance())
	} else {
		n = drain.ApplyDrain(s.m, &s.progress, c)
	}
	s.last, s.hasLast = c, true
	return n
}

// BreakTrail makes the next Drain start a new stroke, e.g. after a respawn.
func (s *Scene) BreakTrail() {
	s.hasLast = false
}

// Frame composites the city with the brush preview at window position
// (x, y). Pass preview=false to show committed state only.
func (s *Scene) Frame(x, y float64, preview bool) (*image.RGBA, error) {
	if s.img == nil {
		return nil, errors.Wrap(bitmap.ErrEmptyImage, "scene not generated")
	}
	var c *drain.Cursor
	if preview {
		cur := s.cursor(x, y)
		c = &cur
	}
	return s.comp.Composite(s.img, s.m, c)
}

// Near reports whether the brush at window position (x, y) touches the city.
func (s *Scene) Near(x, y float64) bool {
	if s.img == nil {
		return false
	}
	return s.cursor(x, y).Near(s.img.Width(), s.img.Height())
}

// Progress returns the current drain progress.
func (s *Scene) Progress() drain.Progress {
	return s.progress
}

// ReachedTarget reports whether the configured share of the city is drained.
func (s *Scene) ReachedTarget() bool {
	return s.progress.HasReachedTarget(s.cfg.TargetPercent)
}

// Image returns the current background.
func (s *Scene) Image() *bitmap.BackgroundImage {
	return s.img
}

// Map returns the current drain map.
func (s *Scene) Map() *drain.Map {
	return s.m
}

// Origin returns the city's top-left corner in window coordinates.
func (s *Scene) Origin() image.Point {
	return s.origin
}

// ViewSize returns the window size the city was generated for.
func (s *Scene) ViewSize() (int, int) {
	return s.viewW, s.viewH
}

// Seed returns the seed of the current city.
func (s *Scene) Seed() int64 {
	return s.seed
}

// CompositorStats returns the compositor counters.
func (s *Scene) CompositorStats() compositor.Stats {
	return s.comp.Stats()
}

// Config returns the scene configuration.
func (s *Scene) Config() config.Config {
	return s.cfg
}
