package scene

import (
	"testing"

	"github.com/pkg/errors"

	"chromatica/pkg/game/config"
	"chromatica/pkg/game/skyline"
)

// newScene returns a scene with a plain city already generated.
func newScene(t *testing.T, mutate func(*config.Config)) *Scene {
	t.Helper()
	cfg := config.Default()
	cfg.Radius = 10
	cfg.Quality = 2
	if mutate != nil {
		mutate(&cfg)
	}
	s := New(cfg, skyline.Plain)
	if err := s.Regenerate(200, 100, 1); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	return s
}

func TestRegenerate_PlacesCityAtBottom(t *testing.T) {
	s := newScene(t, nil)
	if w, h := s.Image().Width(), s.Image().Height(); w != 200 || h != 95 {
		t.Errorf("city = %dx%d, want 200x95", w, h)
	}
	if s.Origin().X != 0 || s.Origin().Y != 5 {
		t.Errorf("Origin() = %v, want (0,5)", s.Origin())
	}
	if s.Map().Width() != s.Image().Width() || s.Map().Height() != s.Image().Height() {
		t.Error("drain map does not cover the city")
	}
	if p := s.Progress(); p.Total != s.Map().Total() || p.Drained != 0 {
		t.Errorf("Progress() = %+v, want fresh tracker for %d cells", p, s.Map().Total())
	}
}

func TestRegenerate_ResizeReplacesEverything(t *testing.T) {
	s := newScene(t, nil)
	s.Drain(50, 50)
	if s.Progress().Drained == 0 {
		t.Fatal("setup drain did nothing")
	}

	if err := s.Regenerate(320, 240, 2); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	img, m, p := s.Image(), s.Map(), s.Progress()
	if img.Width() != 320 || m.Width() != 320 || m.Height() != img.Height() {
		t.Errorf("image %dx%d, map covers %dx%d", img.Width(), img.Height(), m.Width(), m.Height())
	}
	if p.Drained != 0 || p.Total != m.Total() || m.Count() != 0 {
		t.Errorf("progress after resize = %+v, map count %d", p, m.Count())
	}

	frame, err := s.Frame(0, 0, true)
	if err != nil {
		t.Fatalf("Frame after resize: %v", err)
	}
	if frame.Bounds() != img.Bounds() {
		t.Errorf("frame bounds %v, want %v", frame.Bounds(), img.Bounds())
	}
}

func TestRegenerate_FailureKeepsPreviousCity(t *testing.T) {
	s := newScene(t, nil)
	s.Drain(50, 50)
	img, m, p := s.Image(), s.Map(), s.Progress()

	err := s.Regenerate(0, 100, 3)
	if errors.Cause(err) != skyline.ErrInvalidSize {
		t.Fatalf("Regenerate(0,100) err = %v, want ErrInvalidSize", err)
	}
	if s.Image() != img || s.Map() != m || s.Progress() != p {
		t.Error("failed Regenerate changed the scene")
	}
}

func TestDrain_UsesCityCoordinates(t *testing.T) {
	s := newScene(t, nil)
	s.Drain(100, float64(s.Origin().Y)+20)

	cx, cy := s.Map().CellAt(100, 20)
	if !s.Map().IsDrained(cx, cy) {
		t.Errorf("cell under the brush (%d,%d) not drained", cx, cy)
	}
	if s.Progress().Drained != s.Map().Count() {
		t.Errorf("progress %d disagrees with map count %d", s.Progress().Drained, s.Map().Count())
	}
}

func TestDrain_FillsTrailBetweenCalls(t *testing.T) {
	s := newScene(t, nil)
	y := float64(s.Origin().Y) + 50
	s.Drain(20, y)
	s.Drain(180, y)

	for x := 20; x <= 180; x += 2 {
		cx, cy := s.Map().CellAt(x, 50)
		if !s.Map().IsDrained(cx, cy) {
			t.Fatalf("gap in the trail at x=%d", x)
		}
	}
}

func TestDrain_BreakTrail(t *testing.T) {
	s := newScene(t, nil)
	y := float64(s.Origin().Y) + 50
	s.Drain(20, y)
	s.BreakTrail()
	s.Drain(180, y)

	cx, cy := s.Map().CellAt(100, 50)
	if s.Map().IsDrained(cx, cy) {
		t.Error("trail drawn across a break")
	}
}

func TestReset_ClearsProgressAndFrame(t *testing.T) {
	s := newScene(t, nil)
	s.Drain(100, 50)
	s.Reset()

	if s.Progress().Drained != 0 || s.Map().Count() != 0 {
		t.Errorf("after Reset progress=%+v count=%d", s.Progress(), s.Map().Count())
	}
	frame, err := s.Frame(0, 0, false)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	col := s.Image().Color()
	for i := range frame.Pix {
		if frame.Pix[i] != col.Pix[i] {
			t.Fatalf("byte %d differs from the color image after Reset", i)
		}
	}
}

func TestReachedTarget(t *testing.T) {
	s := newScene(t, func(c *config.Config) {
		c.Radius = 500
		c.TargetPercent = 60
	})
	if s.ReachedTarget() {
		t.Fatal("target reached before draining")
	}
	s.Drain(100, 50)
	if !s.ReachedTarget() {
		t.Errorf("target not reached after draining everything: %+v", s.Progress())
	}
}

func TestFrame_BeforeRegenerate(t *testing.T) {
	s := New(config.Default(), skyline.Plain)
	if _, err := s.Frame(0, 0, true); err == nil {
		t.Error("Frame on an empty scene succeeded")
	}
	if s.Drain(1, 1) != 0 || s.Ready() {
		t.Error("empty scene drained cells or reports ready")
	}
}

func TestNear(t *testing.T) {
	s := newScene(t, nil)
	if !s.Near(100, 50) {
		t.Error("centre of the city is not near")
	}
	if s.Near(100, -30) {
		t.Error("point far above the city is near")
	}
}
