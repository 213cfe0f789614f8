package tui

import (
	"image"
	ic "image/color"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/gookit/color"

	"chromatica/pkg/game/config"
	"chromatica/pkg/game/gameplay"
	"chromatica/pkg/game/levelgen"
	"chromatica/pkg/game/skyline"
)

func TestThumbnailSize(t *testing.T) {
	tests := []struct {
		viewW, viewH, px, py int
		wantW, wantH         int
	}{
		{1280, 720, 80, 46, 80, 44},
		{1280, 720, 160, 200, 160, 90},
		{640, 360, 80, 100, 80, 44},
		{640, 360, 0, 10, 0, 0},
		{640, 360, 10, 1, 0, 0},
	}
	for _, tt := range tests {
		w, h := thumbnailSize(tt.viewW, tt.viewH, tt.px, tt.py)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("thumbnailSize(%d,%d,%d,%d) = %dx%d, want %dx%d",
				tt.viewW, tt.viewH, tt.px, tt.py, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestHalfBlockRows(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 5))
	img.SetRGBA(0, 0, ic.RGBA{255, 0, 0, 255})

	rows := halfBlockRows(img)
	if len(rows) != 3 {
		t.Fatalf("got %d rows for 5 pixel rows, want 3", len(rows))
	}
	for i, r := range rows {
		if n := utf8.RuneCountInString(color.ClearCode(r)); n != 3 {
			t.Errorf("row %d has %d cells, want 3", i, n)
		}
	}
}

func newTestSession(t *testing.T) *gameplay.Session {
	t.Helper()
	cfg := config.Default()
	cfg.Seed = 5
	s := gameplay.NewSession(cfg, skyline.Plain, nil)
	if err := s.Start(640, 360); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s
}

func TestComposeView(t *testing.T) {
	s := newTestSession(t)
	frame, err := s.Scene.Frame(0, 0, false)
	if err != nil {
		t.Fatal(err)
	}

	view := composeView(s, frame, 64, 36)
	if b := view.Bounds(); b.Dx() != 64 || b.Dy() != 36 {
		t.Fatalf("view is %v, want 64x36", b)
	}

	p := s.Game.Player
	px, py := int((p.X+p.W/2)/10), int((p.Y+p.H/2)/10)
	if got := view.RGBAAt(px, py); got != colorPlayer {
		t.Errorf("pixel at player = %v, want %v", got, colorPlayer)
	}
	if got := view.RGBAAt(32, 35); got != colorGround {
		t.Errorf("pixel at ground = %v, want %v", got, colorGround)
	}
}

func TestComposeView_LasersAndDog(t *testing.T) {
	s := newTestSession(t)
	s.Game.Lasers = []levelgen.Laser{{X: 300, Y: 100, W: 200, H: levelgen.LaserWidth}}
	s.Game.Dog.X, s.Game.Dog.Y = 400, 200

	view := composeView(s, nil, 64, 36)
	if got := view.RGBAAt(40, 10); got != colorLaser {
		t.Errorf("pixel at laser = %v, want %v", got, colorLaser)
	}
	if got := view.RGBAAt(42, 22); got != colorDog {
		t.Errorf("pixel at dog = %v, want %v", got, colorDog)
	}
}

func TestScreen_FillsTerminal(t *testing.T) {
	s := newTestSession(t)
	frame, err := s.Scene.Frame(0, 0, false)
	if err != nil {
		t.Fatal(err)
	}

	tr := &TUIRenderer{}
	lines := tr.screen(s, frame, 80, 24, time.Now())
	if len(lines) != 24 {
		t.Errorf("screen() returned %d lines, want 24", len(lines))
	}
	if !strings.HasPrefix(color.ClearCode(lines[0]), "HUD_CITY") {
		t.Errorf("first line = %q, want the city status", color.ClearCode(lines[0]))
	}
}
