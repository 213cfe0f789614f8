// Package tui renders the game in a terminal: the composite is scaled down
// to a grid of half-block characters in 24-bit colour, with the HUD and the
// message log printed around it.
package tui

import (
	"bufio"
	"image"
	ic "image/color"
	"image/draw"
	"io"
	"os"
	"strings"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"
	"github.com/gookit/color"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"

	"chromatica/pkg/engine/input"
	"chromatica/pkg/engine/terminal"
	"chromatica/pkg/game/gameplay"
	"chromatica/pkg/game/renderer"
	"chromatica/pkg/game/state"
)

// ErrNotTerminal is returned by Run when stdin or stdout is not a terminal.
var ErrNotTerminal = errors.New("tui: stdin and stdout must be a terminal")

const (
	tickRate = time.Second / 60
	// Redraw every n-th tick; a full-screen repaint is slow over ssh.
	drawEvery = 2
	// Terminals send no key-up, so a key counts as released this long
	// after its last repeat.
	keyHold     = 150 * time.Millisecond
	splashDelay = 2 * time.Second

	hudLines    = 2
	footerLines = 1
)

// Terminal control sequences
const (
	escHome       = "\x1b[H"
	escClear      = "\x1b[2J"
	escClearLine  = "\x1b[K"
	escHideCursor = "\x1b[?25l"
	escShowCursor = "\x1b[?25h"
	halfBlock     = "▀"
)

var (
	colorBackground      = ic.RGBA{10, 12, 28, 255}
	colorGround          = ic.RGBA{34, 34, 34, 255}
	colorPlatform        = ic.RGBA{90, 90, 120, 255}
	colorPlatformVisited = ic.RGBA{120, 150, 130, 255}
	colorPlayer          = ic.RGBA{240, 240, 250, 255}
	colorLaser           = ic.RGBA{255, 0, 0, 255}
	colorDog             = ic.RGBA{139, 69, 19, 255}
)

var _ renderer.Renderer = (*TUIRenderer)(nil)

// TUIRenderer is the terminal-based renderer implementation
type TUIRenderer struct {
	out *bufio.Writer
}

// New creates a new TUI renderer writing to stdout
func New() *TUIRenderer {
	return &TUIRenderer{out: bufio.NewWriter(os.Stdout)}
}

// Name implements renderer.Renderer.
func (t *TUIRenderer) Name() string {
	return "tui"
}

// Run puts the terminal in raw mode and drives the session until the player
// quits or stdin closes.
func (t *TUIRenderer) Run(s *gameplay.Session) error {
	if !terminal.IsInteractive() {
		return ErrNotTerminal
	}
	cfg := s.Config()
	if err := s.Start(cfg.Width, cfg.Height); err != nil {
		return errors.Wrap(err, "start session")
	}

	keys, err := input.NewKeyReader(os.Stdin)
	if err != nil {
		return err
	}
	defer keys.Close()

	t.write(escHideCursor + escClear)
	defer t.write(escShowCursor + "\r\n")

	if !t.splash(keys.Events()) {
		return nil
	}
	t.write(escClear)

	controls := input.NewControls()
	debounce := input.NewDebouncer(keyHold)
	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()

	for {
		select {
		case raw, ok := <-keys.Events():
			if !ok {
				glog.Infof("Input closed, leaving")
				return nil
			}
			if ev, ok := debounce.Feed(raw); ok {
				controls.Apply(input.MapToIntent(ev))
			}

		case now := <-ticker.C:
			for _, ev := range debounce.Expire(now) {
				controls.Apply(input.MapToIntent(ev))
			}
			frame, err := s.Tick(controls)
			if err != nil {
				return errors.Wrap(err, "tick")
			}
			if s.Game.QuitRequested {
				return nil
			}
			if s.Game.Stats.Frames%drawEvery == 0 {
				cols, rows := terminal.GetSize()
				t.write(escHome + strings.Join(t.screen(s, frame, cols, rows, now), escClearLine+"\r\n") + escClearLine)
			}
		}
	}
}

// splash shows the title banner until a key is pressed or splashDelay
// passes. It returns false when input closed meanwhile.
func (t *TUIRenderer) splash(events <-chan input.RawInput) bool {
	var sb strings.Builder
	sb.WriteString(escHome)
	for _, line := range figure.NewFigure("Chromatica", "", true).Slicify() {
		sb.WriteString(renderer.ColorTitle.Sprint(line) + "\r\n")
	}
	sb.WriteString("\r\n" + renderer.FormatString(renderer.ControlsHelp()) + "\r\n")
	t.write(sb.String())

	timer := time.NewTimer(splashDelay)
	defer timer.Stop()
	select {
	case _, ok := <-events:
		return ok
	case <-timer.C:
		return true
	}
}

func (t *TUIRenderer) write(s string) {
	io.WriteString(t.out, s)
	if err := t.out.Flush(); err != nil {
		glog.Errorf("Cannot write to terminal: %v", err)
	}
}

// screen returns the lines of one full repaint for a cols x rows terminal.
func (t *TUIRenderer) screen(s *gameplay.Session, frame *image.RGBA, cols, rows int, now time.Time) []string {
	g := s.Game
	p := s.Scene.Progress()

	lines := make([]string, 0, rows)
	lines = append(lines, renderer.FormatString(strings.Join(renderer.StatusLines(s), "   ")))
	bar := renderer.ProgressBar(p.Percentage(), s.Config().TargetPercent/100, 30)
	if g.ShowStats {
		lines = append(lines, renderer.ColorSubtle.Sprint(bar)+"  "+renderer.FormatString(strings.Join(renderer.StatsLines(s), "  ")))
	} else {
		lines = append(lines, renderer.ColorSubtle.Sprint(bar))
	}

	mapRows := rows - hudLines - renderer.MaxVisibleMessage - footerLines
	if mapRows > 0 {
		viewW, viewH := s.Scene.ViewSize()
		px, py := terminal.PixelGrid(cols, mapRows)
		tw, th := thumbnailSize(viewW, viewH, px, py)
		view := composeView(s, frame, tw, th)
		lines = append(lines, halfBlockRows(view)...)
		for len(lines) < hudLines+mapRows {
			lines = append(lines, "")
		}
	}

	shown := renderer.VisibleMessages(g, now)
	for i := 0; i < renderer.MaxVisibleMessage; i++ {
		if i < len(shown) {
			lines = append(lines, "  "+renderer.FormatString(shown[i].Text))
		} else {
			lines = append(lines, "")
		}
	}
	lines = append(lines, renderer.ColorSubtle.Sprint(renderer.PlainText(renderer.ControlsHelp())))
	return lines
}

// thumbnailSize fits a viewW x viewH window into px x py pixels, keeping
// the aspect ratio. The height is even so rows pair up into half-blocks.
func thumbnailSize(viewW, viewH, px, py int) (w, h int) {
	if viewW <= 0 || viewH <= 0 || px <= 0 || py <= 1 {
		return 0, 0
	}
	scale := float64(px) / float64(viewW)
	if s := float64(py) / float64(viewH); s < scale {
		scale = s
	}
	w = int(float64(viewW) * scale)
	h = int(float64(viewH)*scale) &^ 1
	if w < 1 {
		w = 1
	}
	if h < 2 {
		h = 2
	}
	return w, h
}

// composeView draws the window scaled to w x h: background, the city
// composite at its origin, platforms, lasers, the dog and the player.
func composeView(s *gameplay.Session, frame *image.RGBA, w, h int) *image.RGBA {
	view := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(view, view.Rect, image.NewUniform(colorBackground), image.Point{}, draw.Src)

	viewW, _ := s.Scene.ViewSize()
	if w == 0 || viewW == 0 {
		return view
	}
	scale := float64(w) / float64(viewW)
	scaled := func(x, y, rw, rh float64) image.Rectangle {
		return image.Rect(int(x*scale), int(y*scale), int((x+rw)*scale+0.5), int((y+rh)*scale+0.5))
	}

	if frame != nil {
		o := s.Scene.Origin()
		fw, fh := frame.Rect.Dx(), frame.Rect.Dy()
		dst := scaled(float64(o.X), float64(o.Y), float64(fw), float64(fh))
		if dst.Dx() > 0 && dst.Dy() > 0 {
			thumb := resize.Resize(uint(dst.Dx()), uint(dst.Dy()), frame, resize.Bilinear)
			draw.Draw(view, dst, thumb, thumb.Bounds().Min, draw.Src)
		}
	}

	for i, p := range s.Game.Platforms {
		c := colorPlatform
		switch {
		case p.Ground:
			c = colorGround
		case s.Game.Visited.Has(i):
			c = colorPlatformVisited
		}
		draw.Draw(view, scaled(p.X, p.Y, p.W, p.H), image.NewUniform(c), image.Point{}, draw.Src)
	}

	for _, l := range s.Game.Lasers {
		draw.Draw(view, scaled(l.X, l.Y, l.W, l.H), image.NewUniform(colorLaser), image.Point{}, draw.Src)
	}
	if d := s.Game.Dog; d != nil {
		draw.Draw(view, scaled(d.X, d.Y, state.DogSize, state.DogSize), image.NewUniform(colorDog), image.Point{}, draw.Src)
	}

	pl := s.Game.Player
	draw.Draw(view, scaled(pl.X, pl.Y, pl.W, pl.H), image.NewUniform(colorPlayer), image.Point{}, draw.Src)
	return view
}

// halfBlockRows renders img two pixel rows per line: the upper pixel is
// the foreground of "▀", the lower one its background.
func halfBlockRows(img *image.RGBA) []string {
	b := img.Bounds()
	rows := make([]string, 0, (b.Dy()+1)/2)
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		var sb strings.Builder
		for x := b.Min.X; x < b.Max.X; x++ {
			top := img.RGBAAt(x, y)
			bottom := top
			if y+1 < b.Max.Y {
				bottom = img.RGBAAt(x, y+1)
			}
			code := color.RGB(top.R, top.G, top.B).Code() + ";" + color.RGB(bottom.R, bottom.G, bottom.B, true).Code()
			sb.WriteString(color.RenderCode(code, halfBlock))
		}
		rows = append(rows, sb.String())
	}
	return rows
}
