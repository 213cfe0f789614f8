// Package ebiten provides an Ebiten-based 2D graphical renderer for Chromatica Quest.
package ebiten

import (
	"time"

	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"

	engineinput "chromatica/pkg/engine/input"
	"chromatica/pkg/game/gameplay"
	"chromatica/pkg/game/renderer"
)

const windowTitle = "Chromatica Quest"

var _ renderer.Renderer = (*EbitenRenderer)(nil)

// New creates a new Ebiten renderer
func New() *EbitenRenderer {
	return &EbitenRenderer{
		controls: engineinput.NewControls(),
		now:      time.Now,
	}
}

// Name implements renderer.Renderer.
func (e *EbitenRenderer) Name() string {
	return "ebiten"
}

// Run opens the window and drives the session at 60 ticks per second until
// the player quits or the window is closed.
func (e *EbitenRenderer) Run(s *gameplay.Session) error {
	sans, bold, mono, err := loadFontSources()
	if err != nil {
		return err
	}
	e.sansFontSource, e.sansBoldFontSource, e.monoFontSource = sans, bold, mono

	cfg := s.Config()
	e.session = s
	e.windowWidth, e.windowHeight = cfg.Width, cfg.Height
	if err := s.Start(cfg.Width, cfg.Height); err != nil {
		return errors.Wrap(err, "start session")
	}

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	glog.Infof("Opening %dx%d window", cfg.Width, cfg.Height)
	if err := ebiten.RunGame(e); err != nil {
		return errors.Wrap(err, "ebiten")
	}
	return nil
}
