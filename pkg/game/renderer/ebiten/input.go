package ebiten

import (
	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/pkg/errors"

	engineinput "chromatica/pkg/engine/input"
)

// keyCodes translates Ebiten keys into the raw codes the bindings use.
var keyCodes = map[ebiten.Key]string{
	ebiten.KeyArrowLeft:  "arrow_left",
	ebiten.KeyA:          "a",
	ebiten.KeyArrowRight: "arrow_right",
	ebiten.KeyD:          "d",
	ebiten.KeySpace:      "space",
	ebiten.KeyArrowUp:    "arrow_up",
	ebiten.KeyW:          "w",
	ebiten.KeyR:          "r",
	ebiten.KeyP:          "p",
	ebiten.KeyF12:        "f12",
	ebiten.KeyEnter:      "enter",
	ebiten.KeyKPEnter:    "enter",
	ebiten.KeyEscape:     "escape",
	ebiten.KeyQ:          "q",
}

// keyIntent maps one key edge to an intent.
func keyIntent(k ebiten.Key, edge engineinput.Edge) engineinput.Intent {
	code, ok := keyCodes[k]
	if !ok {
		return engineinput.Intent{Action: engineinput.ActionNone, Edge: edge}
	}
	return engineinput.MapToIntent(engineinput.NewDebouncedInput(engineinput.RawInput{
		Device: engineinput.DeviceKeyboard,
		Code:   code,
		Edge:   edge,
	}))
}

// Update handles input and game logic (Ebiten interface)
func (e *EbitenRenderer) Update() error {
	// Log window opening on first update (confirms window is actually running)
	if !e.windowOpenedLogged {
		e.windowOpenedLogged = true
		w, h := ebiten.WindowSize()
		glog.Infof("Main window opened successfully (%dx%d)", w, h)
	}

	e.checkInput()

	frame, err := e.session.Tick(e.controls)
	if err != nil {
		return errors.Wrap(err, "tick")
	}
	if e.session.Game.QuitRequested {
		return ebiten.Termination
	}

	e.uploadFrame(frame)
	e.captureSnapshot()
	return nil
}

// checkInput folds this frame's key edges into the controls. Keys held when
// the window loses focus would never see their release, so they are dropped.
func (e *EbitenRenderer) checkInput() {
	if !ebiten.IsFocused() {
		e.controls.ReleaseAll()
		return
	}

	e.keys = inpututil.AppendJustPressedKeys(e.keys[:0])
	for _, k := range e.keys {
		e.controls.Apply(keyIntent(k, engineinput.EdgePress))
	}
	e.keys = inpututil.AppendJustReleasedKeys(e.keys[:0])
	for _, k := range e.keys {
		e.controls.Apply(keyIntent(k, engineinput.EdgeRelease))
	}
}

// Layout returns the game's logical screen size (Ebiten interface). A new
// size regenerates the city for it.
func (e *EbitenRenderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return e.windowWidth, e.windowHeight
	}
	if outsideWidth != e.windowWidth || outsideHeight != e.windowHeight {
		if err := e.session.Resize(outsideWidth, outsideHeight); err != nil {
			glog.Errorf("Resize to %dx%d failed: %v", outsideWidth, outsideHeight, err)
			return e.windowWidth, e.windowHeight
		}
		e.windowWidth = outsideWidth
		e.windowHeight = outsideHeight
	}
	return outsideWidth, outsideHeight
}
