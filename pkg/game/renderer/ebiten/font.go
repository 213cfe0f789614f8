package ebiten

import (
	"bytes"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// loadFontSources parses the bundled Go fonts.
func loadFontSources() (sans, bold, mono *text.GoTextFaceSource, err error) {
	if sans, err = text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF)); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load regular font")
	}
	if bold, err = text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF)); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load bold font")
	}
	if mono, err = text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF)); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load mono font")
	}
	return sans, bold, mono, nil
}

// uiFontSize scales the HUD text with the window height.
func uiFontSize(windowHeight int) float64 {
	size := float64(windowHeight) / fontSizeDivide
	if size < minFontSize {
		return minFontSize
	}
	if size > maxFontSize {
		return maxFontSize
	}
	return size
}

// refreshFaces rebuilds the cached faces when the UI font size changes.
func (e *EbitenRenderer) refreshFaces() {
	size := uiFontSize(e.windowHeight)
	if e.cachedSansFace != nil && e.cachedUIFontSize == size {
		return
	}
	e.cachedUIFontSize = size
	e.cachedSansFace = &text.GoTextFace{Source: e.sansFontSource, Size: size}
	e.cachedTitleFace = &text.GoTextFace{Source: e.sansBoldFontSource, Size: size * 2}
	e.cachedMonoFace = &text.GoTextFace{Source: e.monoFontSource, Size: size * 0.85}
}

// getSansFontFace returns the HUD face
func (e *EbitenRenderer) getSansFontFace() *text.GoTextFace {
	e.refreshFaces()
	return e.cachedSansFace
}

// getTitleFontFace returns the large bold face for the completion banner
func (e *EbitenRenderer) getTitleFontFace() *text.GoTextFace {
	e.refreshFaces()
	return e.cachedTitleFace
}

// getMonoFontFace returns the monospace face for the stats overlay
func (e *EbitenRenderer) getMonoFontFace() *text.GoTextFace {
	e.refreshFaces()
	return e.cachedMonoFace
}
