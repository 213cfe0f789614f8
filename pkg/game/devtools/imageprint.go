package devtools

import (
	"fmt"
	"image"
	"io"

	"github.com/BourgeoisBear/rasterm"
	"github.com/andybons/gogif"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// ErrNoInlineImages means the terminal supports none of the inline image
// protocols.
var ErrNoInlineImages = errors.New("devtools: terminal cannot display images")

// PrintImage draws img inline in the terminal, scaled down to fit within
// maxW x maxH pixels. Kitty and iTerm/WezTerm get full colour; sixel
// terminals get a 64 colour median cut.
func PrintImage(w io.Writer, img image.Image, maxW, maxH uint) error {
	if maxW > 0 && maxH > 0 {
		img = resize.Thumbnail(maxW, maxH, img, resize.Lanczos3)
	}

	if rasterm.IsTermKitty() {
		if err := (rasterm.Settings{}).KittyWriteImage(w, img); err != nil {
			return errors.Wrap(err, "kitty")
		}
		fmt.Fprintf(w, "\n")
		return nil
	}
	if rasterm.IsTermItermWez() {
		if err := (rasterm.Settings{}).ItermWriteImage(w, img); err != nil {
			return errors.Wrap(err, "iterm")
		}
		fmt.Fprintf(w, "\n")
		return nil
	}
	if capable, err := rasterm.IsSixelCapable(); capable && err == nil {
		palettedImage := image.NewPaletted(img.Bounds(), nil)
		quantizer := gogif.MedianCutQuantizer{NumColor: 64}
		quantizer.Quantize(palettedImage, img.Bounds(), img, image.Point{})

		if err := (rasterm.Settings{}).SixelWriteImage(w, palettedImage); err != nil {
			return errors.Wrap(err, "sixel")
		}
		fmt.Fprintf(w, "\n")
		return nil
	}
	return ErrNoInlineImages
}
