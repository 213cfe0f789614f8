package ebiten

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"chromatica/pkg/game/renderer"
)

// textSegment represents a segment of text with a specific color
type textSegment struct {
	text  string
	color color.Color
}

// styleColor maps a markup style to the HUD palette.
func styleColor(style renderer.TextStyle) color.Color {
	switch style {
	case renderer.StyleAction, renderer.StyleActionShort:
		return colorAction
	case renderer.StyleValue:
		return colorValue
	case renderer.StyleSubtle:
		return colorSubtle
	case renderer.StyleTitle:
		return colorTitle
	case renderer.StyleDenied:
		return colorDenied
	case renderer.StyleSuccess:
		return colorSuccess
	default:
		return colorText
	}
}

// parseMarkup parses a message string with markup and returns colored segments
func parseMarkup(msg string) []textSegment {
	parsed := renderer.ParseMarkup(msg)
	segments := make([]textSegment, 0, len(parsed))
	for _, seg := range parsed {
		segments = append(segments, textSegment{text: seg.Text, color: styleColor(seg.Style)})
	}
	return segments
}

// applyAlpha applies an alpha value to a color
func applyAlpha(c color.Color, alpha float64) color.Color {
	if alpha <= 0 {
		alpha = 0
	}
	if alpha > 1.0 {
		alpha = 1.0
	}

	r, g, b, a := c.RGBA()
	// Premultiplied: scale every channel so the text fades to transparent black.
	return color.RGBA{
		R: uint8(float64(r>>8) * alpha),
		G: uint8(float64(g>>8) * alpha),
		B: uint8(float64(b>>8) * alpha),
		A: uint8(float64(a>>8) * alpha),
	}
}

// fadeSegments returns a copy of segments at the given opacity.
func fadeSegments(segments []textSegment, alpha float64) []textSegment {
	out := make([]textSegment, len(segments))
	for i, seg := range segments {
		out[i] = textSegment{text: seg.text, color: applyAlpha(seg.color, alpha)}
	}
	return out
}

// drawColoredText draws text in one color with its top-left corner at x, y.
func drawColoredText(screen *ebiten.Image, str string, x, y float64, col color.Color, face *text.GoTextFace) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	text.Draw(screen, str, face, op)
}

// drawColoredTextSegments draws segments left to right starting at x, y.
func drawColoredTextSegments(screen *ebiten.Image, segments []textSegment, x, y float64, face *text.GoTextFace) {
	for _, seg := range segments {
		if seg.text == "" {
			continue
		}
		drawColoredText(screen, seg.text, x, y, seg.color, face)
		w, _ := text.Measure(seg.text, face, 0)
		x += w
	}
}

// segmentsWidth returns the drawn width of segments in pixels.
func segmentsWidth(segments []textSegment, face *text.GoTextFace) float64 {
	total := 0.0
	for _, seg := range segments {
		w, _ := text.Measure(seg.text, face, 0)
		total += w
	}
	return total
}
