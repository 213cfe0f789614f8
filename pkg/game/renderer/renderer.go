// Package renderer holds what the display backends share: the Renderer
// interface, the message markup and the HUD text.
package renderer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/leonelquinteros/gotext"

	"chromatica/pkg/game/gameplay"
	"chromatica/pkg/game/state"
)

var (
	ColorAction      = color.Style{color.FgMagenta}
	ColorActionShort = color.Style{color.FgMagenta, color.OpBold}
	ColorValue       = color.Style{color.FgCyan, color.OpBold}
	ColorSubtle      = color.Style{color.FgGray, color.OpBold}
	ColorTitle       = color.Style{color.FgBlue, color.OpBold}
	ColorDenied      = color.Style{color.FgRed, color.OpBold}
	ColorSuccess     = color.Style{color.FgGreen, color.OpBold}

	regexpStringFunctions = regexp.MustCompile(`([a-zA-Z_]*){([a-z A-Z0-9_,:]+)}`)
)

// dynamicGet looks up translation keys found in markup at runtime.
var dynamicGet = gotext.Get

// Segment is a run of message text in one style.
type Segment struct {
	Text  string
	Style TextStyle
}

// ParseMarkup splits msg into styled segments. Markup is FUNCTION{operand}:
// GT translates, ACTION highlights a key, ITEM a value, and SUBTLE, TITLE,
// DENIED and SUCCESS pick a colour. Unknown functions keep their operand.
func ParseMarkup(msg string) []Segment {
	var segments []Segment
	last := 0

	for _, m := range regexpStringFunctions.FindAllStringSubmatchIndex(msg, -1) {
		if m[0] > last {
			segments = append(segments, Segment{Text: msg[last:m[0]], Style: StyleNormal})
		}
		function := msg[m[2]:m[3]]
		operand := msg[m[4]:m[5]]

		switch function {
		case "GT":
			segments = append(segments, Segment{Text: dynamicGet(operand), Style: StyleNormal})
		case "ACTION":
			segments = append(segments, Segment{Text: operand[:1], Style: StyleActionShort})
			if len(operand) > 1 {
				segments = append(segments, Segment{Text: operand[1:], Style: StyleAction})
			}
		case "ITEM":
			segments = append(segments, Segment{Text: operand, Style: StyleValue})
		case "SUBTLE":
			segments = append(segments, Segment{Text: operand, Style: StyleSubtle})
		case "TITLE":
			segments = append(segments, Segment{Text: operand, Style: StyleTitle})
		case "DENIED":
			segments = append(segments, Segment{Text: operand, Style: StyleDenied})
		case "SUCCESS":
			segments = append(segments, Segment{Text: operand, Style: StyleSuccess})
		default:
			segments = append(segments, Segment{Text: operand, Style: StyleNormal})
		}
		last = m[1]
	}

	if last < len(msg) {
		segments = append(segments, Segment{Text: msg[last:], Style: StyleNormal})
	}
	return segments
}

// StyleText applies a style to text as ANSI escapes.
func StyleText(text string, style TextStyle) string {
	switch style {
	case StyleAction:
		return ColorAction.Sprint(text)
	case StyleActionShort:
		return ColorActionShort.Sprint(text)
	case StyleValue:
		return ColorValue.Sprint(text)
	case StyleSubtle:
		return ColorSubtle.Sprint(text)
	case StyleTitle:
		return ColorTitle.Sprint(text)
	case StyleDenied:
		return ColorDenied.Sprint(text)
	case StyleSuccess:
		return ColorSuccess.Sprint(text)
	default:
		return text
	}
}

// FormatString formats a string with special markup for a terminal.
func FormatString(msg string, a ...any) string {
	if len(a) > 0 {
		msg = fmt.Sprintf(msg, a...)
	}
	var sb strings.Builder
	for _, seg := range ParseMarkup(msg) {
		sb.WriteString(StyleText(seg.Text, seg.Style))
	}
	return sb.String()
}

// PlainText returns msg with the markup resolved but unstyled.
func PlainText(msg string) string {
	var sb strings.Builder
	for _, seg := range ParseMarkup(msg) {
		sb.WriteString(seg.Text)
	}
	return sb.String()
}

// Message display timings.
const (
	MessageLifetime   = 10 * time.Second
	MessageFadeStart  = 7 * time.Second
	MaxVisibleMessage = 4
)

// MessageAlpha returns the opacity of a message of the given age: fully
// opaque until MessageFadeStart, then fading to 0 at MessageLifetime.
func MessageAlpha(age time.Duration) float64 {
	switch {
	case age <= MessageFadeStart:
		return 1
	case age >= MessageLifetime:
		return 0
	}
	return 1 - float64(age-MessageFadeStart)/float64(MessageLifetime-MessageFadeStart)
}

// VisibleMessages returns the newest messages still on screen at now,
// oldest first.
func VisibleMessages(g *state.Game, now time.Time) []state.Message {
	start := len(g.Messages) - MaxVisibleMessage
	if start < 0 {
		start = 0
	}
	var out []state.Message
	for _, m := range g.Messages[start:] {
		if now.Sub(m.At) < MessageLifetime {
			out = append(out, m)
		}
	}
	return out
}

// StatusLines returns the HUD lines shown in the top-left corner.
func StatusLines(s *gameplay.Session) []string {
	g := s.Game
	p := s.Scene.Progress()
	cfg := s.Config()

	lines := []string{
		dynamicGet("HUD_CITY", g.Level),
		dynamicGet("HUD_DRAINED", p.Percentage()*100, cfg.TargetPercent),
	}
	if len(g.Lasers) > 0 {
		lines = append(lines, dynamicGet("HUD_LIVES", g.Lives, state.MaxLives))
	}
	switch {
	case g.IsComplete():
		lines = append(lines, dynamicGet("HUD_COMPLETE"))
	case g.IsGameOver():
		lines = append(lines, dynamicGet("HUD_GAMEOVER"))
	}
	return lines
}

// StatsLines returns the performance overlay lines.
func StatsLines(s *gameplay.Session) []string {
	g := s.Game
	p := s.Scene.Progress()
	cs := s.Scene.CompositorStats()
	cfg := s.Config()

	return []string{
		dynamicGet("HUD_FPS", g.Stats.FPS),
		dynamicGet("HUD_QUALITY", cfg.Quality, s.Scene.Map().Cols(), s.Scene.Map().Rows()),
		dynamicGet("HUD_COMPOSITE", g.Stats.CompositeMs, cs.Rebuilds),
		dynamicGet("HUD_CELLS", p.Drained, p.Total),
		dynamicGet("HUD_JUMPS", g.Stats.Jumps, g.Visited.Size()),
	}
}

// ControlsHelp returns the one-line key reference.
func ControlsHelp() string {
	return dynamicGet("HUD_CONTROLS")
}

// ProgressBar draws fraction (0 to 1) as a width-cell text bar with a tick
// at the target fraction.
func ProgressBar(fraction, target float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(clamp01(fraction)*float64(width) + 0.5)
	mark := int(clamp01(target) * float64(width))
	if mark >= width {
		mark = width - 1
	}

	var sb strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i == mark:
			sb.WriteByte('|')
		case i < filled:
			sb.WriteByte('#')
		default:
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
