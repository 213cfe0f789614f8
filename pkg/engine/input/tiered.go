package input

import (
	"sort"
	"time"

	"github.com/zyedidia/generic/mapset"
)

// Device represents a physical input source.
type Device int

const (
	DeviceUnknown Device = iota
	DeviceKeyboard
	DeviceTerminal
)

// Action represents a high‑level intent in the game.
type Action int

const (
	ActionNone Action = iota

	// Movement
	ActionMoveLeft
	ActionMoveRight
	ActionJump

	// Meta / UI
	ActionResetDrain  // Clear the drain map (R)
	ActionToggleStats // Performance overlay (P)
	ActionScreenshot
	ActionRestart // Start a new city after completion (Enter)
	ActionQuit
)

// Edge says whether a key went down or came up.
type Edge int

const (
	EdgePress Edge = iota
	EdgeRelease
)

// RawInput is the 1st‑layer event emitted directly from an input device.
// Code is a device‑specific identifier (e.g. "a", "arrow_left", "space").
type RawInput struct {
	Device    Device
	Code      string
	Edge      Edge
	Timestamp time.Time
}

// DebouncedInput is the 2nd‑layer representation after deduplication.
type DebouncedInput struct {
	Device Device
	Code   string
	Edge   Edge
}

// Intent is the 4th‑layer, high‑level description of what the player wants to do.
type Intent struct {
	Action Action
	Edge   Edge
}

// NewDebouncedInput converts a raw event to a debounced event. Ebiten
// reports real press and release edges so its events pass straight through.
func NewDebouncedInput(raw RawInput) DebouncedInput {
	return DebouncedInput{
		Device: raw.Device,
		Code:   raw.Code,
		Edge:   raw.Edge,
	}
}

// Debouncer turns a terminal's auto-repeated key presses into one press
// followed by one release once the repeats stop for longer than Hold.
type Debouncer struct {
	Hold time.Duration

	down map[string]time.Time
}

// NewDebouncer returns a debouncer that releases keys idle for hold.
func NewDebouncer(hold time.Duration) *Debouncer {
	return &Debouncer{Hold: hold, down: make(map[string]time.Time)}
}

// Feed records a raw press and returns the debounced event, if any.
// Repeats of a key that is already down are swallowed.
func (d *Debouncer) Feed(raw RawInput) (DebouncedInput, bool) {
	_, held := d.down[raw.Code]
	d.down[raw.Code] = raw.Timestamp
	if held || raw.Edge != EdgePress {
		return DebouncedInput{}, false
	}
	return NewDebouncedInput(raw), true
}

// Expire releases every key not seen since now-Hold.
func (d *Debouncer) Expire(now time.Time) []DebouncedInput {
	var out []DebouncedInput
	for code, seen := range d.down {
		if now.Sub(seen) > d.Hold {
			delete(d.down, code)
			out = append(out, DebouncedInput{Device: DeviceTerminal, Code: code, Edge: EdgeRelease})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// bindings maps actions to the raw codes that trigger them (3rd-layer bindings).
var bindings = map[Action]mapset.Set[string]{
	ActionMoveLeft:    codeSet("arrow_left", "a"),
	ActionMoveRight:   codeSet("arrow_right", "d"),
	ActionJump:        codeSet("space", "arrow_up", "w"),
	ActionResetDrain:  codeSet("r"),
	ActionToggleStats: codeSet("p"),
	ActionScreenshot:  codeSet("f12"),
	ActionRestart:     codeSet("enter"),
	ActionQuit:        codeSet("escape", "q", "ctrl_c"),
}

func codeSet(codes ...string) mapset.Set[string] {
	s := mapset.New[string]()
	for _, c := range codes {
		s.Put(c)
	}
	return s
}

// MapToIntent is the 3rd+4th layer: it applies the current bindings to a
// debounced input and returns a high‑level Intent.
func MapToIntent(ev DebouncedInput) Intent {
	for act, codes := range bindings {
		if codes.Has(ev.Code) {
			return Intent{Action: act, Edge: ev.Edge}
		}
	}
	return Intent{Action: ActionNone, Edge: ev.Edge}
}

// BoundCodes returns the codes bound to an action in sorted order.
func BoundCodes(a Action) []string {
	codes, ok := bindings[a]
	if !ok {
		return nil
	}
	var out []string
	codes.Each(func(c string) {
		out = append(out, c)
	})
	sort.Strings(out)
	return out
}

// ActionName returns a human-friendly name for an action.
func ActionName(a Action) string {
	switch a {
	case ActionMoveLeft:
		return "Move Left"
	case ActionMoveRight:
		return "Move Right"
	case ActionJump:
		return "Jump"
	case ActionResetDrain:
		return "Reset Drain"
	case ActionToggleStats:
		return "Toggle Stats"
	case ActionScreenshot:
		return "Screenshot"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "None"
	}
}

// Controls accumulates intents into per-frame action state: which actions
// are held, and which went down or up since the last EndFrame.
type Controls struct {
	held     mapset.Set[Action]
	pressed  mapset.Set[Action]
	released mapset.Set[Action]
}

// NewControls returns an empty control state.
func NewControls() *Controls {
	return &Controls{
		held:     mapset.New[Action](),
		pressed:  mapset.New[Action](),
		released: mapset.New[Action](),
	}
}

// Apply folds one intent into the state.
func (c *Controls) Apply(in Intent) {
	if in.Action == ActionNone {
		return
	}
	switch in.Edge {
	case EdgePress:
		if !c.held.Has(in.Action) {
			c.pressed.Put(in.Action)
		}
		c.held.Put(in.Action)
	case EdgeRelease:
		if c.held.Has(in.Action) {
			c.released.Put(in.Action)
		}
		c.held.Remove(in.Action)
	}
}

// Held reports whether the action is currently down.
func (c *Controls) Held(a Action) bool {
	return c.held.Has(a)
}

// Pressed reports whether the action went down this frame.
func (c *Controls) Pressed(a Action) bool {
	return c.pressed.Has(a)
}

// Released reports whether the action came up this frame.
func (c *Controls) Released(a Action) bool {
	return c.released.Has(a)
}

// EndFrame clears the per-frame edges. Held actions stay held.
func (c *Controls) EndFrame() {
	if c.pressed.Size() > 0 {
		c.pressed = mapset.New[Action]()
	}
	if c.released.Size() > 0 {
		c.released = mapset.New[Action]()
	}
}

// ReleaseAll drops every held action, e.g. when the window loses focus.
func (c *Controls) ReleaseAll() {
	c.held.Each(func(a Action) {
		c.released.Put(a)
	})
	c.held = mapset.New[Action]()
}
