package input

import (
	"reflect"
	"testing"
	"time"
)

func TestDecodeKeys(t *testing.T) {
	tests := []struct {
		in   []byte
		want []string
	}{
		{[]byte("a"), []string{"a"}},
		{[]byte("D"), []string{"d"}},
		{[]byte(" "), []string{"space"}},
		{[]byte("\r"), []string{"enter"}},
		{[]byte{3}, []string{"ctrl_c"}},
		{[]byte{0x1b}, []string{"escape"}},
		{[]byte{0x1b, '[', 'D'}, []string{"arrow_left"}},
		{[]byte{0x1b, 'O', 'A'}, []string{"arrow_up"}},
		{[]byte{0x1b, '[', 'C', 'w', 0x1b, '[', 'C'}, []string{"arrow_right", "w", "arrow_right"}},
		{[]byte{0x1b, '[', '2', '4', '~'}, []string{"f12"}},
		{[]byte{0x1b, '[', 'Z', 'p'}, []string{"p"}},
		{[]byte{0x7f}, nil},
	}
	for _, tt := range tests {
		if got := DecodeKeys(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("DecodeKeys(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMapToIntent(t *testing.T) {
	tests := []struct {
		code string
		want Action
	}{
		{"arrow_left", ActionMoveLeft},
		{"a", ActionMoveLeft},
		{"d", ActionMoveRight},
		{"space", ActionJump},
		{"w", ActionJump},
		{"arrow_up", ActionJump},
		{"r", ActionResetDrain},
		{"p", ActionToggleStats},
		{"f12", ActionScreenshot},
		{"enter", ActionRestart},
		{"escape", ActionQuit},
		{"q", ActionQuit},
		{"z", ActionNone},
	}
	for _, tt := range tests {
		got := MapToIntent(DebouncedInput{Code: tt.code, Edge: EdgeRelease})
		if got.Action != tt.want {
			t.Errorf("MapToIntent(%q) = %s, want %s", tt.code, ActionName(got.Action), ActionName(tt.want))
		}
		if got.Edge != EdgeRelease {
			t.Errorf("MapToIntent(%q) lost the edge", tt.code)
		}
	}
}

func TestBoundCodes_Sorted(t *testing.T) {
	want := []string{"arrow_up", "space", "w"}
	if got := BoundCodes(ActionJump); !reflect.DeepEqual(got, want) {
		t.Errorf("BoundCodes(Jump) = %v, want %v", got, want)
	}
	if got := BoundCodes(ActionNone); got != nil {
		t.Errorf("BoundCodes(None) = %v, want nil", got)
	}
}

func TestDebouncer_SwallowsRepeatsAndReleases(t *testing.T) {
	d := NewDebouncer(100 * time.Millisecond)
	t0 := time.Unix(1000, 0)
	press := func(at time.Duration) (DebouncedInput, bool) {
		return d.Feed(RawInput{Device: DeviceTerminal, Code: "a", Edge: EdgePress, Timestamp: t0.Add(at)})
	}

	if ev, ok := press(0); !ok || ev.Code != "a" || ev.Edge != EdgePress {
		t.Fatalf("first press = %+v, %v; want a press", ev, ok)
	}
	if _, ok := press(30 * time.Millisecond); ok {
		t.Error("auto-repeat produced a second press")
	}
	if out := d.Expire(t0.Add(100 * time.Millisecond)); len(out) != 0 {
		t.Errorf("key released while still repeating: %v", out)
	}

	out := d.Expire(t0.Add(200 * time.Millisecond))
	if len(out) != 1 || out[0].Code != "a" || out[0].Edge != EdgeRelease {
		t.Fatalf("Expire = %v, want one release of a", out)
	}
	if _, ok := press(300 * time.Millisecond); !ok {
		t.Error("press after release was swallowed")
	}
}

func TestControls_Edges(t *testing.T) {
	c := NewControls()
	c.Apply(Intent{Action: ActionJump, Edge: EdgePress})
	if !c.Pressed(ActionJump) || !c.Held(ActionJump) {
		t.Fatal("jump not pressed and held after press")
	}

	c.EndFrame()
	if c.Pressed(ActionJump) {
		t.Error("press edge survived EndFrame")
	}
	if !c.Held(ActionJump) {
		t.Error("held action dropped by EndFrame")
	}

	c.Apply(Intent{Action: ActionJump, Edge: EdgePress})
	if c.Pressed(ActionJump) {
		t.Error("repeat press of a held action counted as a new press")
	}

	c.Apply(Intent{Action: ActionJump, Edge: EdgeRelease})
	if !c.Released(ActionJump) || c.Held(ActionJump) {
		t.Error("release not recorded")
	}

	c.Apply(Intent{Action: ActionMoveLeft, Edge: EdgePress})
	c.EndFrame()
	c.ReleaseAll()
	if c.Held(ActionMoveLeft) || !c.Released(ActionMoveLeft) {
		t.Error("ReleaseAll did not release held actions")
	}
}
