package levelgen

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestJumpReach(t *testing.T) {
	r := JumpReach(0.5, -15, 5, 1)
	if r.Rise != 225 || r.Gap != 300 {
		t.Errorf("JumpReach() = %+v, want {225 300}", r)
	}
	r = JumpReach(0.5, -15, 5, 2)
	if r.Rise != 450 || r.Gap != 600 {
		t.Errorf("JumpReach() double = %+v, want {450 600}", r)
	}
	if r := JumpReach(0, -15, 5, 2); r != (Reach{}) {
		t.Errorf("JumpReach() without gravity = %+v, want zero", r)
	}
}

func TestReach_CanReach(t *testing.T) {
	r := Reach{Rise: 100, Gap: 50}
	from := Platform{X: 0, Y: 500, W: 100, H: 20}

	tests := []struct {
		name string
		to   Platform
		want bool
	}{
		{"overlapping and low enough", Platform{X: 50, Y: 420, W: 100, H: 20}, true},
		{"too high", Platform{X: 50, Y: 380, W: 100, H: 20}, false},
		{"gap within reach", Platform{X: 140, Y: 450, W: 50, H: 20}, true},
		{"gap too wide", Platform{X: 160, Y: 450, W: 50, H: 20}, false},
		{"below", Platform{X: 120, Y: 650, W: 50, H: 20}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.CanReach(from, tt.to); got != tt.want {
				t.Errorf("CanReach() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnreachable(t *testing.T) {
	platforms := []Platform{
		{X: 0, Y: 700, W: 1000, H: 50, Ground: true},
		{X: 100, Y: 620, W: 100, H: 20},
		// only reachable by way of platform 1
		{X: 150, Y: 540, W: 100, H: 20},
		// too high from everything
		{X: 800, Y: 100, W: 100, H: 20},
	}
	r := Reach{Rise: 100, Gap: 50}
	if got, want := Unreachable(platforms, r), []int{3}; !reflect.DeepEqual(got, want) {
		t.Errorf("Unreachable() = %v, want %v", got, want)
	}
	if got := Reachable(platforms, r).Size(); got != 3 {
		t.Errorf("Reachable() size = %d, want 3", got)
	}
}

func TestGeneratePlatforms_AllReachableWithDoubleJump(t *testing.T) {
	r := JumpReach(0.5, -15, 5, 2)
	for seed := int64(1); seed <= 20; seed++ {
		ps := GeneratePlatforms(1280, 720, rand.New(rand.NewSource(seed)))
		if lost := Unreachable(ps, r); len(lost) > 0 {
			t.Errorf("seed %d: platforms %v unreachable", seed, lost)
		}
	}
}
