package drain

import "testing"

func TestProgress_HasReachedTarget(t *testing.T) {
	tests := []struct {
		drained, total int
		target         float64
		want           bool
	}{
		{0, 100, 60, false},
		{59, 100, 60, false},
		{60, 100, 60, true},
		{61, 100, 60, true},
		{3, 5, 60, true},
		{2, 5, 60, false},
		{599, 1000, 60, false},
		{100, 100, 100, true},
		{0, 100, 0, true},
		{0, 0, 60, false},
	}
	for _, tt := range tests {
		p := Progress{Drained: tt.drained, Total: tt.total}
		if got := p.HasReachedTarget(tt.target); got != tt.want {
			t.Errorf("Progress{%d/%d}.HasReachedTarget(%v) = %v, want %v",
				tt.drained, tt.total, tt.target, got, tt.want)
		}
	}
}

func TestProgress_Percentage(t *testing.T) {
	if got := (Progress{}).Percentage(); got != 0 {
		t.Errorf("empty Percentage() = %v, want 0", got)
	}
	if got := (Progress{Drained: 25, Total: 100}).Percentage(); got != 0.25 {
		t.Errorf("Percentage() = %v, want 0.25", got)
	}
	if got := (Progress{Drained: 120, Total: 100}).Percentage(); got != 1 {
		t.Errorf("overfull Percentage() = %v, want 1", got)
	}
}

func TestNewProgress_MatchesMap(t *testing.T) {
	m, err := NewMapForImage(33, 17, 4)
	if err != nil {
		t.Fatalf("NewMapForImage: %v", err)
	}
	p := NewProgress(m)
	if p.Total != 9*5 || p.Drained != 0 {
		t.Errorf("NewProgress = %+v, want {Drained:0 Total:45}", p)
	}
}
