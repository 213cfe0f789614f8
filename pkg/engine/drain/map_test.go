package drain

import (
	"image"
	"testing"

	"github.com/pkg/errors"
)

func TestNewMapForImage_CeilsCellCounts(t *testing.T) {
	tests := []struct {
		w, h, q          int
		wantCols, wantRs int
	}{
		{100, 100, 1, 100, 100},
		{100, 100, 3, 34, 34},
		{1920, 1026, 4, 480, 257},
		{1, 1, 8, 1, 1},
	}
	for _, tt := range tests {
		m, err := NewMapForImage(tt.w, tt.h, tt.q)
		if err != nil {
			t.Fatalf("NewMapForImage(%d,%d,%d): %v", tt.w, tt.h, tt.q, err)
		}
		if m.Cols() != tt.wantCols || m.Rows() != tt.wantRs {
			t.Errorf("NewMapForImage(%d,%d,%d) = %dx%d cells, want %dx%d",
				tt.w, tt.h, tt.q, m.Cols(), m.Rows(), tt.wantCols, tt.wantRs)
		}
		if m.Total() != tt.wantCols*tt.wantRs {
			t.Errorf("Total() = %d, want %d", m.Total(), tt.wantCols*tt.wantRs)
		}
	}
}

func TestNewMap_RejectsNonPositive(t *testing.T) {
	for _, dims := range [][3]int{{0, 1, 1}, {1, 0, 1}, {1, 1, 0}, {-3, 4, 1}} {
		if _, err := NewMap(dims[0], dims[1], dims[2]); errors.Cause(err) != ErrInvalidDimensions {
			t.Errorf("NewMap%v err = %v, want ErrInvalidDimensions", dims, err)
		}
	}
	if _, err := NewMapForImage(0, 10, 2); errors.Cause(err) != ErrInvalidDimensions {
		t.Errorf("NewMapForImage(0,10,2) err = %v, want ErrInvalidDimensions", err)
	}
}

func TestMarkDrained_Idempotent(t *testing.T) {
	m, _ := NewMap(4, 4, 1)
	if !m.MarkDrained(1, 2) {
		t.Fatal("first MarkDrained(1,2) = false, want true")
	}
	if m.MarkDrained(1, 2) {
		t.Error("second MarkDrained(1,2) = true, want false")
	}
	if !m.IsDrained(1, 2) {
		t.Error("IsDrained(1,2) = false after mark")
	}
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}
}

func TestOutOfRangeIsNoOp(t *testing.T) {
	m, _ := NewMap(3, 3, 1)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {1 << 20, 1 << 20}} {
		if m.IsDrained(p[0], p[1]) {
			t.Errorf("IsDrained%v = true, want false", p)
		}
		if m.MarkDrained(p[0], p[1]) {
			t.Errorf("MarkDrained%v = true, want false", p)
		}
	}
	if m.Count() != 0 {
		t.Errorf("Count() = %d after out-of-range marks, want 0", m.Count())
	}
}

func TestReset_ClearsAndBumpsGeneration(t *testing.T) {
	m, _ := NewMap(5, 5, 2)
	m.MarkDrained(0, 0)
	m.MarkDrained(4, 4)
	m.Flush()
	gen := m.Generation()

	m.Reset()

	if m.Count() != 0 {
		t.Errorf("Count() = %d after Reset, want 0", m.Count())
	}
	if m.Generation() == gen {
		t.Error("Generation() unchanged after Reset")
	}
	if m.Dirty() != m.Bounds() {
		t.Errorf("Dirty() = %v after Reset, want whole map %v", m.Dirty(), m.Bounds())
	}
}

func TestDirty_TracksMarksUntilFlush(t *testing.T) {
	m, _ := NewMap(10, 10, 1)
	if got := m.Flush(); got != m.Bounds() {
		t.Errorf("fresh map Flush() = %v, want whole map", got)
	}
	if !m.Dirty().Empty() {
		t.Fatalf("Dirty() = %v after Flush, want empty", m.Dirty())
	}

	m.MarkDrained(2, 3)
	m.MarkDrained(6, 1)
	want := image.Rect(2, 1, 7, 4)
	if got := m.Flush(); got != want {
		t.Errorf("Flush() = %v, want %v", got, want)
	}

	m.MarkDrained(2, 3)
	if !m.Dirty().Empty() {
		t.Errorf("redundant mark dirtied %v", m.Dirty())
	}
}

func TestCellGeometry(t *testing.T) {
	m, _ := NewMapForImage(10, 7, 4)

	if x, y := m.CellCenter(0, 0); x != 1.5 || y != 1.5 {
		t.Errorf("CellCenter(0,0) = (%v,%v), want (1.5,1.5)", x, y)
	}
	if got := m.CellBounds(2, 1); got != image.Rect(8, 4, 10, 7) {
		t.Errorf("CellBounds(2,1) = %v, want clipped (8,4)-(10,7)", got)
	}
	if cx, cy := m.CellAt(-1, 5); cx != -1 || cy != 1 {
		t.Errorf("CellAt(-1,5) = (%d,%d), want (-1,1)", cx, cy)
	}

	q1, _ := NewMapForImage(10, 10, 1)
	if x, y := q1.CellCenter(3, 4); x != 3 || y != 4 {
		t.Errorf("quality 1 CellCenter(3,4) = (%v,%v), want integer (3,4)", x, y)
	}
}

func TestForEachCell_VisitsAll(t *testing.T) {
	m, _ := NewMap(3, 2, 1)
	m.MarkDrained(2, 1)
	visited, drained := 0, 0
	m.ForEachCell(func(cx, cy int, d bool) {
		visited++
		if d {
			drained++
			if cx != 2 || cy != 1 {
				t.Errorf("unexpected drained cell (%d,%d)", cx, cy)
			}
		}
	})
	if visited != 6 || drained != 1 {
		t.Errorf("visited=%d drained=%d, want 6 and 1", visited, drained)
	}
}
