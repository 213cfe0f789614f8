// Package drain tracks which parts of a background image have been
// permanently converted to grayscale, at a resolution reduced by a quality factor.
package drain

import (
	"image"

	"github.com/pkg/errors"
)

// ErrInvalidDimensions is returned when a map would have no cells.
var ErrInvalidDimensions = errors.New("drain: invalid dimensions")

// Map is a dense cell grid overlaying a background image. Each cell covers a
// quality x quality block of source pixels. A cell, once drained, stays
// drained until Reset.
type Map struct {
	cols    int
	rows    int
	quality int
	width   int
	height  int

	cells []byte

	dirty      image.Rectangle
	generation uint64
}

// NewMap allocates a zeroed map of cols x rows cells. The covered image is
// assumed to be exactly cols*quality by rows*quality pixels.
func NewMap(cols, rows, quality int) (*Map, error) {
	if cols <= 0 || rows <= 0 || quality < 1 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "cols=%d rows=%d quality=%d", cols, rows, quality)
	}
	return newMap(cols, rows, quality, cols*quality, rows*quality), nil
}

// NewMapForImage allocates a zeroed map covering a width x height image.
// The grid is ceil(width/quality) x ceil(height/quality) cells.
func NewMapForImage(width, height, quality int) (*Map, error) {
	if width <= 0 || height <= 0 || quality < 1 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "width=%d height=%d quality=%d", width, height, quality)
	}
	return newMap(CellsFor(width, quality), CellsFor(height, quality), quality, width, height), nil
}

func newMap(cols, rows, quality, width, height int) *Map {
	return &Map{
		cols:    cols,
		rows:    rows,
		quality: quality,
		width:   width,
		height:  height,
		cells:   make([]byte, cols*rows),
		dirty:   image.Rect(0, 0, cols, rows),
	}
}

// CellsFor returns ceil(pixels/quality).
func CellsFor(pixels, quality int) int {
	return (pixels + quality - 1) / quality
}

// Cols returns the number of cell columns.
func (m *Map) Cols() int {
	return m.cols
}

// Rows returns the number of cell rows.
func (m *Map) Rows() int {
	return m.rows
}

// Quality returns the cell edge length in source pixels.
func (m *Map) Quality() int {
	return m.quality
}

// Width returns the width in pixels of the image the map covers.
func (m *Map) Width() int {
	return m.width
}

// Height returns the height in pixels of the image the map covers.
func (m *Map) Height() int {
	return m.height
}

// Total returns the number of cells.
func (m *Map) Total() int {
	return len(m.cells)
}

// Bounds returns the cell rectangle of the map.
func (m *Map) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.cols, m.rows)
}

// Generation changes every time the map is reset.
func (m *Map) Generation() uint64 {
	return m.generation
}

// IsValidPosition reports whether (cx, cy) is inside the grid.
func (m *Map) IsValidPosition(cx, cy int) bool {
	return cx >= 0 && cx < m.cols && cy >= 0 && cy < m.rows
}

// IsDrained reports whether the cell is drained. Out-of-range cells are not.
func (m *Map) IsDrained(cx, cy int) bool {
	if !m.IsValidPosition(cx, cy) {
		return false
	}
	return m.cells[cy*m.cols+cx] != 0
}

// MarkDrained drains the cell and reports whether this call changed it.
func (m *Map) MarkDrained(cx, cy int) bool {
	if !m.IsValidPosition(cx, cy) {
		return false
	}
	return m.mark(cy*m.cols+cx, cx, cy)
}

// mark drains cell i at (cx, cy) and grows the dirty rectangle. The caller
// has bounds-checked the cell.
func (m *Map) mark(i, cx, cy int) bool {
	if m.cells[i] != 0 {
		return false
	}
	m.cells[i] = 1
	m.dirty = m.dirty.Union(image.Rect(cx, cy, cx+1, cy+1))
	return true
}

// Count returns the number of drained cells by scanning the grid.
func (m *Map) Count() int {
	n := 0
	for _, c := range m.cells {
		if c != 0 {
			n++
		}
	}
	return n
}

// Reset clears every cell.
func (m *Map) Reset() {
	clear(m.cells)
	m.generation++
	m.dirty = m.Bounds()
}

// Dirty returns the cell rectangle changed since the last Flush.
func (m *Map) Dirty() image.Rectangle {
	return m.dirty
}

// Flush returns the dirty rectangle and clears it.
func (m *Map) Flush() image.Rectangle {
	r := m.dirty
	m.dirty = image.Rectangle{}
	return r
}

// CellCenter returns the centre of a cell in pixel coordinates, where pixel
// centres sit on integer coordinates.
func (m *Map) CellCenter(cx, cy int) (x, y float64) {
	half := float64(m.quality-1) / 2
	return float64(cx*m.quality) + half, float64(cy*m.quality) + half
}

// CellBounds returns the pixel block covered by a cell, clipped to the image.
func (m *Map) CellBounds(cx, cy int) image.Rectangle {
	q := m.quality
	return image.Rect(cx*q, cy*q, cx*q+q, cy*q+q).Intersect(image.Rect(0, 0, m.width, m.height))
}

// CellAt returns the cell containing pixel (x, y).
func (m *Map) CellAt(x, y int) (cx, cy int) {
	return floorDiv(x, m.quality), floorDiv(y, m.quality)
}

// ForEachCell calls fn for every cell in row-major order.
func (m *Map) ForEachCell(fn func(cx, cy int, drained bool)) {
	for cy := 0; cy < m.rows; cy++ {
		row := m.cells[cy*m.cols : (cy+1)*m.cols]
		for cx, c := range row {
			fn(cx, cy, c != 0)
		}
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
