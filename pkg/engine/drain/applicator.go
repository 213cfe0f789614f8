package drain

import "math"

// Cursor is the brush for one frame: a centre in image pixel coordinates and
// a radius. Stride > 1 visits only every stride-th cell per call; which cells
// depends on the cursor position, so a moving cursor covers all of them.
type Cursor struct {
	X, Y   float64
	Radius float64
	Stride int
}

// Near reports whether the cursor is close enough to a width x height image
// to touch it.
func (c Cursor) Near(width, height int) bool {
	r := c.Radius
	return c.X >= -r && c.X <= float64(width)+r && c.Y >= -r && c.Y <= float64(height)+r
}

// ApplyDrain drains every cell whose centre lies strictly within the cursor
// radius, advances p.Drained by the number of cells that changed and returns
// that number. Calling it again with the same cursor changes nothing.
func ApplyDrain(m *Map, p *Progress, c Cursor) int {
	r := c.Radius
	if !(r > 0) || !c.Near(m.width, m.height) {
		return 0
	}

	q := float64(m.quality)
	half := (q - 1) / 2
	minCx := clampInt(int(math.Floor((c.X-r-half)/q)), 0, m.cols-1)
	maxCx := clampInt(int(math.Ceil((c.X+r-half)/q)), 0, m.cols-1)
	minCy := clampInt(int(math.Floor((c.Y-r-half)/q)), 0, m.rows-1)
	maxCy := clampInt(int(math.Ceil((c.Y+r-half)/q)), 0, m.rows-1)

	stride := c.Stride
	if stride < 1 {
		stride = 1
	}
	phase := mod(int(math.Floor(c.X))+int(math.Floor(c.Y)), stride)

	r2 := r * r
	changed := 0
	for cy := minCy; cy <= maxCy; cy++ {
		dy := float64(cy)*q + half - c.Y
		dy2 := dy * dy
		if dy2 >= r2 {
			continue
		}
		cx := minCx
		if stride > 1 {
			cx += mod(phase-cx-cy, stride)
		}
		base := cy * m.cols
		for ; cx <= maxCx; cx += stride {
			dx := float64(cx)*q + half - c.X
			if dx*dx+dy2 >= r2 {
				continue
			}
			if m.mark(base+cx, cx, cy) {
				changed++
			}
		}
	}

	p.Drained += changed
	return changed
}

// ApplyTrail drains along the straight segment from one cursor to the next,
// stepping at most maxStep pixels at a time so fast movement leaves no gaps.
// The starting point is assumed to have been drained on the previous frame.
func ApplyTrail(m *Map, p *Progress, from, to Cursor, maxStep float64) int {
	dist := math.Hypot(to.X-from.X, to.Y-from.Y)
	if maxStep <= 0 || dist <= maxStep {
		return ApplyDrain(m, p, to)
	}

	steps := int(math.Ceil(dist / maxStep))
	total := 0
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c := to
		c.X = from.X + (to.X-from.X)*t
		c.Y = from.Y + (to.Y-from.Y)*t
		total += ApplyDrain(m, p, c)
	}
	return total
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
