package drain

// Progress counts drained cells against the total for one map.
// Drained is only ever advanced by ApplyDrain and ApplyTrail.
type Progress struct {
	Drained int
	Total   int
}

// NewProgress returns a zeroed tracker for m.
func NewProgress(m *Map) Progress {
	return Progress{Total: m.Total()}
}

// Percentage returns the drained fraction in [0,1].
func (p Progress) Percentage() float64 {
	if p.Total <= 0 || p.Drained <= 0 {
		return 0
	}
	if p.Drained >= p.Total {
		return 1
	}
	return float64(p.Drained) / float64(p.Total)
}

// HasReachedTarget reports whether at least targetPercent (0-100) of the
// cells are drained. The comparison is done on counts so it is exact.
func (p Progress) HasReachedTarget(targetPercent float64) bool {
	if p.Total <= 0 {
		return false
	}
	return float64(p.Drained)*100 >= targetPercent*float64(p.Total)
}
