package index

import "math"

// storeProgress advances the progress scalar to value unless the
// currently stored value is already greater, preserving a
// monotone-non-decreasing progress invariant even though dirsQueued
// can grow faster than dirsDrained mid-pass.
func (e *Engine) storeProgress(value float64) {
	next := math.Float64bits(value)
	for {
		cur := e.progressBits.Load()
		if float64FromBits(cur) >= value {
			return
		}
		if e.progressBits.CompareAndSwap(cur, next) {
			return
		}
	}
}

// storeProgressExact unconditionally sets progress, used only for the
// 0.0 reset at the start of a pass and the 1.0 endpoint at the
// termination witness.
func (e *Engine) storeProgressExact(value float64) {
	e.progressBits.Store(math.Float64bits(value))
}

func float64FromBits(bits uint64) float64 {
	return math.Float64frombits(bits)
}
