package servoscale

import "time"

// quantum is added to every emitted pulse so that a requested width of
// zero still produces an observable edge pair instead of nothing.
const quantum = time.Microsecond

// Emit drives p high for width, then low, and returns after the trailing
// edge. The wait is a monotonic-deadline spin, not a sleep: the scheduler
// granularity of time.Sleep is far coarser than the ~1us resolution a
// servo pulse needs.
func Emit(p OutputPin, width time.Duration) {
	if width < 0 {
		width = 0
	}
	width += quantum

	p.High()
	for start := time.Now(); time.Since(start) < width; {
	}
	p.Low()
}
