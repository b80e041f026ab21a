package servoscale

import "time"

// Width blocks until one complete input pulse has been observed on p and
// returns its high time.
//
// The wait has four phases:
//
//	XXXX___---___
//	  0   1  2  3
//
// phase 0 spins out any pulse already in progress so measurement always
// starts on a clean rising edge; phase 1 waits for that edge; phase 2 is
// the measured high time; the return happens in phase 3.
//
// If no pulse ever arrives, Width never returns. That is deliberate: an
// unpaired receiver holds its line idle and the right thing to do is
// wait. The ESC falls back to its own failsafe in the meantime.
func Width(p InputPin) time.Duration {
	for p.Get() {
	}
	for !p.Get() {
	}
	start := time.Now()
	for p.Get() {
	}
	return time.Since(start)
}
