// Package servoscale conditions a single-channel RC servo signal: it
// measures each incoming PPM pulse, classifies the driver's intent with a
// small state machine, scales the command down while preserving full
// braking authority, and re-emits the corrected pulse for the ESC.
// Useful for training or reduced-power operation.
//
// Hardware access goes through the pin interfaces below, so the whole
// control loop can run against TinyGo machine.Pin values on a micro, the
// gpiod subpackage on a Linux SBC, or fakes in tests.
package servoscale

import "time"

const (
	// Center is the nominal neutral pulse width. A pulse of exactly
	// Center means "no command".
	Center = 1500 * time.Microsecond

	// FramePeriod is the nominal spacing between input pulses. Only
	// informational; capture just waits for whatever arrives.
	FramePeriod = 20 * time.Millisecond
)

// InputPin is one digital input line, polled by busy-wait capture.
type InputPin interface {
	Get() bool
}

// OutputPin is one digital output line.
type OutputPin interface {
	High()
	Low()
}

// TriStatePin is an output line that can additionally be released to
// high impedance. Used for the shared brake/reverse light pair, where
// floating the line turns both LEDs off.
type TriStatePin interface {
	High()
	Low()
	Float()
}
