// Package onoff is the simple sibling of the conditioner: instead of
// scaling the channel it treats it as a switch, driving one output on
// short pulses and the other on long ones. Handy for lights or any
// accessory hung off a spare channel.
package onoff

import (
	"time"

	"github.com/sparques/servoscale"
)

// Default thresholds leave a 200us dead band around center so a twitchy
// transmitter can't chatter the outputs.
const (
	DefaultShortMax = 1400 * time.Microsecond
	DefaultLongMin  = 1600 * time.Microsecond
)

// Switch latches two outputs from a pulse width: widths at or below
// ShortMax select A, widths at or above LongMin select B, and widths
// in between leave the last selection in place.
type Switch struct {
	ShortMax time.Duration
	LongMin  time.Duration

	a, b servoscale.OutputPin
}

// New returns a Switch with the default thresholds. Both outputs stay in
// whatever state the pins were in until the first decisive pulse.
func New(a, b servoscale.OutputPin) *Switch {
	return &Switch{
		ShortMax: DefaultShortMax,
		LongMin:  DefaultLongMin,
		a:        a,
		b:        b,
	}
}

// Handle classifies one captured width and drives the outputs.
func (s *Switch) Handle(width time.Duration) {
	switch {
	case width <= s.ShortMax:
		s.a.High()
		s.b.Low()
	case width >= s.LongMin:
		s.a.Low()
		s.b.High()
	}
}

// Run captures pulses on in forever, feeding each one to Handle.
func (s *Switch) Run(in servoscale.InputPin) {
	for {
		s.Handle(servoscale.Width(in))
	}
}
