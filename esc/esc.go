//go:build tinygo

// Package esc re-emits the conditioned pulse with a hardware PWM slice
// instead of bit-banging. The ESC then keeps receiving frames at the
// nominal 20ms period even while the control loop is blocked waiting for
// the next input pulse, which some ESCs prefer to a gap.
//
// TinyGo only; it talks to the machine package through sparques/pwm.
package esc

import (
	. "machine"

	"github.com/sparques/pwm"
)

// framePeriod is the servo frame period in nanoseconds.
const framePeriod = 20_000_000

type Device struct {
	pgroup pwm.Group
	ch     uint8
}

// New configures pin for PWM at the servo frame period and returns a
// Device holding the channel, initially emitting nothing.
func New(pin Pin) *Device {
	pin.Configure(PinConfig{Mode: PinPWM})
	pgroup := pwm.Get(pin)
	pgroup.Configure(PWMConfig{Period: framePeriod})
	ch, _ := pgroup.Channel(pin)
	pgroup.Set(ch, 0)
	return &Device{
		pgroup: pgroup,
		ch:     ch,
	}
}

// SetMicroseconds sets the high time of every subsequent frame. Widths
// outside 0..20000 are clamped to the frame.
func (d *Device) SetMicroseconds(us int32) {
	if us < 0 {
		us = 0
	}
	if us > 20000 {
		us = 20000
	}
	top := uint64(d.pgroup.Top())
	d.pgroup.Set(d.ch, uint32(top*uint64(us)/20000))
}

// Stop drops the duty to zero, leaving the line low.
func (d *Device) Stop() {
	d.pgroup.Set(d.ch, 0)
}
