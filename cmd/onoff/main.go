//go:build tinygo

// TinyGo firmware for the switch variant: one channel in, two outputs
// latched by pulse width.
package main

import (
	"machine"

	"github.com/sparques/servoscale/onoff"
)

const (
	PulseIn = machine.D3
	OutA    = machine.D4
	OutB    = machine.D5
)

func main() {
	PulseIn.Configure(machine.PinConfig{Mode: machine.PinInput})
	OutA.Configure(machine.PinConfig{Mode: machine.PinOutput})
	OutB.Configure(machine.PinConfig{Mode: machine.PinOutput})
	OutA.Low()
	OutB.Low()

	sw := onoff.New(OutA, OutB)
	sw.Run(PulseIn)
}
