//go:build tinygo

// TinyGo firmware entry point. Wire the receiver's throttle channel to
// PulseIn and the ESC to PulseOut; the rest of the pins are optional
// lights.
package main

import (
	"machine"

	"github.com/sparques/servoscale"
	"github.com/sparques/servoscale/drive"
)

const (
	PulseIn  = machine.D3
	PulseOut = machine.D2

	Status     = machine.D6
	FrontLight = machine.D5
	BrakeLight = machine.D7
)

// triStatePin floats a pin by flipping it back to input mode; the MCU's
// weak pull is not enough to light the LED pair hung off the line.
type triStatePin struct {
	pin machine.Pin
}

func (t triStatePin) High() {
	t.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	t.pin.High()
}

func (t triStatePin) Low() {
	t.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	t.pin.Low()
}

func (t triStatePin) Float() {
	t.pin.Configure(machine.PinConfig{Mode: machine.PinInput})
}

func main() {
	PulseIn.Configure(machine.PinConfig{Mode: machine.PinInput})
	PulseOut.Configure(machine.PinConfig{Mode: machine.PinOutput})
	Status.Configure(machine.PinConfig{Mode: machine.PinOutput})
	FrontLight.Configure(machine.PinConfig{Mode: machine.PinOutput})

	cond, err := servoscale.NewConditioner(PulseIn, PulseOut, drive.TrainerProfile())
	if err != nil {
		panic(err)
	}
	cond.StatusLight = Status
	cond.FrontLight = FrontLight
	cond.BrakeLight = triStatePin{pin: BrakeLight}

	cond.Run()
}
