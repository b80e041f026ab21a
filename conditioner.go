package servoscale

import (
	"time"

	"github.com/sparques/servoscale/drive"
)

// DefaultFrontLightThreshold is the raw width at or above which the
// optional front light turns on. Independent of the state machine; the
// light just follows the channel.
const DefaultFrontLightThreshold = 1400 * time.Microsecond

// maxRawWidth bounds a captured width, in microseconds, before it is
// handed to the state machine. Anything this long is not a servo pulse.
const maxRawWidth = 30000

// Conditioner ties one input line, one output line and a drive.Machine
// into the capture -> classify -> scale -> emit loop. The optional light
// fields may be set between NewConditioner and Run.
type Conditioner struct {
	in      InputPin
	out     OutputPin
	machine *drive.Machine

	// StatusLight, if set, is driven high while the conditioner is
	// limiting the command, still centering, or waiting to pair.
	StatusLight OutputPin

	// FrontLight, if set, follows the raw captured width against
	// FrontLightThreshold every iteration.
	FrontLight          OutputPin
	FrontLightThreshold time.Duration

	// BrakeLight, if set, is driven high while braking, low while
	// reversing, and floated otherwise.
	BrakeLight TriStatePin
}

// NewConditioner validates cfg and builds a Conditioner. The returned
// value owns all loop state; independent instances are fully isolated,
// there are no package-level variables.
func NewConditioner(in InputPin, out OutputPin, cfg drive.Config) (*Conditioner, error) {
	m, err := drive.NewMachine(cfg)
	if err != nil {
		return nil, err
	}
	return &Conditioner{
		in:                  in,
		out:                 out,
		machine:             m,
		FrontLightThreshold: DefaultFrontLightThreshold,
	}, nil
}

// Machine exposes the underlying state machine, read-only in spirit.
func (c *Conditioner) Machine() *drive.Machine { return c.machine }

// Step runs exactly one iteration: it blocks until an input pulse
// completes, updates the lights and the state machine, and blocks again
// while the conditioned pulse is emitted.
func (c *Conditioner) Step() {
	raw := Width(c.in)
	c.status(false)

	if c.FrontLight != nil {
		if raw < c.FrontLightThreshold {
			c.FrontLight.Low()
		} else {
			c.FrontLight.High()
		}
	}

	// a stuck-high line during pairing can measure absurdly long;
	// clamp so the narrowing below stays safe
	us := raw.Microseconds()
	if us > maxRawWidth {
		us = maxRawWidth
	}
	out := c.machine.Update(int32(us))

	if c.BrakeLight != nil {
		switch out.State {
		case drive.Braking:
			// both red LEDs on
			c.BrakeLight.High()
		case drive.Reverse:
			// white reversing LED on
			c.BrakeLight.Low()
		default:
			c.BrakeLight.Float()
		}
	}

	// the status light holds this value through the next capture wait,
	// which is most of the frame period, so it reads as steady
	c.status(out.Limited)

	Emit(c.out, time.Duration(out.Width)*time.Microsecond)
}

// Run executes the control loop forever. Capture stalls indefinitely if
// the receiver never produces a pulse; the status light stays on during
// that time so pairing is visible.
func (c *Conditioner) Run() {
	c.status(true)
	for {
		c.Step()
	}
}

func (c *Conditioner) status(on bool) {
	if c.StatusLight == nil {
		return
	}
	if on {
		c.StatusLight.High()
	} else {
		c.StatusLight.Low()
	}
}
