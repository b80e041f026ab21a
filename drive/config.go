package drive

import "fmt"

// Scale is an integer fraction applied to a pulse width. Apply multiplies
// before dividing so nothing is lost to truncation, and the widths
// involved (at most a few thousand microseconds) cannot overflow int32.
type Scale struct {
	Num int32
	Den int32
}

// Apply scales w by the fraction. Integer division truncates toward
// zero, so forward and reverse widths shrink symmetrically.
func (s Scale) Apply(w int32) int32 {
	return w * s.Num / s.Den
}

// Config holds the tuning constants for one vehicle profile. All widths
// are in microseconds, offset from the 1500us center.
type Config struct {
	// Margin is the hysteresis band around center. Readings inside
	// (-Margin, +Margin) count as "trigger released".
	Margin int32

	// Debounce is how many consecutive near-center readings are
	// required before a return-to-center transition is accepted.
	// Off-center transitions are always immediate.
	Debounce uint8

	// FwdFull is the forward width at or above which the command
	// counts as full throttle and may pass unscaled during a burst.
	FwdFull int32

	// MaxBurst is the number of consecutive forward iterations allowed
	// at full power before the limiter locks in. At the nominal 20ms
	// frame period, 15 iterations is 300ms.
	MaxBurst int16

	// ForwardScale and ReverseScale limit the respective command
	// amplitudes.
	ForwardScale Scale
	ReverseScale Scale

	// CalWindow is the plausibility window during centering; readings
	// further than this from center are treated as a receiver that is
	// still pairing. Generous on purpose.
	CalWindow int32

	// CalSettle and CalSamples control the centering schedule: the
	// first CalSettle plausible readings are discarded, the next
	// CalSamples-CalSettle are averaged into the offset.
	CalSettle  uint8
	CalSamples uint8
}

// Validate checks the profile once at startup so the control loop never
// has to.
func (c Config) Validate() error {
	if c.Margin <= 0 {
		return fmt.Errorf("margin must be positive, got %d", c.Margin)
	}
	if c.Debounce == 0 {
		return fmt.Errorf("debounce must be at least 1")
	}
	if c.FwdFull <= c.Margin {
		return fmt.Errorf("full-throttle threshold %d must exceed margin %d", c.FwdFull, c.Margin)
	}
	if c.MaxBurst <= 0 {
		return fmt.Errorf("max burst must be positive, got %d", c.MaxBurst)
	}
	for _, s := range []Scale{c.ForwardScale, c.ReverseScale} {
		if s.Den <= 0 || s.Num <= 0 || s.Num > s.Den {
			return fmt.Errorf("scale %d/%d is not a limiting fraction", s.Num, s.Den)
		}
	}
	if c.CalWindow <= 0 {
		return fmt.Errorf("calibration window must be positive, got %d", c.CalWindow)
	}
	if c.CalSamples <= c.CalSettle {
		return fmt.Errorf("calibration sample count %d must exceed settle count %d", c.CalSamples, c.CalSettle)
	}
	return nil
}

// TrainerProfile is the original tune: forward limited to 2/5, one 300ms
// full-power burst allowed, reverse limited to 2/3.
func TrainerProfile() Config {
	return Config{
		Margin:       40,
		Debounce:     4,
		FwdFull:      400,
		MaxBurst:     15,
		ForwardScale: Scale{2, 5},
		ReverseScale: Scale{2, 3},
		CalWindow:    1500,
		CalSettle:    10,
		CalSamples:   20,
	}
}

// SoftReverseProfile is the second hardware tune: reverse halved rather
// than cut to 2/3, a lower full-throttle threshold and a longer burst.
func SoftReverseProfile() Config {
	return Config{
		Margin:       40,
		Debounce:     4,
		FwdFull:      300,
		MaxBurst:     20,
		ForwardScale: Scale{2, 5},
		ReverseScale: Scale{1, 2},
		CalWindow:    1500,
		CalSettle:    10,
		CalSamples:   20,
	}
}
