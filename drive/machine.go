// Package drive classifies centered servo pulse widths into driving
// states and applies the per-state amplitude limits. It is pure
// arithmetic: no pins, no clocks, so every edge of the state machine can
// be exercised on any platform.
//
// State transitions:
//
//	CTR ==(calibrated)==> INI
//
//	INI ==(width <= -margin)==> REV
//	INI ==(width >= +margin)==> FWD
//
//	REV ==(width >= +margin)==> FWD
//	REV ==(near center, debounced)==> INI
//
//	FWD ==(width <= -margin)==> BRK
//	FWD ==(near center, debounced)==> STP
//
//	STP ==(width >= +margin)==> FWD
//	STP ==(width <= -margin)==> BRK
//
//	BRK ==(width >= +margin)==> FWD
//	BRK ==(near center, debounced)==> INI
//
// Scaling applies only to FWD and REV.
package drive

// Center is the nominal neutral pulse width in microseconds.
const Center = 1500

// Output is the result of one control-loop iteration.
type Output struct {
	// Width is the conditioned pulse width to emit, in microseconds,
	// re-centered at 1500.
	Width int32

	// State is the driving state after this iteration's transition.
	State State

	// Limited reports that the command is being held back: forward
	// under the throttle cap, any reverse, or still centering. Drives
	// the status indicator.
	Limited bool
}

// Machine is the control-loop context: the driving state, its duration,
// the burst allowance and the calibration offset. Construct one per
// control loop; it is not safe for concurrent use and does not need to
// be, the loop is strictly sequential.
type Machine struct {
	cfg Config

	state State
	dur   uint8 // iterations in the current state, saturating
	burst int16 // consecutive forward iterations, clamped to [0, 2*MaxBurst]

	offset int32 // measured neutral trim, frozen once centering completes
	acc    int32 // centering accumulator
}

// NewMachine validates cfg and returns a Machine in the Centering state.
func NewMachine(cfg Config) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Machine{cfg: cfg}, nil
}

// State returns the current driving state.
func (m *Machine) State() State { return m.state }

// Offset returns the calibration offset in microseconds. Zero until
// centering completes.
func (m *Machine) Offset() int32 { return m.offset }

// Duration returns the number of iterations spent in the current state.
func (m *Machine) Duration() uint8 { return m.dur }

// Burst returns the burst counter. Exposed for tests and debugging.
func (m *Machine) Burst() int16 { return m.burst }

// Update runs one full iteration against a raw captured width in
// microseconds: offset correction, state transition, scaling, and the
// end-of-iteration duration bump. It returns the width to emit.
func (m *Machine) Update(raw int32) Output {
	w := raw - Center
	if m.state != Centering {
		w += m.offset
	}

	if m.state == Centering {
		// centering owns its duration accounting, since an
		// implausible reading must leave the count untouched
		m.calibrate(w)
		out := Output{State: m.state}
		out.Width, out.Limited = m.scale(w)
		return out
	}

	if next, reset := m.cfg.Next(m.state, w, m.dur); reset {
		m.state = next
		m.dur = 0
	}

	out := Output{State: m.state}
	out.Width, out.Limited = m.scale(w)
	m.dur = satInc(m.dur)
	return out
}

// Next is the transition function: given the current state, a corrected
// width and the time spent in the state, it returns the next state and
// whether a transition (with duration reset) occurred. Unmatched inputs
// leave the state unchanged.
func (c Config) Next(s State, w int32, dur uint8) (State, bool) {
	switch s {
	case Idle:
		switch {
		case w >= c.Margin:
			return Forward, true
		case w <= -c.Margin:
			return Reverse, true
		}
	case Reverse, Braking:
		switch {
		case w >= c.Margin:
			return Forward, true
		case w > -c.Margin && w < c.Margin && dur >= c.Debounce:
			// avoid jitter during throttle manipulation
			return Idle, true
		}
	case Forward:
		switch {
		case w <= -c.Margin:
			return Braking, true
		case w > -c.Margin && w < c.Margin && dur >= c.Debounce:
			return Stopped, true
		}
	case Stopped:
		switch {
		case w >= c.Margin:
			return Forward, true
		case w <= -c.Margin:
			return Braking, true
		}
	}
	return s, false
}

// calibrate runs the boot auto-centering. The first CalSettle plausible
// readings are discarded while the receiver settles, the next
// CalSamples-CalSettle have their deviation magnitude accumulated, and
// once CalSamples plausible readings have been seen the average is
// frozen as the offset and the machine moves to Idle.
func (m *Machine) calibrate(w int32) {
	if w < -m.cfg.CalWindow || w > m.cfg.CalWindow {
		// not a plausible pulse; the receiver is likely still
		// pairing, so don't let the sample count advance
		return
	}
	if m.dur >= m.cfg.CalSettle {
		if w < 0 {
			m.acc -= w
		} else {
			m.acc += w
		}
	}
	m.dur = satInc(m.dur)
	if m.dur >= m.cfg.CalSamples {
		m.offset = m.acc / int32(m.cfg.CalSamples-m.cfg.CalSettle)
		m.state = Idle
		m.dur = 0
	}
}

// scale applies the per-state amplitude policy and burst accounting,
// returning the re-centered width to emit and the limiter indicator.
func (m *Machine) scale(w int32) (int32, bool) {
	limited := false
	switch m.state {
	case Forward:
		// short full-power bursts are tolerated until the counter
		// reaches MaxBurst; then it latches at twice that and the
		// cap stays on until enough non-forward iterations drain it
		limited = w < m.cfg.FwdFull || m.burst >= m.cfg.MaxBurst
		if m.burst < 2*m.cfg.MaxBurst {
			m.burst++
		}
		if m.burst >= m.cfg.MaxBurst {
			m.burst = 2 * m.cfg.MaxBurst
		}
		if limited {
			w = m.cfg.ForwardScale.Apply(w)
		}
	case Reverse:
		w = m.cfg.ReverseScale.Apply(w)
		limited = true
		m.burst = decClamp(m.burst)
	case Centering:
		// width is not meaningful yet; show "syncing"
		limited = true
	default:
		m.burst = decClamp(m.burst)
	}
	return w + Center, limited
}
