package servoscale

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sparques/servoscale/drive"
)

// Host scheduling can stall a busy-wait loop for milliseconds, so the
// fakes below are built so that stalls stretch timings but never skip
// edges, and every blocking wait runs under a watchdog that fails the
// test instead of wedging it. Lower timing bounds stay tight; upper
// bounds are only a sanity rail. The tight quantization claims are a
// hardware property, not something a shared host can demonstrate.
const (
	slack = 50 * time.Microsecond
	grace = 250 * time.Millisecond

	watchdog = 20 * time.Second
)

// playerPin replays a schedule of alternating low/high segments,
// starting low. Each segment is anchored to the first Get that observes
// it, so a preempted poller sees a stretched segment rather than a
// missed pulse. After the schedule runs out the line stays low.
type playerPin struct {
	schedule   []time.Duration
	idx        int
	level      bool
	phaseStart time.Time

	released atomic.Bool
	relTick  atomic.Uint64
}

func newPlayerPin(schedule ...time.Duration) *playerPin {
	return &playerPin{schedule: schedule}
}

func (p *playerPin) Get() bool {
	if p.released.Load() {
		// toggle every poll so any busy-wait unsticks promptly
		return p.relTick.Add(1)&1 == 0
	}
	if p.idx >= len(p.schedule) {
		return false
	}
	now := time.Now()
	if p.phaseStart.IsZero() {
		p.phaseStart = now
	}
	if now.Sub(p.phaseStart) >= p.schedule[p.idx] {
		p.idx++
		p.level = !p.level
		p.phaseStart = now
	}
	return p.level
}

func (p *playerPin) release() { p.released.Store(true) }

// recorderPin timestamps its edges.
type recorderPin struct {
	highs, lows []time.Time
}

func (r *recorderPin) High() { r.highs = append(r.highs, time.Now()) }
func (r *recorderPin) Low()  { r.lows = append(r.lows, time.Now()) }

// levelPin is a loopback line between Emit and Width running in
// different goroutines.
type levelPin struct {
	level atomic.Bool

	released atomic.Bool
	relTick  atomic.Uint64
}

func (l *levelPin) High() { l.level.Store(true) }
func (l *levelPin) Low()  { l.level.Store(false) }

func (l *levelPin) Get() bool {
	if l.released.Load() {
		return l.relTick.Add(1)&1 == 0
	}
	return l.level.Load()
}

func (l *levelPin) release() { l.released.Store(true) }

// latchPin remembers the last level it was driven to.
type latchPin struct {
	high  bool
	valid bool
}

func (l *latchPin) High() { l.high, l.valid = true, true }
func (l *latchPin) Low()  { l.high, l.valid = false, true }

type releasablePin interface {
	InputPin
	release()
}

// captureWidth runs Width under the watchdog. On timeout the pin is
// released so the leaked goroutine stops spinning, and the test fails.
func captureWidth(t *testing.T, p releasablePin) time.Duration {
	t.Helper()
	done := make(chan time.Duration, 1)
	go func() { done <- Width(p) }()
	select {
	case w := <-done:
		return w
	case <-time.After(watchdog):
		p.release()
		t.Fatal("capture never completed")
		return 0
	}
}

func TestWidthMeasuresHighTime(t *testing.T) {
	p := newPlayerPin(time.Millisecond, 2*time.Millisecond)
	w := captureWidth(t, p)
	require.GreaterOrEqual(t, w, 2*time.Millisecond-slack)
	require.Less(t, w, 2*time.Millisecond+grace)
}

func TestWidthSkipsPulseInProgress(t *testing.T) {
	// line starts high: that partial pulse must be ignored and the
	// next full one measured
	p := newPlayerPin(0, 3*time.Millisecond, time.Millisecond, 1500*time.Microsecond)
	w := captureWidth(t, p)
	require.GreaterOrEqual(t, w, 1500*time.Microsecond-slack)
	require.Less(t, w, 1500*time.Microsecond+grace)
}

func TestEmitTiming(t *testing.T) {
	r := &recorderPin{}
	Emit(r, 1500*time.Microsecond)
	require.Len(t, r.highs, 1)
	require.Len(t, r.lows, 1)

	d := r.lows[0].Sub(r.highs[0])
	require.GreaterOrEqual(t, d, 1500*time.Microsecond)
	require.Less(t, d, 1500*time.Microsecond+grace)
}

func TestEmitZeroWidthStillPulses(t *testing.T) {
	r := &recorderPin{}
	Emit(r, 0)
	require.Len(t, r.highs, 1)
	require.Len(t, r.lows, 1)
	require.True(t, r.lows[0].After(r.highs[0]))
}

func TestEmitNegativeWidthClamped(t *testing.T) {
	r := &recorderPin{}
	Emit(r, -time.Millisecond)
	require.Len(t, r.highs, 1)
	require.Len(t, r.lows, 1)
	require.Less(t, r.lows[0].Sub(r.highs[0]), grace)
}

func TestEmitCaptureRoundTrip(t *testing.T) {
	line := &levelPin{}

	done := make(chan time.Duration, 1)
	go func() { done <- Width(line) }()

	// a wide pulse keeps scheduling noise small relative to the width;
	// keep emitting in case the capture goroutine missed one entirely
	const pulse = 50 * time.Millisecond
	timeout := time.After(watchdog)
	for {
		Emit(line, pulse)
		select {
		case w := <-done:
			require.InDelta(t, float64(pulse), float64(w), float64(pulse/2))
			return
		case <-timeout:
			line.release()
			t.Fatal("capture never completed")
		case <-time.After(10 * time.Millisecond):
			// gap so the capture loop can observe the line low
		}
	}
}

// runSteps executes n conditioner iterations under the watchdog, or
// fewer if stop reports done. It returns the number of steps taken.
func runSteps(t *testing.T, cond *Conditioner, in *playerPin, n int, stop func() bool) int {
	t.Helper()
	steps := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < n; i++ {
			if stop != nil && stop() {
				return
			}
			cond.Step()
			steps++
		}
	}()
	select {
	case <-done:
		return steps
	case <-time.After(watchdog):
		in.release()
		t.Fatal("conditioner stalled waiting for input")
		return 0
	}
}

func TestConditionerStep(t *testing.T) {
	// 40 neutral frames cover calibration with room for samples the
	// host mangles badly enough to be discarded, then 10 forward ones
	schedule := []time.Duration{500 * time.Microsecond}
	for i := 0; i < 40; i++ {
		schedule = append(schedule, 1500*time.Microsecond, 2*time.Millisecond)
	}
	for i := 0; i < 10; i++ {
		schedule = append(schedule, 1800*time.Microsecond, 2*time.Millisecond)
	}

	in := newPlayerPin(schedule...)
	out := &recorderPin{}
	status := &latchPin{}
	front := &latchPin{}

	cond, err := NewConditioner(in, out, drive.TrainerProfile())
	require.NoError(t, err)
	cond.StatusLight = status
	cond.FrontLight = front

	// run through the neutral frames (stopping early if jitter already
	// tipped the machine forward), then take a few forward frames
	steps := runSteps(t, cond, in, 40, func() bool {
		return cond.Machine().State() == drive.Forward
	})
	steps += runSteps(t, cond, in, 3, nil)

	require.Equal(t, drive.Forward, cond.Machine().State())
	// every frame seen so far was above the 1400us front light threshold
	require.True(t, front.valid)
	require.True(t, front.high)
	// forward at +300 is under full throttle, so the limiter light is on
	require.True(t, status.high)

	// one emitted pulse per step
	require.Len(t, out.highs, steps)
	require.Len(t, out.lows, steps)
}

func TestNewConditionerRejectsBadConfig(t *testing.T) {
	cfg := drive.TrainerProfile()
	cfg.Debounce = 0
	_, err := NewConditioner(&levelPin{}, &recorderPin{}, cfg)
	require.Error(t, err)
}
