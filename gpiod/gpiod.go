// Package gpiod adapts Linux character-device GPIO lines to the
// servoscale pin interfaces, so the conditioner can be bench-tested on
// an SBC against a real receiver and ESC. Polling a gpio line goes
// through the kernel, so timing is coarser than on a micro; good enough
// for the bench, not for the car.
package gpiod

import (
	"github.com/warthog618/go-gpiocdev"
)

// InputLine polls one line as a servoscale.InputPin.
type InputLine struct {
	line *gpiocdev.Line
}

// RequestInput requests chip line offset as an input with pull-up, the
// usual idle state for a receiver signal line.
func RequestInput(chip string, offset int) (*InputLine, error) {
	l, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		return nil, err
	}
	return &InputLine{line: l}, nil
}

func (in *InputLine) Get() bool {
	v, err := in.line.Value()
	return err == nil && v != 0
}

func (in *InputLine) Close() error {
	return in.line.Close()
}

// OutputLine drives one line as a servoscale.OutputPin.
type OutputLine struct {
	line *gpiocdev.Line
}

// RequestOutput requests chip line offset as an output, initially low.
func RequestOutput(chip string, offset int) (*OutputLine, error) {
	l, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, err
	}
	return &OutputLine{line: l}, nil
}

func (o *OutputLine) High() {
	o.line.SetValue(1)
}

func (o *OutputLine) Low() {
	o.line.SetValue(0)
}

func (o *OutputLine) Close() error {
	return o.line.Close()
}

// TriStateLine implements servoscale.TriStatePin by reconfiguring the
// line between output and input; as an input it floats.
type TriStateLine struct {
	line *gpiocdev.Line
}

// RequestTriState requests chip line offset, initially floating.
func RequestTriState(chip string, offset int) (*TriStateLine, error) {
	l, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsInput)
	if err != nil {
		return nil, err
	}
	return &TriStateLine{line: l}, nil
}

func (t *TriStateLine) High() {
	t.line.Reconfigure(gpiocdev.AsOutput(1))
}

func (t *TriStateLine) Low() {
	t.line.Reconfigure(gpiocdev.AsOutput(0))
}

func (t *TriStateLine) Float() {
	t.line.Reconfigure(gpiocdev.AsInput)
}

func (t *TriStateLine) Close() error {
	return t.line.Close()
}
