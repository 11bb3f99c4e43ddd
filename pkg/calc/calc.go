// Package calc is the dashboard's keypad calculator.
package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrDivideByZero = errors.New("cannot divide by zero")
	ErrUnknownOp    = errors.New("unknown operator")
	ErrUnknownKey   = errors.New("unknown key")
)

// Operators accepted by Operate.
const Operators = "+-*/%"

// Operate applies op to a and b. The percent operator yields b percent of a,
// (a/100)*b.
func Operate(a, b float64, op byte) (float64, error) {
	switch op {
	case '+':
		return a + b, nil
	case '-':
		return a - b, nil
	case '*':
		return a * b, nil
	case '/':
		if b == 0 {
			return 0, ErrDivideByZero
		}
		return a / b, nil
	case '%':
		return (a / 100) * b, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownOp, op)
}

// Format renders a result the way the display shows it.
func Format(v float64) string {
	if math.Abs(v) >= 1e21 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ErrorDisplay is shown after a failed operation.
const ErrorDisplay = "Error"

// Accumulator replays keypad input: digits, a decimal point, chained
// operators, equals, backspace and clear. The zero value is ready to use.
type Accumulator struct {
	input    string
	operator byte
	first    *float64
	waiting  bool
}

// Display returns the current display text.
func (a *Accumulator) Display() string {
	if a.input == "" {
		return "0"
	}
	return a.input
}

// Digit types one digit.
func (a *Accumulator) Digit(d byte) error {
	if d < '0' || d > '9' {
		return fmt.Errorf("%w %q", ErrUnknownKey, d)
	}
	switch {
	case a.waiting:
		a.input = string(d)
		a.waiting = false
	case a.Display() == "0", a.input == ErrorDisplay:
		a.input = string(d)
	default:
		a.input = a.Display() + string(d)
	}
	return nil
}

// Decimal types the decimal point once per number.
func (a *Accumulator) Decimal() {
	if a.waiting {
		a.input = "0."
		a.waiting = false
		return
	}
	if !strings.Contains(a.Display(), ".") {
		a.input = a.Display() + "."
	}
}

// Operator applies the pending operator, if any, and arms op. Pressing
// operators back to back only replaces the pending one.
func (a *Accumulator) Operator(op byte) error {
	if !strings.ContainsRune(Operators, rune(op)) {
		return fmt.Errorf("%w %q", ErrUnknownOp, op)
	}
	if a.operator != 0 && a.waiting {
		a.operator = op
		return nil
	}

	value, err := a.value()
	if err != nil {
		return err
	}

	if a.first == nil {
		a.first = &value
	} else if a.operator != 0 {
		result, err := Operate(*a.first, value, a.operator)
		if err != nil {
			a.fail()
			return err
		}
		a.input = Format(result)
		a.first = &result
	}

	a.waiting = true
	a.operator = op
	return nil
}

// Equals completes the pending operation. Without one it does nothing.
func (a *Accumulator) Equals() error {
	if a.operator == 0 || a.first == nil {
		return nil
	}
	value, err := a.value()
	if err != nil {
		return err
	}
	result, err := Operate(*a.first, value, a.operator)
	if err != nil {
		a.fail()
		return err
	}
	a.input = Format(result)
	a.first = nil
	a.operator = 0
	a.waiting = false
	return nil
}

// Backspace drops the last typed character.
func (a *Accumulator) Backspace() {
	if a.input == ErrorDisplay {
		a.Clear()
		return
	}
	in := a.Display()
	in = in[:len(in)-1]
	if in == "" || in == "-" {
		in = "0"
	}
	a.input = in
}

// Clear resets the calculator.
func (a *Accumulator) Clear() {
	*a = Accumulator{}
}

// Press dispatches one keypad key: a digit, ".", an operator, "=", "C" for
// clear or "<" for backspace.
func (a *Accumulator) Press(key byte) error {
	switch {
	case key >= '0' && key <= '9':
		return a.Digit(key)
	case key == '.':
		a.Decimal()
	case strings.IndexByte(Operators, key) >= 0:
		return a.Operator(key)
	case key == '=':
		return a.Equals()
	case key == 'C' || key == 'c':
		a.Clear()
	case key == '<':
		a.Backspace()
	default:
		return fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
	return nil
}

// Eval presses every key in keys, ignoring spaces, then equals, and returns
// the display.
func Eval(keys string) (string, error) {
	var a Accumulator
	for i := 0; i < len(keys); i++ {
		if keys[i] == ' ' {
			continue
		}
		if err := a.Press(keys[i]); err != nil {
			return a.Display(), err
		}
	}
	if err := a.Equals(); err != nil {
		return a.Display(), err
	}
	return a.Display(), nil
}

func (a *Accumulator) value() (float64, error) {
	v, err := strconv.ParseFloat(a.Display(), 64)
	if err != nil {
		return 0, fmt.Errorf("display %q is not a number: %w", a.Display(), err)
	}
	return v, nil
}

// fail shows the error display and forgets the pending operation.
func (a *Accumulator) fail() {
	*a = Accumulator{input: ErrorDisplay}
}
