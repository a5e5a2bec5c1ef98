// Package engine holds the calculator state machine: operand entry, pending
// operations, evaluation and display rendering. An Engine is not safe for
// concurrent use; callers serialize access per UI session.
package engine

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrorText is the sentinel operand shown after an arithmetic fault.
const ErrorText = "Error"

const initialOperand = "0"

var (
	ErrInvalidDigit    = errors.New("invalid digit")
	ErrUnknownOperator = errors.New("unknown operator")
)

// Engine is one calculator's input state.
type Engine struct {
	current  string
	previous string
	op       Operator
	reset    bool
	angle    AngleMode
}

// New returns an engine showing "0" in degree mode.
func New() *Engine {
	return &Engine{current: initialOperand}
}

// Current returns the current operand text.
func (e *Engine) Current() string { return e.current }

// Previous returns the previous operand text, empty when nothing is pending.
func (e *Engine) Previous() string { return e.previous }

// Pending returns the pending operator, empty when unset.
func (e *Engine) Pending() Operator { return e.op }

// AngleMode returns the current trigonometric input mode.
func (e *Engine) AngleMode() AngleMode { return e.angle }

// SetAngleMode switches between degrees and radians.
func (e *Engine) SetAngleMode(m AngleMode) { e.angle = m }

// ToggleAngleMode flips the angle mode and returns the new one.
func (e *Engine) ToggleAngleMode() AngleMode {
	if e.angle == Radians {
		e.angle = Degrees
	} else {
		e.angle = Radians
	}
	return e.angle
}

// InputDigit enters a digit or decimal point. After a compute, or while the
// operand is "0", the digit starts a new number; otherwise it is appended.
// A second decimal point is ignored.
func (e *Engine) InputDigit(d string) error {
	if !isDigitKey(d) {
		return fmt.Errorf("%w: %q", ErrInvalidDigit, d)
	}

	if e.reset || e.current == initialOperand {
		if d == "." {
			d = "0."
		}
		e.current = d
		e.reset = false
		return nil
	}

	if d == "." && strings.Contains(e.current, ".") {
		return nil
	}

	e.current += d
	return nil
}

// ChooseOperation selects op. A binary operator first evaluates any pending
// operation, then moves the current operand to previous. A unary operator
// is evaluated against the current operand straight away.
func (e *Engine) ChooseOperation(op Operator) error {
	switch {
	case op.IsUnary():
		e.op = op
		e.Compute()
	case op.IsBinary():
		if e.op != "" {
			e.Compute()
		}
		e.op = op
		e.previous = e.current
		e.current = initialOperand
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOperator, string(op))
	}
	return nil
}

// Compute applies the pending operation. Faults leave ErrorText as the
// current operand. It does nothing when no operation is pending.
func (e *Engine) Compute() {
	if !e.op.Valid() {
		return
	}

	prev := parseOperand(e.previous)
	cur := parseOperand(e.current)

	result, err := Evaluate(e.op, prev, cur, e.angle)
	if err != nil {
		result = ErrorText
	}

	e.current = result
	e.previous = ""
	e.op = ""
	e.reset = true
}

// Clear resets operands, pending operation and the reset flag. The angle
// mode is kept.
func (e *Engine) Clear() {
	e.current = initialOperand
	e.previous = ""
	e.op = ""
	e.reset = false
}

// Delete removes the last character of the current operand.
func (e *Engine) Delete() {
	if len(e.current) <= 1 || e.current == ErrorText {
		e.current = initialOperand
		return
	}

	_, size := utf8.DecodeLastRuneInString(e.current)
	e.current = e.current[:len(e.current)-size]
	if e.current == "-" {
		e.current = initialOperand
	}
}

// Display renders both screens.
func (e *Engine) Display() Display {
	return Display{
		Primary:   FormatOperand(e.current),
		Secondary: FormatSecondary(e.op, e.previous, e.current),
	}
}

func parseOperand(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func isDigitKey(s string) bool {
	return len(s) == 1 && (s[0] == '.' || (s[0] >= '0' && s[0] <= '9'))
}
