package engine

import (
	"errors"
	"fmt"
	"regexp"
)

var ErrInvalidState = errors.New("invalid calculator state")

var operandPattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]*)?$`)

// State is a serializable snapshot of an Engine.
type State struct {
	Current   string    `json:"current"`
	Previous  string    `json:"previous,omitempty"`
	Operation Operator  `json:"operation,omitempty"`
	Reset     bool      `json:"reset,omitempty"`
	AngleMode AngleMode `json:"angle_mode"`
}

// Snapshot captures the engine's state.
func (e *Engine) Snapshot() State {
	return State{
		Current:   e.current,
		Previous:  e.previous,
		Operation: e.op,
		Reset:     e.reset,
		AngleMode: e.angle,
	}
}

// Restore rebuilds an engine from a snapshot after checking its invariants.
func Restore(s State) (*Engine, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		current:  s.Current,
		previous: s.Previous,
		op:       s.Operation,
		reset:    s.Reset,
		angle:    s.AngleMode,
	}, nil
}

// Validate checks that operands are numeric literals or the error sentinel
// and that a pending operation is binary with a previous operand.
func (s State) Validate() error {
	if !validOperand(s.Current) {
		return fmt.Errorf("%w: current operand %q", ErrInvalidState, s.Current)
	}

	if s.AngleMode != Degrees && s.AngleMode != Radians {
		return fmt.Errorf("%w: angle mode %d", ErrInvalidState, int(s.AngleMode))
	}

	if s.Operation == "" {
		if s.Previous != "" {
			return fmt.Errorf("%w: previous operand without operation", ErrInvalidState)
		}
		return nil
	}

	if !s.Operation.IsBinary() {
		return fmt.Errorf("%w: pending operation %q", ErrInvalidState, string(s.Operation))
	}

	if !validOperand(s.Previous) {
		return fmt.Errorf("%w: previous operand %q", ErrInvalidState, s.Previous)
	}

	return nil
}

func validOperand(s string) bool {
	return s == ErrorText || operandPattern.MatchString(s)
}
