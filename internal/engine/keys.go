package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Control keys on the keypad besides digits and operators.
const (
	KeyClear   = "AC"
	KeyDelete  = "DEL"
	KeyEquals  = "="
	KeyRadians = "RAD"
	KeyDegrees = "DEG"
	KeyAngle   = "ANGLE"
)

var ErrUnknownKey = errors.New("unknown key")

// Press handles one keypad key the way the browser buttons do: digits and
// "." are entered, AC clears, DEL deletes, "=" computes, RAD/DEG/ANGLE set
// the angle mode and anything else must name an operator.
func (e *Engine) Press(key string) error {
	key = strings.TrimSpace(key)

	if isDigitKey(key) {
		return e.InputDigit(key)
	}

	switch strings.ToUpper(key) {
	case KeyClear, "C", "CLEAR":
		e.Clear()
		return nil
	case KeyDelete, "BACKSPACE":
		e.Delete()
		return nil
	case KeyEquals, "ENTER":
		e.Compute()
		return nil
	case KeyRadians:
		e.SetAngleMode(Radians)
		return nil
	case KeyDegrees:
		e.SetAngleMode(Degrees)
		return nil
	case KeyAngle:
		e.ToggleAngleMode()
		return nil
	}

	op, err := ParseOperator(key)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	return e.ChooseOperation(op)
}

// PressAll presses keys in order and stops at the first unknown key,
// reporting its position.
func (e *Engine) PressAll(keys ...string) error {
	for i, key := range keys {
		if err := e.Press(key); err != nil {
			return fmt.Errorf("key %d: %w", i, err)
		}
	}
	return nil
}

// SplitKeys breaks typed input such as "12 + 3 =" into keys. Runs of digits
// and points become single-digit keys; other words are kept whole.
func SplitKeys(input string) []string {
	var keys []string
	for _, field := range strings.Fields(input) {
		if isNumberWord(field) {
			for _, r := range field {
				keys = append(keys, string(r))
			}
			continue
		}
		keys = append(keys, field)
	}
	return keys
}

func isNumberWord(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigitKey(s[i : i+1]) {
			return false
		}
	}
	return s != ""
}
