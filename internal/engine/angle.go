package engine

import (
	"fmt"
	"math"
	"strings"
)

// AngleMode selects how trigonometric input is interpreted.
type AngleMode int

const (
	Degrees AngleMode = iota
	Radians
)

func (m AngleMode) String() string {
	if m == Radians {
		return "rad"
	}
	return "deg"
}

func (m AngleMode) toRadians(v float64) float64 {
	if m == Radians {
		return v
	}
	return v * math.Pi / 180
}

// ParseAngleMode accepts "deg", "degrees", "rad" and "radians" in any case.
// An empty string means Degrees.
func ParseAngleMode(s string) (AngleMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "deg", "degree", "degrees":
		return Degrees, nil
	case "rad", "radian", "radians":
		return Radians, nil
	default:
		return Degrees, fmt.Errorf("unknown angle mode %q", s)
	}
}

func (m AngleMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *AngleMode) UnmarshalText(text []byte) error {
	mode, err := ParseAngleMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
