package engine

import (
	"errors"
	"reflect"
	"testing"
)

func TestPressControlKeys(t *testing.T) {
	e := New()

	press(t, e, "4", "5", "DEL")
	if e.Current() != "4" {
		t.Fatalf("DEL: expected %q, got %q", "4", e.Current())
	}

	press(t, e, "ANGLE")
	if e.AngleMode() != Radians {
		t.Fatal("ANGLE: expected radians")
	}

	press(t, e, "DEG")
	if e.AngleMode() != Degrees {
		t.Fatal("DEG: expected degrees")
	}

	press(t, e, "AC")
	if e.Current() != "0" {
		t.Fatalf("AC: expected %q, got %q", "0", e.Current())
	}
}

func TestPressAcceptsAliases(t *testing.T) {
	e := New()
	press(t, e, "6", "*", "7", "enter")

	if e.Current() != "42" {
		t.Fatalf("expected %q, got %q", "42", e.Current())
	}
}

func TestPressUnknownKey(t *testing.T) {
	e := New()

	err := e.Press("hypot")
	if !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	if e.Current() != "0" {
		t.Fatalf("expected state untouched, got %q", e.Current())
	}
}

func TestPressAllStopsAtFirstError(t *testing.T) {
	e := New()

	err := e.PressAll("1", "bogus", "2")
	if !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	if e.Current() != "1" {
		t.Fatalf("expected %q, got %q", "1", e.Current())
	}
}

func TestSplitKeys(t *testing.T) {
	got := SplitKeys(" 12.5 + 3 = sqrt ")
	want := []string{"1", "2", ".", "5", "+", "3", "=", "sqrt"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
