package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ResultPlaces is the number of decimal places every result is rounded to.
const ResultPlaces = 10

// maxFactorial is the largest n for which n! fits in a float64.
const maxFactorial = 170

var (
	ErrDivisionByZero  = errors.New("division by zero")
	ErrNegativeRoot    = errors.New("square root of a negative number")
	ErrLogDomain       = errors.New("logarithm of a non-positive number")
	ErrFactorialDomain = errors.New("factorial of a negative or non-integer number")
	ErrNotFinite       = errors.New("result is not a finite number")
)

// Apply evaluates op. Binary operators use prev and cur; unary operators
// use cur only. Trigonometric input is read in the given angle mode.
func Apply(op Operator, prev, cur float64, mode AngleMode) (float64, error) {
	var (
		result float64
		err    error
	)

	switch op {
	case Add:
		result = prev + cur
	case Subtract:
		result = prev - cur
	case Multiply:
		result = prev * cur
	case Divide:
		if cur == 0 {
			return 0, ErrDivisionByZero
		}
		result = prev / cur
	case Modulo:
		result = math.Mod(prev, cur)
	case Power:
		result = math.Pow(prev, cur)
	case Square:
		result = math.Pow(cur, 2)
	case Cube:
		result = math.Pow(cur, 3)
	case Reciprocal:
		if cur == 0 {
			return 0, ErrDivisionByZero
		}
		result = 1 / cur
	case PowerOfTen:
		result = math.Pow(10, cur)
	case SquareRoot:
		if cur < 0 {
			return 0, ErrNegativeRoot
		}
		result = math.Sqrt(cur)
	case Factorial:
		result, err = factorial(cur)
	case Sin:
		result = math.Sin(mode.toRadians(cur))
	case Cos:
		result = math.Cos(mode.toRadians(cur))
	case Tan:
		result = math.Tan(mode.toRadians(cur))
	case Log:
		if cur <= 0 {
			return 0, ErrLogDomain
		}
		result = math.Log10(cur)
	case Ln:
		if cur <= 0 {
			return 0, ErrLogDomain
		}
		result = math.Log(cur)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOperator, string(op))
	}

	if err != nil {
		return 0, err
	}

	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, fmt.Errorf("%w: %s", ErrNotFinite, op)
	}

	return result, nil
}

// Evaluate applies op and returns the rounded result as operand text.
func Evaluate(op Operator, prev, cur float64, mode AngleMode) (string, error) {
	result, err := Apply(op, prev, cur, mode)
	if err != nil {
		return "", err
	}

	return Round(result).String(), nil
}

// Round rounds v to ResultPlaces decimal places.
func Round(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(ResultPlaces)
}

func factorial(n float64) (float64, error) {
	if n < 0 || n != math.Trunc(n) || math.IsInf(n, 0) {
		return 0, ErrFactorialDomain
	}

	if n > maxFactorial {
		return 0, fmt.Errorf("%w: %g!", ErrNotFinite, n)
	}

	result := 1.0
	for i := 2.0; i <= n; i++ {
		result *= i
	}

	return result, nil
}
