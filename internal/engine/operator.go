package engine

import (
	"fmt"
	"strings"
)

// Operator is a keypad operation symbol as shown on the calculator.
type Operator string

// Binary operators combine the previous operand with the current one.
const (
	Add      Operator = "+"
	Subtract Operator = "-"
	Multiply Operator = "×"
	Divide   Operator = "÷"
	Modulo   Operator = "%"
	Power    Operator = "^"
)

// Unary operators act on the current operand alone.
const (
	Square     Operator = "x²"
	Cube       Operator = "x³"
	Reciprocal Operator = "1/x"
	PowerOfTen Operator = "10^x"
	SquareRoot Operator = "√"
	Factorial  Operator = "!"
	Sin        Operator = "sin"
	Cos        Operator = "cos"
	Tan        Operator = "tan"
	Log        Operator = "log"
	Ln         Operator = "ln"
)

var binaryOperators = map[Operator]struct{}{
	Add: {}, Subtract: {}, Multiply: {}, Divide: {}, Modulo: {}, Power: {},
}

var unaryOperators = map[Operator]struct{}{
	Square: {}, Cube: {}, Reciprocal: {}, PowerOfTen: {}, SquareRoot: {}, Factorial: {},
	Sin: {}, Cos: {}, Tan: {}, Log: {}, Ln: {},
}

// operatorAliases maps typeable spellings onto keypad symbols.
var operatorAliases = map[string]Operator{
	"*":        Multiply,
	"x":        Multiply,
	"/":        Divide,
	"mod":      Modulo,
	"**":       Power,
	"pow":      Power,
	"x^2":      Square,
	"sqr":      Square,
	"x^3":      Cube,
	"cube":     Cube,
	"inv":      Reciprocal,
	"10^":      PowerOfTen,
	"exp10":    PowerOfTen,
	"sqrt":     SquareRoot,
	"fact":     Factorial,
	"add":      Add,
	"subtract": Subtract,
	"multiply": Multiply,
	"divide":   Divide,
}

// IsBinary reports whether op takes a previous and a current operand.
func (op Operator) IsBinary() bool {
	_, ok := binaryOperators[op]
	return ok
}

// IsUnary reports whether op is applied to the current operand immediately.
func (op Operator) IsUnary() bool {
	_, ok := unaryOperators[op]
	return ok
}

// Valid reports whether op is a known operator.
func (op Operator) Valid() bool {
	return op.IsBinary() || op.IsUnary()
}

func (op Operator) String() string {
	return string(op)
}

// ParseOperator resolves a keypad symbol or one of its aliases.
func ParseOperator(s string) (Operator, error) {
	s = strings.TrimSpace(s)

	if op := Operator(s); op.Valid() {
		return op, nil
	}

	if op, ok := operatorAliases[strings.ToLower(s)]; ok {
		return op, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownOperator, s)
}

// Operators lists every operator, binary first, in keypad order.
func Operators() []Operator {
	return []Operator{
		Add, Subtract, Multiply, Divide, Modulo, Power,
		Square, Cube, Reciprocal, PowerOfTen, SquareRoot, Factorial,
		Sin, Cos, Tan, Log, Ln,
	}
}
