package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// maxFractionDigits caps the fractional digits shown on a display.
const maxFractionDigits = 10

// Display is what the two calculator screens show.
type Display struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// FormatOperand renders operand text for a display. Sentinels such as
// "Error" come back verbatim; numbers get en-US thousands separators and at
// most ten fractional digits. A literal still being typed keeps its
// trailing point and zeros.
func FormatOperand(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return s
	}

	if strings.ContainsAny(s, "eExXpP_") {
		return s
	}

	sign, body := "", s
	if strings.HasPrefix(body, "-") || strings.HasPrefix(body, "+") {
		if body[0] == '-' {
			sign = "-"
		}
		body = body[1:]
	}

	intPart, frac, hasPoint := strings.Cut(body, ".")
	if len(frac) > maxFractionDigits {
		rounded := decimal.NewFromFloat(math.Abs(f)).Round(maxFractionDigits).String()
		intPart, frac, hasPoint = strings.Cut(rounded, ".")
		if rounded == "0" {
			sign = ""
		}
	}
	if intPart == "" {
		intPart = "0"
	}

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(groupThousands(intPart))
	if hasPoint {
		b.WriteByte('.')
		b.WriteString(frac)
	}

	return b.String()
}

// FormatSecondary renders the secondary display for a pending operation:
// "previous op" for binary operators and "op(current)" for unary ones.
func FormatSecondary(op Operator, previous, current string) string {
	switch {
	case op.IsBinary():
		return FormatOperand(previous) + " " + string(op)
	case op.IsUnary():
		return string(op) + "(" + FormatOperand(current) + ")"
	default:
		return ""
	}
}

// groupThousands inserts en-US separators into a run of decimal digits.
// Integers past int64 are grouped digit by digit so they never fall back to
// exponent notation.
func groupThousands(digits string) string {
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return message.NewPrinter(language.AmericanEnglish).Sprintf("%d", n)
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
