package metrics

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Placeholder is shown wherever a value is undefined.
const Placeholder = "--"

// SigDigits is the number of mantissa digits after the decimal point.
const SigDigits = 6

// integerTolerance bounds |1/h - round(1/h)| relative to the rounded value.
const integerTolerance = 1e-12

type numberKind int

const (
	kindUndefined numberKind = iota
	kindScientific
	kindInteger
)

// Number is a formatted numeric value that can be written into any report dialect.
type Number struct {
	kind     numberKind
	mantissa string
	exponent int
	integer  int64
}

// Undefined returns the placeholder value.
func Undefined() Number {
	return Number{}
}

// FormatNumber renders x in scientific notation with six digits after the
// decimal point, e.g. -0.001234567 becomes mantissa -1.234567 and exponent -3.
// Non-finite values are undefined.
func FormatNumber(x float64) Number {
	if !isFinite(x) {
		return Undefined()
	}
	s := strconv.FormatFloat(x, 'e', SigDigits, 64)
	mant, exp, _ := strings.Cut(s, "e")
	e, err := strconv.Atoi(exp)
	if err != nil {
		return Undefined()
	}
	return Number{kind: kindScientific, mantissa: mant, exponent: e}
}

// FormatHInverse renders 1/h as a plain integer when it is one (up to rounding
// error), and falls back to FormatNumber otherwise.
func FormatHInverse(h float64) Number {
	inv := 1.0 / h
	if !isFinite(inv) {
		return Undefined()
	}
	r := math.Round(inv)
	if math.Abs(inv-r) < integerTolerance*math.Max(1, math.Abs(r)) && math.Abs(r) < 1<<53 {
		return Number{kind: kindInteger, integer: int64(r)}
	}
	return FormatNumber(inv)
}

// IsUndefined reports whether n is the placeholder.
func (n Number) IsUndefined() bool {
	return n.kind == kindUndefined
}

// Mantissa returns the mantissa digits of a scientific number.
func (n Number) Mantissa() string {
	return n.mantissa
}

// Exponent returns the base-10 exponent of a scientific number.
func (n Number) Exponent() int {
	return n.exponent
}

// String renders n as plain text, e.g. "3.333333×10^1" or "200000".
func (n Number) String() string {
	switch n.kind {
	case kindInteger:
		return strconv.FormatInt(n.integer, 10)
	case kindScientific:
		return fmt.Sprintf("%s×10^%d", n.mantissa, n.exponent)
	default:
		return Placeholder
	}
}

// LaTeX renders n as inline math, e.g. $-1.234567\times 10^{-3}$.
func (n Number) LaTeX() string {
	switch n.kind {
	case kindInteger:
		return "$" + strconv.FormatInt(n.integer, 10) + "$"
	case kindScientific:
		return fmt.Sprintf(`$%s\times 10^{%d}$`, n.mantissa, n.exponent)
	default:
		return Placeholder
	}
}

// HTML renders n with a superscript exponent.
func (n Number) HTML() string {
	switch n.kind {
	case kindInteger:
		return strconv.FormatInt(n.integer, 10)
	case kindScientific:
		return fmt.Sprintf("%s&times;10<sup>%d</sup>", n.mantissa, n.exponent)
	default:
		return Placeholder
	}
}
