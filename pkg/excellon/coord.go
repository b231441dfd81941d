package excellon

import (
	"math"
	"strconv"
	"strings"
)

// Default fixed-point layout assumed when a file carries no FILE_FORMAT directive
const (
	DefaultIntegerDigits = 2
	DefaultDecimalDigits = 4
)

// Format describes how numeric tokens in a drill file are encoded
type Format struct {
	IntegerDigits int
	DecimalDigits int
	Zeros         ZeroSuppression
	Unit          Unit
}

// DefaultFormat returns the 2:4 metric leading-zero layout used by Altium exports
func DefaultFormat() Format {
	return Format{
		IntegerDigits: DefaultIntegerDigits,
		DecimalDigits: DefaultDecimalDigits,
		Zeros:         LeadingZero,
		Unit:          Metric,
	}
}

// ToMM converts a value in the format's unit to millimeters
func (f Format) ToMM(v float64) float64 {
	if f.Unit == Inch {
		return v * InchToMM
	}
	return v
}

// Decode resolves a coordinate token to millimeters.
//
// Tokens with a literal decimal point are read as real numbers. Otherwise the digits
// are split according to the zero-suppression mode. Unparsable tokens decode to 0.
func (f Format) Decode(token string) float64 {
	token = strings.TrimSpace(token)

	if strings.Contains(token, ".") {
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return 0
		}
		return positiveZero(f.ToMM(v))
	}

	sign := 1.0
	if strings.HasPrefix(token, "-") {
		sign = -1.0
	}
	digits := strings.TrimLeft(token, "+-")

	var v float64
	if f.Zeros == LeadingZero {
		v = decodeLeading(digits, f.IntegerDigits)
	} else {
		v = decodeTrailing(digits, f.DecimalDigits)
	}

	return positiveZero(f.ToMM(sign * v))
}

// positiveZero maps -0 to 0 so emitted coordinates never read X-0.00000
func positiveZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}

// decodeLeading reads a digit string whose integer part is exactly width characters
func decodeLeading(digits string, width int) float64 {
	if width < 0 {
		width = 0
	}
	if len(digits) <= width {
		n, err := strconv.ParseUint(digits, 10, 64)
		if err != nil {
			return 0
		}
		return float64(n)
	}

	var whole float64
	if width > 0 {
		n, err := strconv.ParseUint(digits[:width], 10, 64)
		if err != nil {
			return 0
		}
		whole = float64(n)
	}

	rest := digits[width:]
	frac, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return 0
	}
	return whole + float64(frac)/math.Pow10(len(rest))
}

// decodeTrailing reads a digit string whose last places characters are the fraction
func decodeTrailing(digits string, places int) float64 {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return float64(n) / math.Pow10(places)
}
