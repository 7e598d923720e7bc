// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

import (
	"math"
	"strconv"
	"strings"
)

// Decimalizer decomposes a float64 into the tuple (negative, mantissa,
// exponent) such that
//
//	v = (negative ? -1 : 1) * mantissa * 10^(-exponent)
//
// This tuple is the actual wire primitive Bytes.AppendDouble/AppendFloat
// write: the caller renders mantissa's digits left-to-right, inserts a '.'
// exponent digits from the right (left-zero-padding first if exponent is at
// least the digit count), and prepends '-' if negative. Three strategies are
// provided: Lite is the fast common case, Big falls back to the shortest
// round-tripping decimal decomposition when Lite's exponent search fails,
// and Instance is what callers should normally use (Lite first, Big on
// overflow).
type Decimalizer interface {
	Decimalize(v float64) (negative bool, mantissa int64, exponent int, err error)
}

// maxLiteExponent bounds the exponents LiteDecimalizer will try.
const maxLiteExponent = 18

// LiteDecimalizer tries each exponent from 0 up to maxLiteExponent in turn,
// scaling v by 10^exponent and rounding to the nearest int64; it accepts the
// first exponent whose mantissa divides back to exactly v. This is exact for
// the overwhelming majority of real-world prices, quantities and
// measurements; it returns ErrUnsupported when no exponent in range
// round-trips exactly, so callers needing a guaranteed result should use
// InstanceDecimalizer instead.
type LiteDecimalizer struct{}

func (LiteDecimalizer) Decimalize(v float64) (bool, int64, int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false, 0, 0, &ErrInvalidArgument{Where: "LiteDecimalizer.Decimalize", Value: v}
	}
	if v == 0 {
		return false, 0, 0, nil
	}
	neg := math.Signbit(v)
	av := math.Abs(v)
	for exp := 0; exp <= maxLiteExponent; exp++ {
		scale := math.Pow10(exp)
		scaled := av * scale
		if scaled > math.MaxInt64 {
			break
		}
		mantissa := int64(math.Round(scaled))
		if float64(mantissa)/scale == av {
			return neg, mantissa, exp, nil
		}
	}
	return false, 0, 0, &ErrUnsupported{Where: "LiteDecimalizer.Decimalize: no exact exponent in [0,18]"}
}

// bigDecimalMaxDigits caps the significant digits BigDecimalDecimalizer will
// accept; beyond this the shortest decimal representation no longer fits in
// an int64 mantissa.
const bigDecimalMaxDigits = 18

// BigDecimalDecimalizer decomposes v via its shortest round-tripping decimal
// string (the same minimal digit sequence strconv's shortest-float
// formatting computes), rather than the exact, often enormous binary-to-
// decimal expansion a literal big.Float/big.Rat conversion would produce for
// a value like 0.1. No third-party arbitrary-precision decimal library
// appears anywhere in the retrieval pack, so this strategy is necessarily
// built on the standard library (see DESIGN.md). It returns ErrUnsupported
// for a non-zero |v| outside [1e-29, 1e45], and if the shortest
// representation needs more than bigDecimalMaxDigits significant digits.
type BigDecimalDecimalizer struct{}

func (BigDecimalDecimalizer) Decimalize(v float64) (bool, int64, int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false, 0, 0, &ErrInvalidArgument{Where: "BigDecimalDecimalizer.Decimalize", Value: v}
	}
	if v == 0 {
		return false, 0, 0, nil
	}
	neg := math.Signbit(v)
	av := math.Abs(v)
	if av < 1e-29 || av > 1e45 {
		return false, 0, 0, &ErrUnsupported{Where: "BigDecimalDecimalizer.Decimalize: magnitude outside [1e-29, 1e45]"}
	}

	s := strconv.FormatFloat(av, 'e', -1, 64)
	digits, sciExp, err := splitScientific(s)
	if err != nil {
		return false, 0, 0, err
	}
	if len(digits) > bigDecimalMaxDigits {
		return false, 0, 0, &ErrUnsupported{Where: "BigDecimalDecimalizer.Decimalize: mantissa exceeds int64 precision"}
	}
	exponent := len(digits) - 1 - sciExp
	mantissa, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return false, 0, 0, &ErrUnsupported{Where: "BigDecimalDecimalizer.Decimalize: mantissa overflow"}
	}
	return neg, mantissa, exponent, nil
}

// splitScientific parses strconv's 'e'-format shortest round-trip output
// ("1.2345e+03") into its significant digits ("12345") and the base-10
// exponent of the leading digit (3).
func splitScientific(s string) (digits string, sciExp int, err error) {
	eIdx := strings.IndexByte(s, 'e')
	if eIdx < 0 {
		return "", 0, &ErrInvalidArgument{Where: "splitScientific", Value: s}
	}
	sciExp, err = strconv.Atoi(s[eIdx+1:])
	if err != nil {
		return "", 0, &ErrInvalidArgument{Where: "splitScientific exponent", Value: s}
	}
	digits = strings.Replace(s[:eIdx], ".", "", 1)
	return digits, sciExp, nil
}

// InstanceDecimalizer is the default strategy: try LiteDecimalizer first,
// and only pay for BigDecimalDecimalizer's allocation when Lite can't
// represent the value.
type InstanceDecimalizer struct{}

func (InstanceDecimalizer) Decimalize(v float64) (bool, int64, int, error) {
	neg, mantissa, exponent, err := (LiteDecimalizer{}).Decimalize(v)
	if err == nil {
		return neg, mantissa, exponent, nil
	}
	var unsupported *ErrUnsupported
	if !isUnsupported(err, &unsupported) {
		return false, 0, 0, err
	}
	return (BigDecimalDecimalizer{}).Decimalize(v)
}

func isUnsupported(err error, target **ErrUnsupported) bool {
	u, ok := err.(*ErrUnsupported)
	if ok {
		*target = u
	}
	return ok
}

// DefaultDecimalizer is the package-level instance most callers should use.
var DefaultDecimalizer Decimalizer = InstanceDecimalizer{}

// formatDecimalTuple renders a Decimalizer tuple as the text Bytes.AppendDouble
// and Bytes.AppendFloat write: digits left-to-right, '.' inserted exponent
// digits from the right, left-zero-padded if exponent is at least the digit
// count, and a leading '-' if negative. A negative exponent (BigDecimal's
// representation of a large integral magnitude) instead appends -exponent
// trailing zeros with no decimal point.
func formatDecimalTuple(negative bool, mantissa int64, exponent int) string {
	digits := strconv.FormatInt(mantissa, 10)
	var out string
	switch {
	case exponent < 0:
		out = digits + strings.Repeat("0", -exponent)
	case exponent == 0:
		out = digits
	default:
		for len(digits) <= exponent {
			digits = "0" + digits
		}
		intPart := digits[:len(digits)-exponent]
		fracPart := digits[len(digits)-exponent:]
		out = intPart + "." + fracPart
	}
	if negative {
		out = "-" + out
	}
	return out
}
