package money

import (
	"math"
	"math/big"

	"github.com/LerianStudio/ledger-engine/pkg/apperr"
	"github.com/shopspring/decimal"
)

var (
	minInt64Big = big.NewInt(math.MinInt64)
	maxInt64Big = big.NewInt(math.MaxInt64)
)

// Minor is a signed amount of money expressed in integer minor units (e.g.
// EUR cents). The engine never represents money as a float; every balance,
// leg amount, and cap is a Minor value.
type Minor int64

// ParseMajor parses a major-unit decimal string (e.g. "12.34") into minor
// units for the given currency. Parsing is deterministic and bounded: a
// value with more fraction digits than the currency allows, or one that
// overflows int64 minor units, fails validation rather than silently
// rounding or losing precision.
func ParseMajor(input string, currency Currency) (Minor, error) {
	digits := currency.MinorDigits()

	dec, err := decimal.NewFromString(input)
	if err != nil {
		return 0, apperr.ErrMalformedMoney
	}

	if dec.Exponent() < -digits {
		return 0, apperr.ErrMalformedMoney
	}

	scaled := dec.Shift(digits)
	if !scaled.IsInteger() {
		return 0, apperr.ErrMalformedMoney
	}

	asBig := scaled.BigInt()
	if asBig.Cmp(minInt64Big) < 0 || asBig.Cmp(maxInt64Big) > 0 {
		return 0, apperr.ErrMalformedMoney
	}

	return Minor(asBig.Int64()), nil
}

// FormatMajor renders minor units back to a major-unit decimal string, e.g.
// Minor(1234).FormatMajor(EUR) == "12.34".
func (m Minor) FormatMajor(currency Currency) string {
	digits := currency.MinorDigits()
	dec := decimal.NewFromInt(int64(m)).Shift(-digits)

	return dec.StringFixed(digits)
}

// Neg returns the negated amount.
func (m Minor) Neg() Minor {
	return -m
}

// Abs returns the absolute value.
func (m Minor) Abs() Minor {
	if m < 0 {
		return -m
	}

	return m
}
