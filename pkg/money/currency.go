// Package money implements the engine's monetary primitives: a closed
// Currency enumeration and integer-minor-unit Money, with deterministic
// parsing from major-unit decimal strings. Floating point is never used.
package money

import (
	"strings"

	"github.com/LerianStudio/ledger-engine/pkg/apperr"
)

// Currency is a closed enumeration of supported ISO-4217-like codes. Today
// only EUR is supported; the type exists so the model stays future-proof
// without ever falling back to floats or ad hoc scale fields.
type Currency string

// Supported currencies.
const (
	EUR Currency = "EUR"
)

// minorDigits maps a Currency to the number of fractional digits used when
// converting between major and minor units (EUR: cents, 2 digits).
var minorDigits = map[Currency]int32{
	EUR: 2,
}

// ParseCurrency validates a currency code against the closed enumeration.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if _, ok := minorDigits[c]; !ok {
		return "", apperr.ErrUnsupportedCurrency
	}

	return c, nil
}

// MinorDigits returns the number of fraction digits this currency uses.
func (c Currency) MinorDigits() int32 {
	return minorDigits[c]
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}
