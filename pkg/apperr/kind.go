// Package apperr defines the engine's error taxonomy: a small set of typed
// errors, each mapped to a single stable machine-readable kind, plus the
// sentinel values commands raise and a translator that turns a sentinel
// into the typed error a caller can branch on.
package apperr

// Kind is the stable, machine-readable error code surfaced to callers.
type Kind string

// The error kinds the engine can return. Every non-Database error reaching
// a caller carries one of these.
const (
	KindForbidden         Kind = "forbidden"
	KindKeyNotFound       Kind = "key_not_found"
	KindExistingKey       Kind = "existing_key"
	KindInvalidID         Kind = "invalid_id"
	KindInvalidAmount     Kind = "invalid_amount"
	KindInvalidFlow       Kind = "invalid_flow"
	KindInvalidName       Kind = "invalid_name"
	KindCurrencyMismatch  Kind = "currency_mismatch"
	KindMaxBalanceReached Kind = "max_balance_reached"
	KindInsufficientFunds Kind = "insufficient_funds"
	KindDatabase          Kind = "database"
)
