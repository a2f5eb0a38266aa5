package apperr

import (
	"errors"
	"fmt"
)

// Error is the engine's single typed error. A command returns either an
// *Error or a bare sentinel from below; KindOf gives callers a Kind for
// both, so they can branch without string matching.
type Error struct {
	Kind       Kind
	EntityType string
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.EntityType != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.EntityType, e.Message)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap lets errors.Is/errors.As see through to the underlying sentinel or
// database error.
func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an *Error of the given kind.
func New(kind Kind, entityType, message string) *Error {
	return &Error{Kind: kind, EntityType: entityType, Message: message}
}

// Wrap builds an *Error of the given kind around an underlying cause.
func Wrap(kind Kind, entityType, message string, err error) *Error {
	return &Error{Kind: kind, EntityType: entityType, Message: message, Err: err}
}

// KindOf returns the Kind carried by err. If err is a raw sentinel that
// never went through Translate, it is translated on the fly so callers can
// still branch on Kind; anything left over is an opaque infrastructure
// failure and is reported as KindDatabase.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	if translated := Translate(err, ""); translated != nil {
		if te, ok := translated.(*Error); ok {
			return te.Kind
		}
	}

	return KindDatabase
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Forbidden, KeyNotFound, ... are convenience constructors used throughout
// the command layer and the storage adapters, mirroring the terse call sites in the
// teacher's ValidateBusinessError switch.

func Forbidden(entityType, message string) *Error {
	return New(KindForbidden, entityType, message)
}

func KeyNotFound(entityType, message string) *Error {
	return New(KindKeyNotFound, entityType, message)
}

func ExistingKey(entityType, message string) *Error {
	return New(KindExistingKey, entityType, message)
}

func InvalidID(entityType, message string) *Error {
	return New(KindInvalidID, entityType, message)
}

func InvalidAmount(entityType, message string) *Error {
	return New(KindInvalidAmount, entityType, message)
}

func InvalidFlow(entityType, message string) *Error {
	return New(KindInvalidFlow, entityType, message)
}

func InvalidName(entityType, message string) *Error {
	return New(KindInvalidName, entityType, message)
}

func CurrencyMismatch(entityType, message string) *Error {
	return New(KindCurrencyMismatch, entityType, message)
}

func MaxBalanceReached(entityType, message string) *Error {
	return New(KindMaxBalanceReached, entityType, message)
}

// Database wraps an opaque infrastructure failure. The message returned to
// callers is always generic; the real cause is logged, never echoed.
func Database(entityType string, err error) *Error {
	return Wrap(KindDatabase, entityType, "an internal error occurred, please try again later", err)
}

// sentinel errors raised internally by domain/storage code. Some call sites
// wrap one in a typed *Error; a bare one is mapped to its Kind by Translate
// (or KindOf).
// Mirrors common/constant/errors.go's pattern of errors.New sentinels tested
// with errors.Is.
var (
	ErrVaultNotFound          = errors.New("vault not found")
	ErrWalletNotFound         = errors.New("wallet not found")
	ErrFlowNotFound           = errors.New("cash flow not found")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrCategoryNotFound       = errors.New("category not found")
	ErrMembershipNotFound     = errors.New("membership not found")
	ErrVaultNameConflict      = errors.New("a vault with this name already exists for this owner")
	ErrCategoryNameConflict   = errors.New("category name already exists")
	ErrAliasConflict          = errors.New("alias already exists")
	ErrIdempotencyConflict    = errors.New("a transaction with this idempotency key already exists")
	ErrNotAuthorized          = errors.New("caller lacks the required role")
	ErrCrossVault             = errors.New("entities belong to different vaults")
	ErrArchivedTarget         = errors.New("target is archived")
	ErrCurrencyMismatch       = errors.New("currency does not match vault currency")
	ErrNonPositiveAmount      = errors.New("amount must be greater than zero")
	ErrSameSourceDestination  = errors.New("source and destination must differ")
	ErrAlreadyVoided          = errors.New("transaction already voided")
	ErrInvalidIdempotencyKey  = errors.New("idempotency key must not be blank")
	ErrCapNotPositive         = errors.New("cap must be greater than zero when set")
	ErrIncomeBalanceNoCap     = errors.New("income balance requires a cap")
	ErrIncomeBalanceRange     = errors.New("income balance must be between 0 and the cap")
	ErrSystemFlowImmutable    = errors.New("the system flow cannot be renamed, archived, or removed")
	ErrDuplicateSystemFlow    = errors.New("vault already has a system flow")
	ErrCategoryTooSimilar     = errors.New("category name is too similar to an existing category")
	ErrRefundedTxWrongVault   = errors.New("refunded transaction belongs to a different vault")
	ErrRefundedTxVoided       = errors.New("refunded transaction is voided")
	ErrOwnerRoleImmutable     = errors.New("the vault owner role cannot be removed or demoted")
	ErrMalformedMoney         = errors.New("malformed monetary amount")
	ErrUnsupportedCurrency    = errors.New("unsupported currency")
)
