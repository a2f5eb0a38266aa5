package apperr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LerianStudio/ledger-engine/pkg/apperr"
)

func TestKindOf_TypedError(t *testing.T) {
	t.Parallel()

	err := apperr.Forbidden("Vault", "nope")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestKindOf_RawSentinelTranslatedOnTheFly(t *testing.T) {
	t.Parallel()

	assert.Equal(t, apperr.KindKeyNotFound, apperr.KindOf(apperr.ErrVaultNotFound))
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(apperr.ErrNotAuthorized))
	assert.Equal(t, apperr.KindExistingKey, apperr.KindOf(apperr.ErrCategoryNameConflict))
}

func TestKindOf_OpaqueErrorIsDatabase(t *testing.T) {
	t.Parallel()

	assert.Equal(t, apperr.KindDatabase, apperr.KindOf(errors.New("boom")))
}

func TestWrap_UnwrapsToSentinel(t *testing.T) {
	t.Parallel()

	err := apperr.Wrap(apperr.KindInvalidAmount, "Transaction", "already voided", apperr.ErrAlreadyVoided)
	assert.True(t, errors.Is(err, apperr.ErrAlreadyVoided))
	assert.Equal(t, apperr.KindInvalidAmount, apperr.KindOf(err))
}

func TestTranslate_NilIsNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, apperr.Translate(nil, "Vault"))
}

func TestTranslate_PassesThroughTypedError(t *testing.T) {
	t.Parallel()

	original := apperr.MaxBalanceReached("CashFlow", "too much")
	translated := apperr.Translate(original, "CashFlow")
	assert.Same(t, original, translated)
}

func TestDatabase_WrapsOpaqueCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := apperr.Database("Wallet", cause)
	assert.Equal(t, apperr.KindDatabase, apperr.KindOf(err))
	assert.True(t, errors.Is(err, cause))
}

func TestIs(t *testing.T) {
	t.Parallel()

	err := apperr.InvalidName("Category", "bad")
	assert.True(t, apperr.Is(err, apperr.KindInvalidName))
	assert.False(t, apperr.Is(err, apperr.KindForbidden))
}
