package apperr

import "errors"

// Translate maps a sentinel raised by the domain or storage layer to the
// typed *Error a caller should see, attaching entityType and a human
// message. Mirrors the teacher's ValidateBusinessError switch: one case per
// sentinel, each producing the appropriate Kind.
//
//nolint:gocyclo
func Translate(err error, entityType string) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrVaultNotFound):
		return KeyNotFound(entityType, "no vault exists for the given id or name")
	case errors.Is(err, ErrWalletNotFound):
		return KeyNotFound(entityType, "no wallet exists for the given id")
	case errors.Is(err, ErrFlowNotFound):
		return KeyNotFound(entityType, "no cash flow exists for the given id")
	case errors.Is(err, ErrTransactionNotFound):
		return KeyNotFound(entityType, "no transaction exists for the given id")
	case errors.Is(err, ErrCategoryNotFound):
		return KeyNotFound(entityType, "no category exists for the given id")
	case errors.Is(err, ErrMembershipNotFound):
		return KeyNotFound(entityType, "no membership exists for the given user")
	case errors.Is(err, ErrVaultNameConflict):
		return ExistingKey(entityType, "a vault with this name already exists for this owner")
	case errors.Is(err, ErrCategoryNameConflict):
		return ExistingKey(entityType, "a category with this name already exists in the vault")
	case errors.Is(err, ErrAliasConflict):
		return ExistingKey(entityType, "this alias is already in use in the vault")
	case errors.Is(err, ErrIdempotencyConflict):
		return ExistingKey(entityType, "a transaction with this idempotency key already exists")
	case errors.Is(err, ErrNotAuthorized), errors.Is(err, ErrCrossVault):
		return Forbidden(entityType, "the caller does not have the required role for this operation")
	case errors.Is(err, ErrArchivedTarget):
		return InvalidAmount(entityType, "the target is archived and cannot receive new activity")
	case errors.Is(err, ErrCurrencyMismatch):
		return CurrencyMismatch(entityType, "stored currency does not match the vault currency")
	case errors.Is(err, ErrNonPositiveAmount):
		return InvalidAmount(entityType, "amount must be greater than zero")
	case errors.Is(err, ErrSameSourceDestination):
		return InvalidAmount(entityType, "source and destination must differ")
	case errors.Is(err, ErrAlreadyVoided):
		return InvalidAmount(entityType, "transaction is already voided")
	case errors.Is(err, ErrInvalidIdempotencyKey):
		return InvalidAmount(entityType, "idempotency key must not be blank")
	case errors.Is(err, ErrCapNotPositive):
		return InvalidFlow(entityType, "cap must be greater than zero when set")
	case errors.Is(err, ErrIncomeBalanceNoCap):
		return InvalidFlow(entityType, "income-capped mode requires a cap")
	case errors.Is(err, ErrIncomeBalanceRange):
		return InvalidFlow(entityType, "income balance must be between 0 and the cap")
	case errors.Is(err, ErrSystemFlowImmutable):
		return InvalidFlow(entityType, "the system flow cannot be renamed, archived, or removed")
	case errors.Is(err, ErrDuplicateSystemFlow):
		return InvalidFlow(entityType, "vault already has a system flow")
	case errors.Is(err, ErrCategoryTooSimilar):
		return InvalidName(entityType, "too similar to an existing category; confirm by using the existing name")
	case errors.Is(err, ErrRefundedTxWrongVault):
		return InvalidAmount(entityType, "the refunded transaction does not belong to this vault")
	case errors.Is(err, ErrRefundedTxVoided):
		return InvalidAmount(entityType, "cannot refund a voided transaction")
	case errors.Is(err, ErrOwnerRoleImmutable):
		return InvalidAmount(entityType, "the vault owner role cannot be removed or demoted")
	case errors.Is(err, ErrMalformedMoney):
		return InvalidAmount(entityType, "amount could not be parsed")
	case errors.Is(err, ErrUnsupportedCurrency):
		return CurrencyMismatch(entityType, "unsupported currency code")
	default:
		return Database(entityType, err)
	}
}
