package postgres

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/LerianStudio/ledger-engine/pkg/apperr"
)

// pgUniqueViolation, pgForeignKeyViolation and pgCheckViolation are the
// Postgres SQLSTATE codes this mapper distinguishes; every other code falls through to a generic
// Database error, mirroring services.ValidatePGError's default branch.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// translatePGError maps a raw storage error into this engine's sentinel
// vocabulary by constraint name, exactly as the teacher's
// internal/services/errors.go ValidatePGError switches on pgErr.ConstraintName.
// notFound is returned as-is when err is sql.ErrNoRows so callers can pass
// their own apperr.Err*NotFound sentinel.
func translatePGError(err error, entityType string, notFound error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		if notFound != nil {
			return notFound
		}

		return apperr.KeyNotFound(entityType, "not found")
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return apperr.Database(entityType, err)
	}

	switch pgErr.ConstraintName {
	case "vaults_owner_user_id_name_norm_key":
		return apperr.Wrap(apperr.KindExistingKey, entityType, "a vault with this name already exists for this owner", apperr.ErrVaultNameConflict)

	case "transactions_vault_id_created_by_idempotency_key_key":
		return apperr.Wrap(apperr.KindExistingKey, entityType, "a transaction with this idempotency key already exists", apperr.ErrIdempotencyConflict)

	case "categories_vault_id_name_norm_key":
		return apperr.Wrap(apperr.KindExistingKey, entityType, "category name already exists", apperr.ErrCategoryNameConflict)

	case "category_aliases_vault_id_alias_norm_key":
		return apperr.Wrap(apperr.KindExistingKey, entityType, "alias already exists", apperr.ErrAliasConflict)

	case "cash_flows_vault_id_system_kind_key":
		return apperr.Wrap(apperr.KindInvalidFlow, entityType, "vault already has a system flow", apperr.ErrDuplicateSystemFlow)

	case "wallets_vault_id_fkey", "cash_flows_vault_id_fkey", "transactions_vault_id_fkey",
		"vault_memberships_vault_id_fkey", "categories_vault_id_fkey":
		return apperr.KeyNotFound(entityType, "referenced vault does not exist")

	case "legs_transaction_id_fkey":
		return apperr.KeyNotFound(entityType, "referenced transaction does not exist")
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return apperr.ExistingKey(entityType, "a row with this key already exists")
	case pgForeignKeyViolation:
		return apperr.KeyNotFound(entityType, "referenced row does not exist")
	case pgCheckViolation:
		return apperr.InvalidAmount(entityType, "value violates a storage check constraint")
	default:
		return apperr.Database(entityType, pgErr)
	}
}
