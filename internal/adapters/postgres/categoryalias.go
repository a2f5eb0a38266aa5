package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
)

const categoryAliasColumns = `id, vault_id, category_id, alias, alias_norm, created_at`

func scanCategoryAlias(row interface{ Scan(...any) error }) (*domain.CategoryAlias, error) {
	a := &domain.CategoryAlias{}

	var createdAt sql.NullTime

	if err := row.Scan(&a.ID, &a.VaultID, &a.CategoryID, &a.Alias, &a.AliasNorm, &createdAt); err != nil {
		return nil, err
	}

	if createdAt.Valid {
		a.CreatedAt = createdAt.Time
	}

	return a, nil
}

// CategoryAliasRepository is the Postgres ports.CategoryAliasRepository.
type CategoryAliasRepository struct {
	conn *Connection
}

// NewCategoryAliasRepository builds a CategoryAliasRepository over conn.
func NewCategoryAliasRepository(conn *Connection) *CategoryAliasRepository {
	return &CategoryAliasRepository{conn: conn}
}

func (r *CategoryAliasRepository) Create(ctx context.Context, a *domain.CategoryAlias) error {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return err
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO category_aliases (id, vault_id, category_id, alias, alias_norm, created_at)
		VALUES ($1, $2, $3, $4, $5, now())`,
		a.ID, a.VaultID, a.CategoryID, a.Alias, a.AliasNorm,
	)
	if err != nil {
		return translatePGError(err, "CategoryAlias", nil)
	}

	return nil
}

func (r *CategoryAliasRepository) Delete(ctx context.Context, vaultID, id uuid.UUID) error {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return err
	}

	if _, err := ex.ExecContext(ctx, "DELETE FROM category_aliases WHERE id = $1 AND vault_id = $2", id, vaultID); err != nil {
		return translatePGError(err, "CategoryAlias", nil)
	}

	return nil
}

// FindByAliasNorm returns apperr.ErrCategoryNotFound on a miss, reusing the
// category not-found sentinel rather than a distinct alias one, matching the
// command layer's errors.Is checks against the shared sentinel.
func (r *CategoryAliasRepository) FindByAliasNorm(ctx context.Context, vaultID uuid.UUID, aliasNorm string) (*domain.CategoryAlias, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	row := ex.QueryRowContext(ctx, "SELECT "+categoryAliasColumns+" FROM category_aliases WHERE vault_id = $1 AND alias_norm = $2", vaultID, aliasNorm)

	a, err := scanCategoryAlias(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrCategoryNotFound
		}

		return nil, translatePGError(err, "CategoryAlias", apperr.ErrCategoryNotFound)
	}

	return a, nil
}

func (r *CategoryAliasRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.CategoryAlias, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	rows, err := ex.QueryContext(ctx, "SELECT "+categoryAliasColumns+" FROM category_aliases WHERE category_id = $1", categoryID)
	if err != nil {
		return nil, translatePGError(err, "CategoryAlias", nil)
	}
	defer rows.Close()

	var out []*domain.CategoryAlias

	for rows.Next() {
		a, err := scanCategoryAlias(rows)
		if err != nil {
			return nil, translatePGError(err, "CategoryAlias", nil)
		}

		out = append(out, a)
	}

	if err := rows.Err(); err != nil {
		return nil, translatePGError(err, "CategoryAlias", nil)
	}

	return out, nil
}

func (r *CategoryAliasRepository) ListByVault(ctx context.Context, vaultID uuid.UUID) ([]*domain.CategoryAlias, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	rows, err := ex.QueryContext(ctx, "SELECT "+categoryAliasColumns+" FROM category_aliases WHERE vault_id = $1", vaultID)
	if err != nil {
		return nil, translatePGError(err, "CategoryAlias", nil)
	}
	defer rows.Close()

	var out []*domain.CategoryAlias

	for rows.Next() {
		a, err := scanCategoryAlias(rows)
		if err != nil {
			return nil, translatePGError(err, "CategoryAlias", nil)
		}

		out = append(out, a)
	}

	if err := rows.Err(); err != nil {
		return nil, translatePGError(err, "CategoryAlias", nil)
	}

	return out, nil
}

func (r *CategoryAliasRepository) Reassign(ctx context.Context, aliasID, toCategoryID uuid.UUID) error {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return err
	}

	result, err := ex.ExecContext(ctx, "UPDATE category_aliases SET category_id = $1 WHERE id = $2", toCategoryID, aliasID)
	if err != nil {
		return translatePGError(err, "CategoryAlias", nil)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return apperr.ErrCategoryNotFound
	}

	return nil
}
