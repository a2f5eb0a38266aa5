package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
)

const categoryColumns = `id, vault_id, name, name_norm, archived, is_system, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (*domain.Category, error) {
	c := &domain.Category{}

	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&c.ID, &c.VaultID, &c.Name, &c.NameNorm, &c.Archived, &c.IsSystem, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if createdAt.Valid {
		c.CreatedAt = createdAt.Time
	}

	if updatedAt.Valid {
		c.UpdatedAt = updatedAt.Time
	}

	return c, nil
}

// CategoryRepository is the Postgres ports.CategoryRepository.
type CategoryRepository struct {
	conn *Connection
}

// NewCategoryRepository builds a CategoryRepository over conn.
func NewCategoryRepository(conn *Connection) *CategoryRepository {
	return &CategoryRepository{conn: conn}
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return err
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO categories (id, vault_id, name, name_norm, archived, is_system, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())`,
		c.ID, c.VaultID, c.Name, c.NameNorm, c.Archived, c.IsSystem,
	)
	if err != nil {
		return translatePGError(err, "Category", nil)
	}

	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, vaultID, id uuid.UUID) (*domain.Category, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	row := ex.QueryRowContext(ctx, "SELECT "+categoryColumns+" FROM categories WHERE id = $1 AND vault_id = $2", id, vaultID)

	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrCategoryNotFound
		}

		return nil, translatePGError(err, "Category", apperr.ErrCategoryNotFound)
	}

	return c, nil
}

func (r *CategoryRepository) FindByNameNorm(ctx context.Context, vaultID uuid.UUID, nameNorm string) (*domain.Category, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	row := ex.QueryRowContext(ctx, "SELECT "+categoryColumns+" FROM categories WHERE vault_id = $1 AND name_norm = $2", vaultID, nameNorm)

	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrCategoryNotFound
		}

		return nil, translatePGError(err, "Category", apperr.ErrCategoryNotFound)
	}

	return c, nil
}

func (r *CategoryRepository) FindSystemCategory(ctx context.Context, vaultID uuid.UUID) (*domain.Category, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	row := ex.QueryRowContext(ctx, "SELECT "+categoryColumns+" FROM categories WHERE vault_id = $1 AND is_system = true", vaultID)

	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrCategoryNotFound
		}

		return nil, translatePGError(err, "Category", apperr.ErrCategoryNotFound)
	}

	return c, nil
}

func (r *CategoryRepository) ListByVault(ctx context.Context, vaultID uuid.UUID, includeArchived bool) ([]*domain.Category, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + categoryColumns + " FROM categories WHERE vault_id = $1"
	if !includeArchived {
		query += " AND archived = false"
	}

	query += " ORDER BY created_at ASC"

	rows, err := ex.QueryContext(ctx, query, vaultID)
	if err != nil {
		return nil, translatePGError(err, "Category", nil)
	}
	defer rows.Close()

	var out []*domain.Category

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, translatePGError(err, "Category", nil)
		}

		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, translatePGError(err, "Category", nil)
	}

	return out, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return err
	}

	result, err := ex.ExecContext(ctx, `
		UPDATE categories SET name = $1, name_norm = $2, archived = $3, updated_at = now()
		WHERE id = $4 AND vault_id = $5`,
		c.Name, c.NameNorm, c.Archived, c.ID, c.VaultID,
	)
	if err != nil {
		return translatePGError(err, "Category", nil)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return apperr.ErrCategoryNotFound
	}

	return nil
}

func (r *CategoryRepository) ReassignTransactions(ctx context.Context, vaultID, fromCategoryID, toCategoryID uuid.UUID) error {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return err
	}

	_, err = ex.ExecContext(ctx, `
		UPDATE transactions SET category_id = $1, updated_at = now()
		WHERE vault_id = $2 AND category_id = $3`,
		toCategoryID, vaultID, fromCategoryID,
	)
	if err != nil {
		return translatePGError(err, "Category", nil)
	}

	return nil
}
