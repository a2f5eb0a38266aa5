package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
	"github.com/LerianStudio/ledger-engine/pkg/money"
)

// VaultModel is the row shape of the vaults table; NameNorm backs the
// owner-scoped uniqueness constraint and is derived, never set directly by a
// caller.
type VaultModel struct {
	ID          uuid.UUID
	Name        string
	NameNorm    string
	OwnerUserID uuid.UUID
	Currency    string
	CreatedAt   sql.NullTime
	UpdatedAt   sql.NullTime
}

func vaultFromEntity(v *domain.Vault) *VaultModel {
	return &VaultModel{
		ID:          v.ID,
		Name:        v.Name,
		NameNorm:    domain.NormalizeCategoryKey(v.Name),
		OwnerUserID: v.OwnerUserID,
		Currency:    string(v.Currency),
	}
}

func (m *VaultModel) toEntity() *domain.Vault {
	v := &domain.Vault{
		ID:          m.ID,
		Name:        m.Name,
		OwnerUserID: m.OwnerUserID,
		Currency:    money.Currency(m.Currency),
	}

	if m.CreatedAt.Valid {
		v.CreatedAt = m.CreatedAt.Time
	}

	if m.UpdatedAt.Valid {
		v.UpdatedAt = m.UpdatedAt.Time
	}

	return v
}

// VaultRepository is the Postgres ports.VaultRepository.
type VaultRepository struct {
	conn *Connection
}

// NewVaultRepository builds a VaultRepository over conn.
func NewVaultRepository(conn *Connection) *VaultRepository {
	return &VaultRepository{conn: conn}
}

func (r *VaultRepository) Create(ctx context.Context, v *domain.Vault) error {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return err
	}

	record := vaultFromEntity(v)

	_, err = ex.ExecContext(ctx, `
		INSERT INTO vaults (id, name, name_norm, owner_user_id, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())`,
		record.ID, record.Name, record.NameNorm, record.OwnerUserID, record.Currency,
	)
	if err != nil {
		return translatePGError(err, "Vault", nil)
	}

	return nil
}

func (r *VaultRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Vault, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	m := &VaultModel{}

	row := ex.QueryRowContext(ctx, `
		SELECT id, name, name_norm, owner_user_id, currency, created_at, updated_at
		FROM vaults WHERE id = $1`, id)

	if err := row.Scan(&m.ID, &m.Name, &m.NameNorm, &m.OwnerUserID, &m.Currency, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrVaultNotFound
		}

		return nil, translatePGError(err, "Vault", apperr.ErrVaultNotFound)
	}

	return m.toEntity(), nil
}

func (r *VaultRepository) FindByOwnerAndName(ctx context.Context, ownerUserID uuid.UUID, name string) (*domain.Vault, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	m := &VaultModel{}
	nameNorm := domain.NormalizeCategoryKey(name)

	row := ex.QueryRowContext(ctx, `
		SELECT id, name, name_norm, owner_user_id, currency, created_at, updated_at
		FROM vaults WHERE owner_user_id = $1 AND name_norm = $2`, ownerUserID, nameNorm)

	if err := row.Scan(&m.ID, &m.Name, &m.NameNorm, &m.OwnerUserID, &m.Currency, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrVaultNotFound
		}

		return nil, translatePGError(err, "Vault", apperr.ErrVaultNotFound)
	}

	return m.toEntity(), nil
}
