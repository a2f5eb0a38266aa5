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

// WalletModel is the row shape of the wallets table.
type WalletModel struct {
	ID           uuid.UUID
	VaultID      uuid.UUID
	Name         string
	BalanceMinor int64
	Currency     string
	Archived     bool
	CreatedAt    sql.NullTime
	UpdatedAt    sql.NullTime
}

func walletFromEntity(w *domain.Wallet) *WalletModel {
	return &WalletModel{
		ID:           w.ID,
		VaultID:      w.VaultID,
		Name:         w.Name,
		BalanceMinor: int64(w.BalanceMinor),
		Currency:     string(w.Currency),
		Archived:     w.Archived,
	}
}

func (m *WalletModel) toEntity() *domain.Wallet {
	w := &domain.Wallet{
		ID:           m.ID,
		VaultID:      m.VaultID,
		Name:         m.Name,
		BalanceMinor: money.Minor(m.BalanceMinor),
		Currency:     money.Currency(m.Currency),
		Archived:     m.Archived,
	}

	if m.CreatedAt.Valid {
		w.CreatedAt = m.CreatedAt.Time
	}

	if m.UpdatedAt.Valid {
		w.UpdatedAt = m.UpdatedAt.Time
	}

	return w
}

const walletColumns = `id, vault_id, name, balance_minor, currency, archived, created_at, updated_at`

func scanWallet(row interface{ Scan(...any) error }) (*domain.Wallet, error) {
	m := &WalletModel{}
	if err := row.Scan(&m.ID, &m.VaultID, &m.Name, &m.BalanceMinor, &m.Currency, &m.Archived, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}

	return m.toEntity(), nil
}

// WalletRepository is the Postgres ports.WalletRepository.
type WalletRepository struct {
	conn *Connection
}

// NewWalletRepository builds a WalletRepository over conn.
func NewWalletRepository(conn *Connection) *WalletRepository {
	return &WalletRepository{conn: conn}
}

func (r *WalletRepository) Create(ctx context.Context, w *domain.Wallet) error {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return err
	}

	record := walletFromEntity(w)

	_, err = ex.ExecContext(ctx, `
		INSERT INTO wallets (id, vault_id, name, balance_minor, currency, archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())`,
		record.ID, record.VaultID, record.Name, record.BalanceMinor, record.Currency, record.Archived,
	)
	if err != nil {
		return translatePGError(err, "Wallet", nil)
	}

	return nil
}

func (r *WalletRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	row := ex.QueryRowContext(ctx, "SELECT "+walletColumns+" FROM wallets WHERE id = $1", id)

	w, err := scanWallet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrWalletNotFound
		}

		return nil, translatePGError(err, "Wallet", apperr.ErrWalletNotFound)
	}

	return w, nil
}

func (r *WalletRepository) ListByVault(ctx context.Context, vaultID uuid.UUID) ([]*domain.Wallet, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	rows, err := ex.QueryContext(ctx, "SELECT "+walletColumns+" FROM wallets WHERE vault_id = $1 ORDER BY created_at ASC", vaultID)
	if err != nil {
		return nil, translatePGError(err, "Wallet", nil)
	}
	defer rows.Close()

	var wallets []*domain.Wallet

	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, translatePGError(err, "Wallet", nil)
		}

		wallets = append(wallets, w)
	}

	if err := rows.Err(); err != nil {
		return nil, translatePGError(err, "Wallet", nil)
	}

	return wallets, nil
}

func (r *WalletRepository) Update(ctx context.Context, w *domain.Wallet) error {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return err
	}

	record := walletFromEntity(w)

	result, err := ex.ExecContext(ctx, `
		UPDATE wallets SET name = $1, balance_minor = $2, archived = $3, updated_at = now()
		WHERE id = $4`,
		record.Name, record.BalanceMinor, record.Archived, record.ID,
	)
	if err != nil {
		return translatePGError(err, "Wallet", nil)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return apperr.ErrWalletNotFound
	}

	return nil
}
