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

// CashFlowModel is the row shape of the cash_flows table. MaxBalanceMinor and
// IncomeBalanceMinor are nullable columns that back CashFlow.Mode().
type CashFlowModel struct {
	ID                 uuid.UUID
	VaultID            uuid.UUID
	Name               string
	BalanceMinor       int64
	MaxBalanceMinor    sql.NullInt64
	IncomeBalanceMinor sql.NullInt64
	Currency           string
	Archived           bool
	SystemKind         sql.NullString
	CreatedAt          sql.NullTime
	UpdatedAt          sql.NullTime
}

func cashFlowFromEntity(f *domain.CashFlow) *CashFlowModel {
	m := &CashFlowModel{
		ID:           f.ID,
		VaultID:      f.VaultID,
		Name:         f.Name,
		BalanceMinor: int64(f.BalanceMinor),
		Currency:     string(f.Currency),
		Archived:     f.Archived,
	}

	if f.MaxBalanceMinor != nil {
		m.MaxBalanceMinor = sql.NullInt64{Int64: int64(*f.MaxBalanceMinor), Valid: true}
	}

	if f.IncomeBalanceMinor != nil {
		m.IncomeBalanceMinor = sql.NullInt64{Int64: int64(*f.IncomeBalanceMinor), Valid: true}
	}

	if f.SystemKind != domain.SystemKindNone {
		m.SystemKind = sql.NullString{String: string(f.SystemKind), Valid: true}
	}

	return m
}

func (m *CashFlowModel) toEntity() *domain.CashFlow {
	f := &domain.CashFlow{
		ID:           m.ID,
		VaultID:      m.VaultID,
		Name:         m.Name,
		BalanceMinor: money.Minor(m.BalanceMinor),
		Currency:     money.Currency(m.Currency),
		Archived:     m.Archived,
	}

	if m.MaxBalanceMinor.Valid {
		v := money.Minor(m.MaxBalanceMinor.Int64)
		f.MaxBalanceMinor = &v
	}

	if m.IncomeBalanceMinor.Valid {
		v := money.Minor(m.IncomeBalanceMinor.Int64)
		f.IncomeBalanceMinor = &v
	}

	if m.SystemKind.Valid {
		f.SystemKind = domain.SystemKind(m.SystemKind.String)
	}

	if m.CreatedAt.Valid {
		f.CreatedAt = m.CreatedAt.Time
	}

	if m.UpdatedAt.Valid {
		f.UpdatedAt = m.UpdatedAt.Time
	}

	return f
}

const cashFlowColumns = `id, vault_id, name, balance_minor, max_balance_minor, income_balance_minor, currency, archived, system_kind, created_at, updated_at`

func scanCashFlow(row interface{ Scan(...any) error }) (*domain.CashFlow, error) {
	m := &CashFlowModel{}
	if err := row.Scan(&m.ID, &m.VaultID, &m.Name, &m.BalanceMinor, &m.MaxBalanceMinor, &m.IncomeBalanceMinor,
		&m.Currency, &m.Archived, &m.SystemKind, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}

	return m.toEntity(), nil
}

// CashFlowRepository is the Postgres ports.CashFlowRepository.
type CashFlowRepository struct {
	conn *Connection
}

// NewCashFlowRepository builds a CashFlowRepository over conn.
func NewCashFlowRepository(conn *Connection) *CashFlowRepository {
	return &CashFlowRepository{conn: conn}
}

func (r *CashFlowRepository) Create(ctx context.Context, f *domain.CashFlow) error {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return err
	}

	record := cashFlowFromEntity(f)

	_, err = ex.ExecContext(ctx, `
		INSERT INTO cash_flows (id, vault_id, name, balance_minor, max_balance_minor, income_balance_minor, currency, archived, system_kind, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())`,
		record.ID, record.VaultID, record.Name, record.BalanceMinor, record.MaxBalanceMinor,
		record.IncomeBalanceMinor, record.Currency, record.Archived, record.SystemKind,
	)
	if err != nil {
		return translatePGError(err, "CashFlow", nil)
	}

	return nil
}

func (r *CashFlowRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CashFlow, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	row := ex.QueryRowContext(ctx, "SELECT "+cashFlowColumns+" FROM cash_flows WHERE id = $1", id)

	f, err := scanCashFlow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrFlowNotFound
		}

		return nil, translatePGError(err, "CashFlow", apperr.ErrFlowNotFound)
	}

	return f, nil
}

func (r *CashFlowRepository) FindSystemFlow(ctx context.Context, vaultID uuid.UUID) (*domain.CashFlow, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	row := ex.QueryRowContext(ctx, "SELECT "+cashFlowColumns+" FROM cash_flows WHERE vault_id = $1 AND system_kind = $2",
		vaultID, string(domain.SystemKindUnallocated))

	f, err := scanCashFlow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrFlowNotFound
		}

		return nil, translatePGError(err, "CashFlow", apperr.ErrFlowNotFound)
	}

	return f, nil
}

func (r *CashFlowRepository) ListByVault(ctx context.Context, vaultID uuid.UUID) ([]*domain.CashFlow, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	rows, err := ex.QueryContext(ctx, "SELECT "+cashFlowColumns+" FROM cash_flows WHERE vault_id = $1 ORDER BY created_at ASC", vaultID)
	if err != nil {
		return nil, translatePGError(err, "CashFlow", nil)
	}
	defer rows.Close()

	var flows []*domain.CashFlow

	for rows.Next() {
		f, err := scanCashFlow(rows)
		if err != nil {
			return nil, translatePGError(err, "CashFlow", nil)
		}

		flows = append(flows, f)
	}

	if err := rows.Err(); err != nil {
		return nil, translatePGError(err, "CashFlow", nil)
	}

	return flows, nil
}

func (r *CashFlowRepository) Update(ctx context.Context, f *domain.CashFlow) error {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return err
	}

	record := cashFlowFromEntity(f)

	result, err := ex.ExecContext(ctx, `
		UPDATE cash_flows
		SET name = $1, balance_minor = $2, max_balance_minor = $3, income_balance_minor = $4, archived = $5, updated_at = now()
		WHERE id = $6`,
		record.Name, record.BalanceMinor, record.MaxBalanceMinor, record.IncomeBalanceMinor, record.Archived, record.ID,
	)
	if err != nil {
		return translatePGError(err, "CashFlow", nil)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return apperr.ErrFlowNotFound
	}

	return nil
}
