package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/internal/ports"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
	"github.com/LerianStudio/ledger-engine/pkg/money"
)

// TransactionModel is the row shape of the transactions table.
type TransactionModel struct {
	ID                    uuid.UUID
	VaultID               uuid.UUID
	Kind                  string
	OccurredAt            time.Time
	AmountMinor           int64
	Currency              string
	CategoryID            uuid.NullUUID
	Note                  sql.NullString
	CreatedBy             uuid.UUID
	VoidedAt              sql.NullTime
	VoidedBy              uuid.NullUUID
	RefundedTransactionID uuid.NullUUID
	IdempotencyKey        sql.NullString
	CreatedAt             sql.NullTime
	UpdatedAt             sql.NullTime
}

func transactionFromEntity(tx *domain.Transaction) *TransactionModel {
	m := &TransactionModel{
		ID:          tx.ID,
		VaultID:     tx.VaultID,
		Kind:        string(tx.Kind),
		OccurredAt:  tx.OccurredAt,
		AmountMinor: int64(tx.AmountMinor),
		Currency:    string(tx.Currency),
		CreatedBy:   tx.CreatedBy,
	}

	if tx.CategoryID != nil {
		m.CategoryID = uuid.NullUUID{UUID: *tx.CategoryID, Valid: true}
	}

	if tx.Note != nil {
		m.Note = sql.NullString{String: *tx.Note, Valid: true}
	}

	if tx.VoidedAt != nil {
		m.VoidedAt = sql.NullTime{Time: *tx.VoidedAt, Valid: true}
	}

	if tx.VoidedBy != nil {
		m.VoidedBy = uuid.NullUUID{UUID: *tx.VoidedBy, Valid: true}
	}

	if tx.RefundedTransactionID != nil {
		m.RefundedTransactionID = uuid.NullUUID{UUID: *tx.RefundedTransactionID, Valid: true}
	}

	if tx.IdempotencyKey != nil {
		m.IdempotencyKey = sql.NullString{String: *tx.IdempotencyKey, Valid: true}
	}

	return m
}

func (m *TransactionModel) toEntity() *domain.Transaction {
	tx := &domain.Transaction{
		ID:          m.ID,
		VaultID:     m.VaultID,
		Kind:        domain.TransactionKind(m.Kind),
		OccurredAt:  m.OccurredAt,
		AmountMinor: money.Minor(m.AmountMinor),
		Currency:    money.Currency(m.Currency),
		CreatedBy:   m.CreatedBy,
	}

	if m.CategoryID.Valid {
		id := m.CategoryID.UUID
		tx.CategoryID = &id
	}

	if m.Note.Valid {
		note := m.Note.String
		tx.Note = &note
	}

	if m.VoidedAt.Valid {
		t := m.VoidedAt.Time
		tx.VoidedAt = &t
	}

	if m.VoidedBy.Valid {
		id := m.VoidedBy.UUID
		tx.VoidedBy = &id
	}

	if m.RefundedTransactionID.Valid {
		id := m.RefundedTransactionID.UUID
		tx.RefundedTransactionID = &id
	}

	if m.IdempotencyKey.Valid {
		key := m.IdempotencyKey.String
		tx.IdempotencyKey = &key
	}

	if m.CreatedAt.Valid {
		tx.CreatedAt = m.CreatedAt.Time
	}

	if m.UpdatedAt.Valid {
		tx.UpdatedAt = m.UpdatedAt.Time
	}

	return tx
}

const transactionColumns = `id, vault_id, kind, occurred_at, amount_minor, currency, category_id, note, created_by,
	voided_at, voided_by, refunded_transaction_id, idempotency_key, created_at, updated_at`

func scanTransaction(row interface{ Scan(...any) error }) (*domain.Transaction, error) {
	m := &TransactionModel{}
	if err := row.Scan(&m.ID, &m.VaultID, &m.Kind, &m.OccurredAt, &m.AmountMinor, &m.Currency, &m.CategoryID,
		&m.Note, &m.CreatedBy, &m.VoidedAt, &m.VoidedBy, &m.RefundedTransactionID, &m.IdempotencyKey,
		&m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}

	return m.toEntity(), nil
}

// TransactionRepository is the Postgres ports.TransactionRepository.
type TransactionRepository struct {
	conn *Connection
}

// NewTransactionRepository builds a TransactionRepository over conn.
func NewTransactionRepository(conn *Connection) *TransactionRepository {
	return &TransactionRepository{conn: conn}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return err
	}

	record := transactionFromEntity(tx)

	_, err = ex.ExecContext(ctx, `
		INSERT INTO transactions
			(id, vault_id, kind, occurred_at, amount_minor, currency, category_id, note, created_by,
			 voided_at, voided_by, refunded_transaction_id, idempotency_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())`,
		record.ID, record.VaultID, record.Kind, record.OccurredAt, record.AmountMinor, record.Currency,
		record.CategoryID, record.Note, record.CreatedBy, record.VoidedAt, record.VoidedBy,
		record.RefundedTransactionID, record.IdempotencyKey,
	)
	if err != nil {
		return translatePGError(err, "Transaction", nil)
	}

	return nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, vaultID, id uuid.UUID) (*domain.Transaction, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	row := ex.QueryRowContext(ctx, "SELECT "+transactionColumns+" FROM transactions WHERE id = $1 AND vault_id = $2", id, vaultID)

	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrTransactionNotFound
		}

		return nil, translatePGError(err, "Transaction", apperr.ErrTransactionNotFound)
	}

	return tx, nil
}

func (r *TransactionRepository) FindByIdempotencyKey(ctx context.Context, vaultID, createdBy uuid.UUID, key string) (*domain.Transaction, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	row := ex.QueryRowContext(ctx, "SELECT "+transactionColumns+` FROM transactions
		WHERE vault_id = $1 AND created_by = $2 AND idempotency_key = $3`, vaultID, createdBy, key)

	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrTransactionNotFound
		}

		return nil, translatePGError(err, "Transaction", apperr.ErrTransactionNotFound)
	}

	return tx, nil
}

func (r *TransactionRepository) Void(ctx context.Context, vaultID, id uuid.UUID, voidedBy uuid.UUID, voidedAt time.Time) error {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return err
	}

	result, err := ex.ExecContext(ctx, `
		UPDATE transactions SET voided_at = $1, voided_by = $2, updated_at = now()
		WHERE id = $3 AND vault_id = $4`,
		voidedAt, voidedBy, id, vaultID,
	)
	if err != nil {
		return translatePGError(err, "Transaction", nil)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return apperr.ErrTransactionNotFound
	}

	return nil
}

// ListForFlow lists transactions touching flowID via their legs, newest
// first, applying the include_voided/include_transfers filters of spec
// §4.6. Built with squirrel since the WHERE clause grows with the filter,
// mirroring the teacher's dynamic FindAll queries.
func (r *TransactionRepository) ListForFlow(ctx context.Context, vaultID, flowID uuid.UUID, filter ports.ListTransactionsFilter) ([]*domain.Transaction, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	cols := []string{}
	for _, c := range []string{"id", "vault_id", "kind", "occurred_at", "amount_minor", "currency", "category_id",
		"note", "created_by", "voided_at", "voided_by", "refunded_transaction_id", "idempotency_key", "created_at", "updated_at"} {
		cols = append(cols, "t."+c)
	}

	q := squirrel.Select(cols...).
		From("transactions t").
		Join("legs l ON l.transaction_id = t.id").
		Where(squirrel.Eq{"t.vault_id": vaultID}).
		Where(squirrel.Eq{"l.target_kind": "flow"}).
		Where(squirrel.Eq{"l.target_id": flowID}).
		OrderBy("t.occurred_at DESC", "t.id DESC").
		PlaceholderFormat(squirrel.Dollar)

	if !filter.IncludeVoided {
		q = q.Where("t.voided_at IS NULL")
	}

	if !filter.IncludeTransfers {
		q = q.Where(squirrel.NotEq{"t.kind": []string{string(domain.KindTransferWallet), string(domain.KindTransferFlow)}})
	}

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, apperr.Database("Transaction", err)
	}

	rows, err := ex.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translatePGError(err, "Transaction", nil)
	}
	defer rows.Close()

	var out []*domain.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, translatePGError(err, "Transaction", nil)
		}

		out = append(out, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, translatePGError(err, "Transaction", nil)
	}

	return out, nil
}

func (r *TransactionRepository) ListForVaultOrderedForReplay(ctx context.Context, vaultID uuid.UUID) ([]*domain.Transaction, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	rows, err := ex.QueryContext(ctx, "SELECT "+transactionColumns+` FROM transactions
		WHERE vault_id = $1 ORDER BY occurred_at ASC, id ASC`, vaultID)
	if err != nil {
		return nil, translatePGError(err, "Transaction", nil)
	}
	defer rows.Close()

	var out []*domain.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, translatePGError(err, "Transaction", nil)
		}

		out = append(out, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, translatePGError(err, "Transaction", nil)
	}

	return out, nil
}
