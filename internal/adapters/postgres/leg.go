package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/pkg/money"
)

// LegModel is the row shape of the legs table.
type LegModel struct {
	ID               uuid.UUID
	TransactionID    uuid.UUID
	TargetKind       string
	TargetID         uuid.UUID
	AmountMinor      int64
	Currency         string
	AttributedUserID uuid.NullUUID
}

func legFromEntity(l *domain.Leg) *LegModel {
	m := &LegModel{
		ID:            l.ID,
		TransactionID: l.TransactionID,
		TargetKind:    string(l.Target.Kind),
		TargetID:      l.Target.ID,
		AmountMinor:   int64(l.AmountMinor),
		Currency:      string(l.Currency),
	}

	if l.AttributedUserID != nil {
		m.AttributedUserID = uuid.NullUUID{UUID: *l.AttributedUserID, Valid: true}
	}

	return m
}

const legColumns = `id, transaction_id, target_kind, target_id, amount_minor, currency, attributed_user_id, created_at`

func scanLeg(row interface{ Scan(...any) error }) (*domain.Leg, error) {
	var (
		id, transactionID, targetID uuid.UUID
		targetKind, currency        string
		amountMinor                 int64
		attributedUserID            uuid.NullUUID
		createdAt                   sql.NullTime
	)

	if err := row.Scan(&id, &transactionID, &targetKind, &targetID, &amountMinor, &currency, &attributedUserID, &createdAt); err != nil {
		return nil, err
	}

	l := &domain.Leg{
		ID:            id,
		TransactionID: transactionID,
		Target:        domain.LegTarget{Kind: domain.LegTargetKind(targetKind), ID: targetID},
		AmountMinor:   money.Minor(amountMinor),
		Currency:      money.Currency(currency),
	}

	if attributedUserID.Valid {
		uid := attributedUserID.UUID
		l.AttributedUserID = &uid
	}

	if createdAt.Valid {
		l.CreatedAt = createdAt.Time
	}

	return l, nil
}

// LegRepository is the Postgres ports.LegRepository.
type LegRepository struct {
	conn *Connection
}

// NewLegRepository builds a LegRepository over conn.
func NewLegRepository(conn *Connection) *LegRepository {
	return &LegRepository{conn: conn}
}

func (r *LegRepository) CreateBatch(ctx context.Context, legs []*domain.Leg) error {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return err
	}

	for _, l := range legs {
		record := legFromEntity(l)

		_, err = ex.ExecContext(ctx, `
			INSERT INTO legs (id, transaction_id, target_kind, target_id, amount_minor, currency, attributed_user_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
			record.ID, record.TransactionID, record.TargetKind, record.TargetID, record.AmountMinor,
			record.Currency, record.AttributedUserID,
		)
		if err != nil {
			return translatePGError(err, "Leg", nil)
		}
	}

	return nil
}

func (r *LegRepository) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*domain.Leg, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	rows, err := ex.QueryContext(ctx, "SELECT "+legColumns+" FROM legs WHERE transaction_id = $1 ORDER BY id ASC", transactionID)
	if err != nil {
		return nil, translatePGError(err, "Leg", nil)
	}
	defer rows.Close()

	var out []*domain.Leg

	for rows.Next() {
		l, err := scanLeg(rows)
		if err != nil {
			return nil, translatePGError(err, "Leg", nil)
		}

		out = append(out, l)
	}

	if err := rows.Err(); err != nil {
		return nil, translatePGError(err, "Leg", nil)
	}

	return out, nil
}

// ListByVaultOrderedForReplay lists every non-voided leg in a vault's
// journal, ordered by (occurred_at ASC, leg_id ASC) per spec §5's recompute
// rule. occurred_at lives on the transaction, hence the join.
func (r *LegRepository) ListByVaultOrderedForReplay(ctx context.Context, vaultID uuid.UUID) ([]*domain.Leg, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT l.id, l.transaction_id, l.target_kind, l.target_id, l.amount_minor, l.currency, l.attributed_user_id, l.created_at
		FROM legs l
		JOIN transactions t ON t.id = l.transaction_id
		WHERE t.vault_id = $1 AND t.voided_at IS NULL
		ORDER BY t.occurred_at ASC, l.id ASC`

	rows, err := ex.QueryContext(ctx, query, vaultID)
	if err != nil {
		return nil, translatePGError(err, "Leg", nil)
	}
	defer rows.Close()

	var out []*domain.Leg

	for rows.Next() {
		l, err := scanLeg(rows)
		if err != nil {
			return nil, translatePGError(err, "Leg", nil)
		}

		out = append(out, l)
	}

	if err := rows.Err(); err != nil {
		return nil, translatePGError(err, "Leg", nil)
	}

	return out, nil
}
