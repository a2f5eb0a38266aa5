package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
)

// VaultMembershipRepository is the Postgres ports.VaultMembershipRepository.
type VaultMembershipRepository struct {
	conn *Connection
}

// NewVaultMembershipRepository builds a VaultMembershipRepository over conn.
func NewVaultMembershipRepository(conn *Connection) *VaultMembershipRepository {
	return &VaultMembershipRepository{conn: conn}
}

func (r *VaultMembershipRepository) Upsert(ctx context.Context, m *domain.VaultMembership) error {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return err
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO vault_memberships (vault_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (vault_id, user_id) DO UPDATE SET role = excluded.role`,
		m.VaultID, m.UserID, string(m.Role),
	)
	if err != nil {
		return translatePGError(err, "VaultMembership", nil)
	}

	return nil
}

func (r *VaultMembershipRepository) Remove(ctx context.Context, vaultID, userID uuid.UUID) error {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return err
	}

	if _, err := ex.ExecContext(ctx, "DELETE FROM vault_memberships WHERE vault_id = $1 AND user_id = $2", vaultID, userID); err != nil {
		return translatePGError(err, "VaultMembership", nil)
	}

	return nil
}

func (r *VaultMembershipRepository) Find(ctx context.Context, vaultID, userID uuid.UUID) (*domain.VaultMembership, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	var role string

	row := ex.QueryRowContext(ctx, "SELECT role FROM vault_memberships WHERE vault_id = $1 AND user_id = $2", vaultID, userID)
	if err := row.Scan(&role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrMembershipNotFound
		}

		return nil, translatePGError(err, "VaultMembership", apperr.ErrMembershipNotFound)
	}

	return &domain.VaultMembership{VaultID: vaultID, UserID: userID, Role: domain.MembershipRole(role)}, nil
}

func (r *VaultMembershipRepository) ListByVault(ctx context.Context, vaultID uuid.UUID) ([]*domain.VaultMembership, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	rows, err := ex.QueryContext(ctx, "SELECT user_id, role FROM vault_memberships WHERE vault_id = $1", vaultID)
	if err != nil {
		return nil, translatePGError(err, "VaultMembership", nil)
	}
	defer rows.Close()

	var out []*domain.VaultMembership

	for rows.Next() {
		var (
			userID uuid.UUID
			role   string
		)

		if err := rows.Scan(&userID, &role); err != nil {
			return nil, translatePGError(err, "VaultMembership", nil)
		}

		out = append(out, &domain.VaultMembership{VaultID: vaultID, UserID: userID, Role: domain.MembershipRole(role)})
	}

	if err := rows.Err(); err != nil {
		return nil, translatePGError(err, "VaultMembership", nil)
	}

	return out, nil
}

// FlowMembershipRepository is the Postgres ports.FlowMembershipRepository.
type FlowMembershipRepository struct {
	conn *Connection
}

// NewFlowMembershipRepository builds a FlowMembershipRepository over conn.
func NewFlowMembershipRepository(conn *Connection) *FlowMembershipRepository {
	return &FlowMembershipRepository{conn: conn}
}

func (r *FlowMembershipRepository) Upsert(ctx context.Context, m *domain.FlowMembership) error {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return err
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO flow_memberships (flow_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (flow_id, user_id) DO UPDATE SET role = excluded.role`,
		m.FlowID, m.UserID, string(m.Role),
	)
	if err != nil {
		return translatePGError(err, "FlowMembership", nil)
	}

	return nil
}

func (r *FlowMembershipRepository) Remove(ctx context.Context, flowID, userID uuid.UUID) error {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return err
	}

	if _, err := ex.ExecContext(ctx, "DELETE FROM flow_memberships WHERE flow_id = $1 AND user_id = $2", flowID, userID); err != nil {
		return translatePGError(err, "FlowMembership", nil)
	}

	return nil
}

func (r *FlowMembershipRepository) Find(ctx context.Context, flowID, userID uuid.UUID) (*domain.FlowMembership, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	var role string

	row := ex.QueryRowContext(ctx, "SELECT role FROM flow_memberships WHERE flow_id = $1 AND user_id = $2", flowID, userID)
	if err := row.Scan(&role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrMembershipNotFound
		}

		return nil, translatePGError(err, "FlowMembership", apperr.ErrMembershipNotFound)
	}

	return &domain.FlowMembership{FlowID: flowID, UserID: userID, Role: domain.MembershipRole(role)}, nil
}

func (r *FlowMembershipRepository) ListByFlow(ctx context.Context, flowID uuid.UUID) ([]*domain.FlowMembership, error) {
	ex, err := execerFromContext(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	rows, err := ex.QueryContext(ctx, "SELECT user_id, role FROM flow_memberships WHERE flow_id = $1", flowID)
	if err != nil {
		return nil, translatePGError(err, "FlowMembership", nil)
	}
	defer rows.Close()

	var out []*domain.FlowMembership

	for rows.Next() {
		var (
			userID uuid.UUID
			role   string
		)

		if err := rows.Scan(&userID, &role); err != nil {
			return nil, translatePGError(err, "FlowMembership", nil)
		}

		out = append(out, &domain.FlowMembership{FlowID: flowID, UserID: userID, Role: domain.MembershipRole(role)})
	}

	if err := rows.Err(); err != nil {
		return nil, translatePGError(err, "FlowMembership", nil)
	}

	return out, nil
}
