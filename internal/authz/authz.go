// Package authz resolves a caller's effective role on a vault or cash flow
// and enforces the write/read requirements of the authorization model.
package authz

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/internal/ports"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
)

// Resolver answers role questions against the membership repositories. It
// holds no state of its own beyond the repositories it wraps.
type Resolver struct {
	Vaults          ports.VaultRepository
	VaultMembers    ports.VaultMembershipRepository
	FlowMembers     ports.FlowMembershipRepository
}

// NewResolver builds a Resolver over the given repositories.
func NewResolver(vaults ports.VaultRepository, vaultMembers ports.VaultMembershipRepository, flowMembers ports.FlowMembershipRepository) *Resolver {
	return &Resolver{Vaults: vaults, VaultMembers: vaultMembers, FlowMembers: flowMembers}
}

// VaultRole resolves the caller's role on a vault: owner by OwnerUserID,
// else the vault_memberships row, else "no role" (ok=false).
func (r *Resolver) VaultRole(ctx context.Context, vaultID, userID uuid.UUID) (domain.MembershipRole, bool, error) {
	vault, err := r.Vaults.FindByID(ctx, vaultID)
	if err != nil {
		return "", false, err
	}

	if vault.OwnerUserID == userID {
		return domain.RoleOwner, true, nil
	}

	membership, err := r.VaultMembers.Find(ctx, vaultID, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrMembershipNotFound) {
			return "", false, nil
		}

		return "", false, err
	}

	return membership.Role.Normalize(), true, nil
}

// FlowRole resolves the caller's role scoped to a single flow: their vault
// role when they have one (the vault owner is implicit owner of every flow
// in the vault), otherwise their flow membership role.
func (r *Resolver) FlowRole(ctx context.Context, vaultID, flowID, userID uuid.UUID) (domain.MembershipRole, bool, error) {
	if role, ok, err := r.VaultRole(ctx, vaultID, userID); err != nil {
		return "", false, err
	} else if ok {
		return role, true, nil
	}

	membership, err := r.FlowMembers.Find(ctx, flowID, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrMembershipNotFound) {
			return "", false, nil
		}

		return "", false, err
	}

	return membership.Role.Normalize(), true, nil
}

// RequireVaultWrite fails unless the caller has owner/editor on the vault.
func (r *Resolver) RequireVaultWrite(ctx context.Context, vaultID, userID uuid.UUID) error {
	role, ok, err := r.VaultRole(ctx, vaultID, userID)
	if err != nil {
		return err
	}

	if !ok || !role.CanWrite() {
		return apperr.Wrap(apperr.KindForbidden, "Vault", "the caller does not have write access to this vault", apperr.ErrNotAuthorized)
	}

	return nil
}

// RequireVaultRead fails unless the caller has any role on the vault.
func (r *Resolver) RequireVaultRead(ctx context.Context, vaultID, userID uuid.UUID) error {
	_, ok, err := r.VaultRole(ctx, vaultID, userID)
	if err != nil {
		return err
	}

	if !ok {
		return apperr.Wrap(apperr.KindForbidden, "Vault", "the caller does not have read access to this vault", apperr.ErrNotAuthorized)
	}

	return nil
}

// RequireFlowTransferWrite implements the transfer_flow authorization
// shortcut: vault-level write access is checked first (a single cheap
// lookup); only if the caller lacks vault-level write do both flows' roles
// get checked individually.
func (r *Resolver) RequireFlowTransferWrite(ctx context.Context, vaultID, fromFlowID, toFlowID, userID uuid.UUID) error {
	if err := r.RequireVaultWrite(ctx, vaultID, userID); err == nil {
		return nil
	}

	fromRole, ok, err := r.FlowRole(ctx, vaultID, fromFlowID, userID)
	if err != nil {
		return err
	}

	if !ok || !fromRole.CanWrite() {
		return apperr.Wrap(apperr.KindForbidden, "CashFlow", "the caller does not have write access to the source flow", apperr.ErrNotAuthorized)
	}

	toRole, ok, err := r.FlowRole(ctx, vaultID, toFlowID, userID)
	if err != nil {
		return err
	}

	if !ok || !toRole.CanWrite() {
		return apperr.Wrap(apperr.KindForbidden, "CashFlow", "the caller does not have write access to the destination flow", apperr.ErrNotAuthorized)
	}

	return nil
}
