package command

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
)

// UpsertVaultMember grants or updates a user's role on a vault. The owner
// role is immutable outside of vault creation: it can never be assigned or
// removed through this command.
func (uc *UseCase) UpsertVaultMember(ctx context.Context, vaultID, targetUserID uuid.UUID, role domain.MembershipRole, actorUserID uuid.UUID) error {
	if err := uc.Authz.RequireVaultWrite(ctx, vaultID, actorUserID); err != nil {
		return err
	}

	if role.Normalize() == domain.RoleOwner {
		return apperr.Wrap(apperr.KindInvalidAmount, "VaultMembership", "the vault owner role cannot be assigned through membership updates", apperr.ErrOwnerRoleImmutable)
	}

	return uc.TxRunner.Run(ctx, func(ctx context.Context) error {
		vault, err := uc.Vaults.FindByID(ctx, vaultID)
		if err != nil {
			return err
		}

		if vault.OwnerUserID == targetUserID {
			return apperr.Wrap(apperr.KindInvalidAmount, "VaultMembership", "the vault owner role cannot be demoted", apperr.ErrOwnerRoleImmutable)
		}

		return uc.VaultMembers.Upsert(ctx, &domain.VaultMembership{VaultID: vaultID, UserID: targetUserID, Role: role.Normalize()})
	})
}

// RemoveVaultMember revokes a user's vault-level role. The owner cannot be
// removed.
func (uc *UseCase) RemoveVaultMember(ctx context.Context, vaultID, targetUserID, actorUserID uuid.UUID) error {
	if err := uc.Authz.RequireVaultWrite(ctx, vaultID, actorUserID); err != nil {
		return err
	}

	return uc.TxRunner.Run(ctx, func(ctx context.Context) error {
		vault, err := uc.Vaults.FindByID(ctx, vaultID)
		if err != nil {
			return err
		}

		if vault.OwnerUserID == targetUserID {
			return apperr.Wrap(apperr.KindInvalidAmount, "VaultMembership", "the vault owner role cannot be removed", apperr.ErrOwnerRoleImmutable)
		}

		return uc.VaultMembers.Remove(ctx, vaultID, targetUserID)
	})
}

// ListVaultMembers lists every membership row on a vault, read-authorized.
func (uc *UseCase) ListVaultMembers(ctx context.Context, vaultID, userID uuid.UUID) ([]*domain.VaultMembership, error) {
	if err := uc.Authz.RequireVaultRead(ctx, vaultID, userID); err != nil {
		return nil, err
	}

	return uc.VaultMembers.ListByVault(ctx, vaultID)
}

// UpsertFlowMember grants or updates a user's role on a single flow.
func (uc *UseCase) UpsertFlowMember(ctx context.Context, vaultID, flowID, targetUserID uuid.UUID, role domain.MembershipRole, actorUserID uuid.UUID) error {
	if err := uc.requireFlowWrite(ctx, vaultID, flowID, actorUserID); err != nil {
		return err
	}

	return uc.TxRunner.Run(ctx, func(ctx context.Context) error {
		return uc.FlowMembers.Upsert(ctx, &domain.FlowMembership{FlowID: flowID, UserID: targetUserID, Role: role.Normalize()})
	})
}

// RemoveFlowMember revokes a user's flow-level role.
func (uc *UseCase) RemoveFlowMember(ctx context.Context, vaultID, flowID, targetUserID, actorUserID uuid.UUID) error {
	if err := uc.requireFlowWrite(ctx, vaultID, flowID, actorUserID); err != nil {
		return err
	}

	return uc.TxRunner.Run(ctx, func(ctx context.Context) error {
		return uc.FlowMembers.Remove(ctx, flowID, targetUserID)
	})
}

// ListFlowMembers lists every membership row on a flow. Any vault role, or
// an explicit flow-viewer grant, is sufficient to read.
func (uc *UseCase) ListFlowMembers(ctx context.Context, vaultID, flowID, userID uuid.UUID) ([]*domain.FlowMembership, error) {
	role, ok, err := uc.Authz.FlowRole(ctx, vaultID, flowID, userID)
	if err != nil {
		return nil, err
	}

	if !ok || role == "" {
		return nil, apperr.Wrap(apperr.KindForbidden, "CashFlow", "the caller does not have a role on this flow", apperr.ErrNotAuthorized)
	}

	return uc.FlowMembers.ListByFlow(ctx, flowID)
}

func (uc *UseCase) requireFlowWrite(ctx context.Context, vaultID, flowID, userID uuid.UUID) error {
	role, ok, err := uc.Authz.FlowRole(ctx, vaultID, flowID, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrMembershipNotFound) {
			return apperr.Wrap(apperr.KindForbidden, "CashFlow", "the caller does not have write access to this flow", apperr.ErrNotAuthorized)
		}

		return err
	}

	if !ok || !role.CanWrite() {
		return apperr.Wrap(apperr.KindForbidden, "CashFlow", "the caller does not have write access to this flow", apperr.ErrNotAuthorized)
	}

	return nil
}
