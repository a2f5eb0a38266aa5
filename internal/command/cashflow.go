package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
	"github.com/LerianStudio/ledger-engine/pkg/money"
)

// NewCashFlowInput is the command record for new_cash_flow.
type NewCashFlowInput struct {
	VaultID       uuid.UUID
	Name          string
	OpeningMinor  int64
	CapMinor      *money.Minor
	IncomeCapped  bool
	UserID        uuid.UUID
}

// NewCashFlow creates a cash flow, optionally capped, optionally seeded
// with an opening balance transferred from Unallocated.
func (uc *UseCase) NewCashFlow(ctx context.Context, in NewCashFlowInput) (uuid.UUID, error) {
	if err := uc.Authz.RequireVaultWrite(ctx, in.VaultID, in.UserID); err != nil {
		return uuid.Nil, err
	}

	name := domain.NormalizeCategoryDisplay(in.Name)
	if name == "" {
		return uuid.Nil, apperr.InvalidName("CashFlow", "name must not be empty")
	}

	if err := validateCapShape(in.CapMinor, in.IncomeCapped); err != nil {
		return uuid.Nil, err
	}

	var flowID uuid.UUID

	err := uc.TxRunner.Run(ctx, func(ctx context.Context) error {
		vault, err := uc.Vaults.FindByID(ctx, in.VaultID)
		if err != nil {
			return err
		}

		id := uuid.Must(uuid.NewV7())

		f := &domain.CashFlow{
			ID:              id,
			VaultID:         in.VaultID,
			Name:            name,
			Currency:        vault.Currency,
			MaxBalanceMinor: in.CapMinor,
		}

		if in.CapMinor != nil && in.IncomeCapped {
			zero := money.Minor(0)
			f.IncomeBalanceMinor = &zero
		}

		if err := uc.CashFlows.Create(ctx, f); err != nil {
			return err
		}

		flowID = id

		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	if in.OpeningMinor != 0 {
		if err := uc.openFlowBalance(ctx, in.VaultID, flowID, in.OpeningMinor, in.UserID); err != nil {
			return uuid.Nil, err
		}
	}

	return flowID, nil
}

// validateCapShape enforces spec §3's cap invariants up front: a cap must
// be positive when set, and income_balance mode requires a cap.
func validateCapShape(cap *money.Minor, incomeCapped bool) error {
	if cap == nil {
		if incomeCapped {
			return apperr.Wrap(apperr.KindInvalidFlow, "CashFlow", "income-capped mode requires a cap", apperr.ErrIncomeBalanceNoCap)
		}

		return nil
	}

	if *cap <= 0 {
		return apperr.Wrap(apperr.KindInvalidFlow, "CashFlow", "cap must be greater than zero when set", apperr.ErrCapNotPositive)
	}

	return nil
}

// RenameCashFlowInput is the command record for rename_cash_flow.
type RenameCashFlowInput struct {
	VaultID uuid.UUID
	FlowID  uuid.UUID
	Name    string
	UserID  uuid.UUID
}

// RenameCashFlow renames a cash flow. The system flow's name is immutable.
func (uc *UseCase) RenameCashFlow(ctx context.Context, in RenameCashFlowInput) error {
	if err := uc.Authz.RequireVaultWrite(ctx, in.VaultID, in.UserID); err != nil {
		return err
	}

	name := domain.NormalizeCategoryDisplay(in.Name)
	if name == "" {
		return apperr.InvalidName("CashFlow", "name must not be empty")
	}

	return uc.TxRunner.Run(ctx, func(ctx context.Context) error {
		f, err := uc.CashFlows.FindByID(ctx, in.FlowID)
		if err != nil {
			return err
		}

		if err := requireSameVault(in.VaultID, f.VaultID); err != nil {
			return err
		}

		if f.IsSystem() {
			return apperr.Wrap(apperr.KindInvalidFlow, "CashFlow", "the system flow cannot be renamed", apperr.ErrSystemFlowImmutable)
		}

		f.Name = name

		return uc.CashFlows.Update(ctx, f)
	})
}

// SetCashFlowArchived archives or unarchives a cash flow. The system flow
// can never be archived.
func (uc *UseCase) SetCashFlowArchived(ctx context.Context, vaultID, flowID uuid.UUID, archived bool, userID uuid.UUID) error {
	if err := uc.Authz.RequireVaultWrite(ctx, vaultID, userID); err != nil {
		return err
	}

	return uc.TxRunner.Run(ctx, func(ctx context.Context) error {
		f, err := uc.CashFlows.FindByID(ctx, flowID)
		if err != nil {
			return err
		}

		if err := requireSameVault(vaultID, f.VaultID); err != nil {
			return err
		}

		if f.IsSystem() {
			return apperr.Wrap(apperr.KindInvalidFlow, "CashFlow", "the system flow cannot be archived", apperr.ErrSystemFlowImmutable)
		}

		f.Archived = archived

		return uc.CashFlows.Update(ctx, f)
	})
}

// SetCashFlowModeInput is the command record for set_cash_flow_mode.
type SetCashFlowModeInput struct {
	VaultID      uuid.UUID
	FlowID       uuid.UUID
	CapMinor     *money.Minor
	IncomeCapped bool
	UserID       uuid.UUID
}

// SetCashFlowMode changes a flow's cap shape. Switching into income-capped
// mode starts income_balance at zero; switching out of it drops the field.
func (uc *UseCase) SetCashFlowMode(ctx context.Context, in SetCashFlowModeInput) error {
	if err := uc.Authz.RequireVaultWrite(ctx, in.VaultID, in.UserID); err != nil {
		return err
	}

	if err := validateCapShape(in.CapMinor, in.IncomeCapped); err != nil {
		return err
	}

	return uc.TxRunner.Run(ctx, func(ctx context.Context) error {
		f, err := uc.CashFlows.FindByID(ctx, in.FlowID)
		if err != nil {
			return err
		}

		if err := requireSameVault(in.VaultID, f.VaultID); err != nil {
			return err
		}

		if in.CapMinor != nil && *in.CapMinor < f.BalanceMinor && !in.IncomeCapped {
			return apperr.MaxBalanceReached("CashFlow", "current balance already exceeds the requested cap")
		}

		f.MaxBalanceMinor = in.CapMinor

		if in.CapMinor != nil && in.IncomeCapped {
			if f.IncomeBalanceMinor == nil {
				zero := money.Minor(0)
				f.IncomeBalanceMinor = &zero
			}
		} else {
			f.IncomeBalanceMinor = nil
		}

		return uc.CashFlows.Update(ctx, f)
	})
}
