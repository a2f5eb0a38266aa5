package command

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/pkg/apperr"
	"github.com/LerianStudio/ledger-engine/pkg/money"
)

// openWalletBalance seeds a freshly created wallet with a nonzero opening
// balance. Per spec §4.3, opening a wallet is an income (positive) or
// expense (negative) against the vault's Unallocated flow — the core
// exposes only the primitives; this is the single combined command.
func (uc *UseCase) openWalletBalance(ctx context.Context, vaultID, walletID uuid.UUID, openingMinor int64, userID uuid.UUID) error {
	if openingMinor == 0 {
		return nil
	}

	unallocated, err := uc.CashFlows.FindSystemFlow(ctx, vaultID)
	if err != nil {
		return err
	}

	occurredAt := time.Now().UTC()

	if openingMinor > 0 {
		_, err := uc.Income(ctx, IncomeInput{
			VaultID:     vaultID,
			FlowID:      unallocated.ID,
			WalletID:    walletID,
			AmountMinor: money.Minor(openingMinor),
			Note:        "opening balance",
			OccurredAt:  occurredAt,
			CreatedBy:   userID,
		})

		return err
	}

	if openingMinor == math.MinInt64 {
		return apperr.InvalidAmount("Wallet", "opening balance out of range")
	}

	_, err = uc.Expense(ctx, ExpenseInput{
		VaultID:     vaultID,
		FlowID:      unallocated.ID,
		WalletID:    walletID,
		AmountMinor: money.Minor(-openingMinor),
		Note:        "opening balance",
		OccurredAt:  occurredAt,
		CreatedBy:   userID,
	})

	return err
}

// openFlowBalance seeds a freshly created flow with a nonzero opening
// balance, implemented as a transfer_flow from Unallocated per spec §4.3. A
// negative opening balance is rejected: transfer_flow cannot express moving
// money out of a brand-new, otherwise-empty flow.
func (uc *UseCase) openFlowBalance(ctx context.Context, vaultID, flowID uuid.UUID, openingMinor int64, userID uuid.UUID) error {
	if openingMinor == 0 {
		return nil
	}

	if openingMinor < 0 {
		return apperr.InvalidAmount("CashFlow", "opening balance must not be negative")
	}

	unallocated, err := uc.CashFlows.FindSystemFlow(ctx, vaultID)
	if err != nil {
		return err
	}

	_, err = uc.TransferFlow(ctx, TransferFlowInput{
		VaultID:     vaultID,
		FromFlowID:  unallocated.ID,
		ToFlowID:    flowID,
		AmountMinor: money.Minor(openingMinor),
		Note:        "opening balance",
		OccurredAt:  time.Now().UTC(),
		CreatedBy:   userID,
	})

	return err
}
