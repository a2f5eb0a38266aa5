package command_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LerianStudio/ledger-engine/internal/command"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
	"github.com/LerianStudio/ledger-engine/pkg/money"
)

// S1: net-capped rejects excess.
func TestScenario_NetCappedRejectsExcess(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("S1 vault")
	walletID := h.newWallet(vaultID, owner, "wallet")
	flowID := h.newFlow(vaultID, owner, "F", capOf(100_00), false)

	_, err := h.uc.Income(ctx, command.IncomeInput{
		VaultID: vaultID, FlowID: flowID, WalletID: walletID,
		AmountMinor: 50_00, OccurredAt: time.Now(), CreatedBy: owner,
	})
	require.NoError(t, err)

	flow, err := h.uc.CashFlows.FindByID(ctx, flowID)
	require.NoError(t, err)
	assert.Equal(t, money.Minor(50_00), flow.BalanceMinor)

	_, err = h.uc.Income(ctx, command.IncomeInput{
		VaultID: vaultID, FlowID: flowID, WalletID: walletID,
		AmountMinor: 60_00, OccurredAt: time.Now(), CreatedBy: owner,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindMaxBalanceReached, apperr.KindOf(err))

	flow, err = h.uc.CashFlows.FindByID(ctx, flowID)
	require.NoError(t, err)
	assert.Equal(t, money.Minor(50_00), flow.BalanceMinor)
}

// S2: income-capped admits expense after cap, rejects further income.
func TestScenario_IncomeCappedAdmitsExpenseAfterCap(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("S2 vault")
	walletID := h.newWallet(vaultID, owner, "wallet")
	flowID := h.newFlow(vaultID, owner, "G", capOf(100_00), true)

	_, err := h.uc.Income(ctx, command.IncomeInput{
		VaultID: vaultID, FlowID: flowID, WalletID: walletID,
		AmountMinor: 100_00, OccurredAt: time.Now(), CreatedBy: owner,
	})
	require.NoError(t, err)

	flow, err := h.uc.CashFlows.FindByID(ctx, flowID)
	require.NoError(t, err)
	assert.Equal(t, money.Minor(100_00), flow.BalanceMinor)
	assert.Equal(t, money.Minor(100_00), *flow.IncomeBalanceMinor)

	_, err = h.uc.Expense(ctx, command.ExpenseInput{
		VaultID: vaultID, FlowID: flowID, WalletID: walletID,
		AmountMinor: 30_00, OccurredAt: time.Now(), CreatedBy: owner,
	})
	require.NoError(t, err)

	flow, err = h.uc.CashFlows.FindByID(ctx, flowID)
	require.NoError(t, err)
	assert.Equal(t, money.Minor(70_00), flow.BalanceMinor)
	assert.Equal(t, money.Minor(100_00), *flow.IncomeBalanceMinor)

	_, err = h.uc.Income(ctx, command.IncomeInput{
		VaultID: vaultID, FlowID: flowID, WalletID: walletID,
		AmountMinor: 1_00, OccurredAt: time.Now(), CreatedBy: owner,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindMaxBalanceReached, apperr.KindOf(err))
}

// S3: void round-trip restores balances; recompute changes nothing after.
func TestScenario_VoidRoundTrip(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("S3 vault")
	walletID := h.newWallet(vaultID, owner, "wallet")
	flowID := h.newFlow(vaultID, owner, "F", nil, false)

	txID, err := h.uc.Income(ctx, command.IncomeInput{
		VaultID: vaultID, FlowID: flowID, WalletID: walletID,
		AmountMinor: 10_00, OccurredAt: time.Now(), CreatedBy: owner,
	})
	require.NoError(t, err)

	require.NoError(t, h.uc.VoidTransaction(ctx, vaultID, txID, owner, time.Now()))

	flow, err := h.uc.CashFlows.FindByID(ctx, flowID)
	require.NoError(t, err)
	assert.Equal(t, money.Minor(0), flow.BalanceMinor)

	wallet, err := h.uc.Wallets.FindByID(ctx, walletID)
	require.NoError(t, err)
	assert.Equal(t, money.Minor(0), wallet.BalanceMinor)

	require.NoError(t, h.uc.RecomputeBalances(ctx, vaultID, owner))

	flow, err = h.uc.CashFlows.FindByID(ctx, flowID)
	require.NoError(t, err)
	assert.Equal(t, money.Minor(0), flow.BalanceMinor)
}

// S4: idempotent create returns the same transaction id, no new row.
func TestScenario_IdempotentCreate(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("S4 vault")
	walletID := h.newWallet(vaultID, owner, "wallet")
	flowID := h.newFlow(vaultID, owner, "F", nil, false)

	key := "k1"

	id1, err := h.uc.Income(ctx, command.IncomeInput{
		VaultID: vaultID, FlowID: flowID, WalletID: walletID,
		AmountMinor: 12_34, OccurredAt: time.Now(), CreatedBy: owner, IdempotencyKey: &key,
	})
	require.NoError(t, err)

	id2, err := h.uc.Income(ctx, command.IncomeInput{
		VaultID: vaultID, FlowID: flowID, WalletID: walletID,
		AmountMinor: 12_34, OccurredAt: time.Now(), CreatedBy: owner, IdempotencyKey: &key,
	})
	require.NoError(t, err)

	assert.Equal(t, id1, id2)

	flow, err := h.uc.CashFlows.FindByID(ctx, flowID)
	require.NoError(t, err)
	assert.Equal(t, money.Minor(12_34), flow.BalanceMinor)
}

// S5: flow transfer respects the destination's income cap.
func TestScenario_FlowTransferRespectsIncomeCap(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("S5 vault")
	flowA := h.newFlow(vaultID, owner, "A", nil, false)
	flowB := h.newFlow(vaultID, owner, "B", capOf(50_00), true)

	_, err := h.uc.TransferFlow(ctx, command.TransferFlowInput{
		VaultID: vaultID, FromFlowID: flowA, ToFlowID: flowB,
		AmountMinor: 60_00, OccurredAt: time.Now(), CreatedBy: owner,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindMaxBalanceReached, apperr.KindOf(err))

	a, err := h.uc.CashFlows.FindByID(ctx, flowA)
	require.NoError(t, err)
	assert.Equal(t, money.Minor(0), a.BalanceMinor)

	b, err := h.uc.CashFlows.FindByID(ctx, flowB)
	require.NoError(t, err)
	assert.Equal(t, money.Minor(0), b.BalanceMinor)

	_, err = h.uc.TransferFlow(ctx, command.TransferFlowInput{
		VaultID: vaultID, FromFlowID: flowA, ToFlowID: flowB,
		AmountMinor: 30_00, OccurredAt: time.Now(), CreatedBy: owner,
	})
	require.NoError(t, err)

	a, err = h.uc.CashFlows.FindByID(ctx, flowA)
	require.NoError(t, err)
	assert.Equal(t, money.Minor(-30_00), a.BalanceMinor)

	b, err = h.uc.CashFlows.FindByID(ctx, flowB)
	require.NoError(t, err)
	assert.Equal(t, money.Minor(30_00), b.BalanceMinor)
	assert.Equal(t, money.Minor(30_00), *b.IncomeBalanceMinor)
}

// S6: category similarity rejects a near-duplicate name.
func TestScenario_CategorySimilarity(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("S6 vault")

	_, err := h.uc.CreateCategory(ctx, command.CreateCategoryInput{VaultID: vaultID, Name: "Food", UserID: owner})
	require.NoError(t, err)

	_, err = h.uc.CreateCategory(ctx, command.CreateCategoryInput{VaultID: vaultID, Name: "foood", UserID: owner})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidName, apperr.KindOf(err))

	// "Foods" is distance 1 from "food" ("foods" is 5 letters, threshold 1) so it is
	// also rejected as too similar; this pins the expected choice per
	// spec.md's S6 note that "test must pin the expected choice".
	_, err = h.uc.CreateCategory(ctx, command.CreateCategoryInput{VaultID: vaultID, Name: "Foods", UserID: owner})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidName, apperr.KindOf(err))
}
