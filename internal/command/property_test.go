package command_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LerianStudio/ledger-engine/internal/command"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
	"github.com/LerianStudio/ledger-engine/pkg/money"
)

// Property 1: journal-denorm agreement; recompute is a no-op.
func TestProperty_JournalDenormAgreement(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("P1 vault")
	walletID := h.newWallet(vaultID, owner, "wallet")
	flowID := h.newFlow(vaultID, owner, "F", nil, false)

	for i := 0; i < 5; i++ {
		_, err := h.uc.Income(ctx, command.IncomeInput{
			VaultID: vaultID, FlowID: flowID, WalletID: walletID,
			AmountMinor: money.Minor(10_00), OccurredAt: time.Now(), CreatedBy: owner,
		})
		require.NoError(t, err)
	}

	before, err := h.uc.CashFlows.FindByID(ctx, flowID)
	require.NoError(t, err)

	require.NoError(t, h.uc.RecomputeBalances(ctx, vaultID, owner))

	after, err := h.uc.CashFlows.FindByID(ctx, flowID)
	require.NoError(t, err)

	assert.Equal(t, before.BalanceMinor, after.BalanceMinor)
	assert.Equal(t, money.Minor(50_00), after.BalanceMinor)
}

// Property 2 & 3: double entry and currency closure, verified via legs of
// a transfer_wallet transaction.
func TestProperty_DoubleEntryAndCurrencyClosure(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("P2 vault")
	w1 := h.newWallet(vaultID, owner, "w1")
	w2 := h.newWallet(vaultID, owner, "w2")

	txID, err := h.uc.TransferWallet(ctx, command.TransferWalletInput{
		VaultID: vaultID, FromWalletID: w1, ToWalletID: w2,
		AmountMinor: 25_00, OccurredAt: time.Now(), CreatedBy: owner,
	})
	require.NoError(t, err)

	legs, err := h.uc.Legs.ListByTransaction(ctx, txID)
	require.NoError(t, err)
	require.Len(t, legs, 2)

	var sum money.Minor

	for _, l := range legs {
		sum += l.AmountMinor
		assert.Equal(t, money.EUR, l.Currency)
	}

	assert.Equal(t, money.Minor(0), sum)
}

// Property 4: cap safety holds after every commit for both cap modes.
func TestProperty_CapSafety(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("P4 vault")
	walletID := h.newWallet(vaultID, owner, "wallet")
	netCapped := h.newFlow(vaultID, owner, "net", capOf(100_00), false)
	incomeCapped := h.newFlow(vaultID, owner, "income", capOf(100_00), true)

	amounts := []money.Minor{40_00, 40_00, 40_00}

	for _, amt := range amounts {
		_, err := h.uc.Income(ctx, command.IncomeInput{
			VaultID: vaultID, FlowID: netCapped, WalletID: walletID,
			AmountMinor: amt, OccurredAt: time.Now(), CreatedBy: owner,
		})
		if err == nil {
			flow, ferr := h.uc.CashFlows.FindByID(ctx, netCapped)
			require.NoError(t, ferr)
			assert.LessOrEqual(t, int64(flow.BalanceMinor), int64(100_00))
		}

		_, err = h.uc.Income(ctx, command.IncomeInput{
			VaultID: vaultID, FlowID: incomeCapped, WalletID: walletID,
			AmountMinor: amt, OccurredAt: time.Now(), CreatedBy: owner,
		})
		if err == nil {
			flow, ferr := h.uc.CashFlows.FindByID(ctx, incomeCapped)
			require.NoError(t, ferr)
			assert.GreaterOrEqual(t, int64(*flow.IncomeBalanceMinor), int64(0))
			assert.LessOrEqual(t, int64(*flow.IncomeBalanceMinor), int64(100_00))
		}
	}
}

// Property 5: void reversibility.
func TestProperty_VoidReversibility(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("P5 vault")
	walletID := h.newWallet(vaultID, owner, "wallet")
	flowID := h.newFlow(vaultID, owner, "F", capOf(100_00), true)

	before, err := h.uc.CashFlows.FindByID(ctx, flowID)
	require.NoError(t, err)

	txID, err := h.uc.Income(ctx, command.IncomeInput{
		VaultID: vaultID, FlowID: flowID, WalletID: walletID,
		AmountMinor: 40_00, OccurredAt: time.Now(), CreatedBy: owner,
	})
	require.NoError(t, err)

	require.NoError(t, h.uc.VoidTransaction(ctx, vaultID, txID, owner, time.Now()))

	after, err := h.uc.CashFlows.FindByID(ctx, flowID)
	require.NoError(t, err)

	assert.Equal(t, before.BalanceMinor, after.BalanceMinor)
	assert.Equal(t, *before.IncomeBalanceMinor, *after.IncomeBalanceMinor)
}

// Property 6: idempotency creates no additional rows.
func TestProperty_IdempotencyNoExtraRows(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("P6 vault")
	walletID := h.newWallet(vaultID, owner, "wallet")
	flowID := h.newFlow(vaultID, owner, "F", nil, false)

	key := "stable-key"

	var lastID uuid.UUID

	for i := 0; i < 3; i++ {
		id, err := h.uc.Income(ctx, command.IncomeInput{
			VaultID: vaultID, FlowID: flowID, WalletID: walletID,
			AmountMinor: 5_00, OccurredAt: time.Now(), CreatedBy: owner, IdempotencyKey: &key,
		})
		require.NoError(t, err)

		if i > 0 {
			assert.Equal(t, lastID, id)
		}

		lastID = id
	}

	flow, err := h.uc.CashFlows.FindByID(ctx, flowID)
	require.NoError(t, err)
	assert.Equal(t, money.Minor(5_00), flow.BalanceMinor)
}

// Property 7: authorization closure — a forbidden command mutates nothing.
func TestProperty_AuthorizationClosure(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("P7 vault")
	walletID := h.newWallet(vaultID, owner, "wallet")
	flowID := h.newFlow(vaultID, owner, "F", nil, false)

	stranger := uuid.Must(uuid.NewV7())

	_, err := h.uc.Income(ctx, command.IncomeInput{
		VaultID: vaultID, FlowID: flowID, WalletID: walletID,
		AmountMinor: 10_00, OccurredAt: time.Now(), CreatedBy: stranger,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	flow, ferr := h.uc.CashFlows.FindByID(ctx, flowID)
	require.NoError(t, ferr)
	assert.Equal(t, money.Minor(0), flow.BalanceMinor)
}

// Property 8: system flow singleton, non-archivable, non-renamable.
func TestProperty_SystemFlowSingleton(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("P8 vault")

	sys, err := h.uc.CashFlows.FindSystemFlow(ctx, vaultID)
	require.NoError(t, err)
	assert.True(t, sys.IsSystem())

	err = h.uc.RenameCashFlow(ctx, command.RenameCashFlowInput{VaultID: vaultID, FlowID: sys.ID, Name: "renamed", UserID: owner})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidFlow, apperr.KindOf(err))

	err = h.uc.SetCashFlowArchived(ctx, vaultID, sys.ID, true, owner)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidFlow, apperr.KindOf(err))
}
