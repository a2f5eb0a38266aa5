package command_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LerianStudio/ledger-engine/internal/command"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
	"github.com/LerianStudio/ledger-engine/pkg/money"
)

func TestNewCashFlow_IncomeCappedRequiresCap(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("cf vault")

	_, err := h.uc.NewCashFlow(ctx, command.NewCashFlowInput{VaultID: vaultID, Name: "F", IncomeCapped: true, UserID: owner})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidFlow, apperr.KindOf(err))
}

func TestNewCashFlow_CapMustBePositive(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("cf vault 2")
	zero := money.Minor(0)

	_, err := h.uc.NewCashFlow(ctx, command.NewCashFlowInput{VaultID: vaultID, Name: "F", CapMinor: &zero, UserID: owner})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidFlow, apperr.KindOf(err))
}

func TestNewCashFlow_WithOpeningBalance(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("cf vault 3")

	flowID, err := h.uc.NewCashFlow(ctx, command.NewCashFlowInput{VaultID: vaultID, Name: "F", OpeningMinor: 75_00, UserID: owner})
	require.NoError(t, err)

	flow, err := h.uc.CashFlows.FindByID(ctx, flowID)
	require.NoError(t, err)
	assert.Equal(t, money.Minor(75_00), flow.BalanceMinor)

	sys, err := h.uc.CashFlows.FindSystemFlow(ctx, vaultID)
	require.NoError(t, err)
	assert.Equal(t, money.Minor(-75_00), sys.BalanceMinor)
}

func TestRenameCashFlow_SystemFlowImmutable(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("cf vault 4")
	sys, err := h.uc.CashFlows.FindSystemFlow(ctx, vaultID)
	require.NoError(t, err)

	err = h.uc.RenameCashFlow(ctx, command.RenameCashFlowInput{VaultID: vaultID, FlowID: sys.ID, Name: "renamed", UserID: owner})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidFlow, apperr.KindOf(err))
}

func TestSetCashFlowMode_RejectsLoweringCapBelowBalance(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("cf vault 5")
	walletID := h.newWallet(vaultID, owner, "w")
	flowID := h.newFlow(vaultID, owner, "F", nil, false)

	_, err := h.uc.Income(ctx, command.IncomeInput{VaultID: vaultID, FlowID: flowID, WalletID: walletID, AmountMinor: 100_00, CreatedBy: owner})
	require.NoError(t, err)

	cap := money.Minor(50_00)
	err = h.uc.SetCashFlowMode(ctx, command.SetCashFlowModeInput{VaultID: vaultID, FlowID: flowID, CapMinor: &cap, UserID: owner})
	require.Error(t, err)
	assert.Equal(t, apperr.KindMaxBalanceReached, apperr.KindOf(err))
}

func TestSetCashFlowMode_SwitchToIncomeCappedSeedsZero(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("cf vault 6")
	flowID := h.newFlow(vaultID, owner, "F", nil, false)

	cap := money.Minor(200_00)
	err := h.uc.SetCashFlowMode(ctx, command.SetCashFlowModeInput{VaultID: vaultID, FlowID: flowID, CapMinor: &cap, IncomeCapped: true, UserID: owner})
	require.NoError(t, err)

	flow, err := h.uc.CashFlows.FindByID(ctx, flowID)
	require.NoError(t, err)
	require.NotNil(t, flow.IncomeBalanceMinor)
	assert.Equal(t, money.Minor(0), *flow.IncomeBalanceMinor)
}
