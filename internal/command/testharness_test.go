package command_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/LerianStudio/ledger-engine/internal/adapters/memory"
	"github.com/LerianStudio/ledger-engine/internal/authz"
	"github.com/LerianStudio/ledger-engine/internal/command"
	"github.com/LerianStudio/ledger-engine/pkg/money"
)

// harness wires a command.UseCase against a fresh in-memory store, the
// shape every property and scenario test in this package builds on.
type harness struct {
	t  *testing.T
	uc *command.UseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store := memory.NewStore()

	vaults := memory.NewVaultRepository(store)
	wallets := memory.NewWalletRepository(store)
	flows := memory.NewCashFlowRepository(store)
	txs := memory.NewTransactionRepository(store)
	legs := memory.NewLegRepository(store)
	vaultMembers := memory.NewVaultMembershipRepository(store)
	flowMembers := memory.NewFlowMembershipRepository(store)
	categories := memory.NewCategoryRepository(store)
	categoryAliases := memory.NewCategoryAliasRepository(store)

	uc := &command.UseCase{
		Vaults:          vaults,
		Wallets:         wallets,
		CashFlows:       flows,
		Transactions:    txs,
		Legs:            legs,
		VaultMembers:    vaultMembers,
		FlowMembers:     flowMembers,
		Categories:      categories,
		CategoryAliases: categoryAliases,
		Authz:           authz.NewResolver(vaults, vaultMembers, flowMembers),
		TxRunner:        memory.NewTxRunner(store),
	}

	return &harness{t: t, uc: uc}
}

// newVault creates a vault owned by a fresh user id and returns both ids.
func (h *harness) newVault(name string) (vaultID, ownerID uuid.UUID) {
	h.t.Helper()

	ctx := context.Background()
	owner := uuid.Must(uuid.NewV7())

	id, err := h.uc.NewVault(ctx, command.NewVaultInput{
		Name:        name,
		OwnerUserID: owner,
		Currency:    money.EUR,
	})
	require.NoError(h.t, err)

	return id, owner
}

func (h *harness) newWallet(vaultID, ownerID uuid.UUID, name string) uuid.UUID {
	h.t.Helper()

	id, err := h.uc.NewWallet(context.Background(), command.NewWalletInput{
		VaultID: vaultID,
		Name:    name,
		UserID:  ownerID,
	})
	require.NoError(h.t, err)

	return id
}

func (h *harness) newFlow(vaultID, ownerID uuid.UUID, name string, cap *money.Minor, incomeCapped bool) uuid.UUID {
	h.t.Helper()

	id, err := h.uc.NewCashFlow(context.Background(), command.NewCashFlowInput{
		VaultID:      vaultID,
		Name:         name,
		CapMinor:     cap,
		IncomeCapped: incomeCapped,
		UserID:       ownerID,
	})
	require.NoError(h.t, err)

	return id
}

func capOf(v int64) *money.Minor {
	m := money.Minor(v)

	return &m
}
