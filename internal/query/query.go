// Package query implements the engine's read paths: vault snapshots,
// transaction detail, and per-flow transaction listings. Every method
// checks authorization but never takes a write lock.
package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/authz"
	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/internal/ports"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
)

// UseCase aggregates the read-only repositories and the authorization
// resolver every query needs.
type UseCase struct {
	Vaults       ports.VaultRepository
	Wallets      ports.WalletRepository
	CashFlows    ports.CashFlowRepository
	Transactions ports.TransactionRepository
	Legs         ports.LegRepository
	Categories   ports.CategoryRepository

	Authz *authz.Resolver
}

// VaultSnapshot is the result of vault_snapshot: a vault with its wallets
// and flows, current denormalized balances included.
type VaultSnapshot struct {
	Vault   *domain.Vault
	Wallets []*domain.Wallet
	Flows   []*domain.CashFlow
}

// VaultSnapshotByID resolves a snapshot by vault id.
func (uc *UseCase) VaultSnapshotByID(ctx context.Context, vaultID, userID uuid.UUID) (*VaultSnapshot, error) {
	if err := uc.Authz.RequireVaultRead(ctx, vaultID, userID); err != nil {
		return nil, err
	}

	vault, err := uc.Vaults.FindByID(ctx, vaultID)
	if err != nil {
		return nil, err
	}

	return uc.buildSnapshot(ctx, vault)
}

// VaultSnapshotByOwnerAndName resolves a snapshot by owner + vault name,
// the id_or_name lookup spec §4.6 names.
func (uc *UseCase) VaultSnapshotByOwnerAndName(ctx context.Context, ownerUserID uuid.UUID, name string, userID uuid.UUID) (*VaultSnapshot, error) {
	vault, err := uc.Vaults.FindByOwnerAndName(ctx, ownerUserID, name)
	if err != nil {
		return nil, err
	}

	if err := uc.Authz.RequireVaultRead(ctx, vault.ID, userID); err != nil {
		return nil, err
	}

	return uc.buildSnapshot(ctx, vault)
}

func (uc *UseCase) buildSnapshot(ctx context.Context, vault *domain.Vault) (*VaultSnapshot, error) {
	wallets, err := uc.Wallets.ListByVault(ctx, vault.ID)
	if err != nil {
		return nil, err
	}

	flows, err := uc.CashFlows.ListByVault(ctx, vault.ID)
	if err != nil {
		return nil, err
	}

	return &VaultSnapshot{Vault: vault, Wallets: wallets, Flows: flows}, nil
}

// TransactionDetail is the result of transaction_with_legs.
type TransactionDetail struct {
	Transaction *domain.Transaction
	Legs        []*domain.Leg
}

// TransactionWithLegs resolves a transaction header plus its ordered legs.
func (uc *UseCase) TransactionWithLegs(ctx context.Context, vaultID, txID, userID uuid.UUID) (*TransactionDetail, error) {
	if err := uc.Authz.RequireVaultRead(ctx, vaultID, userID); err != nil {
		return nil, err
	}

	tx, err := uc.Transactions.FindByID(ctx, vaultID, txID)
	if err != nil {
		return nil, err
	}

	legs, err := uc.Legs.ListByTransaction(ctx, txID)
	if err != nil {
		return nil, err
	}

	return &TransactionDetail{Transaction: tx, Legs: legs}, nil
}

// FlowTransactionRow is one row of list_transactions_for_flow: a header
// plus the signed amount of just this flow's legs on that transaction.
type FlowTransactionRow struct {
	Transaction  *domain.Transaction
	SignedAmount int64
}

// ListTransactionsForFlow lists transactions touching a flow, newest first,
// with per-row signed amount and the include_voided/include_transfers
// filters of spec §4.6.
func (uc *UseCase) ListTransactionsForFlow(ctx context.Context, vaultID, flowID, userID uuid.UUID, limit int, includeVoided, includeTransfers bool) ([]FlowTransactionRow, error) {
	if role, ok, err := uc.Authz.FlowRole(ctx, vaultID, flowID, userID); err != nil {
		return nil, err
	} else if !ok || role == "" {
		return nil, apperr.Wrap(apperr.KindForbidden, "CashFlow", "the caller does not have a role on this flow", apperr.ErrNotAuthorized)
	}

	txs, err := uc.Transactions.ListForFlow(ctx, vaultID, flowID, ports.ListTransactionsFilter{
		Limit:            limit,
		IncludeVoided:    includeVoided,
		IncludeTransfers: includeTransfers,
	})
	if err != nil {
		return nil, err
	}

	rows := make([]FlowTransactionRow, 0, len(txs))

	for _, tx := range txs {
		legs, err := uc.Legs.ListByTransaction(ctx, tx.ID)
		if err != nil {
			return nil, err
		}

		var signed int64

		for _, l := range legs {
			if l.Target.Kind == domain.TargetFlow && l.Target.ID == flowID {
				signed += int64(l.AmountMinor)
			}
		}

		rows = append(rows, FlowTransactionRow{Transaction: tx, SignedAmount: signed})
	}

	return rows, nil
}
