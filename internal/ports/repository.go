// Package ports declares the repository interfaces the command and query
// layers depend on. Concrete implementations live in internal/adapters
// (postgres for production, memory for tests); both satisfy the same
// interfaces so a UseCase never imports a storage driver directly.
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
)

// VaultRepository persists vaults.
//
//go:generate mockgen --destination=../gen/mock/vault_repository_mock.go --package=mock . VaultRepository
type VaultRepository interface {
	Create(ctx context.Context, v *domain.Vault) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Vault, error)
	FindByOwnerAndName(ctx context.Context, ownerUserID uuid.UUID, name string) (*domain.Vault, error)
}

// WalletRepository persists wallets.
//
//go:generate mockgen --destination=../gen/mock/wallet_repository_mock.go --package=mock . WalletRepository
type WalletRepository interface {
	Create(ctx context.Context, w *domain.Wallet) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	ListByVault(ctx context.Context, vaultID uuid.UUID) ([]*domain.Wallet, error)
	Update(ctx context.Context, w *domain.Wallet) error
}

// CashFlowRepository persists cash flows.
//
//go:generate mockgen --destination=../gen/mock/cash_flow_repository_mock.go --package=mock . CashFlowRepository
type CashFlowRepository interface {
	Create(ctx context.Context, f *domain.CashFlow) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.CashFlow, error)
	FindSystemFlow(ctx context.Context, vaultID uuid.UUID) (*domain.CashFlow, error)
	ListByVault(ctx context.Context, vaultID uuid.UUID) ([]*domain.CashFlow, error)
	Update(ctx context.Context, f *domain.CashFlow) error
}

// TransactionRepository persists transaction headers.
//
//go:generate mockgen --destination=../gen/mock/transaction_repository_mock.go --package=mock . TransactionRepository
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	FindByID(ctx context.Context, vaultID, id uuid.UUID) (*domain.Transaction, error)
	FindByIdempotencyKey(ctx context.Context, vaultID, createdBy uuid.UUID, key string) (*domain.Transaction, error)
	Void(ctx context.Context, vaultID, id uuid.UUID, voidedBy uuid.UUID, voidedAt time.Time) error
	ListForFlow(ctx context.Context, vaultID, flowID uuid.UUID, filter ListTransactionsFilter) ([]*domain.Transaction, error)
	ListForVaultOrderedForReplay(ctx context.Context, vaultID uuid.UUID) ([]*domain.Transaction, error)
}

// ListTransactionsFilter narrows ListForFlow per spec §4.6.
type ListTransactionsFilter struct {
	Limit             int
	IncludeVoided     bool
	IncludeTransfers  bool
}

// LegRepository persists legs, the signed entries that move money.
//
//go:generate mockgen --destination=../gen/mock/leg_repository_mock.go --package=mock . LegRepository
type LegRepository interface {
	CreateBatch(ctx context.Context, legs []*domain.Leg) error
	ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*domain.Leg, error)
	ListByVaultOrderedForReplay(ctx context.Context, vaultID uuid.UUID) ([]*domain.Leg, error)
}

// VaultMembershipRepository persists vault-level roles.
//
//go:generate mockgen --destination=../gen/mock/vault_membership_repository_mock.go --package=mock . VaultMembershipRepository
type VaultMembershipRepository interface {
	Upsert(ctx context.Context, m *domain.VaultMembership) error
	Remove(ctx context.Context, vaultID, userID uuid.UUID) error
	Find(ctx context.Context, vaultID, userID uuid.UUID) (*domain.VaultMembership, error)
	ListByVault(ctx context.Context, vaultID uuid.UUID) ([]*domain.VaultMembership, error)
}

// FlowMembershipRepository persists flow-level roles.
//
//go:generate mockgen --destination=../gen/mock/flow_membership_repository_mock.go --package=mock . FlowMembershipRepository
type FlowMembershipRepository interface {
	Upsert(ctx context.Context, m *domain.FlowMembership) error
	Remove(ctx context.Context, flowID, userID uuid.UUID) error
	Find(ctx context.Context, flowID, userID uuid.UUID) (*domain.FlowMembership, error)
	ListByFlow(ctx context.Context, flowID uuid.UUID) ([]*domain.FlowMembership, error)
}

// CategoryRepository persists categories.
//
//go:generate mockgen --destination=../gen/mock/category_repository_mock.go --package=mock . CategoryRepository
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	FindByID(ctx context.Context, vaultID, id uuid.UUID) (*domain.Category, error)
	FindByNameNorm(ctx context.Context, vaultID uuid.UUID, nameNorm string) (*domain.Category, error)
	FindSystemCategory(ctx context.Context, vaultID uuid.UUID) (*domain.Category, error)
	ListByVault(ctx context.Context, vaultID uuid.UUID, includeArchived bool) ([]*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	ReassignTransactions(ctx context.Context, vaultID, fromCategoryID, toCategoryID uuid.UUID) error
}

// CategoryAliasRepository persists category aliases.
//
//go:generate mockgen --destination=../gen/mock/category_alias_repository_mock.go --package=mock . CategoryAliasRepository
type CategoryAliasRepository interface {
	Create(ctx context.Context, a *domain.CategoryAlias) error
	Delete(ctx context.Context, vaultID, id uuid.UUID) error
	FindByAliasNorm(ctx context.Context, vaultID uuid.UUID, aliasNorm string) (*domain.CategoryAlias, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.CategoryAlias, error)
	ListByVault(ctx context.Context, vaultID uuid.UUID) ([]*domain.CategoryAlias, error)
	Reassign(ctx context.Context, aliasID, toCategoryID uuid.UUID) error
}
