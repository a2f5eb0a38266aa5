// Package memory implements every internal/ports repository interface
// in-process, guarded by a single mutex, for use in unit and scenario
// tests. It returns the same not-found sentinels as the Postgres adapter
// and enforces the idempotency-key and one-system-flow-per-vault
// uniqueness rules, so command-layer tests exercise real repository
// contracts without a database. It does not enforce the vault-name,
// category name_norm or alias_norm unique constraints; those duplicates
// are caught only by the command layer's own lookups.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
)

// Store is the shared, mutex-guarded backing state for every in-memory
// repository. One Store is shared by all repositories handed to a single
// command.UseCase so cross-repository invariants (e.g. a transaction's
// legs referencing the same Store's wallets) hold.
type Store struct {
	mu sync.Mutex

	vaults           map[uuid.UUID]*domain.Vault
	wallets          map[uuid.UUID]*domain.Wallet
	cashFlows        map[uuid.UUID]*domain.CashFlow
	transactions     map[uuid.UUID]*domain.Transaction
	legs             map[uuid.UUID]*domain.Leg
	vaultMemberships map[string]*domain.VaultMembership
	flowMemberships  map[string]*domain.FlowMembership
	categories       map[uuid.UUID]*domain.Category
	categoryAliases  map[uuid.UUID]*domain.CategoryAlias
}

// NewStore builds an empty Store.
func NewStore() *Store {
	return &Store{
		vaults:           make(map[uuid.UUID]*domain.Vault),
		wallets:          make(map[uuid.UUID]*domain.Wallet),
		cashFlows:        make(map[uuid.UUID]*domain.CashFlow),
		transactions:     make(map[uuid.UUID]*domain.Transaction),
		legs:             make(map[uuid.UUID]*domain.Leg),
		vaultMemberships: make(map[string]*domain.VaultMembership),
		flowMemberships:  make(map[string]*domain.FlowMembership),
		categories:       make(map[uuid.UUID]*domain.Category),
		categoryAliases:  make(map[uuid.UUID]*domain.CategoryAlias),
	}
}

// TxRunner is the in-memory equivalent of a storage transaction. Each
// repository method takes the Store's lock for its own duration (each
// per-entity method calls store.mu.Lock with a deferred Unlock), so Run itself only needs to
// execute fn; real cross-call atomicity against concurrent goroutines is a
// Postgres-adapter concern, not a test-double one.
type TxRunner struct {
	Store *Store
}

// NewTxRunner builds a TxRunner over store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{Store: store}
}

// Run executes fn. There is no rollback log: a command that fails partway
// leaves whatever mutations it already made. This matches the real
// storage transaction's all-or-nothing contract only where every
// repository write happens after every validation step has succeeded. It
// does not hold for a two-leg transaction that names a new category: the
// category is created before the balance checks, and stays in the Store
// if a check then fails.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func vaultMembershipKey(vaultID, userID uuid.UUID) string {
	return vaultID.String() + ":" + userID.String()
}

func flowMembershipKey(flowID, userID uuid.UUID) string {
	return flowID.String() + ":" + userID.String()
}
