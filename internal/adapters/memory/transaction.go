package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/internal/ports"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
)

// TransactionRepository is the in-memory ports.TransactionRepository.
type TransactionRepository struct {
	store *Store
}

// NewTransactionRepository builds a TransactionRepository over store.
func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

func (r *TransactionRepository) Create(_ context.Context, tx *domain.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if tx.IdempotencyKey != nil {
		for _, existing := range r.store.transactions {
			if existing.VaultID == tx.VaultID && existing.CreatedBy == tx.CreatedBy &&
				existing.IdempotencyKey != nil && *existing.IdempotencyKey == *tx.IdempotencyKey {
				return apperr.Wrap(apperr.KindExistingKey, "Transaction", "a transaction with this idempotency key already exists", apperr.ErrIdempotencyConflict)
			}
		}
	}

	cp := *tx
	r.store.transactions[tx.ID] = &cp

	return nil
}

func (r *TransactionRepository) FindByID(_ context.Context, vaultID, id uuid.UUID) (*domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, ok := r.store.transactions[id]
	if !ok || tx.VaultID != vaultID {
		return nil, apperr.ErrTransactionNotFound
	}

	cp := *tx

	return &cp, nil
}

func (r *TransactionRepository) FindByIdempotencyKey(_ context.Context, vaultID, createdBy uuid.UUID, key string) (*domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, tx := range r.store.transactions {
		if tx.VaultID == vaultID && tx.CreatedBy == createdBy && tx.IdempotencyKey != nil && *tx.IdempotencyKey == key {
			cp := *tx

			return &cp, nil
		}
	}

	return nil, apperr.ErrTransactionNotFound
}

func (r *TransactionRepository) Void(_ context.Context, vaultID, id uuid.UUID, voidedBy uuid.UUID, voidedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, ok := r.store.transactions[id]
	if !ok || tx.VaultID != vaultID {
		return apperr.ErrTransactionNotFound
	}

	cp := *tx
	cp.VoidedAt = &voidedAt
	cp.VoidedBy = &voidedBy
	r.store.transactions[id] = &cp

	return nil
}

func (r *TransactionRepository) ListForFlow(_ context.Context, vaultID, flowID uuid.UUID, filter ports.ListTransactionsFilter) ([]*domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var matches []*domain.Transaction

	for _, tx := range r.store.transactions {
		if tx.VaultID != vaultID {
			continue
		}

		if !filter.IncludeVoided && tx.IsVoided() {
			continue
		}

		if !filter.IncludeTransfers && (tx.Kind == domain.KindTransferWallet || tx.Kind == domain.KindTransferFlow) {
			continue
		}

		if !transactionTouchesFlow(r.store, tx.ID, flowID) {
			continue
		}

		cp := *tx
		matches = append(matches, &cp)
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].OccurredAt.Equal(matches[j].OccurredAt) {
			return matches[i].OccurredAt.After(matches[j].OccurredAt)
		}

		return matches[i].ID.String() > matches[j].ID.String()
	})

	if filter.Limit > 0 && len(matches) > filter.Limit {
		matches = matches[:filter.Limit]
	}

	return matches, nil
}

func (r *TransactionRepository) ListForVaultOrderedForReplay(_ context.Context, vaultID uuid.UUID) ([]*domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*domain.Transaction

	for _, tx := range r.store.transactions {
		if tx.VaultID == vaultID {
			cp := *tx
			out = append(out, &cp)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.Before(out[j].OccurredAt)
		}

		return out[i].ID.String() < out[j].ID.String()
	})

	return out, nil
}

// transactionTouchesFlow reports whether any leg of transactionID targets
// flowID. Callers must already hold store.mu.
func transactionTouchesFlow(store *Store, transactionID, flowID uuid.UUID) bool {
	for _, l := range store.legs {
		if l.TransactionID == transactionID && l.Target.Kind == domain.TargetFlow && l.Target.ID == flowID {
			return true
		}
	}

	return false
}
