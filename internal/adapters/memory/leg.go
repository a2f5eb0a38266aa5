package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
)

// LegRepository is the in-memory ports.LegRepository.
type LegRepository struct {
	store *Store
}

// NewLegRepository builds a LegRepository over store.
func NewLegRepository(store *Store) *LegRepository {
	return &LegRepository{store: store}
}

func (r *LegRepository) CreateBatch(_ context.Context, legs []*domain.Leg) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, l := range legs {
		cp := *l
		r.store.legs[l.ID] = &cp
	}

	return nil
}

func (r *LegRepository) ListByTransaction(_ context.Context, transactionID uuid.UUID) ([]*domain.Leg, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*domain.Leg

	for _, l := range r.store.legs {
		if l.TransactionID == transactionID {
			cp := *l
			out = append(out, &cp)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })

	return out, nil
}

func (r *LegRepository) ListByVaultOrderedForReplay(_ context.Context, vaultID uuid.UUID) ([]*domain.Leg, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*domain.Leg

	for _, l := range r.store.legs {
		tx, ok := r.store.transactions[l.TransactionID]
		if !ok || tx.VaultID != vaultID || tx.IsVoided() {
			continue
		}

		cp := *l
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		txI := r.store.transactions[out[i].TransactionID]
		txJ := r.store.transactions[out[j].TransactionID]

		if !txI.OccurredAt.Equal(txJ.OccurredAt) {
			return txI.OccurredAt.Before(txJ.OccurredAt)
		}

		return out[i].ID.String() < out[j].ID.String()
	})

	return out, nil
}
