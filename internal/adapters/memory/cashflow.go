package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
)

// CashFlowRepository is the in-memory ports.CashFlowRepository.
type CashFlowRepository struct {
	store *Store
}

// NewCashFlowRepository builds a CashFlowRepository over store.
func NewCashFlowRepository(store *Store) *CashFlowRepository {
	return &CashFlowRepository{store: store}
}

func (r *CashFlowRepository) Create(_ context.Context, f *domain.CashFlow) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if f.SystemKind == domain.SystemKindUnallocated {
		for _, existing := range r.store.cashFlows {
			if existing.VaultID == f.VaultID && existing.SystemKind == domain.SystemKindUnallocated {
				return apperr.Wrap(apperr.KindInvalidFlow, "CashFlow", "vault already has a system flow", apperr.ErrDuplicateSystemFlow)
			}
		}
	}

	cp := *f
	r.store.cashFlows[f.ID] = &cp

	return nil
}

func (r *CashFlowRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.CashFlow, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	f, ok := r.store.cashFlows[id]
	if !ok {
		return nil, apperr.ErrFlowNotFound
	}

	cp := *f

	return &cp, nil
}

func (r *CashFlowRepository) FindSystemFlow(_ context.Context, vaultID uuid.UUID) (*domain.CashFlow, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, f := range r.store.cashFlows {
		if f.VaultID == vaultID && f.SystemKind == domain.SystemKindUnallocated {
			cp := *f

			return &cp, nil
		}
	}

	return nil, apperr.ErrFlowNotFound
}

func (r *CashFlowRepository) ListByVault(_ context.Context, vaultID uuid.UUID) ([]*domain.CashFlow, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*domain.CashFlow

	for _, f := range r.store.cashFlows {
		if f.VaultID == vaultID {
			cp := *f
			out = append(out, &cp)
		}
	}

	return out, nil
}

func (r *CashFlowRepository) Update(_ context.Context, f *domain.CashFlow) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.cashFlows[f.ID]; !ok {
		return apperr.ErrFlowNotFound
	}

	cp := *f
	r.store.cashFlows[f.ID] = &cp

	return nil
}
