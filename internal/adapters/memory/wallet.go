package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
)

// WalletRepository is the in-memory ports.WalletRepository.
type WalletRepository struct {
	store *Store
}

// NewWalletRepository builds a WalletRepository over store.
func NewWalletRepository(store *Store) *WalletRepository {
	return &WalletRepository{store: store}
}

func (r *WalletRepository) Create(_ context.Context, w *domain.Wallet) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cp := *w
	r.store.wallets[w.ID] = &cp

	return nil
}

func (r *WalletRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	w, ok := r.store.wallets[id]
	if !ok {
		return nil, apperr.ErrWalletNotFound
	}

	cp := *w

	return &cp, nil
}

func (r *WalletRepository) ListByVault(_ context.Context, vaultID uuid.UUID) ([]*domain.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*domain.Wallet

	for _, w := range r.store.wallets {
		if w.VaultID == vaultID {
			cp := *w
			out = append(out, &cp)
		}
	}

	return out, nil
}

func (r *WalletRepository) Update(_ context.Context, w *domain.Wallet) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.wallets[w.ID]; !ok {
		return apperr.ErrWalletNotFound
	}

	cp := *w
	r.store.wallets[w.ID] = &cp

	return nil
}
