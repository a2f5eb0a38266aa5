package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
)

// VaultRepository is the in-memory ports.VaultRepository.
type VaultRepository struct {
	store *Store
}

// NewVaultRepository builds a VaultRepository over store.
func NewVaultRepository(store *Store) *VaultRepository {
	return &VaultRepository{store: store}
}

func (r *VaultRepository) Create(_ context.Context, v *domain.Vault) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cp := *v
	r.store.vaults[v.ID] = &cp

	return nil
}

func (r *VaultRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Vault, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	v, ok := r.store.vaults[id]
	if !ok {
		return nil, apperr.ErrVaultNotFound
	}

	cp := *v

	return &cp, nil
}

func (r *VaultRepository) FindByOwnerAndName(_ context.Context, ownerUserID uuid.UUID, name string) (*domain.Vault, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, v := range r.store.vaults {
		if v.OwnerUserID == ownerUserID && domain.NormalizeCategoryKey(v.Name) == domain.NormalizeCategoryKey(name) {
			cp := *v

			return &cp, nil
		}
	}

	return nil, apperr.ErrVaultNotFound
}
