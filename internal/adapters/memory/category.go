package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
)

// CategoryRepository is the in-memory ports.CategoryRepository.
type CategoryRepository struct {
	store *Store
}

// NewCategoryRepository builds a CategoryRepository over store.
func NewCategoryRepository(store *Store) *CategoryRepository {
	return &CategoryRepository{store: store}
}

func (r *CategoryRepository) Create(_ context.Context, c *domain.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cp := *c
	r.store.categories[c.ID] = &cp

	return nil
}

func (r *CategoryRepository) FindByID(_ context.Context, vaultID, id uuid.UUID) (*domain.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.categories[id]
	if !ok || c.VaultID != vaultID {
		return nil, apperr.ErrCategoryNotFound
	}

	cp := *c

	return &cp, nil
}

func (r *CategoryRepository) FindByNameNorm(_ context.Context, vaultID uuid.UUID, nameNorm string) (*domain.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, c := range r.store.categories {
		if c.VaultID == vaultID && c.NameNorm == nameNorm {
			cp := *c

			return &cp, nil
		}
	}

	return nil, apperr.ErrCategoryNotFound
}

func (r *CategoryRepository) FindSystemCategory(_ context.Context, vaultID uuid.UUID) (*domain.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, c := range r.store.categories {
		if c.VaultID == vaultID && c.IsSystem {
			cp := *c

			return &cp, nil
		}
	}

	return nil, apperr.ErrCategoryNotFound
}

func (r *CategoryRepository) ListByVault(_ context.Context, vaultID uuid.UUID, includeArchived bool) ([]*domain.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*domain.Category

	for _, c := range r.store.categories {
		if c.VaultID != vaultID {
			continue
		}

		if c.Archived && !includeArchived {
			continue
		}

		cp := *c
		out = append(out, &cp)
	}

	return out, nil
}

func (r *CategoryRepository) Update(_ context.Context, c *domain.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.categories[c.ID]; !ok {
		return apperr.ErrCategoryNotFound
	}

	cp := *c
	r.store.categories[c.ID] = &cp

	return nil
}

func (r *CategoryRepository) ReassignTransactions(_ context.Context, vaultID, fromCategoryID, toCategoryID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, tx := range r.store.transactions {
		if tx.VaultID == vaultID && tx.CategoryID != nil && *tx.CategoryID == fromCategoryID {
			to := toCategoryID
			tx.CategoryID = &to
		}
	}

	return nil
}

// CategoryAliasRepository is the in-memory ports.CategoryAliasRepository.
type CategoryAliasRepository struct {
	store *Store
}

// NewCategoryAliasRepository builds a CategoryAliasRepository over store.
func NewCategoryAliasRepository(store *Store) *CategoryAliasRepository {
	return &CategoryAliasRepository{store: store}
}

func (r *CategoryAliasRepository) Create(_ context.Context, a *domain.CategoryAlias) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cp := *a
	r.store.categoryAliases[a.ID] = &cp

	return nil
}

func (r *CategoryAliasRepository) Delete(_ context.Context, vaultID, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if a, ok := r.store.categoryAliases[id]; ok && a.VaultID == vaultID {
		delete(r.store.categoryAliases, id)
	}

	return nil
}

func (r *CategoryAliasRepository) FindByAliasNorm(_ context.Context, vaultID uuid.UUID, aliasNorm string) (*domain.CategoryAlias, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, a := range r.store.categoryAliases {
		if a.VaultID == vaultID && a.AliasNorm == aliasNorm {
			cp := *a

			return &cp, nil
		}
	}

	return nil, apperr.ErrCategoryNotFound
}

func (r *CategoryAliasRepository) ListByCategory(_ context.Context, categoryID uuid.UUID) ([]*domain.CategoryAlias, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*domain.CategoryAlias

	for _, a := range r.store.categoryAliases {
		if a.CategoryID == categoryID {
			cp := *a
			out = append(out, &cp)
		}
	}

	return out, nil
}

func (r *CategoryAliasRepository) ListByVault(_ context.Context, vaultID uuid.UUID) ([]*domain.CategoryAlias, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*domain.CategoryAlias

	for _, a := range r.store.categoryAliases {
		if a.VaultID == vaultID {
			cp := *a
			out = append(out, &cp)
		}
	}

	return out, nil
}

func (r *CategoryAliasRepository) Reassign(_ context.Context, aliasID, toCategoryID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	a, ok := r.store.categoryAliases[aliasID]
	if !ok {
		return apperr.ErrCategoryNotFound
	}

	a.CategoryID = toCategoryID

	return nil
}
