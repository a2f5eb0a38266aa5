package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
)

// VaultMembershipRepository is the in-memory ports.VaultMembershipRepository.
type VaultMembershipRepository struct {
	store *Store
}

// NewVaultMembershipRepository builds a VaultMembershipRepository over store.
func NewVaultMembershipRepository(store *Store) *VaultMembershipRepository {
	return &VaultMembershipRepository{store: store}
}

func (r *VaultMembershipRepository) Upsert(_ context.Context, m *domain.VaultMembership) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cp := *m
	r.store.vaultMemberships[vaultMembershipKey(m.VaultID, m.UserID)] = &cp

	return nil
}

func (r *VaultMembershipRepository) Remove(_ context.Context, vaultID, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.vaultMemberships, vaultMembershipKey(vaultID, userID))

	return nil
}

func (r *VaultMembershipRepository) Find(_ context.Context, vaultID, userID uuid.UUID) (*domain.VaultMembership, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m, ok := r.store.vaultMemberships[vaultMembershipKey(vaultID, userID)]
	if !ok {
		return nil, apperr.ErrMembershipNotFound
	}

	cp := *m

	return &cp, nil
}

func (r *VaultMembershipRepository) ListByVault(_ context.Context, vaultID uuid.UUID) ([]*domain.VaultMembership, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*domain.VaultMembership

	for _, m := range r.store.vaultMemberships {
		if m.VaultID == vaultID {
			cp := *m
			out = append(out, &cp)
		}
	}

	return out, nil
}

// FlowMembershipRepository is the in-memory ports.FlowMembershipRepository.
type FlowMembershipRepository struct {
	store *Store
}

// NewFlowMembershipRepository builds a FlowMembershipRepository over store.
func NewFlowMembershipRepository(store *Store) *FlowMembershipRepository {
	return &FlowMembershipRepository{store: store}
}

func (r *FlowMembershipRepository) Upsert(_ context.Context, m *domain.FlowMembership) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cp := *m
	r.store.flowMemberships[flowMembershipKey(m.FlowID, m.UserID)] = &cp

	return nil
}

func (r *FlowMembershipRepository) Remove(_ context.Context, flowID, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.flowMemberships, flowMembershipKey(flowID, userID))

	return nil
}

func (r *FlowMembershipRepository) Find(_ context.Context, flowID, userID uuid.UUID) (*domain.FlowMembership, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m, ok := r.store.flowMemberships[flowMembershipKey(flowID, userID)]
	if !ok {
		return nil, apperr.ErrMembershipNotFound
	}

	cp := *m

	return &cp, nil
}

func (r *FlowMembershipRepository) ListByFlow(_ context.Context, flowID uuid.UUID) ([]*domain.FlowMembership, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*domain.FlowMembership

	for _, m := range r.store.flowMemberships {
		if m.FlowID == flowID {
			cp := *m
			out = append(out, &cp)
		}
	}

	return out, nil
}
