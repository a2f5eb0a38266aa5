package authz_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LerianStudio/ledger-engine/internal/adapters/memory"
	"github.com/LerianStudio/ledger-engine/internal/authz"
	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
	"github.com/LerianStudio/ledger-engine/pkg/money"
)

func newTestResolver(t *testing.T) (*authz.Resolver, *memory.VaultRepository, *memory.VaultMembershipRepository, *memory.FlowMembershipRepository) {
	t.Helper()

	store := memory.NewStore()
	vaults := memory.NewVaultRepository(store)
	vaultMembers := memory.NewVaultMembershipRepository(store)
	flowMembers := memory.NewFlowMembershipRepository(store)

	return authz.NewResolver(vaults, vaultMembers, flowMembers), vaults, vaultMembers, flowMembers
}

func TestVaultRole_Owner(t *testing.T) {
	t.Parallel()

	resolver, vaults, _, _ := newTestResolver(t)
	ctx := context.Background()

	owner := uuid.Must(uuid.NewV7())
	vaultID := uuid.Must(uuid.NewV7())
	require.NoError(t, vaults.Create(ctx, &domain.Vault{ID: vaultID, Name: "v", OwnerUserID: owner, Currency: money.EUR}))

	role, ok, err := resolver.VaultRole(ctx, vaultID, owner)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.RoleOwner, role)
}

func TestVaultRole_MembershipFallback(t *testing.T) {
	t.Parallel()

	resolver, vaults, vaultMembers, _ := newTestResolver(t)
	ctx := context.Background()

	owner := uuid.Must(uuid.NewV7())
	editor := uuid.Must(uuid.NewV7())
	vaultID := uuid.Must(uuid.NewV7())
	require.NoError(t, vaults.Create(ctx, &domain.Vault{ID: vaultID, Name: "v", OwnerUserID: owner, Currency: money.EUR}))
	require.NoError(t, vaultMembers.Upsert(ctx, &domain.VaultMembership{VaultID: vaultID, UserID: editor, Role: domain.RoleEditor}))

	role, ok, err := resolver.VaultRole(ctx, vaultID, editor)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.RoleEditor, role)
}

func TestVaultRole_NoRole(t *testing.T) {
	t.Parallel()

	resolver, vaults, _, _ := newTestResolver(t)
	ctx := context.Background()

	owner := uuid.Must(uuid.NewV7())
	stranger := uuid.Must(uuid.NewV7())
	vaultID := uuid.Must(uuid.NewV7())
	require.NoError(t, vaults.Create(ctx, &domain.Vault{ID: vaultID, Name: "v", OwnerUserID: owner, Currency: money.EUR}))

	_, ok, err := resolver.VaultRole(ctx, vaultID, stranger)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFlowRole_VaultFallbackThenFlowMembership(t *testing.T) {
	t.Parallel()

	resolver, vaults, _, flowMembers := newTestResolver(t)
	ctx := context.Background()

	owner := uuid.Must(uuid.NewV7())
	flowViewer := uuid.Must(uuid.NewV7())
	vaultID := uuid.Must(uuid.NewV7())
	flowID := uuid.Must(uuid.NewV7())
	require.NoError(t, vaults.Create(ctx, &domain.Vault{ID: vaultID, Name: "v", OwnerUserID: owner, Currency: money.EUR}))

	role, ok, err := resolver.FlowRole(ctx, vaultID, flowID, owner)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.RoleOwner, role)

	_, ok, err = resolver.FlowRole(ctx, vaultID, flowID, flowViewer)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, flowMembers.Upsert(ctx, &domain.FlowMembership{FlowID: flowID, UserID: flowViewer, Role: domain.RoleViewer}))

	role, ok, err = resolver.FlowRole(ctx, vaultID, flowID, flowViewer)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.RoleViewer, role)
}

func TestRequireVaultWrite_ForbiddenByDefault(t *testing.T) {
	t.Parallel()

	resolver, vaults, _, _ := newTestResolver(t)
	ctx := context.Background()

	owner := uuid.Must(uuid.NewV7())
	stranger := uuid.Must(uuid.NewV7())
	vaultID := uuid.Must(uuid.NewV7())
	require.NoError(t, vaults.Create(ctx, &domain.Vault{ID: vaultID, Name: "v", OwnerUserID: owner, Currency: money.EUR}))

	err := resolver.RequireVaultWrite(ctx, vaultID, stranger)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	require.NoError(t, resolver.RequireVaultWrite(ctx, vaultID, owner))
}

func TestRequireFlowTransferWrite_VaultShortcut(t *testing.T) {
	t.Parallel()

	resolver, vaults, _, flowMembers := newTestResolver(t)
	ctx := context.Background()

	owner := uuid.Must(uuid.NewV7())
	vaultID := uuid.Must(uuid.NewV7())
	fromFlow := uuid.Must(uuid.NewV7())
	toFlow := uuid.Must(uuid.NewV7())
	require.NoError(t, vaults.Create(ctx, &domain.Vault{ID: vaultID, Name: "v", OwnerUserID: owner, Currency: money.EUR}))

	// Vault owner passes without any flow_memberships rows at all: the
	// vault-level check short-circuits before the flow lookups happen.
	require.NoError(t, resolver.RequireFlowTransferWrite(ctx, vaultID, fromFlow, toFlow, owner))

	editor := uuid.Must(uuid.NewV7())

	err := resolver.RequireFlowTransferWrite(ctx, vaultID, fromFlow, toFlow, editor)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	require.NoError(t, flowMembers.Upsert(ctx, &domain.FlowMembership{FlowID: fromFlow, UserID: editor, Role: domain.RoleEditor}))

	// Only the source flow has a role; destination is still unauthorized.
	err = resolver.RequireFlowTransferWrite(ctx, vaultID, fromFlow, toFlow, editor)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	require.NoError(t, flowMembers.Upsert(ctx, &domain.FlowMembership{FlowID: toFlow, UserID: editor, Role: domain.RoleEditor}))

	require.NoError(t, resolver.RequireFlowTransferWrite(ctx, vaultID, fromFlow, toFlow, editor))
}
