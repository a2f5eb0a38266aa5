package command_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
)

func TestUpsertVaultMember_OwnerRoleRejected(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("member vault")
	target := uuid.Must(uuid.NewV7())

	err := h.uc.UpsertVaultMember(ctx, vaultID, target, domain.RoleOwner, owner)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidAmount, apperr.KindOf(err))
}

func TestUpsertVaultMember_CannotDemoteOwner(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("member vault 2")

	err := h.uc.UpsertVaultMember(ctx, vaultID, owner, domain.RoleViewer, owner)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidAmount, apperr.KindOf(err))
}

func TestUpsertVaultMember_GrantsEditor(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("member vault 3")
	editor := uuid.Must(uuid.NewV7())

	require.NoError(t, h.uc.UpsertVaultMember(ctx, vaultID, editor, domain.RoleEditor, owner))

	members, err := h.uc.ListVaultMembers(ctx, vaultID, owner)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, editor, members[0].UserID)
	assert.Equal(t, domain.RoleEditor, members[0].Role)
}

func TestRemoveVaultMember_OwnerCannotBeRemoved(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("member vault 4")

	err := h.uc.RemoveVaultMember(ctx, vaultID, owner, owner)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidAmount, apperr.KindOf(err))
}

func TestFlowMembership_UpsertAndList(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("flow member vault")
	flowID := h.newFlow(vaultID, owner, "F", nil, false)
	viewer := uuid.Must(uuid.NewV7())

	require.NoError(t, h.uc.UpsertFlowMember(ctx, vaultID, flowID, viewer, domain.RoleViewer, owner))

	members, err := h.uc.ListFlowMembers(ctx, vaultID, flowID, owner)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, viewer, members[0].UserID)

	_, err = h.uc.ListFlowMembers(ctx, vaultID, flowID, uuid.Must(uuid.NewV7()))
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	require.NoError(t, h.uc.RemoveFlowMember(ctx, vaultID, flowID, viewer, owner))

	members, err = h.uc.ListFlowMembers(ctx, vaultID, flowID, owner)
	require.NoError(t, err)
	assert.Empty(t, members)
}
