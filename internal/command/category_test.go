package command_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LerianStudio/ledger-engine/internal/command"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
)

func TestCreateCategory_DuplicateNameRejected(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("cat vault")

	_, err := h.uc.CreateCategory(ctx, command.CreateCategoryInput{VaultID: vaultID, Name: "Groceries", UserID: owner})
	require.NoError(t, err)

	_, err = h.uc.CreateCategory(ctx, command.CreateCategoryInput{VaultID: vaultID, Name: "groceries", UserID: owner})
	require.Error(t, err)
	assert.Equal(t, apperr.KindExistingKey, apperr.KindOf(err))
}

func TestResolveOrCreateCategory_EmptyResolvesToSystem(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, _ := h.newVault("resolve vault")

	ref, err := h.uc.ResolveOrCreateCategory(ctx, vaultID, "   ")
	require.NoError(t, err)
	assert.Nil(t, ref.Name)
}

func TestResolveOrCreateCategory_AliasResolves(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("alias vault")

	cat, err := h.uc.CreateCategory(ctx, command.CreateCategoryInput{VaultID: vaultID, Name: "Groceries", UserID: owner})
	require.NoError(t, err)

	_, err = h.uc.CreateCategoryAlias(ctx, vaultID, cat.ID, "Food Shopping", owner)
	require.NoError(t, err)

	ref, err := h.uc.ResolveOrCreateCategory(ctx, vaultID, "food shopping")
	require.NoError(t, err)
	require.NotNil(t, ref.Name)
	assert.Equal(t, cat.ID, ref.ID)
}

func TestUpdateCategory_SystemImmutable(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("sys cat vault")

	sys, err := h.uc.Categories.FindSystemCategory(ctx, vaultID)
	require.NoError(t, err)

	newName := "Whatever"
	_, err = h.uc.UpdateCategory(ctx, command.UpdateCategoryInput{VaultID: vaultID, ID: sys.ID, Name: &newName, UserID: owner})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidFlow, apperr.KindOf(err))
}

func TestUpdateCategory_RenameAndArchive(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("rename cat vault")

	cat, err := h.uc.CreateCategory(ctx, command.CreateCategoryInput{VaultID: vaultID, Name: "Utilities", UserID: owner})
	require.NoError(t, err)

	newName := "Household"
	archived := true

	updated, err := h.uc.UpdateCategory(ctx, command.UpdateCategoryInput{
		VaultID: vaultID, ID: cat.ID, Name: &newName, Archived: &archived, UserID: owner,
	})
	require.NoError(t, err)
	assert.Equal(t, "Household", updated.Name)
	assert.True(t, updated.Archived)
}

func TestMergeCategory_ReassignsTransactionsAndAliases(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("merge vault")

	from, err := h.uc.CreateCategory(ctx, command.CreateCategoryInput{VaultID: vaultID, Name: "Dining", UserID: owner})
	require.NoError(t, err)

	to, err := h.uc.CreateCategory(ctx, command.CreateCategoryInput{VaultID: vaultID, Name: "Restaurants", UserID: owner})
	require.NoError(t, err)

	_, err = h.uc.CreateCategoryAlias(ctx, vaultID, from.ID, "eating out", owner)
	require.NoError(t, err)

	preview, err := h.uc.PreviewCategoryMerge(ctx, vaultID, from.ID, to.ID, owner)
	require.NoError(t, err)
	assert.Empty(t, preview.ConflictingAliasNorms)

	require.NoError(t, h.uc.MergeCategory(ctx, vaultID, from.ID, to.ID, owner))

	fromAfter, err := h.uc.Categories.FindByID(ctx, vaultID, from.ID)
	require.NoError(t, err)
	assert.True(t, fromAfter.Archived)

	aliases, err := h.uc.CategoryAliases.ListByCategory(ctx, to.ID)
	require.NoError(t, err)
	require.Len(t, aliases, 1)
	assert.Equal(t, "eating out", aliases[0].Alias)
}

func TestMergeCategory_SystemCannotBeMergedAway(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	vaultID, owner := h.newVault("merge sys vault")

	sys, err := h.uc.Categories.FindSystemCategory(ctx, vaultID)
	require.NoError(t, err)

	other, err := h.uc.CreateCategory(ctx, command.CreateCategoryInput{VaultID: vaultID, Name: "Other", UserID: owner})
	require.NoError(t, err)

	err = h.uc.MergeCategory(ctx, vaultID, sys.ID, other.ID, owner)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidFlow, apperr.KindOf(err))
}
