package command

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
)

// resolveOrCreateCategoryID implements spec §4.2's resolve-or-create: empty
// input resolves to the vault's system Uncategorized category; otherwise it
// looks up by name_norm, then by alias_norm, then runs the similarity
// guard before creating a new row.
func (uc *UseCase) resolveOrCreateCategoryID(ctx context.Context, vaultID uuid.UUID, raw string) (*uuid.UUID, error) {
	ref, err := uc.ResolveOrCreateCategory(ctx, vaultID, raw)
	if err != nil {
		return nil, err
	}

	return &ref.ID, nil
}

// ResolveOrCreateCategory resolves free-text category input to a
// domain.CategoryRef, creating a new category row if nothing matches and no
// existing category is too similar. A nil Name on the returned ref means
// the caller resolved to the system Uncategorized category.
func (uc *UseCase) ResolveOrCreateCategory(ctx context.Context, vaultID uuid.UUID, raw string) (*domain.CategoryRef, error) {
	display := domain.NormalizeCategoryDisplay(raw)
	if display == "" {
		sys, err := uc.Categories.FindSystemCategory(ctx, vaultID)
		if err != nil {
			return nil, err
		}

		return &domain.CategoryRef{ID: sys.ID, Name: nil}, nil
	}

	keyNorm := domain.NormalizeCategoryKey(display)

	if existing, err := uc.Categories.FindByNameNorm(ctx, vaultID, keyNorm); err == nil {
		return categoryRefOf(existing), nil
	} else if !errors.Is(err, apperr.ErrCategoryNotFound) {
		return nil, err
	}

	if alias, err := uc.CategoryAliases.FindByAliasNorm(ctx, vaultID, keyNorm); err == nil {
		cat, err := uc.Categories.FindByID(ctx, vaultID, alias.CategoryID)
		if err != nil {
			return nil, err
		}

		return categoryRefOf(cat), nil
	} else if !errors.Is(err, apperr.ErrCategoryNotFound) {
		return nil, err
	}

	if err := uc.rejectIfTooSimilar(ctx, vaultID, keyNorm); err != nil {
		return nil, err
	}

	cat := &domain.Category{
		ID:       uuid.Must(uuid.NewV7()),
		VaultID:  vaultID,
		Name:     display,
		NameNorm: keyNorm,
	}

	if err := uc.Categories.Create(ctx, cat); err != nil {
		return nil, err
	}

	return categoryRefOf(cat), nil
}

func categoryRefOf(c *domain.Category) *domain.CategoryRef {
	if c.IsSystem {
		return &domain.CategoryRef{ID: c.ID, Name: nil}
	}

	name := c.Name

	return &domain.CategoryRef{ID: c.ID, Name: &name}
}

// rejectIfTooSimilar runs the edit-distance guard against every non-system
// category in the vault, failing with the closest match's name when any
// candidate falls within threshold.
func (uc *UseCase) rejectIfTooSimilar(ctx context.Context, vaultID uuid.UUID, keyNorm string) error {
	existing, err := uc.Categories.ListByVault(ctx, vaultID, true)
	if err != nil {
		return err
	}

	threshold := domain.SimilarityThreshold(len([]rune(keyNorm)))

	type candidate struct {
		name     string
		distance int
	}

	var best *candidate

	for _, c := range existing {
		if c.IsSystem {
			continue
		}

		d := domain.LevenshteinDistance(keyNorm, c.NameNorm)
		if d > threshold {
			continue
		}

		cand := candidate{name: c.Name, distance: d}
		if best == nil || cand.distance < best.distance ||
			(cand.distance == best.distance && len(cand.name) < len(best.name)) {
			best = &cand
		}
	}

	if best != nil {
		return apperr.Wrap(apperr.KindInvalidName, "Category",
			"too similar to existing category '"+best.name+"'; confirm by using the existing name",
			apperr.ErrCategoryTooSimilar)
	}

	return nil
}

// CreateCategoryInput is the command record for explicit category creation
// (as opposed to the implicit resolve-or-create a transaction triggers).
type CreateCategoryInput struct {
	VaultID   uuid.UUID
	Name      string
	UserID    uuid.UUID
}

// CreateCategory creates a category explicitly, subject to the same
// similarity guard as implicit resolution.
func (uc *UseCase) CreateCategory(ctx context.Context, in CreateCategoryInput) (*domain.Category, error) {
	if err := uc.Authz.RequireVaultWrite(ctx, in.VaultID, in.UserID); err != nil {
		return nil, err
	}

	display := domain.NormalizeCategoryDisplay(in.Name)
	if display == "" {
		return nil, apperr.InvalidName("Category", "name must not be empty")
	}

	var cat *domain.Category

	err := uc.TxRunner.Run(ctx, func(ctx context.Context) error {
		keyNorm := domain.NormalizeCategoryKey(display)

		if _, err := uc.Categories.FindByNameNorm(ctx, in.VaultID, keyNorm); err == nil {
			return apperr.Wrap(apperr.KindExistingKey, "Category", "a category with this name already exists in the vault", apperr.ErrCategoryNameConflict)
		} else if !errors.Is(err, apperr.ErrCategoryNotFound) {
			return err
		}

		if err := uc.rejectIfTooSimilar(ctx, in.VaultID, keyNorm); err != nil {
			return err
		}

		cat = &domain.Category{
			ID:       uuid.Must(uuid.NewV7()),
			VaultID:  in.VaultID,
			Name:     display,
			NameNorm: keyNorm,
		}

		return uc.Categories.Create(ctx, cat)
	})

	return cat, err
}

// ListCategories lists every category in a vault, read-authorized.
func (uc *UseCase) ListCategories(ctx context.Context, vaultID, userID uuid.UUID, includeArchived bool) ([]*domain.Category, error) {
	if err := uc.Authz.RequireVaultRead(ctx, vaultID, userID); err != nil {
		return nil, err
	}

	return uc.Categories.ListByVault(ctx, vaultID, includeArchived)
}

// UpdateCategoryInput renames or archives a category. The system category
// rejects both.
type UpdateCategoryInput struct {
	VaultID  uuid.UUID
	ID       uuid.UUID
	Name     *string
	Archived *bool
	UserID   uuid.UUID
}

// UpdateCategory renames and/or archives a category.
func (uc *UseCase) UpdateCategory(ctx context.Context, in UpdateCategoryInput) (*domain.Category, error) {
	if err := uc.Authz.RequireVaultWrite(ctx, in.VaultID, in.UserID); err != nil {
		return nil, err
	}

	var cat *domain.Category

	err := uc.TxRunner.Run(ctx, func(ctx context.Context) error {
		existing, err := uc.Categories.FindByID(ctx, in.VaultID, in.ID)
		if err != nil {
			return err
		}

		if existing.IsSystem {
			return apperr.Wrap(apperr.KindInvalidFlow, "Category", "the system category cannot be renamed or archived", apperr.ErrSystemFlowImmutable)
		}

		if in.Name != nil {
			display := domain.NormalizeCategoryDisplay(*in.Name)
			if display == "" {
				return apperr.InvalidName("Category", "name must not be empty")
			}

			existing.Name = display
			existing.NameNorm = domain.NormalizeCategoryKey(display)
		}

		if in.Archived != nil {
			existing.Archived = *in.Archived
		}

		if err := uc.Categories.Update(ctx, existing); err != nil {
			return err
		}

		cat = existing

		return nil
	})

	return cat, err
}

// CreateCategoryAlias adds an alternate spelling resolving to a category.
func (uc *UseCase) CreateCategoryAlias(ctx context.Context, vaultID, categoryID uuid.UUID, alias string, userID uuid.UUID) (*domain.CategoryAlias, error) {
	if err := uc.Authz.RequireVaultWrite(ctx, vaultID, userID); err != nil {
		return nil, err
	}

	display := domain.NormalizeCategoryDisplay(alias)
	if display == "" {
		return nil, apperr.InvalidName("Category", "alias must not be empty")
	}

	var created *domain.CategoryAlias

	err := uc.TxRunner.Run(ctx, func(ctx context.Context) error {
		if _, err := uc.Categories.FindByID(ctx, vaultID, categoryID); err != nil {
			return err
		}

		norm := domain.NormalizeCategoryKey(display)

		if _, err := uc.CategoryAliases.FindByAliasNorm(ctx, vaultID, norm); err == nil {
			return apperr.Wrap(apperr.KindExistingKey, "CategoryAlias", "this alias is already in use in the vault", apperr.ErrAliasConflict)
		} else if !errors.Is(err, apperr.ErrCategoryNotFound) {
			return err
		}

		if _, err := uc.Categories.FindByNameNorm(ctx, vaultID, norm); err == nil {
			return apperr.Wrap(apperr.KindExistingKey, "CategoryAlias", "this alias matches a category name in the vault", apperr.ErrAliasConflict)
		} else if !errors.Is(err, apperr.ErrCategoryNotFound) {
			return err
		}

		created = &domain.CategoryAlias{
			ID:         uuid.Must(uuid.NewV7()),
			VaultID:    vaultID,
			CategoryID: categoryID,
			Alias:      display,
			AliasNorm:  norm,
		}

		return uc.CategoryAliases.Create(ctx, created)
	})

	return created, err
}

// DeleteCategoryAlias removes an alias.
func (uc *UseCase) DeleteCategoryAlias(ctx context.Context, vaultID, aliasID, userID uuid.UUID) error {
	if err := uc.Authz.RequireVaultWrite(ctx, vaultID, userID); err != nil {
		return err
	}

	return uc.TxRunner.Run(ctx, func(ctx context.Context) error {
		return uc.CategoryAliases.Delete(ctx, vaultID, aliasID)
	})
}

// ListCategoryAliases lists every alias in a vault, read-authorized.
func (uc *UseCase) ListCategoryAliases(ctx context.Context, vaultID, userID uuid.UUID) ([]*domain.CategoryAlias, error) {
	if err := uc.Authz.RequireVaultRead(ctx, vaultID, userID); err != nil {
		return nil, err
	}

	return uc.CategoryAliases.ListByVault(ctx, vaultID)
}

// CategoryMergePreview is the result of previewing a merge without
// mutating anything: the set of alias conflicts that would need
// resolution.
type CategoryMergePreview struct {
	ConflictingAliasNorms []string
}

// PreviewCategoryMerge reports which of A's aliases collide by alias_norm
// with an alias already on B, without mutating anything.
func (uc *UseCase) PreviewCategoryMerge(ctx context.Context, vaultID, fromID, toID, userID uuid.UUID) (*CategoryMergePreview, error) {
	if err := uc.Authz.RequireVaultRead(ctx, vaultID, userID); err != nil {
		return nil, err
	}

	fromAliases, err := uc.CategoryAliases.ListByCategory(ctx, fromID)
	if err != nil {
		return nil, err
	}

	toAliases, err := uc.CategoryAliases.ListByCategory(ctx, toID)
	if err != nil {
		return nil, err
	}

	toNorms := make(map[string]bool, len(toAliases))
	for _, a := range toAliases {
		toNorms[a.AliasNorm] = true
	}

	var conflicts []string

	for _, a := range fromAliases {
		if toNorms[a.AliasNorm] {
			conflicts = append(conflicts, a.AliasNorm)
		}
	}

	sort.Strings(conflicts)

	return &CategoryMergePreview{ConflictingAliasNorms: conflicts}, nil
}

// MergeCategory merges fromID into toID: every transaction pointing at
// fromID is rewritten to point at toID, fromID's non-conflicting aliases
// move to toID, conflicting ones are dropped, and fromID is archived.
func (uc *UseCase) MergeCategory(ctx context.Context, vaultID, fromID, toID, userID uuid.UUID) error {
	if err := uc.Authz.RequireVaultWrite(ctx, vaultID, userID); err != nil {
		return err
	}

	if fromID == toID {
		return apperr.Wrap(apperr.KindInvalidAmount, "Category", "source and destination must differ", apperr.ErrSameSourceDestination)
	}

	return uc.TxRunner.Run(ctx, func(ctx context.Context) error {
		from, err := uc.Categories.FindByID(ctx, vaultID, fromID)
		if err != nil {
			return err
		}

		if from.IsSystem {
			return apperr.Wrap(apperr.KindInvalidFlow, "Category", "the system category cannot be merged away", apperr.ErrSystemFlowImmutable)
		}

		if _, err := uc.Categories.FindByID(ctx, vaultID, toID); err != nil {
			return err
		}

		if err := uc.Categories.ReassignTransactions(ctx, vaultID, fromID, toID); err != nil {
			return err
		}

		fromAliases, err := uc.CategoryAliases.ListByCategory(ctx, fromID)
		if err != nil {
			return err
		}

		toAliases, err := uc.CategoryAliases.ListByCategory(ctx, toID)
		if err != nil {
			return err
		}

		toNorms := make(map[string]bool, len(toAliases))
		for _, a := range toAliases {
			toNorms[a.AliasNorm] = true
		}

		for _, a := range fromAliases {
			if toNorms[a.AliasNorm] {
				if err := uc.CategoryAliases.Delete(ctx, vaultID, a.ID); err != nil {
					return err
				}

				continue
			}

			if err := uc.CategoryAliases.Reassign(ctx, a.ID, toID); err != nil {
				return err
			}
		}

		from.Archived = true

		return uc.Categories.Update(ctx, from)
	})
}
