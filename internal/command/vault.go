package command

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
	"github.com/LerianStudio/ledger-engine/pkg/money"
)

// NewVaultInput is the command record for new_vault.
type NewVaultInput struct {
	Name        string
	OwnerUserID uuid.UUID
	Currency    money.Currency
}

// NewVault creates a vault and its mandatory Unallocated system flow.
func (uc *UseCase) NewVault(ctx context.Context, in NewVaultInput) (uuid.UUID, error) {
	name := domain.NormalizeCategoryDisplay(in.Name)
	if name == "" {
		return uuid.Nil, apperr.InvalidName("Vault", "name must not be empty")
	}

	currency := in.Currency
	if currency == "" {
		currency = money.EUR
	}

	var vaultID uuid.UUID

	err := uc.TxRunner.Run(ctx, func(ctx context.Context) error {
		if _, err := uc.Vaults.FindByOwnerAndName(ctx, in.OwnerUserID, name); err == nil {
			return apperr.Wrap(apperr.KindExistingKey, "Vault", "a vault with this name already exists for this owner", apperr.ErrVaultNameConflict)
		} else if !errors.Is(err, apperr.ErrVaultNotFound) {
			return err
		}

		id := uuid.Must(uuid.NewV7())

		v := &domain.Vault{
			ID:          id,
			Name:        name,
			OwnerUserID: in.OwnerUserID,
			Currency:    currency,
		}

		if err := uc.Vaults.Create(ctx, v); err != nil {
			return err
		}

		if err := uc.VaultMembers.Upsert(ctx, &domain.VaultMembership{VaultID: id, UserID: in.OwnerUserID, Role: domain.RoleOwner}); err != nil {
			return err
		}

		sysCat := &domain.Category{
			ID:       uuid.Must(uuid.NewV7()),
			VaultID:  id,
			Name:     domain.UncategorizedName,
			NameNorm: domain.NormalizeCategoryKey(domain.UncategorizedName),
			IsSystem: true,
		}

		if err := uc.Categories.Create(ctx, sysCat); err != nil {
			return err
		}

		flow := &domain.CashFlow{
			ID:         uuid.Must(uuid.NewV7()),
			VaultID:    id,
			Name:       domain.UnallocatedFlowName,
			Currency:   currency,
			SystemKind: domain.SystemKindUnallocated,
		}

		if err := uc.CashFlows.Create(ctx, flow); err != nil {
			return err
		}

		vaultID = id

		return nil
	})

	return vaultID, err
}

