package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
)

// NewWalletInput is the command record for new_wallet. OpeningMinor, if
// nonzero, is posted via the opening-balance orchestration in opening.go
// after the wallet row exists.
type NewWalletInput struct {
	VaultID      uuid.UUID
	Name         string
	OpeningMinor int64
	UserID       uuid.UUID
}

// NewWallet creates a wallet in a vault, optionally posting an opening
// balance against the vault's Unallocated flow.
func (uc *UseCase) NewWallet(ctx context.Context, in NewWalletInput) (uuid.UUID, error) {
	if err := uc.Authz.RequireVaultWrite(ctx, in.VaultID, in.UserID); err != nil {
		return uuid.Nil, err
	}

	name := domain.NormalizeCategoryDisplay(in.Name)
	if name == "" {
		return uuid.Nil, apperr.InvalidName("Wallet", "name must not be empty")
	}

	var walletID uuid.UUID

	err := uc.TxRunner.Run(ctx, func(ctx context.Context) error {
		vault, err := uc.Vaults.FindByID(ctx, in.VaultID)
		if err != nil {
			return err
		}

		id := uuid.Must(uuid.NewV7())

		w := &domain.Wallet{
			ID:       id,
			VaultID:  in.VaultID,
			Name:     name,
			Currency: vault.Currency,
		}

		if err := uc.Wallets.Create(ctx, w); err != nil {
			return err
		}

		walletID = id

		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	if in.OpeningMinor != 0 {
		if err := uc.openWalletBalance(ctx, in.VaultID, walletID, in.OpeningMinor, in.UserID); err != nil {
			return uuid.Nil, err
		}
	}

	return walletID, nil
}

// RenameWalletInput is the command record for rename_wallet.
type RenameWalletInput struct {
	VaultID  uuid.UUID
	WalletID uuid.UUID
	Name     string
	UserID   uuid.UUID
}

// RenameWallet renames a wallet.
func (uc *UseCase) RenameWallet(ctx context.Context, in RenameWalletInput) error {
	if err := uc.Authz.RequireVaultWrite(ctx, in.VaultID, in.UserID); err != nil {
		return err
	}

	name := domain.NormalizeCategoryDisplay(in.Name)
	if name == "" {
		return apperr.InvalidName("Wallet", "name must not be empty")
	}

	return uc.TxRunner.Run(ctx, func(ctx context.Context) error {
		w, err := uc.Wallets.FindByID(ctx, in.WalletID)
		if err != nil {
			return err
		}

		if err := requireSameVault(in.VaultID, w.VaultID); err != nil {
			return err
		}

		w.Name = name

		return uc.Wallets.Update(ctx, w)
	})
}

// SetWalletArchived archives or unarchives a wallet.
func (uc *UseCase) SetWalletArchived(ctx context.Context, vaultID, walletID uuid.UUID, archived bool, userID uuid.UUID) error {
	if err := uc.Authz.RequireVaultWrite(ctx, vaultID, userID); err != nil {
		return err
	}

	return uc.TxRunner.Run(ctx, func(ctx context.Context) error {
		w, err := uc.Wallets.FindByID(ctx, walletID)
		if err != nil {
			return err
		}

		if err := requireSameVault(vaultID, w.VaultID); err != nil {
			return err
		}

		w.Archived = archived

		return uc.Wallets.Update(ctx, w)
	})
}
