package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
	"github.com/LerianStudio/ledger-engine/pkg/money"
)

// RecomputeBalances rebuilds every wallet's and flow's denormalized balance
// in a vault from the journal: zero everything, replay every non-voided
// leg ordered by (occurred_at ASC, leg_id ASC), and re-run the same cap/sign
// invariants the writer runs. Any invariant violation rolls back the whole
// pass rather than silently re-canonicalizing corrupted state.
func (uc *UseCase) RecomputeBalances(ctx context.Context, vaultID, userID uuid.UUID) error {
	if err := uc.Authz.RequireVaultWrite(ctx, vaultID, userID); err != nil {
		return err
	}

	return uc.TxRunner.Run(ctx, func(ctx context.Context) error {
		wallets, err := uc.Wallets.ListByVault(ctx, vaultID)
		if err != nil {
			return err
		}

		flows, err := uc.CashFlows.ListByVault(ctx, vaultID)
		if err != nil {
			return err
		}

		for _, w := range wallets {
			w.BalanceMinor = 0
		}

		for _, f := range flows {
			f.BalanceMinor = 0

			if f.IncomeBalanceMinor != nil {
				zero := money.Minor(0)
				f.IncomeBalanceMinor = &zero
			}
		}

		// ListByVaultOrderedForReplay already returns legs ordered by
		// (occurred_at ASC, leg_id ASC) per the replay contract; Leg
		// itself carries no occurred_at (that lives on the transaction
		// header the repository joins against), so this order is
		// trusted as-is rather than re-derived here.
		legs, err := uc.Legs.ListByVaultOrderedForReplay(ctx, vaultID)
		if err != nil {
			return err
		}

		preview := &balancePreview{
			wallets: make(map[uuid.UUID]*domain.Wallet, len(wallets)),
			flows:   make(map[uuid.UUID]*domain.CashFlow, len(flows)),
		}

		for _, w := range wallets {
			preview.wallets[w.ID] = w
		}

		for _, f := range flows {
			preview.flows[f.ID] = f
		}

		for _, l := range legs {
			if err := applyLegToPreview(preview, l); err != nil {
				return err
			}
		}

		for _, f := range preview.flows {
			if err := checkFlowInvariants(f); err != nil {
				return err
			}
		}

		return uc.persistPreview(ctx, preview)
	})
}

// applyLegToPreview mutates preview in place for a single leg, mirroring
// previewDeltas's per-target update rule so replay produces exactly the
// same state writes would have.
func applyLegToPreview(preview *balancePreview, l *domain.Leg) error {
	switch l.Target.Kind {
	case domain.TargetWallet:
		w, ok := preview.wallets[l.Target.ID]
		if !ok {
			return apperr.KeyNotFound("Wallet", "journal leg references a wallet missing from this vault")
		}

		w.BalanceMinor += l.AmountMinor

	case domain.TargetFlow:
		f, ok := preview.flows[l.Target.ID]
		if !ok {
			return apperr.KeyNotFound("CashFlow", "journal leg references a cash flow missing from this vault")
		}

		f.BalanceMinor += l.AmountMinor

		if l.AmountMinor > 0 && f.IncomeBalanceMinor != nil {
			next := *f.IncomeBalanceMinor + l.AmountMinor
			f.IncomeBalanceMinor = &next
		}
	}

	return nil
}
