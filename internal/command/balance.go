package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
	"github.com/LerianStudio/ledger-engine/pkg/money"
)

// delta is one signed amount to apply to a target, the unit the balance
// engine consumes. Sign follows leg convention: positive credits, negative
// debits.
type delta struct {
	target      domain.LegTarget
	amountMinor money.Minor
	// incomeEligible marks a flow delta whose original direction was a
	// credit to the flow, so it counts toward income_balance in
	// income-capped mode (the flow leg of an income or refund and the
	// destination leg of a transfer_flow; not an expense's flow leg nor
	// the source leg of a transfer_flow). It reflects the leg's original sign, not the sign
	// of this particular delta: a void's negative delta against a leg
	// that was originally a credit is still incomeEligible, so it
	// decrements income_balance symmetrically.
	incomeEligible bool
}

// balancePreview is the would-be next state of one wallet or flow after a
// set of deltas is applied, computed but not yet persisted.
type balancePreview struct {
	wallets map[uuid.UUID]*domain.Wallet
	flows   map[uuid.UUID]*domain.CashFlow
}

// previewDeltas loads the current denormalized rows for every target named
// in deltas, applies each delta in memory, runs the cap/sign invariant
// checks from spec §4.3 on every touched flow, and returns the would-be
// next state without persisting anything. Create and void call it;
// recompute replays legs itself but shares checkFlowInvariants, so the
// invariant logic is written once.
func (uc *UseCase) previewDeltas(ctx context.Context, deltas []delta) (*balancePreview, error) {
	preview := &balancePreview{
		wallets: make(map[uuid.UUID]*domain.Wallet),
		flows:   make(map[uuid.UUID]*domain.CashFlow),
	}

	for _, d := range deltas {
		switch d.target.Kind {
		case domain.TargetWallet:
			w, ok := preview.wallets[d.target.ID]
			if !ok {
				loaded, err := uc.Wallets.FindByID(ctx, d.target.ID)
				if err != nil {
					return nil, err
				}

				w = loaded
				preview.wallets[d.target.ID] = w
			}

			w.BalanceMinor += d.amountMinor

		case domain.TargetFlow:
			f, ok := preview.flows[d.target.ID]
			if !ok {
				loaded, err := uc.CashFlows.FindByID(ctx, d.target.ID)
				if err != nil {
					return nil, err
				}

				f = loaded
				preview.flows[d.target.ID] = f
			}

			f.BalanceMinor += d.amountMinor

			// incomeEligible already carries the correct sign (set at the
			// call site from the original leg's direction), so a void's
			// negative delta against a leg that was originally positive
			// decrements income_balance by the same amount it was
			// incremented by, keeping void an exact inverse of create.
			if d.incomeEligible && f.IncomeBalanceMinor != nil {
				next := *f.IncomeBalanceMinor + d.amountMinor
				f.IncomeBalanceMinor = &next
			}
		}
	}

	for _, f := range preview.flows {
		if err := checkFlowInvariants(f); err != nil {
			return nil, err
		}
	}

	return preview, nil
}

// checkFlowInvariants runs the per-mode cap/sign checks of spec §4.3
// against a flow's would-be next state.
func checkFlowInvariants(f *domain.CashFlow) error {
	switch f.Mode() {
	case domain.FlowUnlimited:
		return nil

	case domain.FlowNetCapped:
		if f.BalanceMinor > *f.MaxBalanceMinor {
			return apperr.MaxBalanceReached("CashFlow", "net-capped flow balance would exceed its cap")
		}

		return nil

	case domain.FlowIncomeCapped:
		if *f.IncomeBalanceMinor < 0 || *f.IncomeBalanceMinor > *f.MaxBalanceMinor {
			return apperr.MaxBalanceReached("CashFlow", "income-capped flow's income balance would exceed its cap")
		}

		return nil

	default:
		return apperr.Database("CashFlow", apperr.ErrMalformedMoney)
	}
}

// persistPreview writes every touched wallet and flow in preview to storage.
// Called only after the invariants have been validated, inside the same
// storage transaction.
func (uc *UseCase) persistPreview(ctx context.Context, preview *balancePreview) error {
	for _, w := range preview.wallets {
		if err := uc.Wallets.Update(ctx, w); err != nil {
			return err
		}
	}

	for _, f := range preview.flows {
		if err := uc.CashFlows.Update(ctx, f); err != nil {
			return err
		}
	}

	return nil
}
