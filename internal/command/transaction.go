package command

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/internal/domain"
	"github.com/LerianStudio/ledger-engine/pkg/apperr"
	"github.com/LerianStudio/ledger-engine/pkg/mlog"
	"github.com/LerianStudio/ledger-engine/pkg/money"
)

// IncomeInput is the command record for the income operation.
type IncomeInput struct {
	VaultID        uuid.UUID
	FlowID         uuid.UUID
	WalletID       uuid.UUID
	AmountMinor    money.Minor
	Category       string
	Note           string
	OccurredAt     time.Time
	CreatedBy      uuid.UUID
	IdempotencyKey *string
}

// ExpenseInput is the command record for the expense operation.
type ExpenseInput struct {
	VaultID        uuid.UUID
	FlowID         uuid.UUID
	WalletID       uuid.UUID
	AmountMinor    money.Minor
	Category       string
	Note           string
	OccurredAt     time.Time
	CreatedBy      uuid.UUID
	IdempotencyKey *string
}

// RefundInput is the command record for the refund operation.
type RefundInput struct {
	VaultID               uuid.UUID
	FlowID                uuid.UUID
	WalletID              uuid.UUID
	AmountMinor           money.Minor
	Category              string
	Note                  string
	OccurredAt            time.Time
	CreatedBy             uuid.UUID
	RefundedTransactionID *uuid.UUID
	IdempotencyKey        *string
}

// TransferWalletInput is the command record for transfer_wallet.
type TransferWalletInput struct {
	VaultID        uuid.UUID
	FromWalletID   uuid.UUID
	ToWalletID     uuid.UUID
	AmountMinor    money.Minor
	Note           string
	OccurredAt     time.Time
	CreatedBy      uuid.UUID
	IdempotencyKey *string
}

// TransferFlowInput is the command record for transfer_flow.
type TransferFlowInput struct {
	VaultID        uuid.UUID
	FromFlowID     uuid.UUID
	ToFlowID       uuid.UUID
	AmountMinor    money.Minor
	Note           string
	OccurredAt     time.Time
	CreatedBy      uuid.UUID
	IdempotencyKey *string
}

// Income posts money into a wallet and the flow it is earmarked for:
// +amount to wallet, +amount to flow.
func (uc *UseCase) Income(ctx context.Context, in IncomeInput) (uuid.UUID, error) {
	return uc.createTwoLegTransaction(ctx, domain.KindIncome, in.VaultID, in.CreatedBy, in.IdempotencyKey,
		twoLegParams{
			amountMinor: in.AmountMinor,
			occurredAt:  in.OccurredAt,
			category:    in.Category,
			note:        in.Note,
			walletID:    in.WalletID,
			flowID:      in.FlowID,
			walletSign:  1,
			flowSign:    1,
		})
}

// Expense posts money out of a wallet and the flow it is charged against:
// -amount to wallet, -amount to flow.
func (uc *UseCase) Expense(ctx context.Context, in ExpenseInput) (uuid.UUID, error) {
	return uc.createTwoLegTransaction(ctx, domain.KindExpense, in.VaultID, in.CreatedBy, in.IdempotencyKey,
		twoLegParams{
			amountMinor: in.AmountMinor,
			occurredAt:  in.OccurredAt,
			category:    in.Category,
			note:        in.Note,
			walletID:    in.WalletID,
			flowID:      in.FlowID,
			walletSign:  -1,
			flowSign:    -1,
		})
}

// Refund posts money back into a wallet and flow, recorded under a distinct
// kind from income for reporting purposes, optionally linked to the
// transaction it reverses.
func (uc *UseCase) Refund(ctx context.Context, in RefundInput) (uuid.UUID, error) {
	if in.RefundedTransactionID != nil {
		refunded, err := uc.Transactions.FindByID(ctx, in.VaultID, *in.RefundedTransactionID)
		if err != nil {
			if errors.Is(err, apperr.ErrTransactionNotFound) {
				return uuid.Nil, apperr.Wrap(apperr.KindInvalidAmount, "Transaction", "the refunded transaction does not belong to this vault", apperr.ErrRefundedTxWrongVault)
			}

			return uuid.Nil, err
		}

		if refunded.IsVoided() {
			return uuid.Nil, apperr.Wrap(apperr.KindInvalidAmount, "Transaction", "cannot refund a voided transaction", apperr.ErrRefundedTxVoided)
		}
	}

	id, err := uc.createTwoLegTransaction(ctx, domain.KindRefund, in.VaultID, in.CreatedBy, in.IdempotencyKey,
		twoLegParams{
			amountMinor:            in.AmountMinor,
			occurredAt:             in.OccurredAt,
			category:               in.Category,
			note:                   in.Note,
			walletID:               in.WalletID,
			flowID:                 in.FlowID,
			walletSign:             1,
			flowSign:               1,
			refundedTransactionID:  in.RefundedTransactionID,
		})

	return id, err
}

// twoLegParams is the shared shape of income/expense/refund: both legs
// target the same wallet/flow pair, signed the same way.
type twoLegParams struct {
	amountMinor            money.Minor
	occurredAt             time.Time
	category               string
	note                   string
	walletID               uuid.UUID
	flowID                 uuid.UUID
	walletSign             int
	flowSign               int
	refundedTransactionID  *uuid.UUID
}

func (uc *UseCase) createTwoLegTransaction(ctx context.Context, kind domain.TransactionKind, vaultID, createdBy uuid.UUID, idempotencyKey *string, p twoLegParams) (uuid.UUID, error) {
	log := mlog.FromContext(ctx)

	if err := validateIdempotencyKey(idempotencyKey); err != nil {
		return uuid.Nil, err
	}

	if p.amountMinor <= 0 {
		return uuid.Nil, apperr.InvalidAmount("Transaction", "amount must be greater than zero")
	}

	if err := uc.Authz.RequireVaultWrite(ctx, vaultID, createdBy); err != nil {
		return uuid.Nil, err
	}

	var txID uuid.UUID

	err := uc.TxRunner.Run(ctx, func(ctx context.Context) error {
		if existing, ok, err := uc.findIdempotent(ctx, vaultID, createdBy, idempotencyKey); err != nil {
			return err
		} else if ok {
			txID = existing

			return nil
		}

		wallet, err := uc.Wallets.FindByID(ctx, p.walletID)
		if err != nil {
			return err
		}

		flow, err := uc.CashFlows.FindByID(ctx, p.flowID)
		if err != nil {
			return err
		}

		if err := requireSameVault(vaultID, wallet.VaultID, flow.VaultID); err != nil {
			return err
		}

		if err := requireNotArchived(wallet.Archived, flow.Archived); err != nil {
			return err
		}

		categoryID, err := uc.resolveOrCreateCategoryID(ctx, vaultID, p.category)
		if err != nil {
			return err
		}

		preview, err := uc.previewDeltas(ctx, []delta{
			{target: domain.WalletTarget(p.walletID), amountMinor: money.Minor(p.walletSign) * p.amountMinor},
			{target: domain.FlowTarget(p.flowID), amountMinor: money.Minor(p.flowSign) * p.amountMinor, incomeEligible: p.flowSign > 0},
		})
		if err != nil {
			return err
		}

		id := uuid.Must(uuid.NewV7())

		tx := &domain.Transaction{
			ID:                    id,
			VaultID:               vaultID,
			Kind:                  kind,
			OccurredAt:            p.occurredAt,
			AmountMinor:           p.amountMinor,
			Currency:              wallet.Currency,
			CategoryID:            categoryID,
			Note:                  domain.OptionalText(p.note),
			CreatedBy:             createdBy,
			RefundedTransactionID: p.refundedTransactionID,
			IdempotencyKey:        idempotencyKey,
		}

		if err := uc.Transactions.Create(ctx, tx); err != nil {
			existing, ok, recErr := uc.recoverIdempotentConflict(ctx, err, vaultID, createdBy, idempotencyKey)
			if !ok {
				return recErr
			}

			txID = existing

			return nil
		}

		legs := []*domain.Leg{
			{ID: uuid.Must(uuid.NewV7()), TransactionID: id, Target: domain.WalletTarget(p.walletID), AmountMinor: money.Minor(p.walletSign) * p.amountMinor, Currency: wallet.Currency},
			{ID: uuid.Must(uuid.NewV7()), TransactionID: id, Target: domain.FlowTarget(p.flowID), AmountMinor: money.Minor(p.flowSign) * p.amountMinor, Currency: flow.Currency},
		}

		if err := uc.Legs.CreateBatch(ctx, legs); err != nil {
			return err
		}

		if err := uc.persistPreview(ctx, preview); err != nil {
			return err
		}

		txID = id

		return nil
	})
	if err != nil {
		log.Errorf("create %s transaction failed: %v", kind, err)

		return uuid.Nil, err
	}

	return txID, nil
}

// TransferWallet moves money between two wallets within the same vault.
func (uc *UseCase) TransferWallet(ctx context.Context, in TransferWalletInput) (uuid.UUID, error) {
	if in.FromWalletID == in.ToWalletID {
		return uuid.Nil, apperr.Wrap(apperr.KindInvalidAmount, "Transaction", "source and destination must differ", apperr.ErrSameSourceDestination)
	}

	if err := validateIdempotencyKey(in.IdempotencyKey); err != nil {
		return uuid.Nil, err
	}

	if in.AmountMinor <= 0 {
		return uuid.Nil, apperr.InvalidAmount("Transaction", "amount must be greater than zero")
	}

	if err := uc.Authz.RequireVaultWrite(ctx, in.VaultID, in.CreatedBy); err != nil {
		return uuid.Nil, err
	}

	var txID uuid.UUID

	err := uc.TxRunner.Run(ctx, func(ctx context.Context) error {
		if existing, ok, err := uc.findIdempotent(ctx, in.VaultID, in.CreatedBy, in.IdempotencyKey); err != nil {
			return err
		} else if ok {
			txID = existing

			return nil
		}

		from, err := uc.Wallets.FindByID(ctx, in.FromWalletID)
		if err != nil {
			return err
		}

		to, err := uc.Wallets.FindByID(ctx, in.ToWalletID)
		if err != nil {
			return err
		}

		if err := requireSameVault(in.VaultID, from.VaultID, to.VaultID); err != nil {
			return err
		}

		if err := requireNotArchived(from.Archived, to.Archived); err != nil {
			return err
		}

		preview, err := uc.previewDeltas(ctx, []delta{
			{target: domain.WalletTarget(in.FromWalletID), amountMinor: -in.AmountMinor},
			{target: domain.WalletTarget(in.ToWalletID), amountMinor: in.AmountMinor},
		})
		if err != nil {
			return err
		}

		id := uuid.Must(uuid.NewV7())

		tx := &domain.Transaction{
			ID:             id,
			VaultID:        in.VaultID,
			Kind:           domain.KindTransferWallet,
			OccurredAt:     in.OccurredAt,
			AmountMinor:    in.AmountMinor,
			Currency:       from.Currency,
			Note:           domain.OptionalText(in.Note),
			CreatedBy:      in.CreatedBy,
			IdempotencyKey: in.IdempotencyKey,
		}

		if err := uc.Transactions.Create(ctx, tx); err != nil {
			existing, ok, recErr := uc.recoverIdempotentConflict(ctx, err, in.VaultID, in.CreatedBy, in.IdempotencyKey)
			if !ok {
				return recErr
			}

			txID = existing

			return nil
		}

		legs := []*domain.Leg{
			{ID: uuid.Must(uuid.NewV7()), TransactionID: id, Target: domain.WalletTarget(in.FromWalletID), AmountMinor: -in.AmountMinor, Currency: from.Currency},
			{ID: uuid.Must(uuid.NewV7()), TransactionID: id, Target: domain.WalletTarget(in.ToWalletID), AmountMinor: in.AmountMinor, Currency: to.Currency},
		}

		if err := uc.Legs.CreateBatch(ctx, legs); err != nil {
			return err
		}

		if err := uc.persistPreview(ctx, preview); err != nil {
			return err
		}

		txID = id

		return nil
	})

	return txID, err
}

// TransferFlow moves money between two cash flows. The destination leg
// counts toward the destination flow's income_balance in income-capped
// mode; the source leg never does.
func (uc *UseCase) TransferFlow(ctx context.Context, in TransferFlowInput) (uuid.UUID, error) {
	if in.FromFlowID == in.ToFlowID {
		return uuid.Nil, apperr.Wrap(apperr.KindInvalidAmount, "Transaction", "source and destination must differ", apperr.ErrSameSourceDestination)
	}

	if err := validateIdempotencyKey(in.IdempotencyKey); err != nil {
		return uuid.Nil, err
	}

	if in.AmountMinor <= 0 {
		return uuid.Nil, apperr.InvalidAmount("Transaction", "amount must be greater than zero")
	}

	if err := uc.Authz.RequireFlowTransferWrite(ctx, in.VaultID, in.FromFlowID, in.ToFlowID, in.CreatedBy); err != nil {
		return uuid.Nil, err
	}

	var txID uuid.UUID

	err := uc.TxRunner.Run(ctx, func(ctx context.Context) error {
		if existing, ok, err := uc.findIdempotent(ctx, in.VaultID, in.CreatedBy, in.IdempotencyKey); err != nil {
			return err
		} else if ok {
			txID = existing

			return nil
		}

		from, err := uc.CashFlows.FindByID(ctx, in.FromFlowID)
		if err != nil {
			return err
		}

		to, err := uc.CashFlows.FindByID(ctx, in.ToFlowID)
		if err != nil {
			return err
		}

		if err := requireSameVault(in.VaultID, from.VaultID, to.VaultID); err != nil {
			return err
		}

		if err := requireNotArchived(from.Archived, to.Archived); err != nil {
			return err
		}

		preview, err := uc.previewDeltas(ctx, []delta{
			{target: domain.FlowTarget(in.FromFlowID), amountMinor: -in.AmountMinor, incomeEligible: false},
			{target: domain.FlowTarget(in.ToFlowID), amountMinor: in.AmountMinor, incomeEligible: true},
		})
		if err != nil {
			return err
		}

		id := uuid.Must(uuid.NewV7())

		tx := &domain.Transaction{
			ID:             id,
			VaultID:        in.VaultID,
			Kind:           domain.KindTransferFlow,
			OccurredAt:     in.OccurredAt,
			AmountMinor:    in.AmountMinor,
			Currency:       from.Currency,
			Note:           domain.OptionalText(in.Note),
			CreatedBy:      in.CreatedBy,
			IdempotencyKey: in.IdempotencyKey,
		}

		if err := uc.Transactions.Create(ctx, tx); err != nil {
			existing, ok, recErr := uc.recoverIdempotentConflict(ctx, err, in.VaultID, in.CreatedBy, in.IdempotencyKey)
			if !ok {
				return recErr
			}

			txID = existing

			return nil
		}

		legs := []*domain.Leg{
			{ID: uuid.Must(uuid.NewV7()), TransactionID: id, Target: domain.FlowTarget(in.FromFlowID), AmountMinor: -in.AmountMinor, Currency: from.Currency},
			{ID: uuid.Must(uuid.NewV7()), TransactionID: id, Target: domain.FlowTarget(in.ToFlowID), AmountMinor: in.AmountMinor, Currency: to.Currency},
		}

		if err := uc.Legs.CreateBatch(ctx, legs); err != nil {
			return err
		}

		if err := uc.persistPreview(ctx, preview); err != nil {
			return err
		}

		txID = id

		return nil
	})

	return txID, err
}

// VoidTransaction reverses a transaction's legs and marks it voided.
// Voiding is not undoable.
func (uc *UseCase) VoidTransaction(ctx context.Context, vaultID, txID, voidedBy uuid.UUID, voidedAt time.Time) error {
	if err := uc.Authz.RequireVaultWrite(ctx, vaultID, voidedBy); err != nil {
		return err
	}

	return uc.TxRunner.Run(ctx, func(ctx context.Context) error {
		tx, err := uc.Transactions.FindByID(ctx, vaultID, txID)
		if err != nil {
			return err
		}

		if tx.IsVoided() {
			return apperr.Wrap(apperr.KindInvalidAmount, "Transaction", "transaction is already voided", apperr.ErrAlreadyVoided)
		}

		legs, err := uc.Legs.ListByTransaction(ctx, txID)
		if err != nil {
			return err
		}

		deltas := make([]delta, 0, len(legs))
		for _, l := range legs {
			deltas = append(deltas, delta{
				target:      l.Target,
				amountMinor: -l.AmountMinor,
				// The leg's original amount, not this delta's negated
				// one, decides eligibility: only reversing a leg that
				// was originally a credit to the flow should move
				// income_balance.
				incomeEligible: l.Target.Kind == domain.TargetFlow && l.AmountMinor > 0,
			})
		}

		preview, err := uc.previewDeltas(ctx, deltas)
		if err != nil {
			return err
		}

		if err := uc.Transactions.Void(ctx, vaultID, txID, voidedBy, voidedAt); err != nil {
			return err
		}

		return uc.persistPreview(ctx, preview)
	})
}

// recoverIdempotentConflict handles the race where two concurrent requests
// both pass the initial findIdempotent check and then collide on Create: the
// loser sees apperr.ErrIdempotencyConflict from the unique index instead of
// a clean miss. Re-reading by idempotency key recovers the winner's id so
// both requests return the same transaction rather than one propagating a
// conflict its caller never triggered.
func (uc *UseCase) recoverIdempotentConflict(ctx context.Context, createErr error, vaultID, createdBy uuid.UUID, key *string) (uuid.UUID, bool, error) {
	if !errors.Is(createErr, apperr.ErrIdempotencyConflict) {
		return uuid.Nil, false, createErr
	}

	existing, ok, err := uc.findIdempotent(ctx, vaultID, createdBy, key)
	if err != nil {
		return uuid.Nil, false, err
	}

	if !ok {
		return uuid.Nil, false, createErr
	}

	return existing, true, nil
}

func (uc *UseCase) findIdempotent(ctx context.Context, vaultID, createdBy uuid.UUID, key *string) (uuid.UUID, bool, error) {
	if key == nil {
		return uuid.Nil, false, nil
	}

	existing, err := uc.Transactions.FindByIdempotencyKey(ctx, vaultID, createdBy, *key)
	if err != nil {
		if errors.Is(err, apperr.ErrTransactionNotFound) {
			return uuid.Nil, false, nil
		}

		return uuid.Nil, false, err
	}

	return existing.ID, true, nil
}

func validateIdempotencyKey(key *string) error {
	if key != nil && *key == "" {
		return apperr.InvalidAmount("Transaction", "idempotency key must not be blank")
	}

	return nil
}

func requireSameVault(vaultID uuid.UUID, others ...uuid.UUID) error {
	for _, o := range others {
		if o != vaultID {
			return apperr.Wrap(apperr.KindForbidden, "Transaction", "entities belong to different vaults", apperr.ErrCrossVault)
		}
	}

	return nil
}

func requireNotArchived(archivedFlags ...bool) error {
	for _, a := range archivedFlags {
		if a {
			return apperr.InvalidAmount("Transaction", "the target is archived and cannot receive new activity")
		}
	}

	return nil
}
