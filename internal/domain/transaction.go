package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/pkg/money"
)

// TransactionKind is the closed set of operations the writer supports. Each
// kind determines how many legs a transaction carries and how they are
// signed; see internal/command for the leg-building rules.
type TransactionKind string

const (
	KindIncome         TransactionKind = "income"
	KindExpense        TransactionKind = "expense"
	KindRefund         TransactionKind = "refund"
	KindTransferWallet TransactionKind = "transfer_wallet"
	KindTransferFlow   TransactionKind = "transfer_flow"
)

// Transaction is the journal header. Legs carry the actual signed amounts;
// the header exists to group them, carry metadata, and hold the void state.
type Transaction struct {
	ID                     uuid.UUID
	VaultID                uuid.UUID
	Kind                    TransactionKind
	OccurredAt              time.Time
	AmountMinor             money.Minor
	Currency                money.Currency
	CategoryID              *uuid.UUID
	Note                    *string
	CreatedBy               uuid.UUID
	VoidedAt                *time.Time
	VoidedBy                *uuid.UUID
	RefundedTransactionID   *uuid.UUID
	IdempotencyKey          *string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// IsVoided reports whether the transaction has already been voided.
func (t *Transaction) IsVoided() bool {
	return t.VoidedAt != nil
}

// LegTargetKind discriminates a LegTarget's underlying entity.
type LegTargetKind string

const (
	TargetWallet LegTargetKind = "wallet"
	TargetFlow   LegTargetKind = "flow"
)

// LegTarget is a tagged union over the two entities a leg may credit or
// debit. It carries a stable string discriminator so storage never needs an
// open-world subtype hierarchy; routing by Kind is explicit everywhere it is
// consumed.
type LegTarget struct {
	Kind LegTargetKind
	ID   uuid.UUID
}

// WalletTarget builds a LegTarget pointing at a wallet.
func WalletTarget(id uuid.UUID) LegTarget {
	return LegTarget{Kind: TargetWallet, ID: id}
}

// FlowTarget builds a LegTarget pointing at a cash flow.
func FlowTarget(id uuid.UUID) LegTarget {
	return LegTarget{Kind: TargetFlow, ID: id}
}

// Leg is one signed entry in the journal. The writer builds a transaction's
// legs from its kind: transfer legs sum to zero, while income, expense and
// refund move the wallet and the flow by the same signed amount. Neither the
// writer nor storage checks a per-currency sum.
type Leg struct {
	ID                uuid.UUID
	TransactionID     uuid.UUID
	Target            LegTarget
	AmountMinor       money.Minor
	Currency          money.Currency
	AttributedUserID  *uuid.UUID
	CreatedAt         time.Time
}
