package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/pkg/money"
)

// FlowMode is derived from the combination of MaxBalanceMinor and
// IncomeBalanceMinor on a CashFlow; it is never stored directly.
type FlowMode int

const (
	// FlowUnlimited carries no cap at all.
	FlowUnlimited FlowMode = iota
	// FlowNetCapped caps the net balance: balance must never exceed cap.
	FlowNetCapped
	// FlowIncomeCapped caps lifetime positive inflow: income_balance must
	// never exceed cap, while balance itself may fall as expenses post.
	FlowIncomeCapped
)

// SystemKind marks a flow as the vault's single, non-deletable system flow.
type SystemKind string

const (
	SystemKindNone        SystemKind = ""
	SystemKindUnallocated SystemKind = "unallocated"
)

// UnallocatedFlowName is the fixed, immutable name of every vault's system
// flow.
const UnallocatedFlowName = "unallocated"

// CashFlow is what money is earmarked for: a budget envelope with an
// optional cap in one of two shapes (net-capped or income-capped).
type CashFlow struct {
	ID                  uuid.UUID
	VaultID             uuid.UUID
	Name                string
	BalanceMinor        money.Minor
	MaxBalanceMinor     *money.Minor
	IncomeBalanceMinor  *money.Minor
	Currency            money.Currency
	Archived            bool
	SystemKind          SystemKind
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Mode derives the flow's cap behavior from its stored fields.
func (f *CashFlow) Mode() FlowMode {
	switch {
	case f.MaxBalanceMinor == nil:
		return FlowUnlimited
	case f.IncomeBalanceMinor == nil:
		return FlowNetCapped
	default:
		return FlowIncomeCapped
	}
}

// IsSystem reports whether this is the vault's unallocated flow.
func (f *CashFlow) IsSystem() bool {
	return f.SystemKind == SystemKindUnallocated
}
