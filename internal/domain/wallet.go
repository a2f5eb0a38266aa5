package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/pkg/money"
)

// Wallet is a place money is held: a bank account, a cash pocket. Its
// balance is denormalized and is always derivable from the journal via
// recompute.
type Wallet struct {
	ID            uuid.UUID
	VaultID       uuid.UUID
	Name          string
	BalanceMinor  money.Minor
	Currency      money.Currency
	Archived      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
