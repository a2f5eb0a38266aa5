// Package domain holds the engine's entities: vaults, wallets, cash flows,
// transactions, legs, memberships, and categories. These are plain structs;
// validation and cross-entity invariants live in internal/command.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/LerianStudio/ledger-engine/pkg/money"
)

// Vault is the top-level container for a user's money: one currency, owned
// by exactly one user, holding wallets and cash flows.
type Vault struct {
	ID          uuid.UUID
	Name        string
	OwnerUserID uuid.UUID
	Currency    money.Currency
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MembershipRole is a durable role string stored on vault_memberships and
// flow_memberships rows. Unknown strings degrade to RoleViewer rather than
// failing closed on a read, and fail closed on a write (see internal/authz).
type MembershipRole string

const (
	RoleOwner  MembershipRole = "owner"
	RoleEditor MembershipRole = "editor"
	RoleViewer MembershipRole = "viewer"
)

// Normalize maps an unrecognized role string to RoleViewer, the safe
// default for any read-only degraded grant.
func (r MembershipRole) Normalize() MembershipRole {
	switch r {
	case RoleOwner, RoleEditor, RoleViewer:
		return r
	default:
		return RoleViewer
	}
}

// CanWrite reports whether the role carries owner/editor write privilege.
func (r MembershipRole) CanWrite() bool {
	switch r.Normalize() {
	case RoleOwner, RoleEditor:
		return true
	default:
		return false
	}
}

// VaultMembership grants a user a role on a vault. Exactly one row per
// vault carries RoleOwner, matching the vault's own OwnerUserID.
type VaultMembership struct {
	VaultID uuid.UUID
	UserID  uuid.UUID
	Role    MembershipRole
}

// FlowMembership grants a user a role scoped to a single cash flow, used
// for flow-transfer authorization and for shared-flow read access.
type FlowMembership struct {
	FlowID uuid.UUID
	UserID uuid.UUID
	Role   MembershipRole
}
