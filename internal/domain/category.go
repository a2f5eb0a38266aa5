package domain

import (
	"time"

	"github.com/google/uuid"
)

// UncategorizedName is the display name reserved for the per-vault system
// category. Callers resolving to it get a nil Name back from
// ResolveOrCreateCategory so a response can omit the field instead of always
// printing "Uncategorized".
const UncategorizedName = "Uncategorized"

// Category is a per-vault label attached to transactions. NameNorm is the
// lower-cased, whitespace-collapsed key used for uniqueness and
// near-duplicate matching; Name preserves the caller's original casing.
type Category struct {
	ID        uuid.UUID
	VaultID   uuid.UUID
	Name      string
	NameNorm  string
	Archived  bool
	IsSystem  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryAlias is an alternate spelling that resolves to a Category. Its
// AliasNorm is unique per vault among aliases, and alias creation also
// rejects an AliasNorm equal to a category's name_norm in the same vault.
// Creating or renaming a category does not check existing aliases.
type CategoryAlias struct {
	ID         uuid.UUID
	VaultID    uuid.UUID
	CategoryID uuid.UUID
	Alias      string
	AliasNorm  string
	CreatedAt  time.Time
}

// CategoryRef is what category resolution hands back to a caller: an ID,
// plus a display name that is nil when the resolved category is the
// vault's system Uncategorized category.
type CategoryRef struct {
	ID   uuid.UUID
	Name *string
}
