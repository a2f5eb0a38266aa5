package domain

import "strings"

// OptionalText trims s and returns nil if the result is empty, the shared
// normalization applied to a transaction's free-text note. Category input
// goes through NormalizeCategoryDisplay instead.
func OptionalText(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}

	return &trimmed
}

// NormalizeCategoryDisplay is the display-form normalization: trim only, so
// the caller's casing is preserved in the stored Name.
func NormalizeCategoryDisplay(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeCategoryKey is the key-form normalization used for NameNorm and
// AliasNorm: trim, lower-case, and collapse internal runs of whitespace to
// a single space.
func NormalizeCategoryKey(s string) string {
	trimmed := strings.TrimSpace(s)
	lowered := strings.ToLower(trimmed)
	fields := strings.Fields(lowered)

	return strings.Join(fields, " ")
}
