package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LerianStudio/ledger-engine/internal/domain"
)

func TestLevenshteinDistance(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, domain.LevenshteinDistance("food", "food"))
	assert.Equal(t, 1, domain.LevenshteinDistance("food", "foood"))
	assert.Equal(t, 1, domain.LevenshteinDistance("food", "fod"))
	assert.Equal(t, 4, domain.LevenshteinDistance("", "food"))
}

func TestSimilarityThreshold(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, domain.SimilarityThreshold(4))
	assert.Equal(t, 1, domain.SimilarityThreshold(6))
	assert.Equal(t, 2, domain.SimilarityThreshold(7))
	assert.Equal(t, 2, domain.SimilarityThreshold(12))
}

func TestOptionalText(t *testing.T) {
	t.Parallel()

	assert.Nil(t, domain.OptionalText("   "))
	assert.Nil(t, domain.OptionalText(""))

	got := domain.OptionalText("  groceries  ")
	assert.Equal(t, "groceries", *got)
}

func TestNormalizeCategoryKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "grocery store", domain.NormalizeCategoryKey("  Grocery   Store  "))
	assert.Equal(t, "", domain.NormalizeCategoryKey("   "))
}

func TestNormalizeCategoryDisplay(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Grocery   Store", domain.NormalizeCategoryDisplay("  Grocery   Store  "))
}
