package medquiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "auto medication", Normalize("Auto-Médication !"))
	assert.Equal(t, "medicament", Normalize("médicament"))
	assert.Equal(t, "l energie d activation", Normalize("  l'énergie   d'activation  "))
	assert.Equal(t, "", Normalize("?!,;"))
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, EditDistance("cellule", "cellule"))
	assert.Equal(t, 3, EditDistance("", "abc"))
	assert.Equal(t, 3, EditDistance("abc", ""))
	assert.Equal(t, 3, EditDistance("kitten", "sitting"))
	assert.Equal(t, 1, EditDistance("glycolyse", "glycolise"))
}

func TestNearDuplicate(t *testing.T) {
	assert.True(t, NearDuplicate("Protéine", "proteine"), "accents and case must not count as a difference")
	assert.True(t, NearDuplicate("La glycolyse", "La glycolise"))
	assert.False(t, NearDuplicate("La mitochondrie", "Le lysosome"))
	assert.True(t, NearDuplicate("", ""))
}

func TestTokenOverlap(t *testing.T) {
	// Asymmetric on purpose: the first argument's vocabulary is the baseline.
	assert.InDelta(t, 1.0, TokenOverlap("sodium potassium", "le sodium et le potassium actif"), 1e-9)
	assert.InDelta(t, 2.0/3.0, TokenOverlap("le sodium et le potassium actif", "sodium potassium"), 1e-9)
	assert.Zero(t, TokenOverlap("", "sodium"))
	// Tokens shorter than 3 characters are ignored.
	assert.Zero(t, TokenOverlap("un et de la", "un et de la"))
}
