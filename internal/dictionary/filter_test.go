package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hazardlab/nrigen/pkg/statvar"
)

func aliasRows(aliases ...string) []statvar.Row {
	rows := make([]statvar.Row, len(aliases))
	for i, alias := range aliases {
		rows[i] = statvar.Row{FieldName: alias, FieldAlias: alias}
	}
	return rows
}

func retainedAliases(rows []statvar.Row) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row.FieldAlias
	}
	return out
}

func TestFilterDefaultVocabulary(t *testing.T) {
	rows := aliasRows(
		"National Risk Index - Score - Composite",
		"National Risk Index - Rating - Composite",
		"Avalanche - Expected Annual Loss Score",
		"Avalanche - Annualized Frequency",
		"Avalanche - Exposure - Building",
		"Avalanche - Historic Loss Ratio - Population",
		"Avalanche - Expected Annual Loss - Population Equivalence",
		"Avalanche - Number of Events",
		"Avalanche - Expected Annual Loss Percentile",
		"Social Vulnerability - Value",
		"Community Resilience - Value",
	)

	retained := Filter(rows, DefaultSkip(), nil)
	assert.Equal(t, []string{
		"National Risk Index - Score - Composite",
		"Avalanche - Expected Annual Loss Score",
	}, retainedAliases(retained))
}

func TestFilterAssignsDenseOrdinals(t *testing.T) {
	rows := aliasRows(
		"National Risk Index - Score - Composite",
		"National Risk Index - Rating - Composite",
		"Avalanche - Expected Annual Loss Score",
	)

	retained := Filter(rows, DefaultSkip(), nil)
	for i, row := range retained {
		assert.Equal(t, i, row.Ordinal)
	}
	assert.Len(t, retained, 2)
	assert.Equal(t, 1, retained[1].Ordinal)
}

func TestFilterGroupToggles(t *testing.T) {
	rows := aliasRows(
		"Avalanche - Annualized Frequency",
		"Avalanche - Exposure - Building",
		"Avalanche - Expected Annual Loss Rating",
		"Social Vulnerability - Value",
	)

	skip := SkipConfig{}
	retained := Filter(rows, skip, nil)
	assert.Len(t, retained, 4)

	skip = SkipConfig{EALComponents: true}
	retained = Filter(rows, skip, nil)
	assert.Equal(t, []string{
		"Avalanche - Expected Annual Loss Rating",
		"Social Vulnerability - Value",
	}, retainedAliases(retained))

	skip = SkipConfig{RelativeMeasures: true, RawValues: true}
	retained = Filter(rows, skip, nil)
	assert.Equal(t, []string{
		"Avalanche - Annualized Frequency",
		"Avalanche - Exposure - Building",
	}, retainedAliases(retained))
}

// The skip vocabulary matches anywhere in the alias, not per segment. A
// hazard measure mentioning "Population" in its breakdown is excluded even
// though the hazard itself is retained elsewhere.
func TestFilterMatchesSubstrings(t *testing.T) {
	rows := aliasRows("Avalanche - Expected Annual Loss - Population Equivalence")
	retained := Filter(rows, SkipConfig{ImpactedThings: true}, nil)
	assert.Empty(t, retained)
}

func TestVocabulary(t *testing.T) {
	assert.Empty(t, SkipConfig{}.Vocabulary())

	vocab := DefaultSkip().Vocabulary()
	assert.Contains(t, vocab, "Exposure")
	assert.Contains(t, vocab, "Building")
	assert.Contains(t, vocab, "Rating")
	assert.Contains(t, vocab, "Social Vulnerability - Value")
	assert.Len(t, vocab, 11)
}
