package statvar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	conv, err := ByName("current")
	require.NoError(t, err)
	assert.Equal(t, "current", conv.Name)

	conv, err = ByName("")
	require.NoError(t, err)
	assert.Equal(t, "current", conv.Name)

	conv, err = ByName("legacy")
	require.NoError(t, err)
	assert.Equal(t, "legacy", conv.Name)

	_, err = ByName("modern")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "modern")
}

func TestLookupCanonicalization(t *testing.T) {
	current := Current()

	// Collapsed keys match labels with or without internal spaces.
	token, ok := current.Lookup("Expected Annual Loss")
	require.True(t, ok)
	assert.Equal(t, "expectedLoss", token)

	token, ok = current.Lookup("ExpectedAnnualLoss")
	require.True(t, ok)
	assert.Equal(t, "expectedLoss", token)

	token, ok = current.Lookup("  Score ")
	require.True(t, ok)
	assert.Equal(t, UnitRiskScore, token)

	// Legacy keys only trim, so spaced labels need their own entries.
	legacy := Legacy()
	token, ok = legacy.Lookup("Expected Annual Loss")
	require.True(t, ok)
	assert.Equal(t, "ExpectedLoss", token)

	_, ok = legacy.Lookup("Social Vulnerability")
	assert.False(t, ok)
}

func TestAliasPassthrough(t *testing.T) {
	conv := Current()
	assert.Equal(t, "expectedLoss", conv.Alias("Expected Annual Loss"))
	assert.Equal(t, "Historic Loss Ratio", conv.Alias("Historic Loss Ratio"))
}

func TestNormalizeUnit(t *testing.T) {
	conv := Current()

	assert.Equal(t, UnitRiskScore, conv.NormalizeUnit("expectedLoss", UnitRiskScore))
	assert.Equal(t, UnitRiskScore, conv.NormalizeUnit("femaSocialVulnerability", UnitRiskScore))
	assert.Equal(t, UnitUSDollar, conv.NormalizeUnit("expectedLoss", ""))
	assert.Equal(t, UnitUSDollar, conv.NormalizeUnit("expectedLoss", "Total"))
	assert.Equal(t, "", conv.NormalizeUnit("femaSocialVulnerability", "Composite"))

	legacy := Legacy()
	assert.Equal(t, UnitUSDollar, legacy.NormalizeUnit("ExpectedLoss", ""))
	assert.Equal(t, "", legacy.NormalizeUnit("expectedLoss", ""))
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.yaml")
	doc := `aliases:
  "Riverine Flooding": riverineFlooding
  "Expected Annual Loss": totalLoss
hazard_respellings:
  HurricaneEvent: CycloneEvent
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	base := Current()
	merged, err := LoadOverrides(path, base)
	require.NoError(t, err)

	token, ok := merged.Lookup("Riverine Flooding")
	require.True(t, ok)
	assert.Equal(t, "riverineFlooding", token)

	// Overrides win over base entries.
	assert.Equal(t, "totalLoss", merged.Alias("Expected Annual Loss"))
	assert.Equal(t, "CycloneEvent", merged.HazardRespellings["HurricaneEvent"])
	assert.Equal(t, "CoastalFloodEvent", merged.HazardRespellings["CoastalFloodingEvent"])

	// The base convention is untouched.
	assert.Equal(t, "expectedLoss", base.Alias("Expected Annual Loss"))
	_, ok = base.Lookup("Riverine Flooding")
	assert.False(t, ok)
}

func TestLoadOverridesErrors(t *testing.T) {
	_, err := LoadOverrides(filepath.Join(t.TempDir(), "missing.yaml"), Current())
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("aliases: [not, a, map]"), 0o644))
	_, err = LoadOverrides(path, Current())
	require.Error(t, err)
}
