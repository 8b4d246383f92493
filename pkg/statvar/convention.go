// Package statvar classifies data-dictionary rows and derives
// StatisticalVariable properties, identifiers, and display names from them.
package statvar

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Unit tokens shared by every naming convention. Unit normalization closes
// the unit vocabulary to exactly {UnitRiskScore, UnitUSDollar, ""}.
const (
	UnitRiskScore = "FemaNationalRiskScore"
	UnitUSDollar  = "dcid:USDollar"
)

// PopulationType is the population type every generated variable measures.
const PopulationType = "NaturalHazardImpact"

// hazardSuffix is appended to the first alias segment of individual-hazard rows.
const hazardSuffix = "Event"

// Convention is an immutable naming/aliasing policy. It decides how field
// alias labels map to Data Commons tokens and how schema blocks are shaped.
type Convention struct {
	Name string

	// Aliases maps canonicalized labels to Data Commons tokens.
	Aliases map[string]string

	// CollapseAliasKeys removes internal spaces when canonicalizing a label
	// before the alias lookup (in addition to trimming surrounding space).
	CollapseAliasKeys bool

	// HazardRespellings rewrites derived hazard types whose dataset spelling
	// differs from the existing Data Commons class.
	HazardRespellings map[string]string

	// LossProperty is the aliased token for the annualized-loss property.
	LossProperty string

	// RiskIndexProperty is the aliased token for the composite risk index.
	RiskIndexProperty string

	// EmitStatType controls the statType line in schema blocks.
	EmitStatType bool

	// EmitName controls the human-readable name line in schema blocks.
	EmitName bool

	// PrefixHazardProperty controls the dcs: prefix on the measuredProperty
	// line of individual-hazard blocks.
	PrefixHazardProperty bool

	// NormalizeDates selects the normalized YYYY-MM observation date over
	// the raw Version string in template blocks.
	NormalizeDates bool
}

// Current returns the convention used by current imports: camelCase property
// tokens, space-collapsed alias keys, named and typed schema blocks, and
// normalized observation dates.
func Current() Convention {
	return Convention{
		Name: "current",
		Aliases: map[string]string{
			"Score":               UnitRiskScore,
			"SocialVulnerability": "femaSocialVulnerability",
			"CommunityResilience": "femaCommunityResilience",
			"HazardTypeRiskIndex": "femaNaturalHazardRiskIndex",
			"NationalRiskIndex":   "femaNaturalHazardRiskIndex",
			"ExpectedAnnualLoss":  "expectedLoss",
		},
		CollapseAliasKeys:    true,
		HazardRespellings:    map[string]string{"CoastalFloodingEvent": "CoastalFloodEvent"},
		LossProperty:         "expectedLoss",
		RiskIndexProperty:    "femaNaturalHazardRiskIndex",
		EmitStatType:         true,
		EmitName:             true,
		PrefixHazardProperty: true,
		NormalizeDates:       true,
	}
}

// Legacy returns the convention of the original import: PascalCase tokens,
// trim-only alias keys (so spaced labels need their own entries), bare
// schema blocks, and raw Version strings as observation dates.
func Legacy() Convention {
	return Convention{
		Name: "legacy",
		Aliases: map[string]string{
			"Score":                  UnitRiskScore,
			"SocialVulnerability":    "FemaSocialVulnerability",
			"CommunityResilience":    "FemaCommunityResilience",
			"HazardTypeRiskIndex":    "FemaNaturalHazardRiskIndex",
			"Hazard Type Risk Index": "FemaNaturalHazardRiskIndex",
			"NationalRiskIndex":      "FemaNaturalHazardRiskIndex",
			"Expected Annual Loss":   "ExpectedLoss",
			"ExpectedAnnualLoss":     "ExpectedLoss",
		},
		CollapseAliasKeys:    false,
		HazardRespellings:    map[string]string{"CoastalFloodingEvent": "CoastalFloodEvent"},
		LossProperty:         "ExpectedLoss",
		RiskIndexProperty:    "FemaNaturalHazardRiskIndex",
		EmitStatType:         false,
		EmitName:             false,
		PrefixHazardProperty: false,
		NormalizeDates:       false,
	}
}

// ByName resolves a convention by its configuration name.
func ByName(name string) (Convention, error) {
	switch name {
	case "", "current":
		return Current(), nil
	case "legacy":
		return Legacy(), nil
	default:
		return Convention{}, fmt.Errorf("unknown naming convention %q (want current or legacy)", name)
	}
}

// canonicalKey normalizes a label into an alias lookup key.
func (c Convention) canonicalKey(label string) string {
	key := strings.TrimSpace(label)
	if c.CollapseAliasKeys {
		key = dropSpaces(key)
	}
	return key
}

// Lookup returns the aliased token for a label and whether an entry exists.
func (c Convention) Lookup(label string) (string, bool) {
	token, ok := c.Aliases[c.canonicalKey(label)]
	return token, ok
}

// Alias maps a label to its Data Commons token. Unknown labels pass through
// unchanged; the caller decides whether to log the miss.
func (c Convention) Alias(label string) string {
	if token, ok := c.Lookup(label); ok {
		return token
	}
	return label
}

// NormalizeUnit enforces the closed unit vocabulary: anything that is not
// the risk-score token becomes the currency token for the loss property and
// empty for every other property.
func (c Convention) NormalizeUnit(property, unit string) string {
	if unit == UnitRiskScore {
		return unit
	}
	if property == c.LossProperty {
		return UnitUSDollar
	}
	return ""
}

// conventionOverride is the YAML shape of a convention override file.
type conventionOverride struct {
	Aliases           map[string]string `yaml:"aliases"`
	HazardRespellings map[string]string `yaml:"hazard_respellings"`
}

// LoadOverrides reads a YAML override file and returns a copy of the
// convention with the extra alias and respelling entries merged in.
func LoadOverrides(path string, base Convention) (Convention, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Convention{}, fmt.Errorf("read convention overrides: %w", err)
	}

	var ov conventionOverride
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return Convention{}, fmt.Errorf("parse convention overrides %s: %w", path, err)
	}

	merged := base
	merged.Aliases = make(map[string]string, len(base.Aliases)+len(ov.Aliases))
	for k, v := range base.Aliases {
		merged.Aliases[k] = v
	}
	for k, v := range ov.Aliases {
		merged.Aliases[merged.canonicalKey(k)] = v
	}

	merged.HazardRespellings = make(map[string]string, len(base.HazardRespellings)+len(ov.HazardRespellings))
	for k, v := range base.HazardRespellings {
		merged.HazardRespellings[k] = v
	}
	for k, v := range ov.HazardRespellings {
		merged.HazardRespellings[k] = v
	}

	return merged, nil
}

// dropSpaces removes every space character from s.
func dropSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
