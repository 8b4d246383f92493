package dictionary

import (
	"log/slog"
	"strings"

	"github.com/hazardlab/nrigen/pkg/statvar"
)

// Skip-vocabulary groups. Each group is individually toggleable.
var (
	ealComponents      = []string{"Number of Events", "Annualized Frequency", "Historic Loss Ratio", "Exposure"}
	impactedThings     = []string{"Building", "Population", "Agriculture"}
	relativeMeasures   = []string{"Rating", "Percentile"}
	rawValueComponents = []string{"Social Vulnerability - Value", "Community Resilience - Value"}
)

// SkipConfig toggles the skip-vocabulary groups. All groups default to
// excluded: the generated schema keeps scores and dollar losses, not their
// decompositions or relative rankings.
type SkipConfig struct {
	EALComponents    bool `koanf:"eal_components"`
	ImpactedThings   bool `koanf:"impacted_things"`
	RelativeMeasures bool `koanf:"relative_measures"`
	RawValues        bool `koanf:"raw_values"`
}

// DefaultSkip excludes every group.
func DefaultSkip() SkipConfig {
	return SkipConfig{
		EALComponents:    true,
		ImpactedThings:   true,
		RelativeMeasures: true,
		RawValues:        true,
	}
}

// Vocabulary returns the union of the enabled groups.
func (c SkipConfig) Vocabulary() []string {
	var vocab []string
	if c.EALComponents {
		vocab = append(vocab, ealComponents...)
	}
	if c.ImpactedThings {
		vocab = append(vocab, impactedThings...)
	}
	if c.RelativeMeasures {
		vocab = append(vocab, relativeMeasures...)
	}
	if c.RawValues {
		vocab = append(vocab, rawValueComponents...)
	}
	return vocab
}

// Filter drops rows whose alias contains any skip phrase and assigns dense
// zero-based ordinals to the retained rows.
//
// The match is a substring test against the whole alias, not a segment
// test. A hazard named after a skip phrase would be excluded too; this
// over-matching is intentional and kept for output compatibility.
func Filter(rows []statvar.Row, skip SkipConfig, logger *slog.Logger) []statvar.Row {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	vocab := skip.Vocabulary()
	retained := make([]statvar.Row, 0, len(rows))
	for _, row := range rows {
		if phrase, ok := matchSkip(row.FieldAlias, vocab); ok {
			logger.Info("skipping row", "alias", row.FieldAlias, "phrase", phrase)
			continue
		}
		row.Ordinal = len(retained)
		retained = append(retained, row)
	}
	return retained
}

// matchSkip returns the first skip phrase found in alias.
func matchSkip(alias string, vocab []string) (string, bool) {
	for _, phrase := range vocab {
		if strings.Contains(alias, phrase) {
			return phrase, true
		}
	}
	return "", false
}
