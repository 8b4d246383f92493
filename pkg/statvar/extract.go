package statvar

import (
	"fmt"
	"log/slog"
	"strings"
)

// segmentSeparator splits a field alias into its semantic components.
const segmentSeparator = " - "

// Properties are the semantic components extracted from one retained row.
type Properties struct {
	IsComposite bool

	// MeasuredProperty is the aliased, space-stripped property token.
	// Always non-empty after extraction.
	MeasuredProperty string

	// Unit is UnitRiskScore, UnitUSDollar, or empty.
	Unit string

	// HazardType is empty if and only if IsComposite.
	HazardType string

	// MeasurementQualifier is "Annual" when MeasuredProperty is the
	// annualized-loss property, empty otherwise.
	MeasurementQualifier string

	// ImpactedThing is the third alias segment when present and not
	// "Total"; population variants collapse to "Person".
	ImpactedThing string

	// Row is the originating dictionary row.
	Row Row
}

// Extract derives Properties from a row under the given convention.
// Alias lookup misses are non-fatal and logged at Info; a malformed alias
// with fewer than two segments is an error.
func Extract(row Row, conv Convention, logger *slog.Logger) (Properties, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	segments := strings.Split(row.FieldAlias, segmentSeparator)
	if len(segments) < 2 {
		return Properties{}, fmt.Errorf("field alias %q: want at least 2 dash-separated segments, got %d", row.FieldAlias, len(segments))
	}

	if IsComposite(row) {
		return extractComposite(row, segments, conv, logger), nil
	}
	return extractIndividualHazard(row, segments, conv, logger), nil
}

// extractComposite handles rows aggregating across all hazard types.
// The alias shape is "<property> - <unit>".
func extractComposite(row Row, segments []string, conv Convention, logger *slog.Logger) Properties {
	property := alias(conv, dropSpaces(segments[0]), logger)
	unit := alias(conv, dropSpaces(segments[1]), logger)
	unit = conv.NormalizeUnit(property, unit)

	qualifier := ""
	if property == conv.LossProperty {
		qualifier = "Annual"
	}

	return Properties{
		IsComposite:          true,
		MeasuredProperty:     property,
		Unit:                 unit,
		MeasurementQualifier: qualifier,
		Row:                  row,
	}
}

// extractIndividualHazard handles rows measuring one hazard type. The alias
// shape is "<hazard> - <property>[ - <impacted thing>]".
func extractIndividualHazard(row Row, segments []string, conv Convention, logger *slog.Logger) Properties {
	hazardType := dropSpaces(segments[0]) + hazardSuffix
	if respelled, ok := conv.HazardRespellings[hazardType]; ok {
		hazardType = respelled
	}

	property := alias(conv, segments[1], logger)

	// Ranking-flavored properties carry their unit as a trailing word:
	// "Expected Annual Loss Score" measures expectedLoss in risk-score
	// units. Split the word off and alias both halves separately.
	unit := ""
	if strings.Contains(property, "Score") || strings.Contains(property, "Rating") {
		words := strings.Split(property, " ")
		last := words[len(words)-1]
		property = alias(conv, property[:len(property)-len(last)], logger)
		unit = alias(conv, last, logger)
	}
	unit = conv.NormalizeUnit(property, unit)

	qualifier := ""
	if property == conv.LossProperty {
		qualifier = "Annual"
	}
	property = dropSpaces(property)

	impacted := ""
	if len(segments) > 2 {
		impacted = dropSpaces(segments[2])
		// "Total" means the measure is not broken down by what it impacts.
		if impacted == "Total" {
			impacted = ""
		}
	}
	// "Population" and "Population Equivalence" both measure people.
	if strings.Contains(impacted, "Population") {
		impacted = "Person"
	}

	return Properties{
		IsComposite:          false,
		MeasuredProperty:     property,
		Unit:                 unit,
		HazardType:           hazardType,
		MeasurementQualifier: qualifier,
		ImpactedThing:        impacted,
		Row:                  row,
	}
}

// alias maps a label through the convention, logging lookup misses.
func alias(conv Convention, label string, logger *slog.Logger) string {
	token, ok := conv.Lookup(label)
	if !ok {
		logger.Info("no alias for label, passing through", "label", label, "key", conv.canonicalKey(label))
		return label
	}
	return token
}
