package statvar

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DCID synthesizes the stable identifier for the variable described by p.
// Empty components are dropped before joining, so the result never has
// leading, trailing, or doubled underscores.
func DCID(p Properties, conv Convention) string {
	if p.IsComposite {
		if p.MeasuredProperty == conv.LossProperty {
			return "Annual_" + capitalizeFirst(p.MeasuredProperty) + "_" + PopulationType
		}
		return capitalizeFirst(p.MeasuredProperty) + "_" + PopulationType
	}

	components := []string{
		p.MeasurementQualifier,
		p.MeasuredProperty,
		PopulationType,
		p.HazardType,
		p.ImpactedThing,
	}

	parts := make([]string, 0, len(components))
	for _, c := range components {
		if c != "" {
			parts = append(parts, capitalizeFirst(c))
		}
	}
	return strings.Join(parts, "_")
}

// DisplayName builds the human-readable variable name. The loss and
// risk-index properties have fixed phrasings; any other property token is
// expanded at its capital letters with the leading "Fema" word dropped.
func DisplayName(p Properties, conv Convention) string {
	var name string
	switch p.MeasuredProperty {
	case conv.LossProperty:
		name = "Annual Expected Loss from Natural Hazard Impact"
	case conv.RiskIndexProperty:
		name = "FEMA National Risk Index for Natural Hazard Impact"
	default:
		words := strings.Split(spaceBeforeCaps(p.MeasuredProperty), " ")
		name = "FEMA " + strings.Join(words[1:], " ") + " to Natural Hazard Impact"
	}

	if !p.IsComposite {
		words := strings.Split(spaceBeforeCaps(p.HazardType), " ")
		name += ": " + strings.Join(words[:len(words)-1], " ")
	}

	return name
}

// capitalizeFirst upper-cases the first rune of s.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// spaceBeforeCaps inserts a space before each uppercase rune, discarding
// any whitespace already present, then trims the result. "CoastalFloodEvent"
// becomes "Coastal Flood Event".
func spaceBeforeCaps(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			b.WriteByte(' ')
			b.WriteRune(r)
		case unicode.IsSpace(r):
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
