package statvar

import "strings"

// AliasCoverage reports the labels extraction would consult in the alias
// table for row, and the subset that has no entry and would pass through
// unchanged. Used by health checks; extraction itself treats misses as
// non-fatal.
func AliasCoverage(row Row, conv Convention) (checked, missing []string) {
	record := func(label string) string {
		checked = append(checked, label)
		token, ok := conv.Lookup(label)
		if !ok {
			missing = append(missing, label)
			return label
		}
		return token
	}

	segments := strings.Split(row.FieldAlias, segmentSeparator)
	if len(segments) < 2 {
		return checked, missing
	}

	if IsComposite(row) {
		record(dropSpaces(segments[0]))
		record(dropSpaces(segments[1]))
		return checked, missing
	}

	// A ranking-flavored property misses the table as a whole and is
	// recovered by splitting off the trailing unit word, so only the two
	// halves count toward coverage.
	property := segments[1]
	checked = append(checked, property)
	if token, ok := conv.Lookup(property); ok {
		property = token
	} else if !strings.Contains(property, "Score") && !strings.Contains(property, "Rating") {
		missing = append(missing, property)
	}
	if strings.Contains(property, "Score") || strings.Contains(property, "Rating") {
		words := strings.Split(property, " ")
		last := words[len(words)-1]
		record(property[:len(property)-len(last)])
		record(last)
	}
	return checked, missing
}
