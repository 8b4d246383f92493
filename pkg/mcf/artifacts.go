package mcf

import (
	"encoding/json"
	"strings"
)

// Artifacts are the three generated outputs of one full pass.
type Artifacts struct {
	// Schema is the deduplicated StatisticalVariable MCF, header included.
	Schema string

	// Template is the concatenated TMCF blocks.
	Template string

	// Columns are the source column names used, first-seen order.
	Columns []string
}

// Dedup removes later exact duplicates from items, preserving first-seen
// order. It is idempotent and never mutates its input.
func Dedup[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// Assemble deduplicates the three parallel sequences independently and joins
// them into the final artifacts. Rows collapsing onto the same schema block
// (the dropped dimensions did not affect the generated text) survive as a
// single node; their distinct template blocks and column names remain.
func Assemble(schemas, templates, columns []string) Artifacts {
	schemas = Dedup(schemas)
	templates = Dedup(templates)
	columns = Dedup(columns)

	return Artifacts{
		Schema:   SchemaHeader + strings.Join(schemas, "\n"),
		Template: strings.Join(templates, ""),
		Columns:  columns,
	}
}

// ColumnsJSON serializes the column list for downstream consumers.
func (a Artifacts) ColumnsJSON() ([]byte, error) {
	return json.Marshal(a.Columns)
}
