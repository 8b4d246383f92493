package statvar

// Row is one retained record of the NRI data dictionary. Rows are immutable
// once loaded; Ordinal is the dense zero-based position among retained rows
// and is carried explicitly so template references survive reordering.
type Row struct {
	// FieldName is the column identifier in the import tables.
	FieldName string

	// FieldAlias is the dash-delimited semantic label of the measure.
	FieldAlias string

	// RelevantLayer is the dataset category tag, used for composite
	// classification.
	RelevantLayer string

	// Version is the raw version string from the dictionary, e.g.
	// "November 2021".
	Version string

	// VersionDate is Version normalized to YYYY-MM.
	VersionDate string

	// Ordinal is assigned after filtering.
	Ordinal int
}

// compositeLayers are the Relevant Layer values describing aggregate
// measures across all hazard types.
var compositeLayers = map[string]bool{
	"National Risk Index":  true,
	"Expected Annual Loss": true,
	"Social Vulnerability": true,
	"Community Resilience": true,
}

// IsComposite reports whether the row measures all hazards in aggregate
// rather than one specific hazard. Unrecognized layers are individual.
func IsComposite(row Row) bool {
	return compositeLayers[row.RelevantLayer]
}
