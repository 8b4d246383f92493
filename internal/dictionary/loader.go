// Package dictionary loads and filters the NRI data dictionary CSV.
package dictionary

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hazardlab/nrigen/pkg/statvar"
)

// Column headers required in the data dictionary.
const (
	colFieldName     = "Field Name"
	colFieldAlias    = "Field Alias"
	colRelevantLayer = "Relevant Layer"
	colVersion       = "Version"
)

// ignoredFields are administrative and geographic columns that carry no
// hazard measure.
var ignoredFields = map[string]bool{
	"OBJECTID": true, "Shape": true, "Shape_Length": true, "Shape_Area": true,
	"STATE": true, "STATEABBRV": true, "STATEFIPS": true, "COUNTY": true,
	"COUNTYTYPE": true, "COUNTYFIPS": true, "STCOFIPS": true, "NRI_ID": true,
	"TRACT": true, "TRACTFIPS": true, "POPULATION": true, "BUILDVALUE": true,
	"AGRIVALUE": true, "AREA": true, "NRI_VER": true, "AIANNHCE": true,
	"FEDREG2020": true, "FEDERAL_ID": true, "JURS_NAME": true, "JURS_AREA": true,
	"JURS_TYPE": true, "HIFLD_NAME": true, "HIFLD_AREA": true, "HIFLD_TYPE": true,
}

// versionLayouts are the date spellings accepted in the Version column.
var versionLayouts = []string{
	"January 2006",
	"Jan 2006",
	"2006-01",
	"2006-01-02",
	"1/2/2006",
}

// Load reads the data dictionary at path. Missing files, missing required
// columns, and unparseable version dates are fatal.
func Load(path string, logger *slog.Logger) ([]statvar.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data dictionary: %w", err)
	}
	defer f.Close()

	rows, err := Read(f, logger)
	if err != nil {
		return nil, fmt.Errorf("load data dictionary %s: %w", path, err)
	}
	return rows, nil
}

// Read parses data dictionary CSV content, drops ignored columns, and
// normalizes the version date.
func Read(r io.Reader, logger *slog.Logger) ([]statvar.Row, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty data dictionary")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, required := range []string{colFieldName, colFieldAlias, colRelevantLayer, colVersion} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var rows []statvar.Row
	ignored := 0
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		field := func(name string) string {
			i := index[name]
			if i >= len(record) {
				return ""
			}
			return record[i]
		}

		name := field(colFieldName)
		if ignoredFields[name] {
			ignored++
			continue
		}

		version := field(colVersion)
		versionDate, err := normalizeVersion(version)
		if err != nil {
			return nil, fmt.Errorf("line %d (%s): %w", line, name, err)
		}

		rows = append(rows, statvar.Row{
			FieldName:     name,
			FieldAlias:    field(colFieldAlias),
			RelevantLayer: field(colRelevantLayer),
			Version:       version,
			VersionDate:   versionDate,
		})
	}

	logger.Info("loaded data dictionary", "rows", len(rows), "ignored", ignored)
	return rows, nil
}

// normalizeVersion parses a version string and reformats it as YYYY-MM.
func normalizeVersion(version string) (string, error) {
	for _, layout := range versionLayouts {
		if t, err := time.Parse(layout, version); err == nil {
			return t.Format("2006-01"), nil
		}
	}
	return "", fmt.Errorf("unparseable version date %q", version)
}
