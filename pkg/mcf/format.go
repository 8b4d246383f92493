// Package mcf renders extracted variable properties as MCF schema blocks and
// TMCF observation template blocks, and assembles the final artifacts.
package mcf

import (
	"fmt"
	"strings"

	"github.com/hazardlab/nrigen/pkg/statvar"
)

// SchemaHeader prefixes the schema artifact.
const SchemaHeader = `
# This file was autogenerated. Please see:
# https://github.com/datacommonsorg/data/tree/master/scripts/fema/nri/README.md

`

// SchemaNode renders the StatisticalVariable block for p and returns it
// together with the synthesized dcid.
func SchemaNode(p statvar.Properties, conv statvar.Convention) (string, string) {
	dcid := statvar.DCID(p, conv)

	var b strings.Builder
	fmt.Fprintf(&b, "Node: dcid:%s\n", dcid)
	b.WriteString("typeOf: dcs:StatisticalVariable\n")

	if p.IsComposite {
		if conv.EmitStatType {
			b.WriteString("statType: dcs:measuredValue\n")
		}
		b.WriteString("populationType: dcs:" + statvar.PopulationType + "\n")
		fmt.Fprintf(&b, "measuredProperty: dcs:%s\n", p.MeasuredProperty)
		if conv.EmitName {
			fmt.Fprintf(&b, "name: %q\n", statvar.DisplayName(p, conv))
		}
		if p.MeasurementQualifier != "" {
			fmt.Fprintf(&b, "measurementQualifier: dcid:%s\n", p.MeasurementQualifier)
		}
		return b.String(), dcid
	}

	b.WriteString("populationType: dcs:" + statvar.PopulationType + "\n")
	if conv.EmitStatType {
		b.WriteString("statType: dcs:measuredValue\n")
	}
	fmt.Fprintf(&b, "naturalHazardType: dcs:%s\n", p.HazardType)
	if conv.PrefixHazardProperty {
		fmt.Fprintf(&b, "measuredProperty: dcs:%s\n", p.MeasuredProperty)
	} else {
		fmt.Fprintf(&b, "measuredProperty: %s\n", p.MeasuredProperty)
	}
	if conv.EmitName {
		fmt.Fprintf(&b, "name: %q\n", statvar.DisplayName(p, conv))
	}
	if p.ImpactedThing != "" {
		fmt.Fprintf(&b, "impactedThing: dcid:%s\n", p.ImpactedThing)
	}
	if p.MeasurementQualifier != "" {
		fmt.Fprintf(&b, "measurementQualifier: dcid:%s\n", p.MeasurementQualifier)
	}

	return b.String(), dcid
}

// ObservationTemplate renders the TMCF block binding a dictionary row to a
// StatVarObservation. The unit line is appended only when a unit survived
// normalization.
func ObservationTemplate(p statvar.Properties, dcid string, conv statvar.Convention) string {
	date := p.Row.Version
	if conv.NormalizeDates {
		date = p.Row.VersionDate
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\nNode: E:FEMA_NRI->E%d\n", p.Row.Ordinal)
	b.WriteString("typeOf: dcs:StatVarObservation\n")
	fmt.Fprintf(&b, "variableMeasured: dcs:%s\n", dcid)
	b.WriteString("observationAbout: C:FEMA_NRI_Counties->DCID_GeoID\n")
	fmt.Fprintf(&b, "observationDate: %q\n", date)
	fmt.Fprintf(&b, "value: C:FEMA_NRI_Counties->%s\n", p.Row.FieldName)
	if p.Unit != "" {
		fmt.Fprintf(&b, "unit: %s\n", p.Unit)
	}
	return b.String()
}
