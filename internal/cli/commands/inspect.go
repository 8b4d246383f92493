package commands

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/hazardlab/nrigen/internal/cli/output"
	"github.com/hazardlab/nrigen/pkg/statvar"
)

// InspectOptions holds options for the inspect command.
type InspectOptions struct {
	CompositesOnly bool
}

// inspectEntry is the JSON shape of one generated variable.
type inspectEntry struct {
	Ordinal          int    `json:"ordinal"`
	DCID             string `json:"dcid"`
	Composite        bool   `json:"composite"`
	MeasuredProperty string `json:"measured_property"`
	HazardType       string `json:"hazard_type,omitempty"`
	ImpactedThing    string `json:"impacted_thing,omitempty"`
	Unit             string `json:"unit,omitempty"`
	Column           string `json:"column"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &InspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the variables the dictionary would generate",
		Long: `Run the extraction pass without writing artifacts and list every
generated variable with its classification, property, hazard, unit, and
source column.`,
		Example: `  # Table of all generated variables
  nrigen inspect

  # Composite (all-hazard) variables only
  nrigen inspect --composites-only

  # Machine-readable listing
  nrigen inspect --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.CompositesOnly, "composites-only", false, "Only show composite (all-hazard) variables")

	return cmd
}

func runInspect(cmd *cobra.Command, opts *InspectOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := cmdCtx.Cfg.ValidateInput(); err != nil {
		return err
	}

	conv, err := resolveConvention(cmdCtx.Cfg)
	if err != nil {
		return err
	}

	extracted, _, _, err := cmdCtx.Engine.Build(cmd.Context())
	if err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}

	entries := make([]inspectEntry, 0, len(extracted))
	for _, p := range extracted {
		if opts.CompositesOnly && !p.IsComposite {
			continue
		}
		entries = append(entries, inspectEntry{
			Ordinal:          p.Row.Ordinal,
			DCID:             statvar.DCID(p, conv),
			Composite:        p.IsComposite,
			MeasuredProperty: p.MeasuredProperty,
			HazardType:       p.HazardType,
			ImpactedThing:    p.ImpactedThing,
			Unit:             p.Unit,
			Column:           p.Row.FieldName,
		})
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)

	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, fmt.Sprintf("Generated variables (%d)", len(entries))))
		r.Println("")
		r.Println("| # | dcid | property | hazard | unit | column |")
		r.Println("|---|------|----------|--------|------|--------|")
		for _, e := range entries {
			r.Printf("| %d | %s | %s | %s | %s | %s |\n",
				e.Ordinal, e.DCID, e.MeasuredProperty, e.HazardType, e.Unit, e.Column)
		}

	default:
		t := table.NewWriter()
		t.SetOutputMirror(r.Writer())
		t.AppendHeader(table.Row{"#", "DCID", "Property", "Hazard", "Unit", "Column"})
		for _, e := range entries {
			t.AppendRow(table.Row{e.Ordinal, e.DCID, e.MeasuredProperty, e.HazardType, e.Unit, e.Column})
		}
		t.Render()
		r.Printf("%d variables\n", len(entries))
	}

	return nil
}
