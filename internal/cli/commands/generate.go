package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazardlab/nrigen/internal/cli/output"
	"github.com/hazardlab/nrigen/internal/engine"
)

// GenerateOptions holds options for the generate command.
type GenerateOptions struct {
	Watch bool
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	opts := &GenerateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the schema, template, and column-list artifacts",
		Long: `Run the full generation pass over the NRI data dictionary and write
the three artifacts: the StatisticalVariable MCF schema, the TMCF
observation template, and the JSON list of source CSV columns.

Output adapts to environment:
  - Terminal: styled summary
  - Piped/Scripted: Markdown summary
  - JSON: machine-readable result`,
		Example: `  # Generate with defaults (./source_data/NRIDataDictionary.csv -> ./output)
  nrigen generate

  # Explicit input and output locations
  nrigen generate --input NRIDataDictionary.csv --out-dir build

  # Regenerate whenever the dictionary changes
  nrigen generate --watch

  # Machine-readable result
  nrigen generate --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Regenerate when the input dictionary changes")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *GenerateOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := cmdCtx.Cfg.ValidateInput(); err != nil {
		return err
	}

	result, err := cmdCtx.Engine.Generate(cmd.Context())
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if err := renderResult(cmdCtx.Renderer, result); err != nil {
		return err
	}

	if opts.Watch {
		return cmdCtx.Engine.Watch(cmd.Context(), func(result *engine.Result, err error) {
			if err != nil {
				cmdCtx.Renderer.Error(err.Error())
				return
			}
			_ = renderResult(cmdCtx.Renderer, result)
		})
	}

	return nil
}

func renderResult(r *output.Renderer, result *engine.Result) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(result)

	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Generation complete"))
		r.Println("")
		r.Printf("- Retained rows: %d (skipped %d)\n", result.Retained, result.Skipped)
		r.Printf("- Schema nodes: %d\n", result.SchemaNodes)
		r.Printf("- Template nodes: %d\n", result.TemplateNodes)
		r.Printf("- Columns: %d\n", len(result.Columns))
		r.Printf("- Schema: %s\n", result.SchemaPath)
		r.Printf("- Template: %s\n", result.TmcfPath)
		r.Printf("- Column list: %s\n", result.ColumnsPath)
		r.Printf("- Elapsed: %s\n", result.Elapsed)

	default:
		r.Success(fmt.Sprintf("generated %d schema nodes from %d rows in %s",
			result.SchemaNodes, result.Retained, result.Elapsed))
		r.Printf("  schema   %s\n", result.SchemaPath)
		r.Printf("  template %s\n", result.TmcfPath)
		r.Printf("  columns  %s (%d)\n", result.ColumnsPath, len(result.Columns))
	}

	return nil
}
