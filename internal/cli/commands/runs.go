package commands

import (
	"encoding/json"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/hazardlab/nrigen/internal/cli/output"
	"github.com/hazardlab/nrigen/internal/state"
)

// RunsOptions holds options for the runs command.
type RunsOptions struct {
	Limit int
}

// runEntry is the JSON shape of one recorded run.
type runEntry struct {
	ID          string `json:"id"`
	Input       string `json:"input"`
	Convention  string `json:"convention"`
	Status      string `json:"status"`
	Retained    int    `json:"retained"`
	Skipped     int    `json:"skipped"`
	SchemaNodes int    `json:"schema_nodes"`
	Error       string `json:"error,omitempty"`
	StartedAt   string `json:"started_at"`
	Elapsed     string `json:"elapsed,omitempty"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	opts := &RunsOptions{}
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent generation runs",
		Long: `Show the run history recorded in the state database, most recent
first.`,
		Example: `  # Last 20 runs
  nrigen runs

  # Last 5 runs, machine-readable
  nrigen runs --limit 5 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRuns(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of runs to show")

	return cmd
}

func runRuns(cmd *cobra.Command, opts *RunsOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	runs, err := cmdCtx.Engine.Runs(opts.Limit)
	if err != nil {
		return err
	}

	entries := make([]runEntry, 0, len(runs))
	for _, run := range runs {
		entries = append(entries, newRunEntry(run))
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)

	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Generation runs"))
		r.Println("")
		r.Println("| started | status | retained | skipped | nodes | input |")
		r.Println("|---------|--------|----------|---------|-------|-------|")
		for _, e := range entries {
			r.Printf("| %s | %s | %d | %d | %d | %s |\n",
				e.StartedAt, e.Status, e.Retained, e.Skipped, e.SchemaNodes, e.Input)
		}

	default:
		if len(entries) == 0 {
			r.Warning("no recorded runs")
			return nil
		}
		t := table.NewWriter()
		t.SetOutputMirror(r.Writer())
		t.AppendHeader(table.Row{"Started", "Status", "Retained", "Skipped", "Nodes", "Elapsed", "Input"})
		for _, e := range entries {
			t.AppendRow(table.Row{e.StartedAt, e.Status, e.Retained, e.Skipped, e.SchemaNodes, e.Elapsed, e.Input})
		}
		t.Render()
	}

	return nil
}

func newRunEntry(run *state.Run) runEntry {
	e := runEntry{
		ID:          run.ID,
		Input:       run.InputPath,
		Convention:  run.Convention,
		Status:      string(run.Status),
		Retained:    run.Retained,
		Skipped:     run.Skipped,
		SchemaNodes: run.SchemaNodes,
		Error:       run.Error,
		StartedAt:   run.StartedAt.Format(time.RFC3339),
	}
	if run.CompletedAt != nil {
		e.Elapsed = run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
	}
	return e
}
