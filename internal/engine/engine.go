// Package engine orchestrates the generation pipeline: load the data
// dictionary, filter it, extract variable properties, render the schema and
// template blocks, deduplicate, and persist the three artifacts.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hazardlab/nrigen/internal/dictionary"
	"github.com/hazardlab/nrigen/internal/state"
	"github.com/hazardlab/nrigen/pkg/mcf"
	"github.com/hazardlab/nrigen/pkg/statvar"
)

// Config holds engine dependencies and paths.
type Config struct {
	InputPath   string
	SchemaPath  string
	TmcfPath    string
	ColumnsPath string

	Convention statvar.Convention
	Skip       dictionary.SkipConfig

	// StatePath enables run history when non-empty.
	StatePath string

	Logger *slog.Logger
}

// Engine runs the generation pipeline.
type Engine struct {
	cfg    Config
	logger *slog.Logger
	store  state.Store
}

// Result summarizes one completed pass.
type Result struct {
	RunID         string   `json:"run_id,omitempty"`
	Retained      int      `json:"retained"`
	Skipped       int      `json:"skipped"`
	SchemaNodes   int      `json:"schema_nodes"`
	TemplateNodes int      `json:"template_nodes"`
	Columns       []string `json:"columns"`
	SchemaPath    string   `json:"schema_path,omitempty"`
	TmcfPath      string   `json:"tmcf_path,omitempty"`
	ColumnsPath   string   `json:"columns_path,omitempty"`
	Elapsed       string   `json:"elapsed"`
}

// New creates an engine, opening the run-history store when configured.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	e := &Engine{cfg: cfg, logger: logger}

	if cfg.StatePath != "" {
		if dir := filepath.Dir(cfg.StatePath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("create state directory: %w", err)
			}
		}
		store := state.NewSQLiteStore()
		if err := store.Open(cfg.StatePath); err != nil {
			return nil, err
		}
		if err := store.InitSchema(); err != nil {
			store.Close()
			return nil, err
		}
		e.store = store
	}

	return e, nil
}

// Close releases the run-history store.
func (e *Engine) Close() error {
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

// Build runs the in-memory pass: load, filter, extract, format, dedup.
// Nothing is written.
func (e *Engine) Build(ctx context.Context) ([]statvar.Properties, mcf.Artifacts, *Result, error) {
	start := time.Now()

	rows, err := dictionary.Load(e.cfg.InputPath, e.logger)
	if err != nil {
		return nil, mcf.Artifacts{}, nil, err
	}

	retained := dictionary.Filter(rows, e.cfg.Skip, e.logger)
	skipped := len(rows) - len(retained)

	extracted := make([]statvar.Properties, 0, len(retained))
	schemas := make([]string, 0, len(retained))
	templates := make([]string, 0, len(retained))
	columns := make([]string, 0, len(retained))

	for _, row := range retained {
		if err := ctx.Err(); err != nil {
			return nil, mcf.Artifacts{}, nil, err
		}

		props, err := statvar.Extract(row, e.cfg.Convention, e.logger)
		if err != nil {
			return nil, mcf.Artifacts{}, nil, err
		}

		schema, dcid := mcf.SchemaNode(props, e.cfg.Convention)
		extracted = append(extracted, props)
		schemas = append(schemas, schema)
		templates = append(templates, mcf.ObservationTemplate(props, dcid, e.cfg.Convention))
		columns = append(columns, row.FieldName)
	}

	artifacts := mcf.Assemble(schemas, templates, columns)

	result := &Result{
		Retained:      len(retained),
		Skipped:       skipped,
		SchemaNodes:   len(mcf.Dedup(schemas)),
		TemplateNodes: len(mcf.Dedup(templates)),
		Columns:       artifacts.Columns,
		Elapsed:       time.Since(start).Round(time.Millisecond).String(),
	}

	e.logger.Info("built artifacts",
		"retained", result.Retained,
		"skipped", result.Skipped,
		"schema_nodes", result.SchemaNodes,
	)

	return extracted, artifacts, result, nil
}

// Generate runs the full pass and writes the three artifacts. The run is
// recorded in the state store when one is configured.
func (e *Engine) Generate(ctx context.Context) (*Result, error) {
	var runID string
	if e.store != nil {
		run, err := e.store.CreateRun(e.cfg.InputPath, e.cfg.Convention.Name)
		if err != nil {
			return nil, err
		}
		runID = run.ID
	}

	_, artifacts, result, err := e.Build(ctx)
	if err != nil {
		e.completeRun(runID, state.RunStatusError, &Result{}, err)
		return nil, err
	}
	result.RunID = runID

	if err := e.write(ctx, artifacts); err != nil {
		e.completeRun(runID, state.RunStatusError, result, err)
		return nil, err
	}

	result.SchemaPath = e.cfg.SchemaPath
	result.TmcfPath = e.cfg.TmcfPath
	result.ColumnsPath = e.cfg.ColumnsPath

	e.completeRun(runID, state.RunStatusSuccess, result, nil)
	return result, nil
}

// write persists the three artifacts. Any failure is fatal; no partial
// cleanup is attempted.
func (e *Engine) write(ctx context.Context, artifacts mcf.Artifacts) error {
	for _, path := range []string{e.cfg.SchemaPath, e.cfg.TmcfPath, e.cfg.ColumnsPath} {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
		}
	}

	columnsJSON, err := artifacts.ColumnsJSON()
	if err != nil {
		return fmt.Errorf("encode column list: %w", err)
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { return writeFile(e.cfg.SchemaPath, []byte(artifacts.Schema)) })
	g.Go(func() error { return writeFile(e.cfg.TmcfPath, []byte(artifacts.Template)) })
	g.Go(func() error { return writeFile(e.cfg.ColumnsPath, columnsJSON) })
	if err := g.Wait(); err != nil {
		return err
	}

	e.logger.Info("wrote artifacts",
		"schema", e.cfg.SchemaPath,
		"tmcf", e.cfg.TmcfPath,
		"columns", e.cfg.ColumnsPath,
	)
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// completeRun records the run outcome, logging bookkeeping failures instead
// of surfacing them over the pipeline result.
func (e *Engine) completeRun(runID string, status state.RunStatus, result *Result, cause error) {
	if e.store == nil || runID == "" {
		return
	}

	errMsg := ""
	if cause != nil {
		errMsg = cause.Error()
	}
	if err := e.store.CompleteRun(runID, status, result.Retained, result.Skipped, result.SchemaNodes, errMsg); err != nil {
		e.logger.Warn("failed to record run outcome", "run_id", runID, "error", err)
	}
}

// Runs lists recent generation runs. Returns nil when no state store is
// configured.
func (e *Engine) Runs(limit int) ([]*state.Run, error) {
	if e.store == nil {
		return nil, nil
	}
	return e.store.ListRuns(limit)
}
