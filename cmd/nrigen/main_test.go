// Package main provides tests for the nrigen CLI.
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazardlab/nrigen/internal/cli"
	"github.com/hazardlab/nrigen/internal/cli/config"
)

func testDictionary(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	return filepath.Join(wd, "..", "..", "testdata", "NRIDataDictionary.csv")
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	out := new(bytes.Buffer)
	errw := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errw)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errw.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(out, "nrigen") {
		t.Errorf("version output should contain 'nrigen', got: %s", out)
	}
}

func TestHelpCommand(t *testing.T) {
	out, _, err := execute(t, "--help")
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	expectedCommands := []string{"generate", "inspect", "doctor", "runs", "version", "completion"}
	for _, expected := range expectedCommands {
		if !strings.Contains(out, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, out)
		}
	}
}

func TestGenerateCommand(t *testing.T) {
	tmpDir := t.TempDir()

	out, _, err := execute(t,
		"generate",
		"--input", testDictionary(t),
		"--out-dir", tmpDir,
		"--state", filepath.Join(tmpDir, "state.db"),
		"--output", "markdown",
	)
	if err != nil {
		t.Fatalf("generate command error = %v", err)
	}

	if !strings.Contains(out, "Generation complete") {
		t.Errorf("generate output should report completion, got: %s", out)
	}

	for _, name := range []string{"fema_nri_stat_vars.mcf", "fema_nri_counties.tmcf", "csv_columns.json"} {
		if _, err := os.Stat(filepath.Join(tmpDir, name)); err != nil {
			t.Errorf("expected artifact %s: %v", name, err)
		}
	}

	schema, err := os.ReadFile(filepath.Join(tmpDir, "fema_nri_stat_vars.mcf"))
	if err != nil {
		t.Fatalf("failed to read schema: %v", err)
	}
	if !strings.Contains(string(schema), "Node: dcid:Annual_ExpectedLoss_NaturalHazardImpact_AvalancheEvent") {
		t.Errorf("schema missing expected node, got: %s", schema)
	}
}

func TestGenerateCommandJSON(t *testing.T) {
	tmpDir := t.TempDir()

	out, _, err := execute(t,
		"generate",
		"--input", testDictionary(t),
		"--out-dir", tmpDir,
		"--state", filepath.Join(tmpDir, "state.db"),
		"--output", "json",
	)
	if err != nil {
		t.Fatalf("generate command error = %v", err)
	}

	var result struct {
		Retained    int      `json:"retained"`
		Skipped     int      `json:"skipped"`
		SchemaNodes int      `json:"schema_nodes"`
		Columns     []string `json:"columns"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("generate --output json produced invalid JSON: %v\n%s", err, out)
	}
	if result.Retained != 6 || result.Skipped != 4 || result.SchemaNodes != 5 {
		t.Errorf("unexpected counts: %+v", result)
	}
	if len(result.Columns) != 6 {
		t.Errorf("expected 6 columns, got %v", result.Columns)
	}
}

func TestGenerateMissingInput(t *testing.T) {
	tmpDir := t.TempDir()

	_, _, err := execute(t,
		"generate",
		"--input", filepath.Join(tmpDir, "absent.csv"),
		"--out-dir", tmpDir,
		"--state", filepath.Join(tmpDir, "state.db"),
	)
	if err == nil {
		t.Fatal("expected an error for a missing dictionary")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestInspectCommand(t *testing.T) {
	tmpDir := t.TempDir()

	out, _, err := execute(t,
		"inspect",
		"--input", testDictionary(t),
		"--out-dir", tmpDir,
		"--state", "",
		"--output", "markdown",
	)
	if err != nil {
		t.Fatalf("inspect command error = %v", err)
	}

	if !strings.Contains(out, "Annual_ExpectedLoss_NaturalHazardImpact_AvalancheEvent") {
		t.Errorf("inspect output missing hazard dcid, got: %s", out)
	}
	if !strings.Contains(out, "FemaNaturalHazardRiskIndex_NaturalHazardImpact") {
		t.Errorf("inspect output missing composite dcid, got: %s", out)
	}
}

func TestInspectCompositesOnly(t *testing.T) {
	tmpDir := t.TempDir()

	out, _, err := execute(t,
		"inspect", "--composites-only",
		"--input", testDictionary(t),
		"--out-dir", tmpDir,
		"--state", "",
		"--output", "json",
	)
	if err != nil {
		t.Fatalf("inspect command error = %v", err)
	}

	var entries []struct {
		DCID      string `json:"dcid"`
		Composite bool   `json:"composite"`
	}
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("inspect --output json produced invalid JSON: %v\n%s", err, out)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 composite variables, got %d", len(entries))
	}
	for _, e := range entries {
		if !e.Composite {
			t.Errorf("entry %s is not composite", e.DCID)
		}
	}
}

func TestDoctorCommand(t *testing.T) {
	out, _, err := execute(t,
		"doctor",
		"--input", testDictionary(t),
		"--output", "json",
	)
	if err != nil {
		t.Fatalf("doctor command error = %v", err)
	}

	var report struct {
		Loaded   int  `json:"loaded"`
		Retained int  `json:"retained"`
		Skipped  int  `json:"skipped"`
		Healthy  bool `json:"healthy"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("doctor --output json produced invalid JSON: %v\n%s", err, out)
	}
	if !report.Healthy {
		t.Errorf("expected a healthy report, got: %s", out)
	}
	if report.Loaded != 10 || report.Retained != 6 || report.Skipped != 4 {
		t.Errorf("unexpected counts: %+v", report)
	}
}

func TestRunsCommand(t *testing.T) {
	tmpDir := t.TempDir()
	statePath := filepath.Join(tmpDir, "state.db")

	if _, _, err := execute(t,
		"generate",
		"--input", testDictionary(t),
		"--out-dir", tmpDir,
		"--state", statePath,
		"--output", "markdown",
	); err != nil {
		t.Fatalf("generate command error = %v", err)
	}

	out, _, err := execute(t,
		"runs",
		"--state", statePath,
		"--output", "json",
	)
	if err != nil {
		t.Fatalf("runs command error = %v", err)
	}

	var entries []struct {
		Status      string `json:"status"`
		SchemaNodes int    `json:"schema_nodes"`
	}
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("runs --output json produced invalid JSON: %v\n%s", err, out)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one recorded run, got %d", len(entries))
	}
	if entries[0].Status != "success" || entries[0].SchemaNodes != 5 {
		t.Errorf("unexpected run entry: %+v", entries[0])
	}
}

func TestUnknownConvention(t *testing.T) {
	_, _, err := execute(t, "inspect", "--convention", "modern", "--input", testDictionary(t))
	if err == nil {
		t.Fatal("expected an error for an unknown convention")
	}
	if !strings.Contains(err.Error(), "modern") {
		t.Errorf("unexpected error: %v", err)
	}
}
