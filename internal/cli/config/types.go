// Package config provides configuration management for the nrigen CLI.
package config

import (
	"path/filepath"

	"github.com/hazardlab/nrigen/internal/dictionary"
)

// Config holds all CLI configuration options.
type Config struct {
	// Input is the data dictionary CSV path.
	Input string `koanf:"input"`

	// OutDir is the directory the three artifacts are written into.
	OutDir string `koanf:"out_dir"`

	// Artifact file names, relative to OutDir unless absolute.
	SchemaFile  string `koanf:"schema_file"`
	TmcfFile    string `koanf:"tmcf_file"`
	ColumnsFile string `koanf:"columns_file"`

	// StatePath is the run-history database; empty disables history.
	StatePath string `koanf:"state_path"`

	// Convention selects the naming convention: current or legacy.
	Convention string `koanf:"convention"`

	// ConventionFile optionally points at a YAML alias-override document.
	ConventionFile string `koanf:"convention_file"`

	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`

	Skip dictionary.SkipConfig `koanf:"skip"`
}

// Default configuration values.
const (
	DefaultInput       = "source_data/NRIDataDictionary.csv"
	DefaultOutDir      = "output"
	DefaultSchemaFile  = "fema_nri_stat_vars.mcf"
	DefaultTmcfFile    = "fema_nri_counties.tmcf"
	DefaultColumnsFile = "csv_columns.json"
	DefaultStateFile   = ".nrigen/state.db"
	DefaultConvention  = "current"
	DefaultOutput      = "auto" // TTY=text, piped=markdown
)

// SchemaPath returns the resolved schema artifact path.
func (c *Config) SchemaPath() string { return c.resolveOut(c.SchemaFile) }

// TmcfPath returns the resolved template artifact path.
func (c *Config) TmcfPath() string { return c.resolveOut(c.TmcfFile) }

// ColumnsPath returns the resolved column-list artifact path.
func (c *Config) ColumnsPath() string { return c.resolveOut(c.ColumnsFile) }

func (c *Config) resolveOut(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.OutDir, name)
}
