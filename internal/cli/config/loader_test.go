package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("input", "i", "", "")
	flags.String("out-dir", "", "")
	flags.String("state", "", "")
	flags.String("convention", "", "")
	flags.String("convention-file", "", "")
	flags.BoolP("verbose", "v", false, "")
	flags.StringP("output", "o", "", "")
	return flags
}

func TestLoadConfigDefaults(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), testFlags(t))
	require.Error(t, err) // explicit config file must exist
	assert.Nil(t, cfg)
}

func TestLoadConfigDefaultValues(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	// An empty config file keeps every default but pins the search.
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "nrigen.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("{}\n"), 0o644))

	cfg, err := LoadConfig(cfgFile, testFlags(t))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, DefaultInput), cfg.Input)
	assert.Equal(t, filepath.Join(dir, DefaultOutDir), cfg.OutDir)
	assert.Equal(t, DefaultSchemaFile, cfg.SchemaFile)
	assert.Equal(t, DefaultConvention, cfg.Convention)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.True(t, cfg.Skip.EALComponents)
	assert.True(t, cfg.Skip.ImpactedThings)
	assert.True(t, cfg.Skip.RelativeMeasures)
	assert.True(t, cfg.Skip.RawValues)
	assert.Equal(t, cfgFile, GetConfigFileUsed())
	assert.Equal(t, cfg, GetCurrentConfig())
}

func TestLoadConfigFromFile(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "nrigen.yaml")
	doc := `input: dict.csv
out_dir: build
convention: legacy
skip:
  raw_values: false
`
	require.NoError(t, os.WriteFile(cfgFile, []byte(doc), 0o644))

	cfg, err := LoadConfig(cfgFile, testFlags(t))
	require.NoError(t, err)

	// Relative paths from a config file resolve against its directory.
	assert.Equal(t, filepath.Join(dir, "dict.csv"), cfg.Input)
	assert.Equal(t, filepath.Join(dir, "build"), cfg.OutDir)
	assert.Equal(t, "legacy", cfg.Convention)
	assert.False(t, cfg.Skip.RawValues)
	assert.True(t, cfg.Skip.EALComponents)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "nrigen.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("convention: legacy\n"), 0o644))

	t.Setenv("NRIGEN_CONVENTION", "current")
	t.Setenv("NRIGEN_SKIP__RELATIVE_MEASURES", "false")

	cfg, err := LoadConfig(cfgFile, testFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "current", cfg.Convention)
	assert.False(t, cfg.Skip.RelativeMeasures)
}

func TestLoadConfigFlagsWin(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "nrigen.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("convention: legacy\nout_dir: filedir\n"), 0o644))

	t.Setenv("NRIGEN_CONVENTION", "legacy")

	flags := testFlags(t)
	require.NoError(t, flags.Set("convention", "current"))
	require.NoError(t, flags.Set("out-dir", "flagdir"))
	require.NoError(t, flags.Set("state", "flag-state.db"))

	cfg, err := LoadConfig(cfgFile, flags)
	require.NoError(t, err)

	assert.Equal(t, "current", cfg.Convention)
	// Flag paths stay relative to the working directory, not the config file.
	assert.Equal(t, "flagdir", cfg.OutDir)
	assert.Equal(t, "flag-state.db", cfg.StatePath)
}

func TestArtifactPaths(t *testing.T) {
	cfg := &Config{
		OutDir:      "out",
		SchemaFile:  "schema.mcf",
		TmcfFile:    "template.tmcf",
		ColumnsFile: "/abs/columns.json",
	}

	assert.Equal(t, filepath.Join("out", "schema.mcf"), cfg.SchemaPath())
	assert.Equal(t, filepath.Join("out", "template.tmcf"), cfg.TmcfPath())
	assert.Equal(t, "/abs/columns.json", cfg.ColumnsPath())
}

func TestValidate(t *testing.T) {
	cfg := &Config{Input: "dict.csv", Convention: "current", OutputFormat: "auto"}
	require.NoError(t, cfg.Validate())

	cfg = &Config{Convention: "current"}
	require.Error(t, cfg.Validate())

	cfg = &Config{Input: "dict.csv", Convention: "modern"}
	require.Error(t, cfg.Validate())

	cfg = &Config{Input: "dict.csv", OutputFormat: "xml"}
	require.Error(t, cfg.Validate())
}

func TestValidateInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dict.csv")

	cfg := &Config{Input: path}
	require.Error(t, cfg.ValidateInput())

	require.NoError(t, os.WriteFile(path, []byte("Field Name\n"), 0o644))
	require.NoError(t, cfg.ValidateInput())
}

func TestGetLoggerFallback(t *testing.T) {
	logger := GetLogger(t.Context())
	require.NotNil(t, logger)
}
