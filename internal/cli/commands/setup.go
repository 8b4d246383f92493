package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hazardlab/nrigen/internal/cli/config"
	"github.com/hazardlab/nrigen/internal/cli/output"
	"github.com/hazardlab/nrigen/internal/engine"
	"github.com/hazardlab/nrigen/pkg/statvar"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
// Returns the context and a cleanup function that must be called (typically
// via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	eng, err := createEngine(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	cleanup := func() {
		_ = eng.Close()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Engine:   eng,
		Renderer: r,
	}, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that only read configuration.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration, falling back to environment
// variables with defaults when no config has been loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		Input:        getEnvOrDefault("NRIGEN_INPUT", config.DefaultInput),
		OutDir:       getEnvOrDefault("NRIGEN_OUT_DIR", config.DefaultOutDir),
		SchemaFile:   config.DefaultSchemaFile,
		TmcfFile:     config.DefaultTmcfFile,
		ColumnsFile:  config.DefaultColumnsFile,
		StatePath:    getEnvOrDefault("NRIGEN_STATE_PATH", config.DefaultStateFile),
		Convention:   getEnvOrDefault("NRIGEN_CONVENTION", config.DefaultConvention),
		Verbose:      os.Getenv("NRIGEN_VERBOSE") == "true",
		OutputFormat: os.Getenv("NRIGEN_OUTPUT"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// resolveConvention builds the naming convention from configuration,
// applying any override file.
func resolveConvention(cfg *config.Config) (statvar.Convention, error) {
	conv, err := statvar.ByName(cfg.Convention)
	if err != nil {
		return statvar.Convention{}, err
	}
	if cfg.ConventionFile != "" {
		conv, err = statvar.LoadOverrides(cfg.ConventionFile, conv)
		if err != nil {
			return statvar.Convention{}, err
		}
	}
	return conv, nil
}

func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	conv, err := resolveConvention(cfg)
	if err != nil {
		return nil, err
	}

	return engine.New(engine.Config{
		InputPath:   cfg.Input,
		SchemaPath:  cfg.SchemaPath(),
		TmcfPath:    cfg.TmcfPath(),
		ColumnsPath: cfg.ColumnsPath(),
		Convention:  conv,
		Skip:        cfg.Skip,
		StatePath:   cfg.StatePath,
		Logger:      logger,
	})
}
