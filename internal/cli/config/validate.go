package config

import (
	"fmt"
	"os"
)

// Validate checks the configuration for structural problems. Input file
// existence is checked separately so help output works anywhere.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input is required")
	}
	switch c.Convention {
	case "", "current", "legacy":
	default:
		return fmt.Errorf("unknown convention %q (want current or legacy)", c.Convention)
	}
	switch c.OutputFormat {
	case "", "auto", "text", "markdown", "json":
	default:
		return fmt.Errorf("unknown output format %q", c.OutputFormat)
	}
	return nil
}

// ValidateInput checks that the input dictionary exists.
func (c *Config) ValidateInput() error {
	if _, err := os.Stat(c.Input); os.IsNotExist(err) {
		return fmt.Errorf("data dictionary does not exist: %s\nHint: use --input to point at the NRI data dictionary CSV", c.Input)
	}
	return nil
}
