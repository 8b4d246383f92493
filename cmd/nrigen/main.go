// Package main provides the nrigen CLI.
package main

import (
	"os"

	"github.com/hazardlab/nrigen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
