package probe

import (
	"fmt"
	"os"

	"github.com/okian/cedula/pkg/logger"
)

// SetupLogging initialises the global logger for the probe.
func SetupLogging(verbose bool) error {
	if err := logger.Init(logger.WithWriter(os.Stdout)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		if err := logger.SetLevelString("debug"); err != nil {
			return fmt.Errorf("failed to set log level: %w", err)
		}
	}
	return nil
}

// ShowHelp prints usage information for the probe tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Cedula Probe Tool
=================

Sends fixed and generated CIs to a running validation service and checks
every response against the local validator.

Usage:
  go run ./cmd/probe [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:80")
  -count int
        Number of generated cases on top of the fixed scenarios (default 1000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -seed int
        Seed for case generation (default 1)
  -verbose
        Log every verified case
  -help
        Show this help message

Examples:
  # Probe a local service
  go run ./cmd/probe

  # Probe with custom parameters
  go run ./cmd/probe -count 50000 -workers 16 -url http://localhost:8080
`)
}
