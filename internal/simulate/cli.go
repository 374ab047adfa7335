package simulate

import (
	"log/slog"
	"os"

	"djboard/pkg/logger"
)

// SetupLogging configures the logger for a CLI run. Verbose switches the
// level to debug.
func SetupLogging(verbose bool) error {
	opts := []logger.Option{logger.WithOutput(os.Stderr)}
	if verbose {
		opts = append(opts, logger.WithLevel(slog.LevelDebug))
	}
	return logger.Init(opts...)
}

// ShowHelp prints usage information for the simulator.
func ShowHelp() {
	os.Stdout.WriteString(`djboard Simulator
=================

Drives a running djboard instance with a concurrent tip and rating
workload, then verifies standings and the leaderboard against the
planned totals.

Usage:
  go run cmd/simulate/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8080")
  -fans int
        Number of fan profiles to create (default 20)
  -djs int
        Number of DJ profiles to create (default 10)
  -tips int
        Number of tips to record and settle or decline (default 500)
  -ratings int
        Number of ratings to record (default 300)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -seed int
        Workload seed; equal seeds produce equal workloads (default 1)
  -top int
        Size of the top slice to cross-check (default 5)
  -timeout duration
        HTTP request timeout (default 30s)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run cmd/simulate/main.go

  # Heavier run with more workers
  go run cmd/simulate/main.go -tips 5000 -ratings 2000 -workers 16

  # Reproduce a run exactly
  go run cmd/simulate/main.go -seed 42
`)
}
