package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"djboard/internal/simulate"
)

// Default configuration constants.
const (
	defaultFans           = 20
	defaultDJs            = 10
	defaultTips           = 500
	defaultRatings        = 300
	defaultTopN           = 5
	defaultSeed           = 1
	defaultWorkersPerCore = 2
	defaultTimeout        = 30 * time.Second
	defaultRunTimeout     = 10 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8080", "Base URL of the service")
		fans    = flag.Int("fans", defaultFans, "Number of fan profiles to create")
		djs     = flag.Int("djs", defaultDJs, "Number of DJ profiles to create")
		tips    = flag.Int("tips", defaultTips, "Number of tips to record and settle or decline")
		ratings = flag.Int("ratings", defaultRatings, "Number of ratings to record")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkersPerCore, "Number of concurrent workers")
		seed    = flag.Int64("seed", defaultSeed, "Workload seed; equal seeds produce equal workloads")
		topN    = flag.Int("top", defaultTopN, "Size of the top slice to cross-check")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	// Setup logging
	if err := simulate.SetupLogging(*verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create run configuration
	config := &simulate.Config{
		BaseURL: *baseURL,
		Fans:    *fans,
		DJs:     *djs,
		Tips:    *tips,
		Ratings: *ratings,
		Workers: *workers,
		Seed:    *seed,
		TopN:    *topN,
		Timeout: *timeout,
		Verbose: *verbose,
	}

	// Run the simulation; a mismatch must fail the process
	if err := simulate.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
