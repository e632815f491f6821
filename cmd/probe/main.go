package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/cedula/internal/probe"
)

// Default configuration constants.
const (
	defaultCount        = 1000
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 10 * time.Second
	defaultSeed         = 1
	defaultProbeTimeout = 10 * time.Minute
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		baseURL = flag.String("url", "http://localhost:80", "Base URL of the service")
		count   = flag.Int("count", defaultCount, "Number of generated cases on top of the fixed scenarios")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed    = flag.Int64("seed", defaultSeed, "Seed for case generation")
		verbose = flag.Bool("verbose", false, "Log every verified case")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp()
		return 0
	}

	if *workers < 1 || *count < 0 {
		_, _ = os.Stderr.WriteString("workers must be positive and count must not be negative\n")
		return 2
	}

	if err := probe.SetupLogging(*verbose); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultProbeTimeout)
	defer cancel()

	config := &probe.Config{
		BaseURL: *baseURL,
		Count:   *count,
		Workers: *workers,
		Timeout: *timeout,
		Seed:    *seed,
		Verbose: *verbose,
	}

	if err := probe.Run(ctx, config); err != nil {
		_, _ = os.Stderr.WriteString("Probe failed: " + err.Error() + "\n")
		return 1
	}
	return 0
}
