package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/restio/internal/smoke"
)

// Default configuration constants.
const (
	defaultAuthors    = 100
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8080", "Base URL of the service")
		authors  = flag.Int("authors", defaultAuthors, "Number of authors to create during seeding")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		username = flag.String("user", "", "Basic auth username for the credential checks")
		password = flag.String("pass", "", "Basic auth password for the credential checks")
		logFile  = flag.String("log", "", "Log file for run output (default: smoke_log_TIMESTAMP.log)")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoke.ShowHelp()
		return
	}

	if err := smoke.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &smoke.Config{
		BaseURL:  *baseURL,
		Authors:  *authors,
		Workers:  *workers,
		Timeout:  *timeout,
		LogFile:  *logFile,
		Verbose:  *verbose,
		Username: *username,
		Password: *password,
	}

	if err := smoke.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Smoke run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
