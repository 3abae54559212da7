package smoke

import "time"

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Authors  int           // Number of authors to create during seeding
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	LogFile  string        // Log file for run output
	Verbose  bool          // Enable verbose logging
	Username string        // Basic auth username for the credential checks
	Password string        // Basic auth password for the credential checks
}

// Stats holds smoke run statistics.
type Stats struct {
	AuthorsCreated int
	CreateFailed   int
	ChecksRun      int
	ChecksFailed   int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
