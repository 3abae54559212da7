package smoke

import "time"

// HTTP status code constants.
const (
	StatusOK      = 200
	StatusCreated = 201
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	HealthCheckDelay     = 2 * time.Minute
	HealthPollInterval   = 500 * time.Millisecond
	PercentageMultiplier = 100
)
