package config

import (
	"errors"
)

// Sentinel kinds for config failures, checked with errors.Is by callers.
var (
	// ErrInvalidConfig marks a loaded config that failed validation.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig marks a failure reading or decoding config sources.
	ErrLoadConfig = errors.New("load config failed")
)
