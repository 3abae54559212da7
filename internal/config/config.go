// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Debug includes error detail in 500 responses. Leave off in production.
	Debug bool `koanf:"debug"`

	// MaxBodyBytes caps the size of accepted request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// PageSize sets how many records a list page returns.
	PageSize int `koanf:"page_size"`

	// RateLimitRPS and RateLimitBurst shape the request rate limiter.
	// An RPS of zero disables limiting.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	// AuthRealm names the realm sent with basic auth challenges.
	AuthRealm string `koanf:"auth_realm"`

	// AuthUsers maps usernames to bcrypt password hashes.
	AuthUsers map[string]string `koanf:"auth_users"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":8080",
		MaxBodyBytes:   1 << 20,
		PageSize:       25,
		RateLimitRPS:   50,
		RateLimitBurst: 100,
		AuthRealm:      "api",
		AuthUsers:      map[string]string{},
	}
}
