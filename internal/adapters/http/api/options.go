// Package api declares HTTP contracts and route registration helpers.
package api

// ServerOption applies a configuration option to the Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	pageSize  int
	maxBody   int64
	debug     bool
	rateRPS   float64
	rateBurst int
	realm     string
}

func newServerConfig(opts []ServerOption) serverConfig {
	cfg := serverConfig{
		pageSize: 25,
		maxBody:  1 << 20,
		realm:    "api",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithPageSize sets how many records list endpoints return per page.
func WithPageSize(n int) ServerOption {
	return func(c *serverConfig) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithMaxBody caps accepted request body sizes.
func WithMaxBody(n int64) ServerOption {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// WithDebug includes error detail in 500 responses.
func WithDebug(debug bool) ServerOption {
	return func(c *serverConfig) {
		c.debug = debug
	}
}

// WithRateLimit shapes the request rate limiter. An rps of zero leaves
// limiting off.
func WithRateLimit(rps float64, burst int) ServerOption {
	return func(c *serverConfig) {
		if rps > 0 && burst > 0 {
			c.rateRPS = rps
			c.rateBurst = burst
		}
	}
}

// WithRealm names the basic auth realm sent on 401 challenges.
func WithRealm(realm string) ServerOption {
	return func(c *serverConfig) {
		if realm != "" {
			c.realm = realm
		}
	}
}
