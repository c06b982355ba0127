package api

import "time"

// Config holds client settings.
type Config struct {
	BaseURL string
	// Timeout bounds each call, retries included.
	Timeout time.Duration
	// MaxRetries is the number of extra attempts for reads. Writes are
	// never retried.
	MaxRetries uint64
	// RetryInterval is the first backoff delay.
	RetryInterval time.Duration
}

// DefaultConfig targets a server on localhost.
func DefaultConfig() Config {
	return Config{
		BaseURL:       "http://localhost:8080",
		Timeout:       10 * time.Second,
		MaxRetries:    2,
		RetryInterval: 200 * time.Millisecond,
	}
}
