// Package twelvedata provides a client for the Twelve Data stock market API.
package twelvedata

import "time"

// Config holds configuration for the Twelve Data API client.
type Config struct {
	APIKey        string        // API key for authentication
	BaseURL       string        // Base URL for the API (e.g., "https://api.twelvedata.com")
	Timeout       time.Duration // HTTP request timeout
	RatePerMinute int           // Requests allowed per minute (free plan: 8)
	MaxRetries    int           // Retries for transient failures (5xx, 429, network)
}

const defaultBaseURL = "https://api.twelvedata.com"

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.RatePerMinute <= 0 {
		c.RatePerMinute = 8
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	return c
}
