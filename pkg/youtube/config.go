package youtube

import "time"

const (
	DefaultBaseURL    = "https://www.googleapis.com/youtube/v3"
	DefaultMaxResults = 10
	DefaultTimeout    = 10 * time.Second
	watchURLPrefix    = "https://www.youtube.com/watch?v="
)

// Config represents the configuration for the YouTube Data API client
type Config struct {
	// APIKey authenticates requests to the Data API
	APIKey string

	// BaseURL is the Data API v3 root
	BaseURL string

	// MaxResults caps the number of items per search (1-50)
	MaxResults int

	Timeout time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.BaseURL == "" {
		return ErrInvalidRequest
	}
	return nil
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.BaseURL == "" {
		out.BaseURL = DefaultBaseURL
	}
	if out.MaxResults <= 0 || out.MaxResults > 50 {
		out.MaxResults = DefaultMaxResults
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	return out
}
