package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.TMDB.validate(); err != nil {
		return fmt.Errorf("tmdb: %w", err)
	}

	if err := c.Watchlist.validate(); err != nil {
		return fmt.Errorf("watchlist: %w", err)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must be > 0 (got %d)", c.RateLimit.RequestsPerMinute)
	}
	if c.RateLimit.Enabled && c.RateLimit.CleanupInterval <= 0 {
		return fmt.Errorf("rate_limit.cleanup_interval must be > 0 (got %v)", c.RateLimit.CleanupInterval)
	}

	return nil
}

func (t *TMDBConfig) validate() error {
	if t.APIKey == "" {
		return fmt.Errorf("api_key is required")
	}
	u, err := url.Parse(t.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute URL (got %q)", t.BaseURL)
	}
	if t.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", t.Timeout)
	}
	if t.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be >= 1 (got %d)", t.MaxAttempts)
	}
	if t.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be > 0 (got %v)", t.RequestsPerSecond)
	}
	return nil
}

func (w *WatchlistConfig) validate() error {
	if w.FreshnessWindow <= 0 {
		return fmt.Errorf("freshness_window must be > 0 (got %v)", w.FreshnessWindow)
	}
	if w.MaxPageSize < 1 {
		return fmt.Errorf("max_page_size must be >= 1 (got %d)", w.MaxPageSize)
	}
	if w.DefaultPageSize < 1 || w.DefaultPageSize > w.MaxPageSize {
		return fmt.Errorf("default_page_size must be in [1, %d] (got %d)", w.MaxPageSize, w.DefaultPageSize)
	}
	return nil
}
