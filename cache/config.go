package cache

import "time"

// Config holds the freshness tunables shared by every domain registered on
// a Coordinator.
type Config struct {
	// FreshWindow is the maximum age at which cached items are servable
	// without any network activity
	// default: 5 * time.Minute
	FreshWindow time.Duration `mapstructure:"fresh_window"`
	// BackgroundThreshold is the age past which cached items are still
	// served immediately but a background refresh is scheduled
	// default: 1 * time.Minute
	BackgroundThreshold time.Duration `mapstructure:"background_threshold"`
	// CoalesceRefresh shares one in-flight fetch between concurrent
	// synchronous refreshes of the same domain. The default (false) matches
	// the historical behavior: concurrent callers against an expired slot
	// each perform their own fetch.
	CoalesceRefresh bool `mapstructure:"coalesce_refresh"`
}

// DefaultConfig returns the default configuration for a Coordinator.
// It is used to initialize the coordinator when no configuration is provided.
func DefaultConfig() *Config {
	return &Config{
		FreshWindow:         5 * time.Minute,
		BackgroundThreshold: time.Minute,
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.FreshWindow <= 0 {
		return ErrInvalidFreshWindow(c.FreshWindow)
	}
	if c.BackgroundThreshold <= 0 {
		return ErrInvalidBackgroundThreshold(c.BackgroundThreshold)
	}
	if c.BackgroundThreshold > c.FreshWindow {
		return ErrThresholdAboveWindow(c.BackgroundThreshold, c.FreshWindow)
	}
	return nil
}
