package stats

// Config holds configuration for Collector.
type Config struct {
	// InitialCapacity is the initial buffer capacity of the event channel.
	// The channel grows without bound, so this only tunes the starting
	// allocation
	// default: 64
	InitialCapacity int `mapstructure:"initial_capacity"`
}

// DefaultConfig returns the default configuration for Collector.
func DefaultConfig() *Config {
	return &Config{
		InitialCapacity: 64,
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.InitialCapacity < 1 {
		return ErrInvalidInitialCapacity(c.InitialCapacity)
	}
	return nil
}
