package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/matterdesk/cachekit/logger"
	"github.com/matterdesk/cachekit/stats"
)

// handle is the untyped view of a registered domain, used for operations
// that span all domains regardless of their item type.
type handle interface {
	invalidate()
	snapshot() DomainStats
}

// Coordinator owns the set of cached domains. Domains are registered once
// at startup with Register or RegisterSingleton and live until the process
// exits; there is no teardown. Registration is not synchronized: finish
// registering before using the coordinator concurrently. Freshness
// decisions and slot access are serialized per domain.
type Coordinator struct {
	log logger.Logger
	cfg *Config
	rec stats.Recorder
	now func() time.Time

	domains map[string]handle
}

// DomainStats is the diagnostic snapshot of one domain's slot.
type DomainStats struct {
	// Count is the number of cached items, optimistic mutations included.
	Count int
	// Age is the time since the last successful fetch, 0 for an empty slot.
	Age time.Duration
	// Fresh reports whether the items are servable without a network call.
	Fresh bool
	// State is the slot's position in the freshness state machine.
	State State
}

// New creates a Coordinator. A nil config selects defaults; zero fields are
// merged with defaults before validation. A nil recorder disables event
// recording.
func New(log logger.Logger, cfg *Config, rec stats.Recorder) (*Coordinator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		defaultCfg := DefaultConfig()
		if cfg.FreshWindow == 0 {
			cfg.FreshWindow = defaultCfg.FreshWindow
		}
		if cfg.BackgroundThreshold == 0 {
			cfg.BackgroundThreshold = defaultCfg.BackgroundThreshold
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Never force nil checks on the hot path.
	if rec == nil {
		rec = stats.NopRecorder{}
	}

	return &Coordinator{
		log:     log,
		cfg:     cfg,
		rec:     rec,
		now:     time.Now,
		domains: make(map[string]handle),
	}, nil
}

// Register adds a collection domain to the coordinator and returns its
// typed handle. The name must be unique per coordinator.
func Register[T any](c *Coordinator, name string, fetch FetchFunc[T], keyOf KeyFunc[T]) (*Domain[T], error) {
	if name == "" {
		return nil, ErrInvalidDomainName(name)
	}
	if fetch == nil {
		return nil, ErrNilFetch(name)
	}
	if keyOf == nil {
		keyOf = func(T) string { return "" }
	}
	if _, ok := c.domains[name]; ok {
		return nil, ErrDuplicateDomain(name)
	}

	d := &Domain[T]{
		name:                name,
		fetch:               fetch,
		keyOf:               keyOf,
		freshWindow:         c.cfg.FreshWindow,
		backgroundThreshold: c.cfg.BackgroundThreshold,
		coalesce:            c.cfg.CoalesceRefresh,
		log:                 c.log,
		rec:                 c.rec,
		now:                 c.now,
	}
	c.domains[name] = d

	c.log.Info("domain registered",
		zap.String("domain", name),
		zap.Duration("fresh_window", c.cfg.FreshWindow),
		zap.Duration("background_threshold", c.cfg.BackgroundThreshold),
	)
	return d, nil
}

// RegisterSingleton adds a domain holding at most one value (a suggestion,
// an account-wide stats blob) and returns its typed handle.
func RegisterSingleton[T any](c *Coordinator, name string, fetch FetchOneFunc[T]) (*Singleton[T], error) {
	if fetch == nil {
		return nil, ErrNilFetch(name)
	}

	d, err := Register(c, name, func(ctx context.Context) ([]T, error) {
		v, ok, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		return []T{v}, nil
	}, nil)
	if err != nil {
		return nil, err
	}
	return &Singleton[T]{d: d}, nil
}

// Invalidate clears one domain's slot. It returns an error for a name that
// was never registered.
func (c *Coordinator) Invalidate(name string) error {
	d, ok := c.domains[name]
	if !ok {
		return ErrUnknownDomain(name)
	}
	d.invalidate()
	return nil
}

// InvalidateAll clears every domain's slot; each domain's next Get performs
// a synchronous fetch.
func (c *Coordinator) InvalidateAll() {
	for _, d := range c.domains {
		d.invalidate()
	}
	c.log.Info("all domains invalidated", zap.Int("domains", len(c.domains)))
}

// Snapshot returns per-domain diagnostics. It is a pure read: each domain's
// stats are taken under that domain's lock, no slot is modified.
func (c *Coordinator) Snapshot() map[string]DomainStats {
	out := make(map[string]DomainStats, len(c.domains))
	for name, d := range c.domains {
		out[name] = d.snapshot()
	}
	return out
}
