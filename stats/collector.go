package stats

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/smallnest/chanx"
	"go.uber.org/zap"

	"github.com/matterdesk/cachekit/logger"
)

// Totals is the aggregated event count for one domain.
type Totals struct {
	Hits                uint64
	Misses              uint64
	SyncRefreshes       uint64
	BackgroundRefreshes uint64
	RefreshFailures     uint64
	Mutations           uint64
	Invalidations       uint64
}

// Collector aggregates events into per-domain totals. Record pushes onto an
// unbounded channel and never blocks, so the cache's read path is not
// slowed down; a single consume goroutine applies events to the counters.
//
// Collector owns its goroutine: call Start before recording and Close to
// drain and stop.
type Collector struct {
	config *Config
	logger logger.Logger

	events *chanx.UnboundedChan[Event]

	mu     sync.RWMutex
	totals map[string]*Totals

	wg     sync.WaitGroup
	closed atomic.Bool
}

// NewCollector creates a collector. A nil config selects defaults.
func NewCollector(log logger.Logger, cfg *Config) (*Collector, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else if cfg.InitialCapacity == 0 {
		cfg.InitialCapacity = DefaultConfig().InitialCapacity
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Collector{
		config: cfg,
		logger: log,
		events: chanx.NewUnboundedChan[Event](context.Background(), cfg.InitialCapacity),
		totals: make(map[string]*Totals),
	}, nil
}

// Start launches the consume goroutine.
func (c *Collector) Start() error {
	if c.closed.Load() {
		return ErrCollectorClosed
	}
	c.wg.Add(1)
	go c.consumeLoop()
	c.logger.Debug("stats collector started",
		zap.Int("initial_capacity", c.config.InitialCapacity),
	)
	return nil
}

// Record implements Recorder. Events recorded after Close are dropped.
func (c *Collector) Record(ev Event) {
	if c.closed.Load() {
		return
	}
	c.events.In <- ev
}

// Close stops the collector after draining all recorded events. It can be
// called multiple times safely.
func (c *Collector) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(c.events.In)
	c.wg.Wait()
	c.logger.Debug("stats collector closed")
	return nil
}

// DomainTotals returns a copy of the totals for one domain.
func (c *Collector) DomainTotals(domain string) Totals {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if t, ok := c.totals[domain]; ok {
		return *t
	}
	return Totals{}
}

// AllTotals returns a copy of the totals for every domain seen so far.
func (c *Collector) AllTotals() map[string]Totals {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]Totals, len(c.totals))
	for domain, t := range c.totals {
		out[domain] = *t
	}
	return out
}

// consumeLoop applies events until the input side is closed and drained.
func (c *Collector) consumeLoop() {
	defer c.wg.Done()

	for ev := range c.events.Out {
		c.apply(ev)
	}
}

func (c *Collector) apply(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.totals[ev.Domain]
	if t == nil {
		t = &Totals{}
		c.totals[ev.Domain] = t
	}

	switch ev.Kind {
	case Hit:
		t.Hits++
	case Miss:
		t.Misses++
	case SyncRefresh:
		t.SyncRefreshes++
	case BackgroundRefresh:
		t.BackgroundRefreshes++
	case RefreshFailure:
		t.RefreshFailures++
	case Mutation:
		t.Mutations++
	case Invalidate:
		t.Invalidations++
	default:
		c.logger.Warn("unknown event kind",
			zap.String("domain", ev.Domain),
			zap.String("kind", string(ev.Kind)),
		)
	}
}
