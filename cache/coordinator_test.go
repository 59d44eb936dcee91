package cache

import (
	"context"
	"testing"
	"time"

	"github.com/matterdesk/cachekit/stats"
)

func TestNew_NilConfigUsesDefaults(t *testing.T) {
	c, err := New(newTestLogger(t), nil, nil)
	if err != nil {
		t.Fatalf("New(nil) failed: %v", err)
	}
	if c.cfg.FreshWindow != 5*time.Minute {
		t.Errorf("expected default fresh window, got %v", c.cfg.FreshWindow)
	}
	if c.cfg.BackgroundThreshold != time.Minute {
		t.Errorf("expected default background threshold, got %v", c.cfg.BackgroundThreshold)
	}
}

func TestNew_MergesZeroFields(t *testing.T) {
	c, err := New(newTestLogger(t), &Config{FreshWindow: 10 * time.Second, BackgroundThreshold: 2 * time.Second}, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if c.cfg.FreshWindow != 10*time.Second || c.cfg.BackgroundThreshold != 2*time.Second {
		t.Errorf("unexpected config: %+v", c.cfg)
	}

	c, err = New(newTestLogger(t), &Config{FreshWindow: 10 * time.Minute}, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if c.cfg.BackgroundThreshold != time.Minute {
		t.Errorf("expected default threshold merged in, got %v", c.cfg.BackgroundThreshold)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{FreshWindow: 300 * time.Second, BackgroundThreshold: 60 * time.Second}, false},
		{"threshold equals window", Config{FreshWindow: time.Minute, BackgroundThreshold: time.Minute}, false},
		{"negative window", Config{FreshWindow: -1, BackgroundThreshold: time.Second}, true},
		{"negative threshold", Config{FreshWindow: time.Minute, BackgroundThreshold: -1}, true},
		{"threshold above window", Config{FreshWindow: time.Minute, BackgroundThreshold: 2 * time.Minute}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegister_RejectsDuplicatesAndBadArgs(t *testing.T) {
	c, err := New(newTestLogger(t), nil, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	stub := &fetchStub{items: tasks(1)}

	if _, err := Register(c, "tasks", stub.fetch, taskKey); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := Register(c, "tasks", stub.fetch, taskKey); err == nil {
		t.Error("expected error for duplicate name")
	}
	if _, err := Register(c, "", stub.fetch, taskKey); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := Register[task](c, "notes", nil, taskKey); err == nil {
		t.Error("expected error for nil fetch")
	}
}

func TestCoordinator_InvalidateByName(t *testing.T) {
	c, err := New(newTestLogger(t), nil, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	stub := &fetchStub{items: tasks(2)}
	d, err := Register(c, "tasks", stub.fetch, taskKey)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := d.Get(context.Background()); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if err := c.Invalidate("tasks"); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if st := d.Stats(); st.State != StateEmpty {
		t.Errorf("expected empty state, got %v", st.State)
	}

	if err := c.Invalidate("nope"); err == nil {
		t.Error("expected error for unknown domain")
	}
}

func TestCoordinator_InvalidateAll(t *testing.T) {
	c, err := New(newTestLogger(t), nil, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	stubA := &fetchStub{items: tasks(2)}
	stubB := &fetchStub{items: tasks(4)}
	a, _ := Register(c, "tasks", stubA.fetch, taskKey)
	b, _ := Register(c, "notes", stubB.fetch, taskKey)

	if _, err := a.Get(context.Background()); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if _, err := b.Get(context.Background()); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	c.InvalidateAll()

	for name, st := range c.Snapshot() {
		if st.State != StateEmpty || st.Count != 0 {
			t.Errorf("domain %s: expected empty after InvalidateAll, got state=%v count=%d", name, st.State, st.Count)
		}
	}
}

func TestCoordinator_Snapshot(t *testing.T) {
	c, err := New(newTestLogger(t), testConfig(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	clk := newFakeClock()
	c.now = clk.Now

	stubA := &fetchStub{items: tasks(3)}
	stubB := &fetchStub{items: tasks(1)}
	a, _ := Register(c, "tasks", stubA.fetch, taskKey)
	if _, err := Register(c, "notes", stubB.fetch, taskKey); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := a.Get(context.Background()); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	clk.Advance(90 * time.Second)

	snap := c.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 domains in snapshot, got %d", len(snap))
	}

	tasksStats := snap["tasks"]
	if tasksStats.Count != 3 || tasksStats.Age != 90*time.Second {
		t.Errorf("tasks: expected count=3 age=90s, got count=%d age=%v", tasksStats.Count, tasksStats.Age)
	}
	if !tasksStats.Fresh || tasksStats.State != StateStaleServable {
		t.Errorf("tasks: expected fresh stale-servable slot, got fresh=%v state=%v", tasksStats.Fresh, tasksStats.State)
	}

	notesStats := snap["notes"]
	if notesStats.State != StateEmpty || notesStats.Fresh || notesStats.Count != 0 || notesStats.Age != 0 {
		t.Errorf("notes: expected pristine empty stats, got %+v", notesStats)
	}
}

func TestCoordinator_RecordsEventsThroughCollector(t *testing.T) {
	log := newTestLogger(t)
	col, err := stats.NewCollector(log, nil)
	if err != nil {
		t.Fatalf("NewCollector failed: %v", err)
	}
	if err := col.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	c, err := New(log, testConfig(), col)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	stub := &fetchStub{items: tasks(2)}
	d, err := Register(c, "tasks", stub.fetch, taskKey)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := d.Get(context.Background()); err != nil { // miss + sync refresh
		t.Fatalf("Get failed: %v", err)
	}
	if _, err := d.Get(context.Background()); err != nil { // hit
		t.Fatalf("Get failed: %v", err)
	}
	d.Insert(task{ID: "x"}) // mutation
	d.Invalidate()          // invalidation

	if err := col.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	got := col.DomainTotals("tasks")
	if got.Misses != 1 || got.SyncRefreshes != 1 || got.Hits != 1 || got.Mutations != 1 || got.Invalidations != 1 {
		t.Errorf("unexpected totals: %+v", got)
	}
}
