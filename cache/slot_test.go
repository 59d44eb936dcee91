package cache

import (
	"slices"
	"testing"
	"time"
)

func TestSlot_WriteReplacesWholesale(t *testing.T) {
	var s slot[task]
	now := time.Unix(1700000000, 0)

	s.insert(task{ID: "opt"})
	s.write([]task{{ID: "a"}, {ID: "b"}}, now)

	if len(s.items) != 2 {
		t.Fatalf("expected wholesale replacement, got %d items", len(s.items))
	}
	if !s.lastFetch.Equal(now) {
		t.Errorf("expected lastFetch stamped to %v, got %v", now, s.lastFetch)
	}
}

func TestSlot_OptimisticOpsDoNotStampFetchTime(t *testing.T) {
	var s slot[task]

	s.insert(task{ID: "a"})
	s.update(task{ID: "a", Title: "renamed"}, taskKey)
	s.remove("a", taskKey)

	if !s.lastFetch.IsZero() {
		t.Errorf("optimistic mutations must leave lastFetch at the epoch sentinel, got %v", s.lastFetch)
	}
}

func TestSlot_InvalidateClearsItemsAndStamp(t *testing.T) {
	var s slot[task]
	s.write([]task{{ID: "a"}}, time.Unix(1700000000, 0))

	s.invalidate()

	if len(s.items) != 0 || !s.lastFetch.IsZero() {
		t.Errorf("expected empty slot with zero stamp, got %d items, stamp %v", len(s.items), s.lastFetch)
	}
}

func TestSlot_SnapshotIsACopy(t *testing.T) {
	var s slot[task]
	s.write([]task{{ID: "a"}, {ID: "b"}, {ID: "c"}}, time.Unix(1700000000, 0))

	snap := s.snapshot()
	s.remove("a", taskKey)

	want := []task{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	if !slices.Equal(snap, want) {
		t.Errorf("snapshot mutated by later removal: %v", snap)
	}
}

func TestSlot_UpsertInsertsOrReplaces(t *testing.T) {
	var s slot[task]

	s.upsert(task{ID: "a", Title: "one"}, taskKey)
	s.upsert(task{ID: "a", Title: "two"}, taskKey)
	s.upsert(task{ID: "b", Title: "three"}, taskKey)

	want := []task{{ID: "a", Title: "two"}, {ID: "b", Title: "three"}}
	if !slices.Equal(s.items, want) {
		t.Errorf("expected %v, got %v", want, s.items)
	}
}

func TestClassify(t *testing.T) {
	const (
		window    = 300 * time.Second
		threshold = 60 * time.Second
	)
	stamp := time.Unix(1700000000, 0)

	tests := []struct {
		name      string
		lastFetch time.Time
		age       time.Duration
		want      State
	}{
		{"never fetched", time.Time{}, 0, StateEmpty},
		{"just written", stamp, 0, StateFresh},
		{"below threshold", stamp, 59 * time.Second, StateFresh},
		{"at threshold", stamp, 60 * time.Second, StateStaleServable},
		{"below window", stamp, 299 * time.Second, StateStaleServable},
		{"at window", stamp, 300 * time.Second, StateExpired},
		{"far past window", stamp, time.Hour, StateExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.lastFetch, tt.age, window, threshold); got != tt.want {
				t.Errorf("classify(age=%v) = %v, want %v", tt.age, got, tt.want)
			}
		})
	}
}

func TestState_Servable(t *testing.T) {
	if StateEmpty.servable() || StateExpired.servable() {
		t.Error("empty and expired slots must not be servable")
	}
	if !StateFresh.servable() || !StateStaleServable.servable() {
		t.Error("fresh and stale-servable slots must be servable")
	}
}
