package stats

import (
	"sync"
	"testing"
	"time"
)

func TestRecordEventCountsUniqueUsers(t *testing.T) {
	s := &Stats{StartTime: time.Now(), userEvents: make(map[int64]int64)}

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.RecordEvent(int64(i % 3))
		}(i)
	}
	wg.Wait()

	if got := s.Events.Load(); got != 30 {
		t.Errorf("Expected 30 events, got %d", got)
	}
	if got := s.UniqueUsers(); got != 3 {
		t.Errorf("Expected 3 unique users, got %d", got)
	}
}

func TestCacheHitRate(t *testing.T) {
	s := &Stats{StartTime: time.Now(), userEvents: make(map[int64]int64)}

	if got := s.CacheHitRate(); got != 0 {
		t.Errorf("Expected 0 hit rate with no traffic, got %f", got)
	}

	s.CacheHits.Add(3)
	s.CacheMisses.Add(1)
	if got := s.CacheHitRate(); got != 75 {
		t.Errorf("Expected 75%% hit rate, got %f", got)
	}
}

func TestSnapshotIncludesAllSections(t *testing.T) {
	s := &Stats{StartTime: time.Now(), userEvents: make(map[int64]int64)}
	s.Searches.Add(2)

	snap := s.Snapshot()
	for _, section := range []string{"server", "events", "features", "delivery", "cache"} {
		if _, ok := snap[section]; !ok {
			t.Errorf("Snapshot missing %q section", section)
		}
	}
	features := snap["features"].(map[string]interface{})
	if features["searches"] != int64(2) {
		t.Errorf("Expected 2 searches in snapshot, got %v", features["searches"])
	}
}
