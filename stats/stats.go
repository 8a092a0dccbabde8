// Package stats tracks bot-wide counters with atomics. Everything here is
// memory-resident and resets on restart, same as session state.
package stats

import (
	"sync"
	"sync/atomic"
	"time"
)

// Stats holds all bot statistics.
type Stats struct {
	StartTime time.Time

	// Inbound event counters
	Events    atomic.Int64
	Commands  atomic.Int64
	Callbacks atomic.Int64
	Messages  atomic.Int64

	// Feature counters
	Searches         atomic.Int64
	LyricsDetections atomic.Int64
	TitleResolutions atomic.Int64
	TitleHits        atomic.Int64

	// Delivery counters
	Downloads       atomic.Int64
	DownloadsFailed atomic.Int64
	BatchJobs       atomic.Int64

	// Catalog cache performance
	CacheHits   atomic.Int64
	CacheMisses atomic.Int64

	// Rate limiting
	RateLimited atomic.Int64

	// Per-user event counts, for the admin stats view
	userMu     sync.RWMutex
	userEvents map[int64]int64
}

var global = &Stats{
	StartTime:  time.Now(),
	userEvents: make(map[int64]int64),
}

// Get returns the global stats instance.
func Get() *Stats {
	return global
}

// RecordEvent counts one inbound event for a user.
func (s *Stats) RecordEvent(userID int64) {
	s.Events.Add(1)

	s.userMu.Lock()
	s.userEvents[userID]++
	s.userMu.Unlock()
}

// UniqueUsers returns how many distinct users have sent events.
func (s *Stats) UniqueUsers() int {
	s.userMu.RLock()
	defer s.userMu.RUnlock()
	return len(s.userEvents)
}

// Uptime returns time since process start.
func (s *Stats) Uptime() time.Duration {
	return time.Since(s.StartTime)
}

// CacheHitRate returns the catalog cache hit rate as a percentage.
func (s *Stats) CacheHitRate() float64 {
	hits := s.CacheHits.Load()
	total := hits + s.CacheMisses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// Snapshot returns a point-in-time snapshot of all stats.
func (s *Stats) Snapshot() map[string]interface{} {
	uptime := s.Uptime()

	return map[string]interface{}{
		"server": map[string]interface{}{
			"start_time":     s.StartTime.Format(time.RFC3339),
			"uptime":         uptime.String(),
			"uptime_seconds": int64(uptime.Seconds()),
		},
		"events": map[string]interface{}{
			"total":        s.Events.Load(),
			"commands":     s.Commands.Load(),
			"callbacks":    s.Callbacks.Load(),
			"messages":     s.Messages.Load(),
			"unique_users": s.UniqueUsers(),
			"rate_limited": s.RateLimited.Load(),
		},
		"features": map[string]interface{}{
			"searches":          s.Searches.Load(),
			"lyrics_detections": s.LyricsDetections.Load(),
			"title_resolutions": s.TitleResolutions.Load(),
			"title_hits":        s.TitleHits.Load(),
		},
		"delivery": map[string]interface{}{
			"downloads":        s.Downloads.Load(),
			"downloads_failed": s.DownloadsFailed.Load(),
			"batch_jobs":       s.BatchJobs.Load(),
		},
		"cache": map[string]interface{}{
			"hits":     s.CacheHits.Load(),
			"misses":   s.CacheMisses.Load(),
			"hit_rate": s.CacheHitRate(),
		},
	}
}
