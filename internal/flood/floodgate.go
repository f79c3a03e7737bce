// Package flood limits how often a single client may call the identification
// endpoint.
package flood

import (
	"sync"
	"time"
)

const (
	// windowDuration is the sliding window requests are counted in
	windowDuration = 60 * time.Second
	// cleanupInterval is how often idle clients are forgotten
	cleanupInterval = 10 * time.Minute
	// idleTimeout is how long a client must be quiet before it is forgotten
	idleTimeout = 10 * time.Minute
)

// Floodgate is a per-client sliding window rate limiter. A limit of zero or
// less disables limiting.
type Floodgate struct {
	limitPerMinute int
	entries        map[string]*clientEntry // Key: client identifier, usually the remote IP
	mutex          sync.Mutex
	now            func() time.Time
	stopCleanup    chan struct{}
	stopOnce       sync.Once
}

// clientEntry tracks request timestamps for one client
type clientEntry struct {
	timestamps []time.Time
	lastSeen   time.Time
}

// New creates a Floodgate allowing limitPerMinute requests per client.
func New(limitPerMinute int) *Floodgate {
	fg := &Floodgate{
		limitPerMinute: limitPerMinute,
		entries:        make(map[string]*clientEntry),
		now:            time.Now,
		stopCleanup:    make(chan struct{}),
	}

	if fg.Enabled() {
		go fg.cleanup()
	}

	return fg
}

// Enabled reports whether requests are limited at all.
func (fg *Floodgate) Enabled() bool {
	return fg.limitPerMinute > 0
}

// Stop stops the background cleanup goroutine. It is safe to call more than once.
func (fg *Floodgate) Stop() {
	fg.stopOnce.Do(func() {
		close(fg.stopCleanup)
	})
}

// Allow records a request from the client and reports whether it is within
// the limit. Rejected requests are not counted.
func (fg *Floodgate) Allow(clientKey string) bool {
	if !fg.Enabled() {
		return true
	}

	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	now := fg.now()
	entry, exists := fg.entries[clientKey]
	if !exists {
		entry = &clientEntry{
			timestamps: make([]time.Time, 0, fg.limitPerMinute+1),
		}
		fg.entries[clientKey] = entry
	}
	entry.lastSeen = now

	windowStart := now.Add(-windowDuration)
	valid := entry.timestamps[:0]
	for _, ts := range entry.timestamps {
		if ts.After(windowStart) {
			valid = append(valid, ts)
		}
	}
	entry.timestamps = valid

	if len(entry.timestamps) >= fg.limitPerMinute {
		return false
	}

	entry.timestamps = append(entry.timestamps, now)
	return true
}

func (fg *Floodgate) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fg.performCleanup()
		case <-fg.stopCleanup:
			return
		}
	}
}

// performCleanup forgets clients that have been idle for too long
func (fg *Floodgate) performCleanup() {
	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	cutoff := fg.now().Add(-idleTimeout)
	for key, entry := range fg.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(fg.entries, key)
		}
	}
}

// GetStats returns statistics about the floodgate for monitoring
func (fg *Floodgate) GetStats() Stats {
	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	return Stats{
		ActiveClients:  len(fg.entries),
		LimitPerMinute: fg.limitPerMinute,
		WindowSeconds:  int(windowDuration.Seconds()),
	}
}

// Stats contains floodgate statistics
type Stats struct {
	ActiveClients  int `json:"active_clients"`
	LimitPerMinute int `json:"limit_per_minute"`
	WindowSeconds  int `json:"window_seconds"`
}
