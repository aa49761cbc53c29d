package ratelimit

import (
	"sync"
	"time"
)

const sweepInterval = 10 * time.Minute

// SlidingWindow limits how often each key may perform an action inside a
// rolling window. Single-instance, in-memory; stale keys are swept
// opportunistically on use so the map cannot grow without bound.
type SlidingWindow struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	hits      map[string][]time.Time
	lastSweep time.Time
	now       func() time.Time
}

func New(limit int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow records a hit for key if it is under the limit. When denied, retryAt
// is the instant the oldest hit leaves the window.
func (l *SlidingWindow) Allow(key string) (allowed bool, retryAt time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	cutoff := now.Add(-l.window)
	recent := l.hits[key][:0]
	for _, ts := range l.hits[key] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.limit {
		l.hits[key] = recent
		return false, recent[0].Add(l.window)
	}

	l.hits[key] = append(recent, now)
	return true, time.Time{}
}

func (l *SlidingWindow) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < sweepInterval {
		return
	}
	l.lastSweep = now
	cutoff := now.Add(-l.window)
	for key, timestamps := range l.hits {
		var recent []time.Time
		for _, ts := range timestamps {
			if ts.After(cutoff) {
				recent = append(recent, ts)
			}
		}
		if len(recent) == 0 {
			delete(l.hits, key)
		} else {
			l.hits[key] = recent
		}
	}
}
