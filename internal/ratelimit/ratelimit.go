package ratelimit

import (
	"sync"
	"time"
)

// Limiter bounds per-client request rates over a trailing window. State
// is keyed by (scope, client) so different endpoint classes never share
// a budget for the same IP. Everything lives in process memory and
// resets on restart; there is no cross-instance coordination.
type Limiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time

	// now is swappable for tests.
	now func() time.Time
}

// New creates an empty limiter.
func New() *Limiter {
	return &Limiter{
		windows: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Allow reports whether the client may proceed under a budget of max
// requests per window, recording the attempt if so. The prune-check-
// record sequence runs under one lock: two concurrent requests cannot
// both take the last slot. A rejected attempt is not recorded.
func (l *Limiter) Allow(scope, clientID string, max int, window time.Duration) bool {
	key := scope + "\x00" + clientID
	now := l.now()
	cutoff := now.Add(-window)

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.windows[key][:0]
	for _, t := range l.windows[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= max {
		l.windows[key] = recent
		return false
	}

	l.windows[key] = append(recent, now)
	return true
}
