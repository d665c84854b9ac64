package folio

import (
	"sync"
	"time"
)

// RateLimiter limits requests per key (usually a client IP) within a
// sliding window.
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a RateLimiter that allows max hits per window. It
// starts a cleanup goroutine that runs until Stop is called.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	l := &RateLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		stop:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Stop ends the cleanup goroutine.
func (l *RateLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *RateLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case now := <-ticker.C:
			cutoff := now.Add(-l.window)
			l.mu.Lock()
			for key, hits := range l.attempts {
				if kept := prune(hits, cutoff); len(kept) == 0 {
					delete(l.attempts, key)
				} else {
					l.attempts[key] = kept
				}
			}
			l.mu.Unlock()
		}
	}
}

// Allow reports whether key is under the limit and, if so, records the hit.
func (l *RateLimiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := prune(l.attempts[key], now.Add(-l.window))
	if len(kept) >= l.max {
		l.attempts[key] = kept
		return false
	}
	l.attempts[key] = append(kept, now)
	return true
}

func prune(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}
