package ratelimiter

import (
	"sync"
	"time"
)

// Limiter spaces actions out in time: at most one action per interval.
// Safe for concurrent use, so fetch workers can share one limiter.
type Limiter struct {
	mu          sync.Mutex
	interval    time.Duration
	lastAllowed time.Time
}

// New creates a limiter allowing one action per interval.
func New(interval time.Duration) *Limiter {
	return &Limiter{
		interval: interval,
	}
}

// Allow checks if an action may start now. Returns true if allowed (and
// records this as the last allowed time), or false with the remaining wait.
func (l *Limiter) Allow() (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	sinceLast := now.Sub(l.lastAllowed)

	if sinceLast >= l.interval {
		l.lastAllowed = now
		return true, 0
	}

	return false, l.interval - sinceLast
}

// Reset clears the limiter, allowing the next action immediately.
func (l *Limiter) Reset() {
	l.mu.Lock()
	l.lastAllowed = time.Time{}
	l.mu.Unlock()
}

// Interval returns the configured spacing.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}
