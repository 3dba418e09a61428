package runtime

import (
	"arena-lab/domain"
	"time"
)

const (
	ShootInterval = 200 * time.Millisecond
	HitInterval   = 100 * time.Millisecond
)

// RateLimiter gates each (connection, event) pair to one accepted call per interval.
// It is owned by the dispatch loop and is not safe for concurrent use.
type RateLimiter struct {
	now  func() time.Time
	last map[domain.ConnID]map[string]time.Time
}

func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{now: now, last: make(map[domain.ConnID]map[string]time.Time)}
}

// Allow reports whether at least minInterval elapsed since the last accepted
// call, and records now when it does. A pair never seen before is allowed.
func (l *RateLimiter) Allow(conn domain.ConnID, eventName string, minInterval time.Duration) bool {
	now := l.now()
	events, ok := l.last[conn]
	if !ok {
		events = make(map[string]time.Time)
		l.last[conn] = events
	}
	if last, seen := events[eventName]; seen && now.Sub(last) < minInterval {
		return false
	}
	events[eventName] = now
	return true
}

// Forget drops every entry of a connection.
func (l *RateLimiter) Forget(conn domain.ConnID) {
	delete(l.last, conn)
}

func (l *RateLimiter) Len() int { return len(l.last) }
