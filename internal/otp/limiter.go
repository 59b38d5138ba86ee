package otp

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// PhoneLimiter throttles code sends per phone number. Idle entries are
// dropped after ttl.
type PhoneLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	entries  map[string]*limiterEntry
	now      func() time.Time
	lastScan time.Time
}

func NewPhoneLimiter(perMinute float64, burst int) *PhoneLimiter {
	return &PhoneLimiter{
		limit:   rate.Limit(perMinute / 60),
		burst:   burst,
		ttl:     30 * time.Minute,
		entries: make(map[string]*limiterEntry),
		now:     time.Now,
	}
}

func (l *PhoneLimiter) Allow(phone string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evict(now)

	e, ok := l.entries[phone]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[phone] = e
	}
	e.lastSeen = now

	return e.limiter.AllowN(now, 1)
}

func (l *PhoneLimiter) evict(now time.Time) {
	if now.Sub(l.lastScan) < time.Minute {
		return
	}
	l.lastScan = now
	for phone, e := range l.entries {
		if now.Sub(e.lastSeen) > l.ttl {
			delete(l.entries, phone)
		}
	}
}

func (l *PhoneLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
