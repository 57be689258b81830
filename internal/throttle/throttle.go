// Package throttle enforces the login attempt limit: a bounded number of
// failed attempts per window, then a flat lockout.
package throttle

import (
	"context"
	"sync"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Limiter counts failed attempts per key over a rolling window and imposes a
// flat lockout once the limit is hit. A successful login resets the key.
type Limiter struct {
	failures *limiter.Limiter
	lockout  time.Duration

	mu     sync.Mutex
	locked map[string]time.Time
	now    func() time.Time
}

func New(max int, window, lockout time.Duration) *Limiter {
	rate := limiter.Rate{Period: window, Limit: int64(max)}
	return &Limiter{
		failures: limiter.New(memory.NewStore(), rate),
		lockout:  lockout,
		locked:   make(map[string]time.Time),
		now:      time.Now,
	}
}

// Allow reports whether key may attempt a login right now. During a lockout
// it returns false and the remaining wait.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	until, ok := l.locked[key]
	if !ok {
		return true, 0
	}
	now := l.now()
	if until.After(now) {
		return false, until.Sub(now)
	}
	delete(l.locked, key)
	return true, 0
}

// Fail records a failed attempt. Exhausting the window locks the key out,
// reports true with the lockout duration, and restarts the count so the next
// cycle begins fresh after the lockout.
func (l *Limiter) Fail(key string) (bool, time.Duration) {
	lctx, err := l.failures.Increment(context.Background(), key, 1)
	if err != nil || lctx.Remaining > 0 {
		return false, 0
	}

	l.failures.Reset(context.Background(), key)
	l.mu.Lock()
	l.locked[key] = l.now().Add(l.lockout)
	l.mu.Unlock()
	return true, l.lockout
}

// Reset clears the record for key, typically after a successful login.
func (l *Limiter) Reset(key string) {
	l.failures.Reset(context.Background(), key)
	l.mu.Lock()
	delete(l.locked, key)
	l.mu.Unlock()
}
