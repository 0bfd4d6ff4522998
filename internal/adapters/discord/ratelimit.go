package discord

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterSweepAt = 10_000
	limiterIdle    = 10 * time.Minute
)

type userLimiter struct {
	mu    sync.Mutex
	lims  map[string]*limiterEntry
	every rate.Limit
	burst int
	now   func() time.Time
}

type limiterEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

// newUserLimiter devuelve nil si r <= 0 (sin límite).
func newUserLimiter(r rate.Limit, burst int) *userLimiter {
	if r <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &userLimiter{lims: map[string]*limiterEntry{}, every: r, burst: burst, now: time.Now}
}

func (l *userLimiter) Allow(userID string) bool {
	if l == nil {
		return true
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.lims[userID]
	if !ok {
		if len(l.lims) >= limiterSweepAt {
			l.sweep(now)
		}
		e = &limiterEntry{lim: rate.NewLimiter(l.every, l.burst)}
		l.lims[userID] = e
	}
	e.seen = now
	return e.lim.AllowN(now, 1)
}

// sweep borra usuarios inactivos; se llama con mu tomado.
func (l *userLimiter) sweep(now time.Time) {
	for id, e := range l.lims {
		if now.Sub(e.seen) > limiterIdle {
			delete(l.lims, id)
		}
	}
}
