package httpapi

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type userRate struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// userLimiter keeps one token bucket per user. Buckets idle for limiterIdleTTL are evicted on access.
type userLimiter struct {
	mu        sync.Mutex
	perMinute int
	users     map[string]*userRate
	lastSweep time.Time
}

// newUserLimiter returns nil for perMinute <= 0, which disables limiting.
func newUserLimiter(perMinute int) *userLimiter {
	if perMinute <= 0 {
		return nil
	}

	return &userLimiter{
		perMinute: perMinute,
		users:     make(map[string]*userRate),
	}
}

func (l *userLimiter) allow(userID string, now time.Time) bool {
	if l == nil {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for id, u := range l.users {
			if now.Sub(u.lastSeen) > limiterIdleTTL {
				delete(l.users, id)
			}
		}
		l.lastSweep = now
	}

	u, ok := l.users[userID]
	if !ok {
		u = &userRate{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute)}
		l.users[userID] = u
	}
	u.lastSeen = now

	return u.limiter.AllowN(now, 1)
}

func (l *userLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.users)
}
