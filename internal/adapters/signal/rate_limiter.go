package signal

import (
	"context"
	"sync"
	"time"

	"github.com/dkeye/Interview/internal/domain"
)

// RequestRateLimiter is a sliding-window limit on interview requests per sender.
type RequestRateLimiter struct {
	mu       sync.Mutex
	history  map[domain.UserID][]time.Time
	limit    int
	interval time.Duration
	now      func() time.Time
}

func NewRequestRateLimiter(limit int, interval time.Duration) *RequestRateLimiter {
	return &RequestRateLimiter{
		history:  make(map[domain.UserID][]time.Time),
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

func (rl *RequestRateLimiter) Allow(uid domain.UserID) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	windowStart := now.Add(-rl.interval)

	attempts := rl.history[uid]
	fresh := make([]time.Time, 0, len(attempts)+1)
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[uid] = fresh
		return false
	}

	rl.history[uid] = append(fresh, now)
	return true
}

// Prune drops users with no attempt inside the window.
func (rl *RequestRateLimiter) Prune() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	windowStart := rl.now().Add(-rl.interval)
	pruned := 0
	for uid, attempts := range rl.history {
		if len(attempts) == 0 || !attempts[len(attempts)-1].After(windowStart) {
			delete(rl.history, uid)
			pruned++
		}
	}
	return pruned
}

// Run prunes once per interval until ctx is done.
func (rl *RequestRateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(rl.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Prune()
		}
	}
}
