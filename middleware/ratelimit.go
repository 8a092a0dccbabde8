package middleware

import (
	"sync"

	"golang.org/x/time/rate"
)

// UserRateLimiter manages per-user token buckets keyed by chat user id.
// Limiters are created lazily and never expire; the user population of a
// single bot instance is small enough that eviction is not worth the churn.
type UserRateLimiter struct {
	users map[int64]*rate.Limiter
	mu    sync.RWMutex
	rate  rate.Limit
	burst int
}

// NewUserRateLimiter creates a per-user rate limiter.
func NewUserRateLimiter(r rate.Limit, burst int) *UserRateLimiter {
	return &UserRateLimiter{
		users: make(map[int64]*rate.Limiter),
		rate:  r,
		burst: burst,
	}
}

// GetLimiter returns the limiter for a user, creating it if needed.
func (u *UserRateLimiter) GetLimiter(userID int64) *rate.Limiter {
	u.mu.RLock()
	limiter, exists := u.users[userID]
	u.mu.RUnlock()
	if exists {
		return limiter
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if limiter, exists = u.users[userID]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(u.rate, u.burst)
	u.users[userID] = limiter
	return limiter
}

// Allow reports whether the user may process one more event right now.
func (u *UserRateLimiter) Allow(userID int64) bool {
	return u.GetLimiter(userID).Allow()
}
