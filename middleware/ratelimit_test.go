package middleware

import (
	"testing"

	"golang.org/x/time/rate"
)

func TestAllowWithinBurst(t *testing.T) {
	limiter := NewUserRateLimiter(rate.Limit(1), 3)

	for i := 0; i < 3; i++ {
		if !limiter.Allow(1) {
			t.Fatalf("Expected event %d allowed within burst", i)
		}
	}
	if limiter.Allow(1) {
		t.Error("Expected event beyond burst rejected")
	}
}

func TestUsersLimitedIndependently(t *testing.T) {
	limiter := NewUserRateLimiter(rate.Limit(1), 1)

	if !limiter.Allow(1) {
		t.Fatal("Expected first event for user 1 allowed")
	}
	if limiter.Allow(1) {
		t.Error("Expected user 1 exhausted")
	}
	if !limiter.Allow(2) {
		t.Error("Expected user 2 unaffected by user 1's bucket")
	}
}

func TestGetLimiterReturnsSameInstance(t *testing.T) {
	limiter := NewUserRateLimiter(rate.Limit(1), 1)

	if limiter.GetLimiter(1) != limiter.GetLimiter(1) {
		t.Error("Expected one limiter per user")
	}
}
