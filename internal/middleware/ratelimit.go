package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"leavechat/internal/httputil"
)

// RateLimiter throttles requests per authenticated user. Every chat turn
// fans out into model calls, so the chat endpoint is the one surface that
// needs throttling.
type RateLimiter struct {
	mu     sync.Mutex
	byUser map[string]*rate.Limiter
	perMin int
	burst  int
}

// NewRateLimiter allows perMinute requests per user with the given burst.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	return &RateLimiter{
		byUser: make(map[string]*rate.Limiter),
		perMin: perMinute,
		burst:  burst,
	}
}

// Allow reports whether the user may make another request now.
func (l *RateLimiter) Allow(userID string) bool {
	if l.perMin <= 0 {
		return true
	}

	l.mu.Lock()
	limiter := l.byUser[userID]
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMin)), l.burst)
		l.byUser[userID] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}

// Middleware rejects over-limit requests with 429. Must run after Auth so
// the caller identity is present.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := httputil.GetCaller(r)
		if caller != nil && !l.Allow(caller.EmployeeID) {
			httputil.RespondError(w, http.StatusTooManyRequests, "rate limit exceeded, slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}
