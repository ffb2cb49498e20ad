// Package middleware contains HTTP middleware for the daemon API.
package middleware

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimit caps the request rate across all callers with a single token
// bucket. The daemon serves one local user, so there is no per-caller
// bookkeeping. rps=0 means unlimited.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
