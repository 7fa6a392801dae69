package transport

import (
	"net/http"
	"strconv"

	"golang.org/x/time/rate"
)

// WriteLimiter rejects requests with 429 once the shared token bucket is
// empty. A nil limiter lets every request through.
func WriteLimiter(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", strconv.Itoa(1))
				writeJSON(w, http.StatusTooManyRequests, errorBody{
					Error:     "too many write requests",
					RequestID: RequestIDFromContext(r.Context()),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NewWriteLimiter builds a limiter from a per-second rate and burst. A
// non-positive rate disables limiting.
func NewWriteLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}
