package httpadapter

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	rejectRateLimited = "rate_limited"
	rejectSaturated   = "saturated"
)

// rateLimitMiddleware applies one process-wide token bucket. A non-positive rps disables it.
func rateLimitMiddleware(next http.Handler, rps float64, burst int, onReject func(string)) http.Handler {
	if rps <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reservation := limiter.Reserve()
		if !reservation.OK() {
			reject(w, onReject, rejectRateLimited, http.StatusTooManyRequests, time.Second, "rate limit exceeded")
			return
		}
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			reject(w, onReject, rejectRateLimited, http.StatusTooManyRequests, delay, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// backpressureMiddleware admits at most maxInFlight requests. Others wait up to
// queueWait for a slot and get 503 when none frees up.
func backpressureMiddleware(next http.Handler, maxInFlight int, queueWait time.Duration, onReject func(string)) http.Handler {
	if maxInFlight <= 0 {
		maxInFlight = 1
	}
	slots := make(chan struct{}, maxInFlight)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !acquireSlot(r.Context(), slots, queueWait) {
			reject(w, onReject, rejectSaturated, http.StatusServiceUnavailable, queueWait, "server is busy with another screening, retry later")
			return
		}
		defer func() { <-slots }()
		next.ServeHTTP(w, r)
	})
}

func acquireSlot(ctx context.Context, slots chan struct{}, wait time.Duration) bool {
	select {
	case slots <- struct{}{}:
		return true
	default:
	}
	if wait <= 0 {
		return false
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case slots <- struct{}{}:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

func reject(w http.ResponseWriter, onReject func(string), reason string, status int, retryAfter time.Duration, message string) {
	if onReject != nil {
		onReject(reason)
	}
	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	writeJSON(w, status, map[string]string{"error": message})
}
