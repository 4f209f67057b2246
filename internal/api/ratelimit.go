package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
	"github.com/gamesync/gamesync-server/internal/ratelimit"
)

// NewRateLimiter creates a keyed limiter allowing ratePerInterval requests
// per interval with the given burst.
func NewRateLimiter(ratePerInterval int, interval time.Duration, burst int) *ratelimit.KeyedRateLimiter {
	rps := float64(ratePerInterval) / interval.Seconds()
	return ratelimit.New(rps, burst)
}

// clientIPMiddleware records the caller's IP for handlers that rate limit.
func clientIPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), clientIPKey, getClientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// checkRateLimit returns a RATE_LIMITED error once key has spent its budget.
func (s *Server) checkRateLimit(ctx context.Context, limiter *ratelimit.KeyedRateLimiter, key string) error {
	if key == "" {
		key, _ = ctx.Value(clientIPKey).(string)
	}
	if limiter.Allow(key) {
		return nil
	}
	s.logger.Warn("rate limit exceeded", "key", key)
	return domainerrors.RateLimited("Too many requests. Please try again later.")
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP before falling back to RemoteAddr.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if i := strings.LastIndexByte(ip, ':'); i >= 0 {
		return ip[:i]
	}
	return ip
}
