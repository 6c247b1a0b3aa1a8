package middleware

import (
	"net/http"
	"strings"

	"brainstorm/pkg/auth"
	"brainstorm/pkg/common"
	pkgerrors "brainstorm/pkg/errors"

	"go.uber.org/zap"
)

// RateLimit applies a token bucket per authenticated user, falling back to the client IP
func RateLimit(limiter *auth.TokenBucketLimiter, perMinute int, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ip:" + clientIP(r)
			if user, err := auth.GetUserFromContext(r.Context()); err == nil {
				key = "user:" + user.UserID
			}

			if !limiter.Allow(key) {
				logger.Warn("Rate limit exceeded", zap.String("key", key), zap.String("path", r.URL.Path))
				common.RespondAppError(w, pkgerrors.NewRateLimitError(perMinute, "minute"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client IP address
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
