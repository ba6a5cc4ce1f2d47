package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const MsgTooManyRequests = "Too many requests. Please try again later."

type Limiter interface {
	Allow(ctx context.Context, name, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit allows at most limit requests per client IP in each window. When
// the limiter itself fails the request is let through.
func RateLimit(limiter Limiter, name string, limit int, window time.Duration, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)

			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			allowed, err := limiter.Allow(ctx, name, ip, limit, window)
			cancel()
			if err != nil {
				logger.WithError(err).WithField("client_ip", ip).Warn("Rate limiter unavailable, allowing request")
				allowed = true
			}

			if !allowed {
				w.Header().Set("Retry-After", retryAfter(window))
				respond(w, http.StatusTooManyRequests, "failure", MsgTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func retryAfter(window time.Duration) string {
	secs := int(window.Seconds())
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// ClientIP extracts the caller's address, preferring proxy headers.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
