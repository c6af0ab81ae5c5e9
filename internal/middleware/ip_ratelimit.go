package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/trademate/portal-server-go/internal/audit"
	apperrors "github.com/trademate/portal-server-go/internal/errors"
	"github.com/trademate/portal-server-go/internal/metrics"
)

// Limiter is a keyed sliding-window rate limiter.
type Limiter interface {
	CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, resetAt time.Time)
}

type IPRateLimitMiddleware struct {
	limiter Limiter
	limit   int
	window  time.Duration
	prefix  string
}

func NewIPRateLimitMiddleware(limiter Limiter, limit int, window time.Duration, prefix string) *IPRateLimitMiddleware {
	return &IPRateLimitMiddleware{
		limiter: limiter,
		limit:   limit,
		window:  window,
		prefix:  prefix,
	}
}

func (m *IPRateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := audit.ClientIP(r)

		key := fmt.Sprintf("ip:%s:%s", m.prefix, ip)
		allowed, resetAt := m.limiter.CheckLimit(r.Context(), key, m.limit, m.window)

		if !allowed {
			metrics.RateLimitedTotal.WithLabelValues(m.prefix).Inc()
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventRateLimitExceed,
				Details: map[string]interface{}{"scope": m.prefix},
			})
			writeRateLimited(w, resetAt)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeRateLimited(w http.ResponseWriter, resetAt time.Time) {
	secondsLeft := int(time.Until(resetAt).Seconds()) + 1
	if secondsLeft < 1 {
		secondsLeft = 1
	}
	w.Header().Set("Retry-After", fmt.Sprintf("%d", secondsLeft))
	writeError(w, apperrors.RateLimitExceeded())
}
