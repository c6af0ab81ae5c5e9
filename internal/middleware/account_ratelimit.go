package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/trademate/portal-server-go/internal/metrics"
)

const accountRateLimitScope = "account"

// AccountRateLimitMiddleware limits requests per authenticated portal
// account. It must run after PortalSessionMiddleware.
type AccountRateLimitMiddleware struct {
	limiter Limiter
	limit   int
	window  time.Duration
}

func NewAccountRateLimitMiddleware(limiter Limiter, limit int, window time.Duration) *AccountRateLimitMiddleware {
	return &AccountRateLimitMiddleware{
		limiter: limiter,
		limit:   limit,
		window:  window,
	}
}

func (m *AccountRateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := GetPortalAccount(r.Context())
		if account == nil {
			next.ServeHTTP(w, r)
			return
		}

		allowed, resetAt := m.limiter.CheckLimit(r.Context(), accountRateLimitScope+":"+account.ID, m.limit, m.window)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.limit))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !allowed {
			metrics.RateLimitedTotal.WithLabelValues(accountRateLimitScope).Inc()
			log.Warn().Str("accountId", account.ID).Msg("rate limit exceeded")
			writeRateLimited(w, resetAt)
			return
		}

		next.ServeHTTP(w, r)
	})
}
