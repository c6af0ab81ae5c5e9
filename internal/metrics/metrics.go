// Package metrics holds the Prometheus collectors for the portal. They are
// registered on the default registry at init through promauto and served
// from /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// LoginsTotal counts login and magic-link attempts.
// Labels:
//   - method: "password" or "magic_link"
//   - result: "success", "not_found", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of portal login attempts.",
	},
	[]string{"method", "result"},
)

// SessionValidationsTotal counts session middleware outcomes.
// Label:
//   - result: "valid", "missing", "expired", "invalid" or "error"
var SessionValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_validations_total",
		Help:      "Total number of session validations, by outcome.",
	},
	[]string{"result"},
)

var QuotesSignedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quotes_signed_total",
		Help:      "Total number of quotes signed through the portal.",
	},
)

// PaymentsRecordedTotal counts recorded payments.
// Label:
//   - invoice_status: status of the invoice after the payment, or "unchanged"
var PaymentsRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_recorded_total",
		Help:      "Total number of payments recorded through the portal.",
	},
	[]string{"invoice_status"},
)

// IdempotencyTotal counts Idempotency-Key decisions on payment writes.
// Label:
//   - result: "hit" (replayed, skipped) or "miss"
var IdempotencyTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_idempotency_total",
		Help:      "Total number of payment idempotency checks, by result.",
	},
	[]string{"result"},
)

// RateLimitedTotal counts requests rejected by a rate limiter.
// Label:
//   - scope: limiter key prefix (e.g. "login", "account")
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by rate limiting.",
	},
	[]string{"scope"},
)

// HTTPRequestDuration measures handler latency.
// Labels:
//   - method: HTTP method
//   - route: chi route pattern (e.g. "/api/portal/quotes/{id}")
//   - status: response status code
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)
