package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Dependency ping timeout for readiness checks
const DBPingTimeout = 5 * time.Second

// Portal session lifetimes
const (
	LoginSessionTTL     = 24 * time.Hour
	MagicLinkSessionTTL = 15 * time.Minute
)

// Payment idempotency keys are held this long.
const IdempotencyKeyTTL = 24 * time.Hour

// Notifier HTTP client
const (
	NotifierTimeout    = 10 * time.Second
	NotifierRetryCount = 2
)

// Request body limit for JSON endpoints
const MaxRequestBodyBytes = 1 << 20

// Expired session purge
const (
	CleanupJobInterval      = time.Hour
	CleanupJobTimeout       = 30 * time.Second
	ExpiredSessionRetention = 30 * 24 * time.Hour
)
