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
	ServerRequestTimeout  = 30 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerWriteTimeout    = 30 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Outbound geo lookup for purchase eligibility
const GeoLookupTimeout = 5 * time.Second

// Background job intervals
const CleanupJobInterval = 15 * time.Minute

// Session and beta access cookie lifetimes
const (
	SessionTTL     = 30 * 24 * time.Hour
	AccessGrantTTL = 30 * 24 * time.Hour
)

// Account creation retries on lookup token collision
const AccountCreateMaxAttempts = 5

// Per-IP limits for unauthenticated endpoints
const (
	LoginRateLimit          = 5
	LoginRateWindow         = time.Minute
	AccountCreateRateLimit  = 3
	AccountCreateRateWindow = 10 * time.Minute
	AccessRateLimit         = 10
	AccessRateWindow        = time.Minute
)

// Minimum secret lengths enforced in production
const (
	MinPepperLength       = 32
	MinBetaPasswordLength = 12
)
