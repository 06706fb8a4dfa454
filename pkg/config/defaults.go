package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "nestbay"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 20
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Marketplace fee charged on the nightly subtotal of every booking.
	DefaultServiceFeeRate = 0.14

	// A booking request the host never answers is treated as expired
	// once this much time has passed since creation.
	DefaultBookingRequestTTL = 24 * time.Hour

	// Cron spec for the sweep that persists the expired status.
	DefaultExpirySweepSpec = "@hourly"

	DefaultPaginationLimit = 100
)
