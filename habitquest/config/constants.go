package config

import "time"

// Application-wide constants organized by domain

// Database and Performance Constants
const (
	DefaultQueryTimeout = 30 * time.Second
	DefaultTxTimeout    = 15 * time.Second
	StatsQueryTimeout   = 10 * time.Second
	NetworkDialTimeout  = 5 * time.Second

	MaxRetries = 3
)

// HTTP Constants
const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	SessionCacheSize = 1024

	ShutdownTimeout = 10 * time.Second
)

// Auth Constants
const (
	BcryptCost          = 10
	DefaultTokenTTL     = time.Hour
	AuthorizationHeader = "Authorization"
	BearerSchemePrefix  = "Bearer "
)
