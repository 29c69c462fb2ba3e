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

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Background job intervals
const CleanupJobInterval = 5 * time.Minute

// Access code issuing limits
const (
	DefaultCodeValidHours = 24
	MaxCodeValidHours     = 72
)

// Rate limiting
const (
	LoginAttemptsPerMinute   = 5
	CodeGenerationsPerWindow = 3
	CodeGenerationWindow     = 5 * time.Minute
)
