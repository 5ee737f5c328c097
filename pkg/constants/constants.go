// Package constants provides shared constants used throughout the gleaner codebase.
// This includes timeouts, limits, file permissions, and other configuration values
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to catalog
	// and record store APIs
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// RunTimeout is the timeout for a complete harvest run
	RunTimeout = 30 * time.Minute

	// StageTimeout is the timeout for a single pipeline stage on one object
	StageTimeout = 2 * time.Minute

	// RetryBackoff is the base backoff duration for retries
	RetryBackoff = 1 * time.Second

	// MaxRetryBackoff is the maximum backoff duration for retries
	MaxRetryBackoff = 30 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries = 3

	// DefaultPageSize is the number of dataset descriptors requested per
	// catalog page
	DefaultPageSize = 100

	// MaxPageSize is the maximum allowed catalog page size
	MaxPageSize = 1000

	// ChannelBufferSize is the default buffer size for channels
	ChannelBufferSize = 100
)

// Rate limiting constants
const (
	// DefaultRequestsPerSecond is the default catalog API request rate
	DefaultRequestsPerSecond = 10

	// BurstSize is the token bucket burst size for rate limiting
	BurstSize = 5
)

// Network constants
const (
	// DialTimeout is the timeout for establishing network connections
	DialTimeout = 10 * time.Second

	// KeepAliveInterval is the interval between keep-alive probes
	KeepAliveInterval = 30 * time.Second

	// MaxIdleConnections is the maximum number of idle connections in the pool
	MaxIdleConnections = 100

	// MaxConnectionsPerHost is the maximum number of connections per host
	MaxConnectionsPerHost = 10
)

// Path constants
const (
	// DefaultConfigName is the base name of the gleaner config file
	DefaultConfigName = ".gleaner"

	// DefaultSourcesFile is the default path for harvest source definitions
	DefaultSourcesFile = "sources.yaml"
)

// Format constants
const (
	// TimeFormatISO8601 is the ISO 8601 time format used by catalog metadata
	TimeFormatISO8601 = time.RFC3339
)
