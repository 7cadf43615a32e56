package redis

import "time"

// Config holds Redis connection and lock behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// LockTTL bounds how long a lock survives a crashed holder
	LockTTL time.Duration
	// RetryInterval is the wait between acquisition attempts
	RetryInterval time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:           "redis://localhost:6379",
		PoolSize:      10,
		MinIdleConns:  2,
		LockTTL:       10 * time.Second,
		RetryInterval: 25 * time.Millisecond,
	}
}
