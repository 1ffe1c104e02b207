package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// TTL settings. Players and matches are short-lived by design: the
	// product offers no reconnection, so stale entries only need to outlive
	// the longest plausible game.
	PlayerTTL time.Duration
	MatchTTL  time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		PlayerTTL:    12 * time.Hour,
		MatchTTL:     12 * time.Hour,
	}
}
