package llm

import (
	"strings"
	"time"
)

// RetryConfig defines the bounded retry policy for transient generation
// failures.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts including the first
	MaxAttempts int

	// InitialBackoff is the wait before the first retry; it doubles on each
	// subsequent retry
	InitialBackoff time.Duration
}

const (
	DefaultMaxAttempts    = 3
	DefaultInitialBackoff = 1 * time.Second
)

// NewDefaultRetryConfig returns the standard policy: three attempts with a
// one-second base backoff doubling between them.
func NewDefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:    DefaultMaxAttempts,
		InitialBackoff: DefaultInitialBackoff,
	}
}

// Backoff computes the wait before the given retry attempt (0-based).
func (c *RetryConfig) Backoff(attempt int) time.Duration {
	backoff := c.InitialBackoff
	for i := 0; i < attempt; i++ {
		backoff *= 2
	}
	return backoff
}

// IsRetryableError reports whether a generation error is transient:
// overload (503 / UNAVAILABLE), rate limiting (429 / RESOURCE_EXHAUSTED /
// quota), or other 5xx server errors. Anything else fails immediately.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	if strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "UNAVAILABLE") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "quota") {
		return true
	}
	for _, code := range []string{"500", "502", "504"} {
		if strings.Contains(errStr, code) {
			return true
		}
	}
	return false
}
