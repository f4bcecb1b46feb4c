package llm

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil error", nil, false},
		{"overload 503", errors.New("Error 503: model overloaded"), true},
		{"unavailable status", errors.New("rpc error: UNAVAILABLE"), true},
		{"rate limit 429", errors.New("Error 429: too many requests"), true},
		{"resource exhausted", errors.New("RESOURCE_EXHAUSTED: quota exceeded"), true},
		{"quota message", errors.New("quota exceeded for model"), true},
		{"internal 500", errors.New("Error 500: internal error"), true},
		{"bad gateway 502", errors.New("Error 502: bad gateway"), true},
		{"gateway timeout 504", errors.New("Error 504: gateway timeout"), true},
		{"bad request 400", errors.New("Error 400: invalid argument"), false},
		{"auth failure 401", errors.New("Error 401: unauthorized"), false},
		{"not found 404", errors.New("Error 404: model not found"), false},
		{"generic failure", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryableError(tt.err))
		})
	}
}

func TestRetryConfig_Backoff(t *testing.T) {
	config := NewDefaultRetryConfig()

	assert.Equal(t, 1*time.Second, config.Backoff(0))
	assert.Equal(t, 2*time.Second, config.Backoff(1))
	assert.Equal(t, 4*time.Second, config.Backoff(2))
}

func TestNewDefaultRetryConfig(t *testing.T) {
	config := NewDefaultRetryConfig()
	assert.Equal(t, 3, config.MaxAttempts)
	assert.Equal(t, 1*time.Second, config.InitialBackoff)
}
