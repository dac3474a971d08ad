package fitness

import (
	"errors"
	"time"
)

// RetryPolicy bounds background retries after network failures.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, Delay: 2 * time.Second}

// Retryable reports whether err is worth another attempt.
func (p RetryPolicy) Retryable(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// ShouldRetry reports whether a retry follows failed attempt number attempt (1-based).
func (p RetryPolicy) ShouldRetry(attempt int, err error) bool {
	return p.Retryable(err) && attempt < p.MaxAttempts
}
