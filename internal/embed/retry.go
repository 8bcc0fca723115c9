package embed

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const MaxRetries = 3

// maxErrorRunes caps provider text quoted in error messages.
const maxErrorRunes = 200

// RetryableError indicates a transient provider failure.
type RetryableError struct {
	Code    codes.Code
	Message string
}

func (e *RetryableError) Error() string {
	msg := e.Message
	if r := []rune(msg); len(r) > maxErrorRunes {
		msg = string(r[:maxErrorRunes]) + "..."
	}
	return fmt.Sprintf("retryable embedding error (%s): %s", e.Code, msg)
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// classify wraps provider errors whose gRPC status marks them transient.
func classify(err error) error {
	if err == nil {
		return nil
	}
	switch code := status.Code(err); code {
	case codes.ResourceExhausted, codes.Unavailable, codes.DeadlineExceeded, codes.Aborted, codes.Internal:
		return &RetryableError{Code: code, Message: err.Error()}
	}
	return err
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// withRetry runs fn until it succeeds, returns a permanent error, or
// MaxRetries is exhausted. backoff is injectable for tests.
func withRetry(ctx context.Context, backoff func(int) time.Duration, fn func() error) error {
	var err error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if attempt == MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff(attempt)):
		}
	}
	return fmt.Errorf("embedding failed after %d retries: %w", MaxRetries, err)
}
