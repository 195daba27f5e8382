/*
Package inference provides the chat-style interface to the natural-language
model backend used for requirement extraction and compliance judgment.

Every call is a fresh, stateless request: no conversation state is kept
between calls, so clients are safe for concurrent or sequential reuse.
*/
package inference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/tendermatrix/tendermatrix/internal/config"
)

// ErrUnavailable marks failures where the backend never produced an answer
// (unreachable, timed out, malformed payload). Callers use errors.Is to tell
// these apart from a garbled-but-received response, which is handled by
// parsing with a conservative default and never surfaces as an error.
var ErrUnavailable = errors.New("inference backend unavailable")

// Client is a chat-style inference backend: one system instruction, one user
// message, one free-form text answer.
type Client interface {
	Name() string
	Chat(ctx context.Context, system, user string) (string, error)
}

// New constructs the client selected by the configuration.
func New(ctx context.Context, cfg config.InferenceConfig) (Client, error) {
	switch cfg.Backend {
	case config.BackendOllama:
		return newOllamaClient(cfg)
	case config.BackendGemini:
		return newGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown inference backend: %s", cfg.Backend)
	}
}

const (
	defaultMaxRetries  = 3
	defaultBaseBackoff = 500 * time.Millisecond
)

// retryableError marks transient failures worth another attempt.
type retryableError struct {
	err error
}

func (r *retryableError) Error() string { return r.err.Error() }
func (r *retryableError) Unwrap() error { return r.err }

func isRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// callWithRetry waits on the limiter and runs fn, retrying transient errors
// with exponential backoff. Exhausted retries and non-retryable transport
// failures come back wrapped in ErrUnavailable.
func callWithRetry(ctx context.Context, limiter *rate.Limiter, fn func(context.Context) (string, error)) (string, error) {
	if err := limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limiter: %v", ErrUnavailable, err)
	}

	var lastErr error
	for attempt := 0; attempt <= defaultMaxRetries; attempt++ {
		if attempt > 0 {
			backoff := defaultBaseBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
			}
		}

		text, err := fn(ctx)
		if err == nil {
			return text, nil
		}

		lastErr = err
		if !isRetryable(err) {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	return "", fmt.Errorf("%w: max retries exceeded: %v", ErrUnavailable, lastErr)
}
