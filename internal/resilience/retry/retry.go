// Package retry re-runs failed model calls with capped exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"syscall"
	"time"
)

// Policy describes how often and how patiently a call is retried.
type Policy struct {
	// MaxAttempts counts the first call. Values below 1 mean a single call.
	MaxAttempts int

	InitialDelay time.Duration
	MaxDelay     time.Duration

	// Multiplier grows the delay after each failed attempt.
	Multiplier float64

	// Jitter adds up to this fraction of the delay at random (0 to 1).
	Jitter float64
}

// ModelCallPolicy is tuned for paid model APIs: few attempts, short pauses.
func ModelCallPolicy() Policy {
	return Policy{
		MaxAttempts:  3,
		InitialDelay: 2 * time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// Backoff returns the pause after the given failed attempt (1-based), before
// jitter and before any Retry-After hint.
func (p Policy) Backoff(attempt int) time.Duration {
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	d := float64(p.InitialDelay)
	for i := 1; i < attempt; i++ {
		d *= mult
		if p.MaxDelay > 0 && d >= float64(p.MaxDelay) {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && time.Duration(d) > p.MaxDelay {
		return p.MaxDelay
	}
	return time.Duration(d)
}

func (p Policy) wait(attempt int, err error) time.Duration {
	d := p.Backoff(attempt)
	var se *StatusError
	if errors.As(err, &se) && se.RetryAfter > d {
		d = se.RetryAfter
		if p.MaxDelay > 0 {
			d = min(d, p.MaxDelay)
		}
	}
	if p.Jitter > 0 {
		// #nosec G404 -- backoff jitter does not need cryptographic randomness.
		d += time.Duration(rand.Float64() * min(p.Jitter, 1) * float64(d))
	}
	return d
}

// StatusError is a failed provider response. Adapters convert SDK errors into
// it so Retryable can tell throttling and outages from bad requests.
type StatusError struct {
	StatusCode int
	Message    string

	// RetryAfter is the pause the provider asked for, if any.
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Retryable reports whether another attempt could succeed: network timeouts,
// refused or reset connections, 408, 429 and 5xx responses. Cancellation
// never is.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var se *StatusError
	if errors.As(err, &se) {
		switch {
		case se.StatusCode >= 500 && se.StatusCode < 600:
			return true
		case se.StatusCode == http.StatusTooManyRequests, se.StatusCode == http.StatusRequestTimeout:
			return true
		}
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	for _, errno := range []syscall.Errno{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ETIMEDOUT, syscall.ENETUNREACH} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

// sleep is replaced in tests.
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do calls op until it succeeds, returns an error Retryable rejects, or the
// policy runs out of attempts. op receives the 1-based attempt number. When
// attempts run out the last error is returned wrapped. A nil logger uses
// slog.Default.
func Do[T any](ctx context.Context, p Policy, logger *slog.Logger, op func(ctx context.Context, attempt int) (T, error)) (T, error) {
	if logger == nil {
		logger = slog.Default()
	}
	attempts := max(p.MaxAttempts, 1)

	var zero T
	for attempt := 1; ; attempt++ {
		out, err := op(ctx, attempt)
		if err == nil {
			if attempt > 1 {
				logger.InfoContext(ctx, "call succeeded after retry", slog.Int("attempt", attempt))
			}
			return out, nil
		}

		if !Retryable(err) {
			return zero, err
		}
		if attempt == attempts {
			return zero, fmt.Errorf("gave up after %d attempts: %w", attempts, err)
		}

		wait := p.wait(attempt, err)
		logger.WarnContext(ctx, "call failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.Duration("wait", wait),
			slog.Any("error", err))

		if err := sleep(ctx, wait); err != nil {
			return zero, fmt.Errorf("retry aborted: %w", err)
		}
	}
}
