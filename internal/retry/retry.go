// Package retry provides backoff policies for transient failures.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Mode selects how the delay grows between attempts.
type Mode string

const (
	ModeFixed       Mode = "fixed"
	ModeLinear      Mode = "linear"
	ModeExponential Mode = "exponential"
)

// Policy encapsulates backoff settings for transient failures. Immutable
// after construction.
type Policy struct {
	Mode    Mode
	Initial time.Duration // base delay
	Max     time.Duration // cap for growth
	Retries int           // retry attempts after the first failure
}

// Default returns the policy used when nothing is configured: linear
// backoff, 500ms base, 10s cap, two retries.
func Default() Policy {
	return Policy{Mode: ModeLinear, Initial: 500 * time.Millisecond, Max: 10 * time.Second, Retries: 2}
}

// Delay returns the backoff before retry attempt n (1-based).
func (p Policy) Delay(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	var d time.Duration
	switch p.Mode {
	case ModeFixed:
		d = p.Initial
	case ModeExponential:
		d = p.Initial * (1 << (n - 1))
	default: // linear
		d = time.Duration(n) * p.Initial
	}
	if p.Max > 0 && d > p.Max {
		return p.Max
	}
	return d
}

// Do runs fn up to 1+p.Retries times, sleeping p.Delay between attempts.
// Errors that permanent reports true for stop the loop immediately and are
// returned as is; a nil permanent treats every error as retryable. A
// canceled context ends the backoff wait early.
func Do(ctx context.Context, p Policy, op string, permanent func(error) bool, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= p.Retries; attempt++ {
		if attempt > 0 {
			slog.Warn("retrying", slog.String("operation", op), slog.Int("attempt", attempt))
		}
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if permanent != nil && permanent(err) {
			return err
		}
		if attempt == p.Retries {
			break
		}
		select {
		case <-time.After(p.Delay(attempt + 1)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", op, p.Retries+1, lastErr)
}
