package scores

import (
	"context"
	"errors"
	"time"
)

// transientError marks a failure worth retrying, such as a refused
// connection while a backend is still starting.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// retry runs fn up to attempts times, doubling delay after each failure.
// Only errors wrapped in transientError are retried.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !errors.As(err, new(*transientError)) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	var t *transientError
	if errors.As(lastErr, &t) {
		return t.err
	}
	return lastErr
}

// connectAttempts and connectDelay govern how long network backends are
// given to come up.
const (
	connectAttempts = 3
	connectDelay    = 250 * time.Millisecond
)
