package scores

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	boom := errors.New("boom")

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := retry(context.Background(), 3, time.Millisecond, func() error {
			calls++
			if calls < 3 {
				return &transientError{boom}
			}
			return nil
		})
		if err != nil {
			t.Fatalf("retry() error = %v", err)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("permanent errors stop immediately", func(t *testing.T) {
		calls := 0
		err := retry(context.Background(), 5, time.Millisecond, func() error {
			calls++
			return boom
		})
		if !errors.Is(err, boom) {
			t.Errorf("retry() error = %v, want boom", err)
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("returns the unwrapped last error", func(t *testing.T) {
		err := retry(context.Background(), 2, time.Millisecond, func() error {
			return &transientError{boom}
		})
		if err != boom {
			t.Errorf("retry() error = %v, want boom", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := retry(ctx, 3, time.Hour, func() error { return &transientError{boom} })
		if !errors.Is(err, context.Canceled) {
			t.Errorf("retry() error = %v, want context.Canceled", err)
		}
	})
}
