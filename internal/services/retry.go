package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// retry runs fn up to attempts times with exponential backoff starting at
// initial. Every error fn returns is retryable, schema violations included.
// It stops early when ctx is done and otherwise returns the last error.
func retry(ctx context.Context, attempts int, initial time.Duration, logger *slog.Logger, op string, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = initial
	exp.Multiplier = 2
	exp.RandomizationFactor = 0

	tries := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		tries++
		return struct{}{}, fn()
	},
		backoff.WithBackOff(exp),
		backoff.WithMaxTries(uint(attempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			if logger != nil {
				logger.Warn("Oracle attempt failed", "op", op, "attempt", tries, "of", attempts, "retry_in", next, "error", err)
			}
		}),
	)
	return err
}
