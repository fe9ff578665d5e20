package migration

import (
	"context"
	"math"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/smallbiznis/rides/internal/config"
	"go.uber.org/zap"
)

// InitWithRetry runs ensure until it succeeds or the configured attempts are
// used up. The first retry waits RetryDelay, later ones grow by Multiplier.
func InitWithRetry(ctx context.Context, log *zap.Logger, policy config.SchemaInitConfig, ensure func(context.Context) error) error {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}
	multiplier := policy.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	b := &backoff.ExponentialBackOff{
		InitialInterval:     policy.RetryDelay,
		RandomizationFactor: 0,
		Multiplier:          multiplier,
		MaxInterval:         time.Duration(math.MaxInt64),
	}

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		return struct{}{}, ensure(ctx)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(attempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn("schema initialization failed, retrying",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", attempts),
				zap.Duration("retry_in", next),
				zap.Error(err),
			)
		}),
	)
	return err
}
