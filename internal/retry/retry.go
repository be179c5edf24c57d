package retry

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultMaxAttempts is the total number of tries when Config leaves it unset.
	DefaultMaxAttempts = 3
	// DefaultBase is the unit of the exponential backoff schedule.
	DefaultBase = time.Second
)

var sleep = time.Sleep

// Config controls how Do and DoVal treat a failing call.
type Config struct {
	// MaxAttempts is the total number of tries, including the first one.
	MaxAttempts int
	// Base is the backoff unit: the wait before retry i is Base << i.
	Base time.Duration
	// Logger records per-attempt warnings and the final failure.
	Logger *zap.Logger
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts < 1 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.Base <= 0 {
		c.Base = DefaultBase
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// Do runs op until it succeeds or cfg.MaxAttempts is reached, doubling the
// wait between tries. Every error counts as retryable: the remote services do
// not distinguish transient failures on the wire. Backoff waits are plain
// sleeps, so a started loop always runs to success or exhaustion.
func Do(ctx context.Context, cfg Config, op func(ctx context.Context) error) error {
	_, err := DoVal(ctx, cfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})

	return err
}

// DoVal is Do for operations that produce a value. The error from the final
// attempt is returned unwrapped so callers can inspect it with errors.Is.
func DoVal[T any](ctx context.Context, cfg Config, op func(ctx context.Context) (T, error)) (T, error) {
	cfg = cfg.withDefaults()

	var val T
	var err error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		val, err = op(ctx)
		if err == nil {
			return val, nil
		}

		if attempt == cfg.MaxAttempts-1 {
			break
		}

		wait := cfg.Base << attempt
		cfg.Logger.Warn("call failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		sleep(wait)
	}

	cfg.Logger.Error("call failed after all attempts",
		zap.Int("attempts", cfg.MaxAttempts),
		zap.Error(err),
	)

	var zero T
	return zero, err
}
