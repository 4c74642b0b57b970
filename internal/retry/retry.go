package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/Alexander-D-Karpov/concord-client/internal/common/config"
)

type Config struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
	// OnRetry, when set, is called before each wait with the attempt that
	// just failed.
	OnRetry func(attempt int, err error, wait time.Duration)
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts: 5,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     10 * time.Second,
		Multiplier:  2.0,
	}
}

// FromGateway builds the reconnect policy. Zero attempts means retry until
// the context ends.
func FromGateway(cfg config.GatewayConfig) Config {
	c := DefaultConfig()
	c.MaxAttempts = cfg.MaxAttempts
	if cfg.InitialBackoff > 0 {
		c.InitialWait = cfg.InitialBackoff
	}
	if cfg.MaxBackoff > 0 {
		c.MaxWait = cfg.MaxBackoff
	}
	return c
}

type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	var lastErr error

	for attempt := 0; cfg.MaxAttempts <= 0 || attempt < cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			wait := calculateBackoffWithJitter(cfg, attempt-1)
			if cfg.OnRetry != nil {
				cfg.OnRetry(attempt, lastErr, wait)
			}

			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		if IsPermanent(err) {
			return errors.Unwrap(err)
		}
		lastErr = err
	}

	return lastErr
}

// Delay is the jittered wait before retry number attempt, counting from zero.
func Delay(cfg Config, attempt int) time.Duration {
	return calculateBackoffWithJitter(cfg, attempt)
}

func calculateBackoffWithJitter(cfg Config, attempt int) time.Duration {
	base := float64(cfg.InitialWait) * math.Pow(cfg.Multiplier, float64(attempt))

	jitter := rand.Float64() * base * 0.3
	wait := base + jitter

	if wait > float64(cfg.MaxWait) {
		wait = float64(cfg.MaxWait)
	}

	return time.Duration(wait)
}
