package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrCircuitOpen is returned by Call while the breaker rejects requests.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Defaults for NewBreaker.
const (
	DefaultFailureThreshold = 3
	DefaultOpenTimeout      = 30 * time.Second
)

// Option adjusts breaker settings.
type Option func(*gobreaker.Settings)

// WithSuccessFilter makes errors for which ok returns true count as
// successes, so they never trip the breaker. The error is still returned
// to the caller.
func WithSuccessFilter(ok func(err error) bool) Option {
	return func(s *gobreaker.Settings) {
		s.IsSuccessful = func(err error) bool {
			return err == nil || ok(err)
		}
	}
}

// NewBreaker returns a breaker that trips after three consecutive failures
// and half-opens after thirty seconds.
func NewBreaker(name string, logger *zap.Logger, opts ...Option) *gobreaker.CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     DefaultOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= DefaultFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn("Circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			}
		},
	}
	for _, opt := range opts {
		opt(&settings)
	}
	return gobreaker.NewCircuitBreaker(settings)
}

// Call runs fn through cb, translating gobreaker's rejection errors.
func Call(ctx context.Context, cb *gobreaker.CircuitBreaker, fn func(context.Context) error) error {
	_, err := cb.Execute(func() (any, error) {
		return nil, fn(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	return err
}
