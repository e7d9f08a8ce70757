package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned when the breaker rejects an execution.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Settings tunes a circuit breaker.
type Settings struct {
	Name string
	// Interval is the cyclic period in the closed state after which the
	// failure counts are reset.
	Interval time.Duration
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
	// FailureThreshold is the number of consecutive failures that trips the
	// breaker open.
	FailureThreshold uint32
	// SuccessThreshold is the number of successful probes required to close
	// the breaker from half-open.
	SuccessThreshold uint32
}

// CircuitBreaker wraps gobreaker with fallback handling and metrics.
type CircuitBreaker struct {
	name     string
	cb       *gobreaker.CircuitBreaker
	fallback FallbackFunc
}

// NewCircuitBreaker creates a breaker from settings. The fallback is invoked
// when the breaker is open; pass NoopFallback to surface ErrCircuitOpen.
func NewCircuitBreaker(settings Settings, fallback FallbackFunc) *CircuitBreaker {
	name := nextBreakerName(settings.Name)

	failureThreshold := settings.FailureThreshold
	if failureThreshold == 0 {
		failureThreshold = 5
	}
	successThreshold := settings.SuccessThreshold
	if successThreshold == 0 {
		successThreshold = 1
	}

	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: successThreshold,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			breakerStateTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
			breakerStateGauge.WithLabelValues(name).Set(breakerStateValue(to))
		},
	}

	breakerStateGauge.WithLabelValues(name).Set(breakerStateValue(gobreaker.StateClosed))

	return &CircuitBreaker{
		name:     name,
		cb:       gobreaker.NewCircuitBreaker(st),
		fallback: fallback,
	}
}

// Name returns the breaker's registered name.
func (b *CircuitBreaker) Name() string {
	return b.name
}

// Execute runs the operation through the breaker. When the breaker is open the
// configured fallback decides the result.
func (b *CircuitBreaker) Execute(ctx context.Context, operation Operation) (interface{}, error) {
	breakerRequestsTotal.WithLabelValues(b.name).Inc()

	result, err := b.cb.Execute(func() (interface{}, error) {
		return operation(ctx)
	})
	if err == nil {
		return result, nil
	}

	breakerFailuresTotal.WithLabelValues(b.name).Inc()

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		breakerFallbacksTotal.WithLabelValues(b.name).Inc()
		if b.fallback != nil {
			return b.fallback(ctx, ErrCircuitOpen)
		}
		return nil, ErrCircuitOpen
	}

	return nil, err
}
