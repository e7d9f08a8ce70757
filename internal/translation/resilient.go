package translation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/richxcame/chat-relay/pkg/resilience"
)

// Resilient wraps a backend translator with a deadline, retries and a circuit
// breaker. A failed translation degrades to the original text so a provider
// outage never drops messages.
type Resilient struct {
	backend Translator
	breaker *resilience.CircuitBreaker
	retry   resilience.RetryConfig
	timeout time.Duration
	logger  *zap.Logger
}

// NewResilient wraps backend. The timeout bounds each Translate call
// end-to-end, including retries.
func NewResilient(backend Translator, timeout time.Duration, logger *zap.Logger) *Resilient {
	settings := resilience.BuildSettings("translation", 60, 10, 5, 1)
	breaker := resilience.NewCircuitBreaker(settings, resilience.NoopFallback)

	retry := resilience.AggressiveRetryConfig()
	retry.MaxAttempts = 2
	retry.InitialBackoff = 100 * time.Millisecond

	return &Resilient{
		backend: backend,
		breaker: breaker,
		retry:   retry,
		timeout: timeout,
		logger:  logger,
	}
}

// Translate runs the backend under the configured deadline. Any error,
// including an open breaker or expired deadline, falls back to the original
// text.
func (r *Resilient) Translate(ctx context.Context, text, source, target string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := resilience.RetryWithBreaker(ctx, r.retry, r.breaker, func(ctx context.Context) (interface{}, error) {
		return r.backend.Translate(ctx, text, source, target)
	})
	if err != nil {
		r.logger.Warn("translation failed, delivering original text",
			zap.String("source", source),
			zap.String("target", target),
			zap.Error(err),
		)
		return text, nil
	}

	return result.(string), nil
}
