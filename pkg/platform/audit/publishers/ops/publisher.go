// Package ops publishes operational audit events on a best-effort basis.
//
// Events may be sampled away, and a store that keeps failing is bypassed by
// a circuit breaker until it cools down. Emit never fails the caller for
// either reason; drops show up in metrics instead.
package ops

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	audit "cprcheck/pkg/platform/audit"
)

type Publisher struct {
	store   audit.Store
	sampler *Sampler
	breaker *CircuitBreaker
	metrics *Metrics
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Publisher)

func WithSampler(s *Sampler) Option {
	return func(p *Publisher) { p.sampler = s }
}

func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(p *Publisher) { p.breaker = cb }
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) { p.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(p *Publisher) { p.now = now }
}

// New creates a publisher that keeps every event until told otherwise.
func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:   store,
		sampler: NewSampler(1),
		breaker: NewCircuitBreaker(5, time.Minute),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit records an operational event. Only a missing Action is an error.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Action == "" {
		return fmt.Errorf("ops event requires Action")
	}
	if !p.sampler.ShouldSample(event.Action) {
		p.metrics.IncSampled()
		return nil
	}
	if !p.breaker.Allow() {
		p.metrics.IncCircuitBreakerDropped()
		return nil
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	if event.Category == "" {
		event.Category = event.Action.Category()
	}

	if err := p.store.Append(ctx, event); err != nil {
		p.breaker.RecordFailure()
		p.metrics.IncPersistFailures()
		p.metrics.SetCircuitBreakerState(p.breaker.IsOpen())
		if p.logger != nil {
			p.logger.WarnContext(ctx, "ops audit dropped",
				"action", event.Action,
				"request_id", event.RequestID,
				"error", err,
			)
		}
		return nil
	}

	p.breaker.RecordSuccess()
	p.metrics.SetCircuitBreakerState(false)
	p.metrics.IncTracked()
	return nil
}
