// Package compliance provides a synchronous audit publisher for events about
// processed identification numbers.
//
// Events are written to the store before Emit returns. Callers decide whether
// a failed write aborts their operation.
package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cprcheck/pkg/cpr"
	audit "cprcheck/pkg/platform/audit"
)

// Publisher emits audit events to a store.
type Publisher struct {
	store  audit.Store
	logger *slog.Logger
	now    func() time.Time
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		p.now = now
	}
}

// New creates a compliance publisher.
func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit validates and synchronously writes an event.
//
// The subject must be the redacted placeholder (or empty): anything
// containing a digit is refused so a raw number can never be persisted.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Action == "" {
		return fmt.Errorf("compliance event requires Action")
	}
	if event.Subject != "" && event.Subject != cpr.Redacted && strings.ContainsAny(event.Subject, "0123456789") {
		return fmt.Errorf("compliance event subject must be redacted")
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	if event.Category == "" {
		event.Category = event.Action.Category()
	}

	if err := p.store.Append(ctx, event); err != nil {
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "compliance audit failed",
				"action", event.Action,
				"request_id", event.RequestID,
				"error", err,
			)
		}
		return fmt.Errorf("compliance audit persistence failed: %w", err)
	}
	return nil
}

// Close is a no-op for the synchronous compliance publisher.
func (p *Publisher) Close() error {
	return nil
}
