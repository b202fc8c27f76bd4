package decoder

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"cprcheck/internal/decoder/metrics"
	"cprcheck/internal/platform/logger"
	"cprcheck/pkg/cpr"
	dErrors "cprcheck/pkg/domain-errors"
	audit "cprcheck/pkg/platform/audit"
	"cprcheck/pkg/requestcontext"
)

// AuditPublisher records what happened to each number.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

const defaultConcurrency = 8

// Service decodes identification numbers and applies a verification policy.
// It holds no per-call state and is safe for concurrent use.
type Service struct {
	auditor     AuditPublisher
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
	policy      Policy
	concurrency int
}

// Option configures the Service.
type Option func(*Service)

func WithAuditor(auditor AuditPublisher) Option {
	return func(s *Service) { s.auditor = auditor }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) { s.tracer = tracer }
}

func WithPolicy(policy Policy) Option {
	return func(s *Service) { s.policy = policy }
}

// WithConcurrency bounds batch fan-out; values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// New constructs a decoder service. Without options it logs nowhere, audits
// nothing and uses the global OpenTelemetry tracer.
func New(opts ...Option) *Service {
	s := &Service{
		logger:      logger.Discard(),
		tracer:      otel.Tracer("cprcheck/internal/decoder"),
		policy:      DefaultPolicy(),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the verification policy in effect.
func (s *Service) Policy() Policy {
	return s.policy
}

// Decode parses text and reports everything derivable from it.
//
// Errors: CodeInvalidInput (reason "malformed") when text is not ten digits
// with an optional dash after the sixth. A bad checksum or missing birthday
// is reported in the Report, not as an error.
func (s *Service) Decode(ctx context.Context, text string) (*Report, error) {
	ctx, span := s.tracer.Start(ctx, "decoder.Decode")
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.ObserveDecodeLatency(time.Since(start)) }()

	requestID := requestcontext.RequestID(ctx)

	record, ok := cpr.Parse(text)
	if !ok {
		span.SetStatus(codes.Error, ReasonMalformed)
		s.metrics.IncrementRejected(ReasonMalformed)
		// Never log the input itself: a near-miss is usually still someone's number.
		s.logger.InfoContext(ctx, "number rejected",
			"request_id", requestID,
			"reason", ReasonMalformed,
			"input_length", len(text),
		)
		s.emit(ctx, audit.EventNumberRejected, "", "rejected", ReasonMalformed)
		return nil, dErrors.NewWithReason(dErrors.CodeInvalidInput, ReasonMalformed,
			"number must be 10 digits with an optional dash after the sixth")
	}

	report := s.report(ctx, record)
	span.SetAttributes(
		attribute.Bool("cpr.checksum_valid", report.ChecksumValid),
		attribute.Bool("cpr.substitute", report.Substitute),
		attribute.Bool("cpr.has_birthday", report.HasBirthday),
	)
	s.metrics.IncrementDecoded(report.ChecksumValid, report.Substitute)

	s.logger.DebugContext(ctx, "number decoded",
		"request_id", requestID,
		"subject", record,
		"checksum_valid", report.ChecksumValid,
		"substitute", report.Substitute,
		"has_birthday", report.HasBirthday,
	)
	s.emit(ctx, audit.EventNumberDecoded, report.Display, "decoded", "")

	return report, nil
}

// Verify decodes text and applies the service's policy.
//
// Errors: CodeInvalidInput as for Decode; CodeValidation with one of the
// Reason* constants when the number breaks the policy.
func (s *Service) Verify(ctx context.Context, text string) (*Report, error) {
	report, err := s.Decode(ctx, text)
	if err != nil {
		return nil, err
	}

	if reason, msg := s.policy.check(report); reason != "" {
		s.metrics.IncrementRejected(reason)
		s.logger.InfoContext(ctx, "number failed verification",
			"request_id", requestcontext.RequestID(ctx),
			"subject", report.Record,
			"reason", reason,
		)
		s.emit(ctx, audit.EventNumberRejected, report.Display, "rejected", reason)
		return nil, dErrors.NewWithReason(dErrors.CodeValidation, reason, msg)
	}
	return report, nil
}

// DecodeBatch decodes every input concurrently and returns one Outcome per
// input, in input order. Per-item failures are carried in Outcome.Err; the
// batch itself only fails when ctx ends first.
//
// All items share one request ID and one clock reading, so ages are
// consistent across the batch.
func (s *Service) DecodeBatch(ctx context.Context, texts []string) ([]Outcome, error) {
	ctx = requestcontext.WithNewRequestID(ctx)
	ctx = requestcontext.WithTime(ctx, requestcontext.Now(ctx))

	ctx, span := s.tracer.Start(ctx, "decoder.DecodeBatch",
		trace.WithAttributes(attribute.Int("cpr.batch_size", len(texts))))
	defer span.End()

	s.metrics.ObserveBatchSize(len(texts))
	start := time.Now()

	outcomes := make([]Outcome, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, text := range texts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := s.Decode(gctx, text)
			outcomes[i] = Outcome{Index: i, Report: report, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.SetStatus(codes.Error, "batch cancelled")
		s.logger.WarnContext(ctx, "batch decode cancelled",
			"request_id", requestcontext.RequestID(ctx),
			"batch_size", len(texts),
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "batch decode cancelled")
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}

	s.logger.InfoContext(ctx, "batch decoded",
		"request_id", requestcontext.RequestID(ctx),
		"batch_size", len(texts),
		"failed", failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	s.emit(ctx, audit.EventBatchDecoded, "", "completed", "")

	return outcomes, nil
}

func (s *Service) report(ctx context.Context, record cpr.Record) *Report {
	report := &Report{
		Record:        record,
		Display:       cpr.RedactedDisplay(record),
		ChecksumValid: cpr.IsChecksumValid(record),
		Substitute:    cpr.IsSubstitute(record),
		Sex:           cpr.SexOf(record),
	}
	report.Birthday, report.HasBirthday = cpr.Birthday(record)
	report.Age, report.HasAge = cpr.AgeAt(record, requestcontext.Now(ctx))
	return report
}

// emit publishes an audit event. Audit failures are logged and swallowed:
// decoding is read-only, so there is nothing to roll back.
func (s *Service) emit(ctx context.Context, action audit.AuditEvent, subject, decision, reason string) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Emit(ctx, audit.Event{
		Action:    action,
		Subject:   subject,
		Decision:  decision,
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", action,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

// check returns the first policy rule the report breaks, if any.
func (p Policy) check(r *Report) (reason, msg string) {
	switch {
	case p.StrictChecksum && !r.ChecksumValid:
		return ReasonChecksumMismatch, "control digit does not match"
	case r.Substitute && !p.AllowSubstitute:
		return ReasonSubstitute, "substitute numbers are not accepted"
	case !r.Substitute && !r.HasBirthday:
		return ReasonNoBirthday, "number does not encode a calendar date"
	case p.MinimumAge > 0 && !r.HasAge:
		return ReasonAgeUnknown, "age cannot be determined"
	case p.MinimumAge > 0 && r.Age < p.MinimumAge:
		return ReasonUnderage, "holder is below the minimum age"
	}
	return "", ""
}
