package decoder

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks AuditPublisher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"cprcheck/internal/decoder/metrics"
	"cprcheck/internal/decoder/mocks"
	"cprcheck/pkg/cpr"
	dErrors "cprcheck/pkg/domain-errors"
	audit "cprcheck/pkg/platform/audit"
	"cprcheck/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockAuditor *mocks.MockAuditPublisher
	metrics     *metrics.Metrics
	logs        *bytes.Buffer
	service     *Service
	ctx         context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockAuditor = mocks.NewMockAuditPublisher(s.ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.logs = &bytes.Buffer{}
	s.service = s.newService(DefaultPolicy())

	now := time.Date(2025, time.July, 7, 9, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(requestcontext.WithRequestID(context.Background(), "req-1"), now)
}

func (s *ServiceSuite) newService(policy Policy) *Service {
	logger := slog.New(slog.NewTextHandler(s.logs, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
	return New(
		WithAuditor(s.mockAuditor),
		WithLogger(logger),
		WithMetrics(s.metrics),
		WithPolicy(policy),
		WithConcurrency(4),
	)
}

func (s *ServiceSuite) TestDecode() {
	s.Run("reports every derived attribute", func() {
		s.mockAuditor.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e audit.Event) error {
				s.Equal(audit.EventNumberDecoded, e.Action)
				s.Equal(cpr.Redacted, e.Subject)
				s.Equal("req-1", e.RequestID)
				return nil
			})

		report, err := s.service.Decode(s.ctx, "070761-4285")
		s.Require().NoError(err)

		s.Equal(cpr.MustParse("0707614285"), report.Record)
		s.Equal(cpr.Redacted, report.Display)
		s.True(report.ChecksumValid)
		s.False(report.Substitute)
		s.True(report.HasBirthday)
		s.Equal(time.Date(1961, time.July, 7, 0, 0, 0, 0, time.UTC), report.Birthday)
		s.Equal(cpr.Male, report.Sex)
		s.True(report.HasAge)
		s.Equal(64, report.Age)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Decoded.WithLabelValues("valid", "regular")))
	})

	s.Run("bad checksum and missing birthday are not errors", func() {
		s.mockAuditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		report, err := s.service.Decode(s.ctx, "670761-4286")
		s.Require().NoError(err)
		s.False(report.ChecksumValid)
		s.True(report.Substitute)
		s.False(report.HasBirthday)
		s.False(report.HasAge)
		s.Equal(cpr.Female, report.Sex)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Decoded.WithLabelValues("invalid", "substitute")))
	})

	s.Run("malformed input is invalid input", func() {
		s.mockAuditor.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e audit.Event) error {
				s.Equal(audit.EventNumberRejected, e.Action)
				s.Equal(ReasonMalformed, e.Reason)
				s.Empty(e.Subject)
				return nil
			})

		report, err := s.service.Decode(s.ctx, "070761-428")
		s.Nil(report)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
		s.Equal(ReasonMalformed, dErrors.ReasonOf(err))
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Rejected.WithLabelValues(ReasonMalformed)))
	})

	s.Run("audit failure does not fail decode", func() {
		s.mockAuditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("audit down"))

		report, err := s.service.Decode(s.ctx, "070761-4285")
		s.Require().NoError(err)
		s.NotNil(report)
		s.Contains(s.logs.String(), "failed to emit audit event")
	})
}

func (s *ServiceSuite) TestDecodeNeverLogsDigits() {
	s.mockAuditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	_, _ = s.service.Decode(s.ctx, "070761-4285")
	_, _ = s.service.Decode(s.ctx, "070761-428")
	_, _ = s.newService(Policy{StrictChecksum: true}).Verify(s.ctx, "070761-4286")

	for _, secret := range []string{"070761", "4285", "4286", "428"} {
		s.NotContains(s.logs.String(), secret)
	}
	s.Contains(s.logs.String(), cpr.Redacted)
}

func (s *ServiceSuite) TestVerify() {
	s.mockAuditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	tests := []struct {
		name   string
		policy Policy
		input  string
		reason string
	}{
		{"default accepts valid number", DefaultPolicy(), "070761-4285", ""},
		{"default accepts bad checksum", DefaultPolicy(), "070761-4286", ""},
		{"default accepts substitute", DefaultPolicy(), "670761-4285", ""},
		{"strict rejects bad checksum", Policy{StrictChecksum: true, AllowSubstitute: true}, "070761-4286", ReasonChecksumMismatch},
		{"substitute rejected when disallowed", Policy{}, "670761-4285", ReasonSubstitute},
		{"non-calendar date rejected", DefaultPolicy(), "310461-1234", ReasonNoBirthday},
		{"adult passes age gate", Policy{MinimumAge: 18}, "070761-4285", ""},
		// 1 January 2010: 15 on the suite's fixed date
		{"minor fails age gate", Policy{MinimumAge: 18}, "010110-4000", ReasonUnderage},
		{"substitute age unknown", Policy{AllowSubstitute: true, MinimumAge: 18}, "670761-4285", ReasonAgeUnknown},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			report, err := s.newService(tt.policy).Verify(s.ctx, tt.input)
			if tt.reason == "" {
				s.Require().NoError(err)
				s.NotNil(report)
				return
			}
			s.Nil(report)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation))
			s.Equal(tt.reason, dErrors.ReasonOf(err))
		})
	}

	s.Run("malformed input keeps invalid input code", func() {
		_, err := s.service.Verify(s.ctx, "not a number")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *ServiceSuite) TestDecodeBatchPreservesOrder() {
	s.mockAuditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	inputs := []string{"070761-4285", "bad", "0707614286", "670761-4285", "", "311299-5993"}
	outcomes, err := s.service.DecodeBatch(s.ctx, inputs)
	s.Require().NoError(err)
	s.Require().Len(outcomes, len(inputs))

	for i, o := range outcomes {
		s.Equal(i, o.Index)
	}
	s.NoError(outcomes[0].Err)
	s.True(outcomes[0].Report.ChecksumValid)
	s.True(dErrors.HasCode(outcomes[1].Err, dErrors.CodeInvalidInput))
	s.Nil(outcomes[1].Report)
	s.False(outcomes[2].Report.ChecksumValid)
	s.True(outcomes[3].Report.Substitute)
	s.Error(outcomes[4].Err)
	s.Equal(1899, outcomes[5].Report.Birthday.Year())
	s.Equal(2.0, testutil.ToFloat64(s.metrics.Rejected.WithLabelValues(ReasonMalformed)))
	s.Contains(s.logs.String(), "batch decoded")
}

func (s *ServiceSuite) TestDecodeBatchLarge() {
	s.mockAuditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	inputs := make([]string, 500)
	for i := range inputs {
		inputs[i] = fmt.Sprintf("0101%02d-%04d", i%100, i)
	}
	outcomes, err := s.service.DecodeBatch(s.ctx, inputs)
	s.Require().NoError(err)
	for i, o := range outcomes {
		s.Require().NoError(o.Err)
		s.Equal(uint(i), o.Report.Record.Serial())
	}
}

func (s *ServiceSuite) TestDecodeBatchEmpty() {
	s.mockAuditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	outcomes, err := s.service.DecodeBatch(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(outcomes)
}

func (s *ServiceSuite) TestDecodeBatchCancelled() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	outcomes, err := s.service.DecodeBatch(ctx, []string{"070761-4285", "070761-4286"})
	s.Nil(outcomes)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	s.True(errors.Is(err, context.Canceled))
}

func (s *ServiceSuite) TestDecodeBatchSharesRequestID() {
	var (
		mu  sync.Mutex
		ids []string
	)
	s.mockAuditor.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e audit.Event) error {
			mu.Lock()
			defer mu.Unlock()
			ids = append(ids, e.RequestID)
			return nil
		}).Times(3)

	_, err := s.service.DecodeBatch(context.Background(), []string{"070761-4285", "070761-4286"})
	s.Require().NoError(err)
	s.Require().Len(ids, 3)
	s.NotEmpty(ids[0])
	s.NotEqual("req-1", ids[0])
	s.Equal(ids[0], ids[1])
	s.Equal(ids[1], ids[2])
}

func TestNewDefaults(t *testing.T) {
	svc := New(WithConcurrency(0))
	if svc.concurrency != defaultConcurrency {
		t.Fatalf("expected default concurrency %d, got %d", defaultConcurrency, svc.concurrency)
	}
	if svc.Policy() != DefaultPolicy() {
		t.Fatalf("expected default policy")
	}

	report, err := svc.Decode(context.Background(), "070761-4285")
	if err != nil {
		t.Fatalf("decode without auditor: %v", err)
	}
	if !report.ChecksumValid {
		t.Fatalf("expected valid checksum")
	}
}
