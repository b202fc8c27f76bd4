package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the decoder module.
type Metrics struct {
	// Decoded numbers by checksum outcome and kind (regular/substitute)
	Decoded *prometheus.CounterVec

	// Rejections by reason (malformed, policy reasons)
	Rejected *prometheus.CounterVec

	DecodeLatency prometheus.Histogram
	BatchSize     prometheus.Histogram
}

// New creates decoder metrics registered on reg. A nil reg creates
// unregistered collectors, which is convenient in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Decoded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cprcheck_numbers_decoded_total",
			Help: "Total numbers decoded by checksum outcome and kind",
		}, []string{"checksum", "kind"}),

		Rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cprcheck_numbers_rejected_total",
			Help: "Total numbers rejected by reason",
		}, []string{"reason"}),

		DecodeLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cprcheck_decode_duration_seconds",
			Help:    "Duration of a single decode",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005},
		}),

		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cprcheck_batch_size",
			Help:    "Number of inputs per batch decode",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
}

// IncrementDecoded records a successfully decoded number.
func (m *Metrics) IncrementDecoded(checksumValid, substitute bool) {
	if m == nil {
		return
	}
	checksum, kind := "invalid", "regular"
	if checksumValid {
		checksum = "valid"
	}
	if substitute {
		kind = "substitute"
	}
	m.Decoded.WithLabelValues(checksum, kind).Inc()
}

// IncrementRejected records a rejection.
func (m *Metrics) IncrementRejected(reason string) {
	if m != nil {
		m.Rejected.WithLabelValues(reason).Inc()
	}
}

// ObserveDecodeLatency records how long one decode took.
func (m *Metrics) ObserveDecodeLatency(d time.Duration) {
	if m != nil {
		m.DecodeLatency.Observe(d.Seconds())
	}
}

// ObserveBatchSize records the size of a batch.
func (m *Metrics) ObserveBatchSize(n int) {
	if m != nil {
		m.BatchSize.Observe(float64(n))
	}
}
