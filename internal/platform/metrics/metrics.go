package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the wallet. Construct once per
// process; consumers treat a nil *Metrics as disabled.
type Metrics struct {
	PresentationsAssembled prometheus.Counter
	RequestsRejected       *prometheus.CounterVec
	EmptyMatches           prometheus.Counter
	MatchDuration          prometheus.Histogram
	MatchedCredentials     prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		PresentationsAssembled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cardwallet_presentations_assembled_total",
			Help: "Total number of presentation tokens assembled and signed",
		}),
		RequestsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cardwallet_requests_rejected_total",
			Help: "Total number of authorization requests rejected, by reason code",
		}, []string{"reason"}),
		EmptyMatches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cardwallet_empty_matches_total",
			Help: "Total number of requests where no stored credential qualified",
		}),
		MatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cardwallet_match_duration_seconds",
			Help:    "Latency of one constraint-matching pass over a manifest snapshot",
			Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025},
		}),
		MatchedCredentials: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cardwallet_matched_credentials",
			Help:    "Number of credentials matched per qualifying request",
			Buckets: []float64{1, 2, 3, 5, 8, 13},
		}),
	}
}

// RecordRejection increments the rejection counter for one reason code.
func (m *Metrics) RecordRejection(reason string) {
	if m == nil {
		return
	}
	m.RequestsRejected.WithLabelValues(reason).Inc()
}

// RecordMatch observes one completed matching pass.
func (m *Metrics) RecordMatch(duration time.Duration, matched int) {
	if m == nil {
		return
	}
	m.MatchDuration.Observe(duration.Seconds())
	if matched == 0 {
		m.EmptyMatches.Inc()
		return
	}
	m.MatchedCredentials.Observe(float64(matched))
}

// RecordAssembled increments the assembled-presentations counter.
func (m *Metrics) RecordAssembled() {
	if m == nil {
		return
	}
	m.PresentationsAssembled.Inc()
}
