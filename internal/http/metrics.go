package http

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"songscout/internal/core"
	"songscout/pkg/musiclink"
)

// Metrics holds the service's Prometheus collectors. It implements
// identify.Observer.
type Metrics struct {
	IdentificationsTotal *prometheus.CounterVec
	LyricsTotal          *prometheus.CounterVec
	CallDuration         *prometheus.HistogramVec
	RateLimitedTotal     prometheus.Counter
	PaymentsTotal        *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		IdentificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "songscout_identifications_total",
				Help: "Total number of identification attempts",
			},
			[]string{"mode", "platform", "outcome"},
		),
		LyricsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "songscout_lyrics_total",
				Help: "Lyrics lookups by the source that produced them",
			},
			[]string{"source"},
		),
		CallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "songscout_upstream_call_duration_seconds",
				Help:    "Time spent in calls to external services",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"call", "status"},
		),
		RateLimitedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "songscout_rate_limited_total",
				Help: "Total number of identify requests rejected by the flood limit",
			},
		),
		PaymentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "songscout_payment_verifications_total",
				Help: "Total number of payment verifications",
			},
			[]string{"outcome"},
		),
	}

	reg.MustRegister(
		metrics.IdentificationsTotal,
		metrics.LyricsTotal,
		metrics.CallDuration,
		metrics.RateLimitedTotal,
		metrics.PaymentsTotal,
	)

	return metrics
}

func (m *Metrics) ObserveCall(call string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.CallDuration.WithLabelValues(call, status).Observe(duration.Seconds())
}

func (m *Metrics) ObserveIdentification(kind core.RequestKind, platform musiclink.Platform, outcome string) {
	m.IdentificationsTotal.WithLabelValues(kind.String(), string(platform), outcome).Inc()
}

func (m *Metrics) ObserveLyrics(source core.LyricsSource) {
	label := string(source)
	if source == core.LyricsSourceNone {
		label = "none"
	}
	m.LyricsTotal.WithLabelValues(label).Inc()
}

func (m *Metrics) RecordRateLimited() {
	m.RateLimitedTotal.Inc()
}

func (m *Metrics) RecordPayment(outcome string) {
	m.PaymentsTotal.WithLabelValues(outcome).Inc()
}
