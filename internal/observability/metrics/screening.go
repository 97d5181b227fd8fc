package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "screener"

type ScreeningMetrics struct {
	service string

	screeningsTotal   *prometheus.CounterVec
	screeningDuration *prometheus.HistogramVec
	scores            *prometheus.HistogramVec
	scoreMissingTotal *prometheus.CounterVec
	storedChunks      *prometheus.HistogramVec
}

func NewScreeningMetrics(service string, registerer prometheus.Registerer) *ScreeningMetrics {
	screeningsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "screening",
			Name:      "total",
			Help:      "Total screenings by outcome.",
		},
		[]string{"service", "outcome"},
	)
	screeningDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "screening",
			Name:      "duration_seconds",
			Help:      "Screening duration in seconds by outcome.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"service", "outcome"},
	)
	scores := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "screening",
			Name:      "suitability_score",
			Help:      "Distribution of parsed suitability scores.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		},
		[]string{"service"},
	)
	scoreMissingTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "screening",
			Name:      "score_missing_total",
			Help:      "Analyses without a parseable suitability score.",
		},
		[]string{"service"},
	)
	storedChunks := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "screening",
			Name:      "stored_chunks",
			Help:      "Chunks stored per successful screening.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13},
		},
		[]string{"service"},
	)

	registerer.MustRegister(screeningsTotal, screeningDuration, scores, scoreMissingTotal, storedChunks)

	return &ScreeningMetrics{
		service:           service,
		screeningsTotal:   screeningsTotal,
		screeningDuration: screeningDuration,
		scores:            scores,
		scoreMissingTotal: scoreMissingTotal,
		storedChunks:      storedChunks,
	}
}

// ObserveScreening records one finished screening. Scores are only observed
// when the model reply reached the parsing step.
func (m *ScreeningMetrics) ObserveScreening(outcome string, duration time.Duration, score *int, storedChunks int) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.screeningsTotal.WithLabelValues(m.service, outcome).Inc()
	m.screeningDuration.WithLabelValues(m.service, outcome).Observe(duration.Seconds())

	if outcome != "success" && outcome != "store_error" {
		return
	}
	if score == nil {
		m.scoreMissingTotal.WithLabelValues(m.service).Inc()
	} else {
		m.scores.WithLabelValues(m.service).Observe(float64(*score))
	}
	if storedChunks > 0 {
		m.storedChunks.WithLabelValues(m.service).Observe(float64(storedChunks))
	}
}
