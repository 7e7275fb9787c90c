// Package metrics exposes Prometheus metrics of index computation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soltixdb/varindex/internal/analytics/variability"
)

// Outcome labels of processed stars
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

var (
	// starsProcessed counts stars by outcome (ok, failed)
	starsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "varindex",
		Subsystem: "engine",
		Name:      "stars_total",
		Help:      "Stars processed by outcome",
	}, []string{"outcome"})

	// computeDuration measures one Engine.Compute call
	computeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "varindex",
		Subsystem: "engine",
		Name:      "compute_duration_seconds",
		Help:      "Time to compute all indices of one star",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	// observations tracks lightcurve lengths
	observations = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "varindex",
		Subsystem: "engine",
		Name:      "observations",
		Help:      "Number of observations per processed lightcurve",
		Buckets:   prometheus.ExponentialBuckets(4, 4, 9),
	})

	// indexStatus counts non-OK index statuses
	// Labels: index (column name), status (disabled, insufficient_data, degenerate, non_finite)
	indexStatus = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "varindex",
		Subsystem: "engine",
		Name:      "index_status_total",
		Help:      "Indices reported with a non-OK status",
	}, []string{"index", "status"})

	// batchRuns counts completed batch runs by outcome
	batchRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "varindex",
		Subsystem: "batch",
		Name:      "runs_total",
		Help:      "Batch runs by outcome",
	}, []string{"outcome"})

	// inFlight is the number of stars currently being computed
	inFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "varindex",
		Subsystem: "batch",
		Name:      "in_flight",
		Help:      "Stars currently being computed",
	})
)

// ObserveStar records one Compute call. A nil set is a failed star.
func ObserveStar(n int, set *variability.IndexSet, elapsed time.Duration) {
	computeDuration.Observe(elapsed.Seconds())
	observations.Observe(float64(n))

	if set == nil {
		starsProcessed.WithLabelValues(OutcomeFailed).Inc()
		return
	}
	starsProcessed.WithLabelValues(OutcomeOK).Inc()
	for _, ix := range variability.AllIndices() {
		if st := set.Status(ix); st != variability.StatusOK && st != variability.StatusDisabled {
			indexStatus.WithLabelValues(ix.String(), st.String()).Inc()
		}
	}
}

// ObserveBatch records the end of a batch run
func ObserveBatch(err error) {
	if err != nil {
		batchRuns.WithLabelValues(OutcomeFailed).Inc()
		return
	}
	batchRuns.WithLabelValues(OutcomeOK).Inc()
}

// TrackInFlight increments the in-flight gauge and returns its decrement
func TrackInFlight() func() {
	inFlight.Inc()
	return inFlight.Dec
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
