// Package metrics exposes prometheus instrumentation for the parse and
// filter pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ParsesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatlens_parses_total",
		Help: "Chat export parses by detected dialect and outcome.",
	}, []string{"dialect", "outcome"})

	ParseDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "chatlens_parse_duration_seconds",
		Help:    "Time spent parsing one chat export.",
		Buckets: prometheus.DefBuckets,
	})

	ParsedMessages = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chatlens_parsed_messages_total",
		Help: "Messages retained across all successful parses.",
	})

	FilterRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chatlens_filter_requests_total",
		Help: "Filter recomputation requests.",
	})

	FilterDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "chatlens_filter_duration_seconds",
		Help:    "Time spent recomputing one filtered view.",
		Buckets: prometheus.DefBuckets,
	})

	StaleFilterResults = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chatlens_stale_filter_results_total",
		Help: "Filter results discarded because a newer request superseded them.",
	})
)

// MustRegister registers all pipeline metrics on the given registerer.
func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		ParsesTotal,
		ParseDuration,
		ParsedMessages,
		FilterRequestsTotal,
		FilterDuration,
		StaleFilterResults,
	)
}

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveParse records one parse attempt.
func ObserveParse(dialect string, start time.Time, retained int, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	ParsesTotal.WithLabelValues(dialect, outcome).Inc()
	ParseDuration.Observe(time.Since(start).Seconds())
	if err == nil {
		ParsedMessages.Add(float64(retained))
	}
}

// ObserveFilter records one filter recomputation.
func ObserveFilter(start time.Time) {
	FilterRequestsTotal.Inc()
	FilterDuration.Observe(time.Since(start).Seconds())
}
