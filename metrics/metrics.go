// Package metrics defines the Prometheus collectors for the change monitor and
// the search engine and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	SearchesTotal       *prometheus.CounterVec
	SearchLatency       prometheus.Histogram
	SearchMatchesCount  prometheus.Histogram
	FilesSkippedTotal   *prometheus.CounterVec
	NotificationsTotal  *prometheus.CounterVec
	RescanTriggersTotal prometheus.Counter
	WatcherErrorsTotal  prometheus.Counter
}

// New creates all collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_queries_total",
				Help: "Total searches by outcome (completed, cancelled, capped, empty).",
			},
			[]string{"outcome"},
		),
		SearchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_latency_seconds",
				Help:    "Search latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
		),
		SearchMatchesCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_matches_count",
				Help:    "Number of matches returned per search.",
				Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000},
			},
		),
		FilesSkippedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_files_skipped_total",
				Help: "Files skipped by the search engine by reason (size, extension, binary, error).",
			},
			[]string{"reason"},
		),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resource_notifications_total",
				Help: "Resource change notifications emitted by kind.",
			},
			[]string{"kind"},
		),
		RescanTriggersTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "resource_rescan_triggers_total",
				Help: "Aggregate resource rescan triggers emitted.",
			},
		),
		WatcherErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "watcher_errors_total",
				Help: "Errors reported by the native file watcher.",
			},
		),
	}

	reg.MustRegister(
		m.SearchesTotal,
		m.SearchLatency,
		m.SearchMatchesCount,
		m.FilesSkippedTotal,
		m.NotificationsTotal,
		m.RescanTriggersTotal,
		m.WatcherErrorsTotal,
	)

	return m
}

// ObserveSearch records one finished search.
func (m *Metrics) ObserveSearch(outcome string, elapsed time.Duration, matches int) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(outcome).Inc()
	m.SearchLatency.Observe(elapsed.Seconds())
	m.SearchMatchesCount.Observe(float64(matches))
}

// FileSkipped records a file the search engine did not scan.
func (m *Metrics) FileSkipped(reason string) {
	if m == nil {
		return
	}
	m.FilesSkippedTotal.WithLabelValues(reason).Inc()
}

// Notification records one emitted change notification.
func (m *Metrics) Notification(kind string) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(kind).Inc()
}

// RescanTriggered records one aggregate rescan trigger.
func (m *Metrics) RescanTriggered() {
	if m == nil {
		return
	}
	m.RescanTriggersTotal.Inc()
}

// WatcherError records one native watcher error.
func (m *Metrics) WatcherError() {
	if m == nil {
		return
	}
	m.WatcherErrorsTotal.Inc()
}

// Handler returns the Prometheus scrape HTTP handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
