// Package metrics exposes Prometheus metrics for the HTTP API and the
// directory's business events.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector. It implements service.Recorder and
// middleware.RequestObserver.
type Metrics struct {
	gatherer prometheus.Gatherer

	requestDuration *prometheus.HistogramVec
	browseResults   prometheus.Histogram
	savedToggles    *prometheus.CounterVec
}

// New registers the collectors on registry. A nil registry uses a fresh one,
// so two Metrics never collide on the default registerer.
func New(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	factory := promauto.With(registry)

	return &Metrics{
		gatherer: registry,
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "toolscope_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"method", "route", "status"},
		),
		browseResults: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "toolscope_browse_results",
				Help:    "Number of tools returned by a directory listing",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
			},
		),
		savedToggles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolscope_saved_toggles_total",
				Help: "Total number of saved-tool toggles",
			},
			[]string{"action"},
		),
	}
}

// ObserveRequest records one finished HTTP request. route is the matched
// pattern, not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

func (m *Metrics) BrowseServed(results int) {
	m.browseResults.Observe(float64(results))
}

func (m *Metrics) SavedToggled(saved bool) {
	action := "removed"
	if saved {
		action = "saved"
	}
	m.savedToggles.WithLabelValues(action).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
