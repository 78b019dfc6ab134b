package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upstream call outcomes.
const (
	OutcomeOK           = "ok"
	OutcomeStatusError  = "status_error"
	OutcomeNetworkError = "network_error"
)

// Recorder owns a private Prometheus registry. A nil *Recorder records nothing.
type Recorder struct {
	registry         *prometheus.Registry
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	droppedRecords   prometheus.Counter
	httpRequests     *prometheus.CounterVec
}

// NewRecorder registers the gateway collectors on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "underwriting_upstream_requests_total",
			Help: "Calls made to the underwriting service by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "underwriting_upstream_request_duration_seconds",
			Help:    "Latency of calls to the underwriting service.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		droppedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "underwriting_history_dropped_records_total",
			Help: "History entries discarded because no borrower identifier could be resolved.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "underwriting_gateway_http_requests_total",
			Help: "Requests served by the gateway by method, route and status.",
		}, []string{"method", "route", "status"}),
	}
	r.registry.MustRegister(r.upstreamRequests, r.upstreamLatency, r.droppedRecords, r.httpRequests)
	return r
}

// ObserveUpstream records one call to the underwriting service.
func (r *Recorder) ObserveUpstream(endpoint, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	r.upstreamLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// AddDroppedRecords counts history entries that could not be normalized.
func (r *Recorder) AddDroppedRecords(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.droppedRecords.Add(float64(n))
}

// ObserveHTTP records one request served by the gateway.
func (r *Recorder) ObserveHTTP(method, route string, status int) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
