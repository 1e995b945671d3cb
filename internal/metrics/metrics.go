package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "weathertrack",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "weathertrack",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})

	// Weather provider metrics

	ProviderRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "weathertrack",
		Name:      "provider_request_duration_seconds",
		Help:      "Latency of outbound OpenWeather calls.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"endpoint"})

	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "weathertrack",
		Name:      "provider_requests_total",
		Help:      "Outbound OpenWeather calls by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	// Refresher metrics

	RefreshTickDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "weathertrack",
		Name:      "refresh_tick_duration_seconds",
		Help:      "Time taken for one full refresh tick over all tracked cities.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	})

	CitiesRefreshedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "weathertrack",
		Name:      "cities_refreshed_total",
		Help:      "Per-city refresh outcomes.",
	}, []string{"outcome"})

	RefreshLastSuccess = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "weathertrack",
		Name:      "refresh_last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last completed refresh tick.",
	})
)

func Register() {
	prometheus.MustRegister(
		HTTPRequestDuration,
		HTTPRequestsTotal,
		ProviderRequestDuration,
		ProviderRequestsTotal,
		RefreshTickDuration,
		CitiesRefreshedTotal,
		RefreshLastSuccess,
	)
}

// checker is implemented by health.Checker; declared here to avoid the import.
type checker interface {
	LivenessHandler() http.HandlerFunc
	ReadinessHandler() http.HandlerFunc
}

// NewServer serves /metrics plus the liveness and readiness probes on the
// side port, away from the public API.
func NewServer(addr string, c checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", c.LivenessHandler())
	mux.HandleFunc("/readyz", c.ReadinessHandler())
	return &http.Server{Addr: addr, Handler: mux}
}
