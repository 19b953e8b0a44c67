// Package metrics holds the Prometheus collectors shared by the proxy and the dashboard.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Proxy outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeNoAPIKey    = "no_api_key"
	OutcomeProviderErr = "provider_error"
	OutcomeTransport   = "transport_error"
)

// View fetch outcomes.
const (
	FetchLoaded     = "loaded"
	FetchErrored    = "errored"
	FetchSuperseded = "superseded"
)

var (
	ProxyRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callboard_proxy_requests_total",
		Help: "Record proxy invocations by outcome",
	}, []string{"outcome"})

	ProviderResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callboard_provider_responses_total",
		Help: "Provider HTTP responses by status code",
	}, []string{"code"})

	ProviderLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "callboard_provider_request_duration_seconds",
		Help:    "Latency of the outbound call-listing request",
		Buckets: prometheus.DefBuckets,
	})

	ViewFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callboard_view_fetches_total",
		Help: "Dashboard view fetches by result",
	}, []string{"result"})
)

// IncProxy records a proxy outcome.
func IncProxy(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	ProxyRequestsTotal.WithLabelValues(outcome).Inc()
}

// ObserveProvider records a provider response status and how long it took.
func ObserveProvider(code int, seconds float64) {
	ProviderResponsesTotal.WithLabelValues(strconv.Itoa(code)).Inc()
	ProviderLatency.Observe(seconds)
}

// IncViewFetch records how a dashboard fetch ended.
func IncViewFetch(result string) {
	ViewFetchesTotal.WithLabelValues(result).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
