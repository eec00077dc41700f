package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	httpRequestsTotal  *prometheus.CounterVec
	httpLatencySeconds *prometheus.HistogramVec
	httpErrorsTotal    *prometheus.CounterVec
	resultsFetches     *prometheus.CounterVec
	resultsCacheTotal  *prometheus.CounterVec
	chatbotReplies     *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stc_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stc_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stc_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		resultsFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stc_results_fetch_total",
			Help: "Submission fetch attempts by source and outcome.",
		}, []string{"source", "outcome"})

		resultsCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stc_results_cache_total",
			Help: "Mentor results cache lookups by outcome.",
		}, []string{"outcome"})

		chatbotReplies = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stc_chatbot_replies_total",
			Help: "Chatbot replies by matched rule.",
		}, []string{"rule"})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, httpErrorsTotal, resultsFetches, resultsCacheTotal, chatbotReplies)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// ResultsFetches exposes the submission fetch counter.
func ResultsFetches() *prometheus.CounterVec {
	RegisterMetrics()
	return resultsFetches
}

// ResultsCache exposes the mentor results cache counter.
func ResultsCache() *prometheus.CounterVec {
	RegisterMetrics()
	return resultsCacheTotal
}

// ChatbotReplies exposes the chatbot rule counter.
func ChatbotReplies() *prometheus.CounterVec {
	RegisterMetrics()
	return chatbotReplies
}
