package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Catalog metrics
	CatalogOperationsCounter *prometheus.CounterVec

	// Newsletter metrics
	BroadcastEmailsCounter *prometheus.CounterVec

	// Upload metrics
	ImageUploadsCounter *prometheus.CounterVec
)

// Init registers all Prometheus metrics under the configured prefix.
func Init(prefix string) {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	CatalogOperationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_catalog_operations_total",
			Help: "Total number of catalog operations",
		},
		[]string{"operation"},
	)

	BroadcastEmailsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_broadcast_emails_total",
			Help: "Newsletter broadcast deliveries by outcome",
		},
		[]string{"outcome"},
	)

	ImageUploadsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_image_uploads_total",
			Help: "Image uploads by destination and outcome",
		},
		[]string{"destination", "outcome"},
	)
}

// RecordHTTPRequest counts one request and observes its duration.
func RecordHTTPRequest(method, path, status string, seconds float64) {
	if HTTPRequestsTotal != nil {
		HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	}
	if HTTPRequestDuration != nil {
		HTTPRequestDuration.WithLabelValues(method, path, status).Observe(seconds)
	}
}

// RecordCatalogOperation increments the counter for catalog operations.
func RecordCatalogOperation(operation string) {
	if CatalogOperationsCounter != nil {
		CatalogOperationsCounter.WithLabelValues(operation).Inc()
	}
}

// RecordBroadcastEmail counts one broadcast delivery attempt.
func RecordBroadcastEmail(outcome string) {
	if BroadcastEmailsCounter != nil {
		BroadcastEmailsCounter.WithLabelValues(outcome).Inc()
	}
}

// RecordImageUpload counts one image upload attempt.
func RecordImageUpload(destination, outcome string) {
	if ImageUploadsCounter != nil {
		ImageUploadsCounter.WithLabelValues(destination, outcome).Inc()
	}
}
