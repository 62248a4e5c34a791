package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code", "service"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "service"},
	)

	// Blockchain metrics
	blockchainTransactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockchain_transactions_total",
			Help: "Total number of blockchain transactions",
		},
		[]string{"chaincode", "function", "status", "service"},
	)

	blockchainTransactionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blockchain_transaction_duration_seconds",
			Help:    "Duration of blockchain transactions in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
		},
		[]string{"chaincode", "function", "service"},
	)

	// Authentication metrics
	authAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"method", "status", "service"},
	)

	// Assessment metrics
	assessmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "premium_assessments_total",
			Help: "Total number of premium assessments",
		},
		[]string{"risk_category", "status", "service"},
	)

	premiumPaymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "premium_payments_total",
			Help: "Total number of premium payments",
		},
		[]string{"status", "service"},
	)
)

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	serviceName string
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(serviceName string) *MetricsCollector {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		blockchainTransactionsTotal,
		blockchainTransactionDuration,
		authAttemptsTotal,
		assessmentsTotal,
		premiumPaymentsTotal,
	)

	return &MetricsCollector{
		serviceName: serviceName,
	}
}

// RecordHTTPRequest records HTTP request metrics
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, endpoint, statusCode, m.serviceName).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, m.serviceName).Observe(duration.Seconds())
}

// RecordBlockchainTransaction records blockchain transaction metrics
func (m *MetricsCollector) RecordBlockchainTransaction(chaincode, function, status string, duration time.Duration) {
	blockchainTransactionsTotal.WithLabelValues(chaincode, function, status, m.serviceName).Inc()
	blockchainTransactionDuration.WithLabelValues(chaincode, function, m.serviceName).Observe(duration.Seconds())
}

// RecordAuthAttempt records authentication attempt metrics
func (m *MetricsCollector) RecordAuthAttempt(method, status string) {
	authAttemptsTotal.WithLabelValues(method, status, m.serviceName).Inc()
}

// RecordAssessment records premium assessment metrics
func (m *MetricsCollector) RecordAssessment(riskCategory, status string) {
	assessmentsTotal.WithLabelValues(riskCategory, status, m.serviceName).Inc()
}

// RecordPremiumPayment records premium payment metrics
func (m *MetricsCollector) RecordPremiumPayment(status string) {
	premiumPaymentsTotal.WithLabelValues(status, m.serviceName).Inc()
}

// Handler returns the Prometheus metrics HTTP handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.Handler()
}

// HTTPMiddleware creates middleware for HTTP request metrics
func (m *MetricsCollector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)
		statusCode := strconv.Itoa(wrapper.statusCode)

		m.RecordHTTPRequest(r.Method, r.URL.Path, statusCode, duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
