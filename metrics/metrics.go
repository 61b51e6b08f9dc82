package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prayinverses",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "prayinverses",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	curatedTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prayinverses",
			Subsystem: "curated",
			Name:      "transitions_total",
			Help:      "Successful workflow transitions of curated prayers.",
		},
		[]string{"from", "to"},
	)

	curatedOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prayinverses",
			Subsystem: "curated",
			Name:      "operations_total",
			Help:      "Curated prayer operations by outcome.",
		},
		[]string{"operation", "outcome"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		curatedTransitions,
		curatedOperations,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency keyed by route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordTransition counts a committed workflow transition.
func RecordTransition(from, to string) {
	curatedTransitions.WithLabelValues(from, to).Inc()
}

// RecordOperation counts a curated prayer operation; outcome is "ok" or an
// error kind.
func RecordOperation(operation, outcome string) {
	curatedOperations.WithLabelValues(operation, outcome).Inc()
}
