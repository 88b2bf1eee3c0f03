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

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "olla",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "olla",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "olla",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	guardDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "olla",
			Subsystem: "onboarding",
			Name:      "guard_decisions_total",
			Help:      "Onboarding guard decisions by reason.",
		},
		[]string{"reason", "allowed"},
	)

	remoteFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "olla",
			Subsystem: "onboarding",
			Name:      "remote_fallbacks_total",
			Help:      "Guard checks that fell back to the session cache because the remote profile was unavailable.",
		},
	)

	statusAdvances = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "olla",
			Subsystem: "onboarding",
			Name:      "status_advances_total",
			Help:      "Onboarding steps recorded, by target status.",
		},
		[]string{"status"},
	)

	subscriptionsExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "olla",
			Subsystem: "subscriptions",
			Name:      "expired_total",
			Help:      "Subscriptions moved to expired by the sweep job.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		guardDecisions,
		remoteFallbacks,
		statusAdvances,
		subscriptionsExpired,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registry for scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func RecordGuardDecision(reason string, allowed bool) {
	guardDecisions.WithLabelValues(reason, strconv.FormatBool(allowed)).Inc()
}

func RecordRemoteFallback() {
	remoteFallbacks.Inc()
}

func RecordStatusAdvance(status string) {
	statusAdvances.WithLabelValues(status).Inc()
}

func RecordSubscriptionsExpired(n int) {
	subscriptionsExpired.Add(float64(n))
}
