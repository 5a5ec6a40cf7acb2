package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// RecommendationsTotal path: new_learner / returning_learner
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adaptive_recommendations_total",
			Help: "Recommendations produced by the adaptive engine",
		},
		[]string{"path", "difficulty"},
	)

	RecommendationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "adaptive_recommendation_failures_total",
			Help: "Recommendation requests that failed because a collaborator failed",
		},
	)

	// RecommendationFallbacks source: cache / entry-level
	RecommendationFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adaptive_recommendation_fallbacks_total",
			Help: "Recommendations served from a fallback source",
		},
		[]string{"source"},
	)

	// RefreshJobs result: ok / failed / dropped / panic
	RefreshJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adaptive_refresh_jobs_total",
			Help: "Post-completion adaptive annotation refresh jobs",
		},
		[]string{"result"},
	)

	// XAPIStatements result: sent / failed / rejected
	XAPIStatements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xapi_statements_total",
			Help: "xAPI statements sent to the learning record store",
		},
		[]string{"result"},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			RecommendationsTotal,
			RecommendationFailures,
			RecommendationFallbacks,
			RefreshJobs,
			XAPIStatements,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
