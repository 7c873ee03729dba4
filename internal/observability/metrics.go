// Package observability holds the Prometheus collectors of the service.
package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "interview_prep"

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	sessionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_started_total",
		Help:      "Sessions started per variant",
	}, []string{"variant"})

	sessionsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_finished_total",
		Help:      "Sessions that reached a terminal status",
	}, []string{"variant", "status"})

	answersScored = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "answers_scored_total",
		Help:      "Scored answers per question kind and outcome",
	}, []string{"kind", "outcome"})

	eventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_total",
		Help:      "Outbound session events per type and result",
	}, []string{"type", "result"})

	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_requests_total",
		Help:      "Requests rejected by the rate limiter",
	})

	sweptSessions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "timeout_swept_sessions_total",
		Help:      "Test sessions closed by the timeout sweeper",
	})
)

func SessionStarted(variant string) {
	sessionsStarted.WithLabelValues(variant).Inc()
}

func SessionFinished(variant, status string) {
	sessionsFinished.WithLabelValues(variant, status).Inc()
}

// AnswerScored records one scoring outcome; fallback marks a substituted result.
func AnswerScored(kind string, fallback bool) {
	outcome := "scored"
	if fallback {
		outcome = "fallback"
	}
	answersScored.WithLabelValues(kind, outcome).Inc()
}

// EventResult records published, failed or dropped events.
func EventResult(eventType, result string) {
	eventsPublished.WithLabelValues(eventType, result).Inc()
}

func RateLimited() {
	rateLimited.Inc()
}

func SessionSwept() {
	sweptSessions.Inc()
}

// Middleware records request count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
