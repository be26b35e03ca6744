package main

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "komtifix"

// Contact submission outcomes, one per terminal state of the endpoint.
const (
	outcomeInvalid       = "invalid"
	outcomeSpam          = "spam"
	outcomeMisconfigured = "misconfigured"
	outcomeLeadFailed    = "lead_failed"
	outcomeConfirmFailed = "confirm_failed"
	outcomeSent          = "sent"
	outcomeError         = "error"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	contactSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "contact_submissions_total",
			Help:      "Contact form submissions by terminal outcome",
		},
		[]string{"outcome"},
	)

	emailSendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "email_sends_total",
			Help:      "Outbound contact emails by kind and result",
		},
		[]string{"kind", "status"},
	)
)

func recordContactOutcome(outcome string) {
	contactSubmissionsTotal.WithLabelValues(outcome).Inc()
}

func recordEmailSend(kind string, ok bool) {
	status := "success"
	if !ok {
		status = "failure"
	}
	emailSendsTotal.WithLabelValues(kind, status).Inc()
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func metricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
