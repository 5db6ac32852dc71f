package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "camme_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "camme_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	wsActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "camme_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "camme_ws_events_total",
			Help: "Total number of websocket events by name and outcome.",
		},
		[]string{"event", "outcome"},
	)
	billingEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "camme_billing_events_total",
			Help: "Total number of billed ad events by type.",
		},
		[]string{"event_type"},
	)
	walletExhaustedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "camme_wallet_exhausted_total",
			Help: "Number of times an ad wallet hit zero.",
		},
	)
	sweeperDeletionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "camme_sweeper_deletions_total",
			Help: "Messages removed by the retention sweeper, per pass.",
		},
		[]string{"pass"},
	)
	pushNotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "camme_push_notifications_total",
			Help: "Push notifications published, by outcome.",
		},
		[]string{"status"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "camme_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		wsActiveConnections,
		wsEventsTotal,
		billingEventsTotal,
		walletExhaustedTotal,
		sweeperDeletionsTotal,
		pushNotificationsTotal,
		amqpPublishErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncWSActive() {
	wsActiveConnections.Inc()
}

func DecWSActive() {
	wsActiveConnections.Dec()
}

func IncWSEvent(event, outcome string) {
	wsEventsTotal.WithLabelValues(event, outcome).Inc()
}

func AddBillingEvents(eventType string, n int64) {
	billingEventsTotal.WithLabelValues(eventType).Add(float64(n))
}

func IncWalletExhausted() {
	walletExhaustedTotal.Inc()
}

func AddSweeperDeletions(pass string, n int64) {
	sweeperDeletionsTotal.WithLabelValues(pass).Add(float64(n))
}

func IncPushNotification(status string) {
	pushNotificationsTotal.WithLabelValues(status).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
