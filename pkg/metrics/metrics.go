package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skillswap_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	swapTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_swap_transitions_total",
			Help: "Swap request lifecycle operations by action and result.",
		},
		[]string{"action", "result"},
	)
	optimisticRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_optimistic_lock_retries_total",
			Help: "Operations retried after an optimistic lock conflict.",
		},
		[]string{"action"},
	)
	eventPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skillswap_event_publish_errors_total",
			Help: "Total number of audit event publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		swapTransitionsTotal,
		optimisticRetriesTotal,
		eventPublishErrorsTotal,
	)
}

// HTTPMiddleware 记录请求计数与耗时，路由取 gin 注册模板避免高基数
func HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Handler 暴露 /metrics
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func IncSwapTransition(action, result string) {
	swapTransitionsTotal.WithLabelValues(action, result).Inc()
}

func IncOptimisticRetry(action string) {
	optimisticRetriesTotal.WithLabelValues(action).Inc()
}

func IncEventPublishError() {
	eventPublishErrorsTotal.Inc()
}
