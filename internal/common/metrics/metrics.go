// Package metrics 提供 Prometheus 指标收集
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 指标收集器
type Metrics struct {
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	reservationTransitions *prometheus.CounterVec
	ledgerEntriesTotal     *prometheus.CounterVec
	sweepRunsTotal         *prometheus.CounterVec
	sweepProcessedTotal    *prometheus.CounterVec
	occupiedRooms          prometheus.Gauge
}

var defaultMetrics *Metrics

// Init 初始化指标收集器
func Init(namespace string) *Metrics {
	if namespace == "" {
		namespace = "salmiya_hotel"
	}

	m := &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		httpRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		reservationTransitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reservation_transitions_total",
				Help:      "Total number of reservation status transitions",
			},
			[]string{"from", "to"},
		),
		ledgerEntriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_entries_total",
				Help:      "Total number of ledger entries recorded",
			},
			[]string{"type", "status"},
		),
		sweepRunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sweep_runs_total",
				Help:      "Total number of reservation sweep runs",
			},
			[]string{"result"},
		),
		sweepProcessedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sweep_processed_total",
				Help:      "Total number of reservations processed by the sweep",
			},
			[]string{"action"},
		),
		occupiedRooms: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "occupied_rooms",
				Help:      "Current number of occupied rooms",
			},
		),
	}

	defaultMetrics = m
	return m
}

// Get 获取默认指标收集器
func Get() *Metrics {
	return defaultMetrics
}

// GinMiddleware 返回 HTTP 指标采集中间件
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.httpRequestsInFlight.Inc()

		c.Next()

		m.httpRequestsInFlight.Dec()
		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler 返回 Prometheus 抓取端点处理器
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordTransition 记录预订状态变更
func (m *Metrics) RecordTransition(from, to string) {
	m.reservationTransitions.WithLabelValues(from, to).Inc()
}

// RecordLedgerEntry 记录账务流水
func (m *Metrics) RecordLedgerEntry(entryType, status string) {
	m.ledgerEntriesTotal.WithLabelValues(entryType, status).Inc()
}

// RecordSweepRun 记录扫描任务执行
func (m *Metrics) RecordSweepRun(success bool) {
	result := "success"
	if !success {
		result = "error"
	}
	m.sweepRunsTotal.WithLabelValues(result).Inc()
}

// RecordSweepProcessed 记录扫描任务处理的预订数
func (m *Metrics) RecordSweepProcessed(action string, count int) {
	m.sweepProcessedTotal.WithLabelValues(action).Add(float64(count))
}

// SetOccupiedRooms 设置在住房间数
func (m *Metrics) SetOccupiedRooms(n int) {
	m.occupiedRooms.Set(float64(n))
}
