// Package metrics Prometheus 指标定义
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 服务指标集合
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// 登录
	OTPEventsTotal *prometheus.CounterVec

	// 存储（由定时任务刷新）
	ShopsStored      prometheus.Gauge
	DevicesSeen      prometheus.Gauge
	PendingLogins    prometheus.Gauge
	InquiriesStatus  *prometheus.GaugeVec
	CommunityPosts   prometheus.Gauge
	StatsRefreshedAt prometheus.Gauge
}

// New 在 reg 上注册全部指标，prefix 为指标名前缀
func New(reg prometheus.Registerer, prefix string) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		OTPEventsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_otp_events_total",
				Help: "OTP login events by type",
			},
			[]string{"event"},
		),
		ShopsStored: f.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_shops_stored",
			Help: "Shop records across all device namespaces",
		}),
		DevicesSeen: f.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_devices_with_session",
			Help: "Device namespaces holding a login flag",
		}),
		PendingLogins: f.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_pending_logins",
			Help: "In-flight OTP login attempts",
		}),
		InquiriesStatus: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: prefix + "_inquiries",
				Help: "Inquiries by status",
			},
			[]string{"status"},
		),
		CommunityPosts: f.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_community_posts",
			Help: "Community posts",
		}),
		StatsRefreshedAt: f.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_stats_refreshed_timestamp_seconds",
			Help: "Unix time of the last stats refresh",
		}),
	}
}

// OTP 事件
const (
	OTPEventSent     = "sent"
	OTPEventResent   = "resent"
	OTPEventVerified = "verified"
	OTPEventMismatch = "mismatch"
)

// RecordOTP 记录一次登录事件，m 为 nil 时忽略
func (m *Metrics) RecordOTP(event string) {
	if m == nil {
		return
	}
	m.OTPEventsTotal.WithLabelValues(event).Inc()
}

// ObserveHTTP 记录一次 HTTP 请求
func (m *Metrics) ObserveHTTP(method, path, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(elapsed.Seconds())
}
