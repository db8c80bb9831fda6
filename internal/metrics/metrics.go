// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// アップストリーム呼び出しと認証操作の結果を記録する。
type Collector struct {
	upstreamRequests *prometheus.CounterVec
	upstreamStatus   *prometheus.CounterVec
	upstreamLatency  prometheus.Histogram
	authOperations   *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsgate_upstream_requests_total",
			Help: "ニュースプロバイダへのリクエスト数（エンドポイント別）",
		}, []string{"endpoint"}),
		upstreamStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsgate_upstream_status_total",
			Help: "ニュースプロバイダのHTTPステータスコード別レスポンス数",
		}, []string{"status_code"}),
		upstreamLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "newsgate_upstream_latency_seconds",
			Help:    "ニュースプロバイダ呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		authOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsgate_auth_operations_total",
			Help: "認証操作の実行数（操作・結果別）",
		}, []string{"op", "result"}),
	}

	reg.MustRegister(
		c.upstreamRequests,
		c.upstreamStatus,
		c.upstreamLatency,
		c.authOperations,
	)

	return c
}

// RecordUpstreamRequest はアップストリーム呼び出しを記録する。
func (c *Collector) RecordUpstreamRequest(endpoint string) {
	c.upstreamRequests.WithLabelValues(endpoint).Inc()
}

// RecordUpstreamStatus はアップストリームのHTTPステータスコードを記録する。
func (c *Collector) RecordUpstreamStatus(statusCode int) {
	c.upstreamStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordUpstreamLatency はアップストリーム呼び出しのレイテンシを記録する。
func (c *Collector) RecordUpstreamLatency(duration time.Duration) {
	c.upstreamLatency.Observe(duration.Seconds())
}

// RecordAuthOperation は認証操作の結果を記録する。
func (c *Collector) RecordAuthOperation(op, result string) {
	c.authOperations.WithLabelValues(op, result).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
