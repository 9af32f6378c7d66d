// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordCategoryCreated()
	RecordCategoryDeleted()
	RecordValidationFailure()
	RecordAuthFailure()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus        *prometheus.CounterVec
	requestLatency    prometheus.Histogram
	categoryCreated   prometheus.Counter
	categoryDeleted   prometheus.Counter
	validationFailure prometheus.Counter
	authFailure       prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todoapi_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "todoapi_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		categoryCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoapi_categories_created_total",
			Help: "作成されたカテゴリの合計数",
		}),
		categoryDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoapi_categories_deleted_total",
			Help: "削除されたカテゴリの合計数",
		}),
		validationFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoapi_validation_failures_total",
			Help: "入力バリデーション失敗の合計数",
		}),
		authFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoapi_auth_failures_total",
			Help: "認証失敗（401）の合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.categoryCreated,
		c.categoryDeleted,
		c.validationFailure,
		c.authFailure,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
// 401は認証失敗カウンタにも計上する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	if statusCode == http.StatusUnauthorized {
		c.authFailure.Inc()
	}
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordCategoryCreated はカテゴリ作成を記録する。
func (c *Collector) RecordCategoryCreated() {
	c.categoryCreated.Inc()
}

// RecordCategoryDeleted はカテゴリ削除を記録する。
func (c *Collector) RecordCategoryDeleted() {
	c.categoryDeleted.Inc()
}

// RecordValidationFailure は入力バリデーション失敗を記録する。
func (c *Collector) RecordValidationFailure() {
	c.validationFailure.Inc()
}

// RecordAuthFailure は認証失敗を記録する。
func (c *Collector) RecordAuthFailure() {
	c.authFailure.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
// ルーターが/metricsにマウントする。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
