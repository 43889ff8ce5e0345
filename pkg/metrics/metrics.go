// Package metrics 提供基于Prometheus的指标收集框架
//
// # 核心概念
//
// **1. Counter（计数器）**：只增不减的累计值
//   - 示例：HTTP请求总数、借出总数、归还总数
//
// **2. Gauge（仪表盘）**：可增可减的瞬时值
//   - 示例：正在处理的流转事务数
//
// **3. Histogram（直方图）**：观测值的分布
//   - 示例：借还事务耗时、报表查询耗时
//
// # 使用示例
//
//	// 1. 初始化Metrics
//	metrics.InitMetrics()
//
//	// 2. 在HTTP服务中暴露/metrics端点
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	// 3. 在业务代码中记录指标
//	func CheckOutBook(ctx context.Context) error {
//	    start := time.Now()
//	    if err := doCheckOut(ctx); err != nil {
//	        metrics.IncCounterVec(metrics.CirculationFailedTotal, map[string]string{
//	            "transition": "check_out", "reason": "invalid_state",
//	        })
//	        return err
//	    }
//	    metrics.IncCounter(metrics.CheckOutsTotal)
//	    metrics.ObserveHistogram(metrics.CirculationDuration, time.Since(start).Seconds())
//	    return nil
//	}
//
// # 命名规范
//
// 1. **Counter**: 以`_total`结尾（book_check_outs_total）
// 2. **Histogram**: 以单位结尾（circulation_duration_seconds）
// 3. **Gauge**: 使用现在时态（circulation_in_progress）
//
// 注意避免高基数标签：用transition/reason做标签，不要用book_id、reader_id。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（/api/books）、status（200/500）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
	HTTPRequestDuration *prometheus.HistogramVec

	// 流转业务指标

	// CheckOutsTotal 图书借出总数（Counter）
	CheckOutsTotal prometheus.Counter

	// ReturnsTotal 图书归还总数（Counter）
	ReturnsTotal prometheus.Counter

	// CirculationFailedTotal 流转失败总数（Counter）
	// 标签：transition（check_out/return）、reason（invalid_state/loan_limit/capacity/...）
	CirculationFailedTotal *prometheus.CounterVec

	// CirculationDuration 借还事务耗时（Histogram）
	CirculationDuration prometheus.Histogram

	// CirculationInProgress 正在处理的流转事务数（Gauge）
	CirculationInProgress prometheus.Gauge

	// 报表指标

	// ReportQueriesTotal 报表查询总数（Counter）
	// 标签：report（top_ten_books/books_on_hand/...）
	ReportQueriesTotal *prometheus.CounterVec

	// ReportQueryDuration 报表查询耗时（Histogram）
	ReportQueryDuration prometheus.Histogram
)

// InitMetrics 初始化所有Prometheus指标
//
// 必须在程序启动时调用一次，用于注册所有指标到全局Registry
//
// 设计要点：
// 1. 使用promauto.New*自动注册到默认Registry
// 2. Counter使用*Vec支持标签（多维度统计）
// 3. Histogram的Buckets根据业务场景定制
func InitMetrics() {
	// 防止重复初始化
	if initialized {
		return
	}
	initialized = true

	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"}, // 标签：方法、路径、状态码
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"}, // 标签：方法、路径
	)

	// 流转业务指标
	CheckOutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "book_check_outs_total",
			Help: "图书借出总数",
		},
	)

	ReturnsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "book_returns_total",
			Help: "图书归还总数",
		},
	)

	CirculationFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circulation_failed_total",
			Help: "流转失败总数",
		},
		[]string{"transition", "reason"}, // 标签：流转类型、失败原因
	)

	CirculationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "circulation_duration_seconds",
			Help: "借还事务耗时（秒）",
			// 借还是单库事务，通常较快
			// 桶设置：1ms、10ms、50ms、100ms、500ms、1s、5s
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	CirculationInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "circulation_in_progress",
			Help: "正在处理的流转事务数",
		},
	)

	// 报表指标
	ReportQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_queries_total",
			Help: "报表查询总数",
		},
		[]string{"report"}, // 标签：报表名称
	)

	ReportQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "report_query_duration_seconds",
			Help:    "报表查询耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
		},
	)
}

// IncCounter 递增Counter（便捷函数）
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	gauge.Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
