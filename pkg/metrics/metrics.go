// Package metrics 提供基于Prometheus的指标收集框架
//
// 可观测性三支柱之一（Tracing、Metrics、Logging）：
// - **Tracing（追踪）**: 回答"为什么慢？"（见pkg/tracing）
// - **Metrics（指标）**: 回答"有多少？多快？"（本模块）
// - **Logging（日志）**: 回答"发生了什么？"
//
// # 核心概念
//
// **1. Counter（计数器）**：只增不减的累计值
//   - 示例：HTTP请求总数、借出总数、拒借总数
//
// **2. Gauge（仪表盘）**：可增可减的瞬时值
//   - 示例：正在处理的HTTP请求数
//
// **3. Histogram（直方图）**：观测值的分布
//   - 示例：HTTP请求耗时、滞纳金批处理耗时
//   - 特点：自动计算分位数（P50、P90、P99）
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
//	metrics.IncCounter(metrics.LoansIssuedTotal)
//	metrics.ObserveHistogram(metrics.LateFeeRunDuration, time.Since(start).Seconds())
//
// # 指标命名规范
//
// 1. **Counter**: 以`_total`结尾（loans_issued_total）
// 2. **Histogram**: 以单位结尾（late_fee_run_duration_seconds）
// 3. **Gauge**: 使用现在时态（http_requests_in_progress）
//
// 注意避免高基数标签：
//   - ❌ 不要用ISBN、member_no作为标签（基数无上限）
//   - ✅ 用method、status、outcome作为标签（有限个值）
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
	// 标签：method（GET/POST）、path（/api/v1/loans）、status（200/500）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 流通业务指标

	// LoansIssuedTotal 借出成功总数（Counter）
	LoansIssuedTotal prometheus.Counter

	// LoansDeclinedTotal 借出被拒总数（Counter）
	// 说明：图书已借出属于正常业务结果，单独计数便于观察拒借率
	LoansDeclinedTotal prometheus.Counter

	// LoansReturnedTotal 归还成功总数（Counter）
	LoansReturnedTotal prometheus.Counter

	// ReturnsDeclinedTotal 重复归还被拒总数（Counter）
	ReturnsDeclinedTotal prometheus.Counter

	// LateFeeRunsTotal 滞纳金批处理执行总数（Counter）
	// 标签：result（success/failure）
	LateFeeRunsTotal *prometheus.CounterVec

	// LateFeeUpdatedTotal 滞纳金更新记录总数（Counter）
	LateFeeUpdatedTotal prometheus.Counter

	// LateFeeRunDuration 滞纳金批处理耗时（Histogram）
	LateFeeRunDuration prometheus.Histogram

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数（Counter）
	// 标签：name（熔断器名称）、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange（交换机）、routing_key（路由键）
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数（Counter）
	// 标签：queue（队列名称）、result（success/failure）
	MessagesConsumedTotal *prometheus.CounterVec
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
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// 流通业务指标
	LoansIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loans_issued_total",
			Help: "借出成功总数",
		},
	)

	LoansDeclinedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loans_declined_total",
			Help: "借出被拒总数（图书已借出）",
		},
	)

	LoansReturnedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loans_returned_total",
			Help: "归还成功总数",
		},
	)

	ReturnsDeclinedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "returns_declined_total",
			Help: "重复归还被拒总数",
		},
	)

	LateFeeRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "late_fee_runs_total",
			Help: "滞纳金批处理执行总数",
		},
		[]string{"result"},
	)

	LateFeeUpdatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "late_fee_updated_total",
			Help: "滞纳金更新记录总数",
		},
	)

	LateFeeRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "late_fee_run_duration_seconds",
			Help: "滞纳金批处理耗时（秒）",
			// 批处理扫描全部在借记录，耗时范围较宽
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
	)

	// 熔断器指标
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	// 消息队列指标
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"},
	)
}

// 以下便捷函数均做nil保护：未调用InitMetrics时（如单元测试）静默跳过

// IncCounter 递增Counter（便捷函数）
func IncCounter(counter prometheus.Counter) {
	if counter == nil {
		return
	}
	counter.Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter == nil {
		return
	}
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Dec()
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gauge == nil {
		return
	}
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram == nil {
		return
	}
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram == nil {
		return
	}
	histogram.With(labels).Observe(value)
}
