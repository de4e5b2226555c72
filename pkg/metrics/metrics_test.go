package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestInitMetrics 测试指标初始化
func TestInitMetrics(t *testing.T) {
	// 初始化指标
	InitMetrics()

	// 验证所有指标已创建
	if HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal未初始化")
	}
	if HTTPRequestDuration == nil {
		t.Error("HTTPRequestDuration未初始化")
	}
	if LoansIssuedTotal == nil {
		t.Error("LoansIssuedTotal未初始化")
	}
	if LateFeeRunDuration == nil {
		t.Error("LateFeeRunDuration未初始化")
	}
}

// TestInitMetrics_Idempotent 测试重复初始化不会panic
// 说明：promauto重复注册同名指标会panic，InitMetrics必须幂等
func TestInitMetrics_Idempotent(t *testing.T) {
	InitMetrics()
	InitMetrics() // 第二次调用应被忽略
}

// TestCounter 测试Counter指标
func TestCounter(t *testing.T) {
	InitMetrics()

	before := getCounterValue(t, LoansIssuedTotal)

	// 递增3次
	IncCounter(LoansIssuedTotal)
	IncCounter(LoansIssuedTotal)
	IncCounter(LoansIssuedTotal)

	after := getCounterValue(t, LoansIssuedTotal)
	if after-before != 3 {
		t.Errorf("Counter增量错误: expected=3, got=%f", after-before)
	}
}

// TestCounterVec 测试带标签的Counter
func TestCounterVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"result": "success"}
	IncCounterVec(LateFeeRunsTotal, labels)
	IncCounterVec(LateFeeRunsTotal, labels)

	value := getCounterVecValue(t, LateFeeRunsTotal, labels)
	if value < 2 {
		t.Errorf("CounterVec值错误: expected>=2, got=%f", value)
	}
}

// TestGauge 测试Gauge指标
func TestGauge(t *testing.T) {
	InitMetrics()

	before := getGaugeValue(t, HTTPRequestsInProgress)

	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	DecGauge(HTTPRequestsInProgress)

	after := getGaugeValue(t, HTTPRequestsInProgress)
	if after-before != 1 {
		t.Errorf("Gauge增量错误: expected=1, got=%f", after-before)
	}
}

// TestHistogram 测试Histogram指标
func TestHistogram(t *testing.T) {
	InitMetrics()

	ObserveHistogram(LateFeeRunDuration, 0.05)
	ObserveHistogram(LateFeeRunDuration, 0.5)

	// Histogram无法直接读取值，只验证不panic
}

// =========================================
// 辅助函数：读取指标当前值
// =========================================

func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := counter.Write(&m); err != nil {
		t.Fatalf("读取Counter失败: %v", err)
	}
	return m.GetCounter().GetValue()
}

func getCounterVecValue(t *testing.T, vec *prometheus.CounterVec, labels map[string]string) float64 {
	t.Helper()
	var m dto.Metric
	if err := vec.With(labels).Write(&m); err != nil {
		t.Fatalf("读取CounterVec失败: %v", err)
	}
	return m.GetCounter().GetValue()
}

func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := gauge.Write(&m); err != nil {
		t.Fatalf("读取Gauge失败: %v", err)
	}
	return m.GetGauge().GetValue()
}
