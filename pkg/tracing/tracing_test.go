package tracing

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// TestInitTracer 测试Tracer初始化
func TestInitTracer(t *testing.T) {
	t.Run("成功初始化Tracer", func(t *testing.T) {
		// 初始化Tracer（Exporter是惰性连接，无需真实Collector）
		shutdown, err := InitTracer("test-service", "localhost:4317")
		if err != nil {
			t.Fatalf("初始化Tracer失败: %v", err)
		}
		defer func() {
			_ = shutdown(context.Background())
		}()

		// 验证全局TracerProvider已设置
		tracer := otel.Tracer("test")
		if tracer == nil {
			t.Error("全局TracerProvider未设置")
		}
	})
}

// TestStartSpan 测试Span创建
func TestStartSpan(t *testing.T) {
	shutdown, err := InitTracer("test-service", "localhost:4317")
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	t.Run("创建根Span", func(t *testing.T) {
		ctx := context.Background()

		ctx, span := StartSpan(ctx, "test-service", "TestOperation")
		defer span.End()
		_ = ctx

		if !span.SpanContext().IsValid() {
			t.Error("Span无效")
		}

		traceID := span.SpanContext().TraceID().String()
		if traceID == "" || traceID == "00000000000000000000000000000000" {
			t.Errorf("TraceID无效: %s", traceID)
		}
	})

	t.Run("创建子Span", func(t *testing.T) {
		ctx := context.Background()

		ctx, rootSpan := StartSpan(ctx, "test-service", "RootOperation")
		defer rootSpan.End()

		rootTraceID := rootSpan.SpanContext().TraceID().String()
		rootSpanID := rootSpan.SpanContext().SpanID().String()

		_, childSpan := StartSpan(ctx, "test-service", "ChildOperation")
		defer childSpan.End()

		// 验证子Span继承了根Span的TraceID
		childTraceID := childSpan.SpanContext().TraceID().String()
		if childTraceID != rootTraceID {
			t.Errorf("子Span的TraceID不匹配: root=%s, child=%s", rootTraceID, childTraceID)
		}

		// 验证子Span有不同的SpanID
		childSpanID := childSpan.SpanContext().SpanID().String()
		if childSpanID == rootSpanID {
			t.Error("子Span的SpanID不应与根Span相同")
		}
	})
}

// TestExtractTraceID 测试TraceID提取
func TestExtractTraceID(t *testing.T) {
	shutdown, err := InitTracer("test-service", "localhost:4317")
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	t.Run("从有效Context提取TraceID", func(t *testing.T) {
		ctx := context.Background()
		ctx, span := StartSpan(ctx, "test-service", "TestExtract")
		defer span.End()

		traceID := ExtractTraceID(ctx)
		if traceID == "" {
			t.Error("TraceID为空")
		}

		// TraceID为32位十六进制
		if len(traceID) != 32 {
			t.Errorf("TraceID长度错误: expected=32, got=%d", len(traceID))
		}
	})

	t.Run("从无效Context提取TraceID", func(t *testing.T) {
		traceID := ExtractTraceID(context.Background())
		if traceID != "" {
			t.Errorf("期望空字符串，实际: %s", traceID)
		}
	})
}

// TestExtractSpanID 测试SpanID提取
func TestExtractSpanID(t *testing.T) {
	shutdown, err := InitTracer("test-service", "localhost:4317")
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	ctx := context.Background()
	ctx, span := StartSpan(ctx, "test-service", "TestExtractSpanID")
	defer span.End()

	spanID := ExtractSpanID(ctx)
	if len(spanID) != 16 {
		t.Errorf("SpanID长度错误: expected=16, got=%d", len(spanID))
	}
}

// TestRealWorldScenario 真实场景：模拟借书流程的调用链
func TestRealWorldScenario(t *testing.T) {
	shutdown, err := InitTracer("test-service", "localhost:4317")
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	ctx := context.Background()

	if err := issueBook(ctx, "9787115428028", "M001"); err != nil {
		t.Errorf("借书流程失败: %v", err)
	}
}

// 模拟业务函数：借书
func issueBook(ctx context.Context, isbn, memberNo string) error {
	ctx, span := StartSpan(ctx, "test-service", "IssueBook")
	defer span.End()

	span.SetAttributes(
		attribute.String("isbn", isbn),
		attribute.String("member_no", memberNo),
	)

	// 步骤1：锁定图书行
	if err := lockBook(ctx, isbn); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	// 步骤2：写入借阅记录
	if err := saveLoan(ctx, isbn, memberNo); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "借出成功")
	return nil
}

func lockBook(ctx context.Context, isbn string) error {
	_, span := StartSpan(ctx, "test-service", "LockBook")
	defer span.End()

	span.SetAttributes(attribute.String("isbn", isbn))

	// 模拟数据库行锁耗时
	time.Sleep(10 * time.Millisecond)

	span.SetStatus(codes.Ok, "行锁获取成功")
	return nil
}

func saveLoan(ctx context.Context, isbn, memberNo string) error {
	_, span := StartSpan(ctx, "test-service", "SaveLoan")
	defer span.End()

	span.SetAttributes(
		attribute.String("isbn", isbn),
		attribute.String("member_no", memberNo),
	)

	// 模拟数据库写入耗时
	time.Sleep(20 * time.Millisecond)

	span.SetStatus(codes.Ok, "借阅记录写入成功")
	return nil
}
