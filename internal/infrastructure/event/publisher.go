package event

import (
	"fmt"
	"time"

	"github.com/xiebiao/library/pkg/circuitbreaker"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/mq"
)

// Publisher 领域事件发布器
// 设计说明:
// 1. 包装pkg/mq.Publisher,加上熔断器保护:RabbitMQ故障时快速失败,
//    不让借还台操作被消息发布拖慢
// 2. 事件发布是尽力而为:失败只影响下游订阅方(通知、统计),
//    不影响借还事务的正确性
// 3. publisher允许为nil(未部署RabbitMQ的环境),此时发布为空操作
type Publisher struct {
	publisher *mq.Publisher
	breaker   *circuitbreaker.CircuitBreaker
	exchange  string
}

// NewPublisher 创建事件发布器
// mqPublisher传nil表示事件发布关闭
func NewPublisher(mqPublisher *mq.Publisher, exchange string) *Publisher {
	breaker := circuitbreaker.NewCircuitBreaker("event-publisher", circuitbreaker.Config{
		MaxRequests: 3,                // 半开状态允许3个探测请求
		Interval:    10 * time.Second, // 统计窗口10秒
		Timeout:     30 * time.Second, // 熔断30秒后尝试恢复
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			// 连续失败5次打开熔断器
			return counts.ConsecutiveFailures >= 5
		},
	})

	// 状态变化时更新监控指标
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		fmt.Printf("[WARN] 熔断器[%s]状态变化: %s -> %s\n", name, from, to)
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
	})

	return &Publisher{
		publisher: mqPublisher,
		breaker:   breaker,
		exchange:  exchange,
	}
}

// Publish 发布领域事件
// 实现application层的EventPublisher接口
func (p *Publisher) Publish(routingKey string, message interface{}) error {
	if p == nil || p.publisher == nil {
		// 事件发布关闭,空操作
		return nil
	}

	err := p.breaker.Execute(func() error {
		return p.publisher.Publish(routingKey, message)
	})

	if err != nil {
		metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{
			"name":   "event-publisher",
			"result": "failure",
		})
		return err
	}

	metrics.IncCounterVec(metrics.MessagesPublishedTotal, map[string]string{
		"exchange":    p.exchange,
		"routing_key": routingKey,
	})
	return nil
}
