package circulation

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// AssessLateFeesUseCase 滞纳金批处理用例
// 设计说明:
// 1. 纯批量重算,不是增量触发:扫描全部未归还借阅,逐条计算并回写
// 2. 批次整体不要求原子:单条失败记日志继续,不中断批次
// 3. 回写带"仍未归还"守卫:扫描期间提交的归还只会导致该条跳过,
//    绝不会覆盖已闭合借阅的冻结滞纳金
// 4. 幂等:同一天重复执行产生相同的滞纳金值
// 5. 由外部调度器周期性触发(如每日一次),这里只提供执行入口
type AssessLateFeesUseCase struct {
	loanRepo loan.Repository
	policy   loan.FeePolicy
	events   EventPublisher
	now      func() time.Time
}

// NewAssessLateFeesUseCase 创建滞纳金批处理用例
// events允许为nil
func NewAssessLateFeesUseCase(loanRepo loan.Repository, policy loan.FeePolicy, events EventPublisher) *AssessLateFeesUseCase {
	return &AssessLateFeesUseCase{
		loanRepo: loanRepo,
		policy:   policy,
		events:   events,
		now:      time.Now,
	}
}

// AssessLateFeesResponse 批处理结果摘要
type AssessLateFeesResponse struct {
	Scanned  int    `json:"scanned"`   // 扫描的未归还借阅数
	Updated  int    `json:"updated"`   // 成功回写的记录数
	Skipped  int    `json:"skipped"`   // 扫描期间被归还而跳过的记录数
	Failed   int    `json:"failed"`    // 回写失败的记录数
	AssessAt string `json:"assess_at"` // 评估时点
}

// Execute 执行滞纳金批处理
//
// 计费规则(参考策略:宽限30天,超期每天50分):
//   - elapsed = 整天数(今天 - 借出日期)
//   - elapsed <= 30: 滞纳金 = 0
//   - elapsed >  30: 滞纳金 = (elapsed - 30) × 50分
//
// 并发契约:
//   - 扫描是一个快照(LEFT JOIN反连接取未归还借阅)
//   - 每条回写独立执行:UPDATE ... AND NOT EXISTS(归还记录)
//   - 与returnBook并发:归还先提交 → 本条回写不命中,计入skipped
//
// 注意:归还不触发重算——借阅在第45天归还时,滞纳金保持最后一次
// 批处理评估的值(如果批处理从未在第30天后运行过,则为0)。
// 这是刻意保留的策略行为,不是缺陷。
func (uc *AssessLateFeesUseCase) Execute(ctx context.Context) (*AssessLateFeesResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "library-circulation", "AssessLateFees")
	defer span.End()

	start := time.Now()
	today := uc.now()

	// 1. 快照全部未归还借阅
	openLoans, err := uc.loanRepo.FindOpenLoans(ctx)
	if err != nil {
		metrics.IncCounterVec(metrics.LateFeeRunsTotal, map[string]string{"result": "failure"})
		return nil, err
	}

	result := &AssessLateFeesResponse{
		Scanned:  len(openLoans),
		AssessAt: today.Format("2006-01-02 15:04:05"),
	}

	// 2. 逐条计算并回写(部分失败容忍)
	for _, l := range openLoans {
		fee := uc.policy.LateFeeFor(l.IssueDate, today)

		updated, err := uc.loanRepo.UpdateLateFeeIfOpen(ctx, l.ID, fee)
		if err != nil {
			// 单条失败不中断批次
			log.Printf("[ERROR] 滞纳金回写失败: issue_no=%s, err=%v", l.IssueNo, err)
			result.Failed++
			continue
		}
		if !updated {
			// 扫描后被归还,守卫UPDATE未命中
			result.Skipped++
			continue
		}
		result.Updated++
		metrics.IncCounter(metrics.LateFeeUpdatedTotal)
	}

	// 3. 记录批处理指标
	metrics.ObserveHistogram(metrics.LateFeeRunDuration, time.Since(start).Seconds())
	metrics.IncCounterVec(metrics.LateFeeRunsTotal, map[string]string{"result": "success"})

	// 4. 发布批处理完成事件(尽力而为)
	if uc.events != nil {
		event := FeesAssessedEvent{
			Scanned:  result.Scanned,
			Updated:  result.Updated,
			Skipped:  result.Skipped,
			Failed:   result.Failed,
			AssessAt: result.AssessAt,
		}
		if err := uc.events.Publish("fees.assessed", event); err != nil {
			log.Printf("[WARN] 滞纳金批处理事件发布降级: %v", err)
		}
	}

	log.Printf("滞纳金批处理完成: scanned=%d, updated=%d, skipped=%d, failed=%d, elapsed=%s",
		result.Scanned, result.Updated, result.Skipped, result.Failed, time.Since(start))

	return result, nil
}
