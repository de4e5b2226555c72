package circulation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/loan"
)

// newAssessUC 创建固定"今天"的批处理用例(便于时间推进测试)
func newAssessUC(f *fixture, today time.Time) *AssessLateFeesUseCase {
	uc := NewAssessLateFeesUseCase(f.loanRepo, loan.DefaultFeePolicy, f.publisher)
	uc.now = func() time.Time { return today }
	return uc
}

// TestAssessLateFees 测试滞纳金批处理
func TestAssessLateFees(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2026, 8, 29, 2, 0, 0, 0, time.Local)

	t.Run("借出40天的未归还借阅计费5元", func(t *testing.T) {
		f := newFixture()
		l := f.store.seedOpenLoan("I001", "M001", "ISBN-1", "E001", today.AddDate(0, 0, -40))

		uc := newAssessUC(f, today)
		resp, err := uc.Execute(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, resp.Scanned)
		assert.Equal(t, 1, resp.Updated)
		assert.Equal(t, 0, resp.Skipped)
		assert.Equal(t, 0, resp.Failed)

		// (40-30) × 50分 = 500分
		got, _ := f.loanRepo.FindByIssueNo(ctx, "I001")
		assert.Equal(t, int64(500), got.LateFee)
		_ = l

		// 批处理完成事件已发布
		assert.Equal(t, []string{"fees.assessed"}, f.publisher.routingKeys())
	})

	t.Run("宽限期内滞纳金为0", func(t *testing.T) {
		f := newFixture()
		f.store.seedOpenLoan("I001", "M001", "ISBN-1", "E001", today.AddDate(0, 0, -10))
		f.store.seedOpenLoan("I002", "M002", "ISBN-2", "E001", today.AddDate(0, 0, -30))

		uc := newAssessUC(f, today)
		resp, err := uc.Execute(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, resp.Updated)

		l1, _ := f.loanRepo.FindByIssueNo(ctx, "I001")
		l2, _ := f.loanRepo.FindByIssueNo(ctx, "I002")
		assert.Equal(t, int64(0), l1.LateFee)
		assert.Equal(t, int64(0), l2.LateFee, "恰好30天仍在宽限期内")
	})

	t.Run("同一天重复执行结果幂等", func(t *testing.T) {
		f := newFixture()
		f.store.seedOpenLoan("I001", "M001", "ISBN-1", "E001", today.AddDate(0, 0, -45))

		uc := newAssessUC(f, today)

		_, err := uc.Execute(ctx)
		require.NoError(t, err)
		first, _ := f.loanRepo.FindByIssueNo(ctx, "I001")

		_, err = uc.Execute(ctx)
		require.NoError(t, err)
		second, _ := f.loanRepo.FindByIssueNo(ctx, "I001")

		assert.Equal(t, first.LateFee, second.LateFee, "同日重跑产生相同的滞纳金")
		assert.Equal(t, int64(750), second.LateFee) // (45-30) × 50
	})

	t.Run("时间推进后滞纳金单调递增", func(t *testing.T) {
		f := newFixture()
		f.store.seedOpenLoan("I001", "M001", "ISBN-1", "E001", today.AddDate(0, 0, -35))

		// 第一天:超期5天
		_, err := newAssessUC(f, today).Execute(ctx)
		require.NoError(t, err)
		day1, _ := f.loanRepo.FindByIssueNo(ctx, "I001")
		assert.Equal(t, int64(250), day1.LateFee)

		// 十天后:超期15天
		_, err = newAssessUC(f, today.AddDate(0, 0, 10)).Execute(ctx)
		require.NoError(t, err)
		day11, _ := f.loanRepo.FindByIssueNo(ctx, "I001")
		assert.Equal(t, int64(750), day11.LateFee)
		assert.GreaterOrEqual(t, day11.LateFee, day1.LateFee)
	})

	t.Run("已归还借阅不在扫描范围,冻结值不被改动", func(t *testing.T) {
		f := newFixture()
		f.store.seedBook("ISBN-1", "Go语言实战")
		l := f.store.seedOpenLoan("I001", "M001", "ISBN-1", "E001", today.AddDate(0, 0, -40))

		// 批处理回写500分后归还,值被冻结
		_, err := newAssessUC(f, today).Execute(ctx)
		require.NoError(t, err)
		_, err = f.returnUC.Execute(ctx, ReturnBookRequest{ReturnNo: "R001", IssueNo: "I001"})
		require.NoError(t, err)

		// 再过十天重跑批处理
		resp, err := newAssessUC(f, today.AddDate(0, 0, 10)).Execute(ctx)
		require.NoError(t, err)

		assert.Equal(t, 0, resp.Scanned, "已归还借阅不进入扫描快照")

		got, _ := f.loanRepo.FindByIssueNo(ctx, "I001")
		assert.Equal(t, int64(500), got.LateFee, "冻结在归还前最后一次评估的值")
		_ = l
	})

	t.Run("回写守卫:扫描后被归还的借阅计入skipped", func(t *testing.T) {
		f := newFixture()
		l := f.store.seedOpenLoan("I001", "M001", "ISBN-1", "E001", today.AddDate(0, 0, -40))

		// 直接验证守卫语义:归还记录存在时回写不命中
		record := loan.NewReturnRecord("R001", l.ID, "ISBN-1", "Go语言实战", today)
		require.NoError(t, f.loanRepo.CreateReturn(ctx, record))

		updated, err := f.loanRepo.UpdateLateFeeIfOpen(ctx, l.ID, 9999)
		require.NoError(t, err)
		assert.False(t, updated, "闭合借阅的守卫UPDATE不应命中")

		got, _ := f.loanRepo.FindByIssueNo(ctx, "I001")
		assert.Equal(t, int64(0), got.LateFee, "冻结值未被覆盖")
	})

	t.Run("空扫描正常完成", func(t *testing.T) {
		f := newFixture()

		resp, err := newAssessUC(f, today).Execute(ctx)

		require.NoError(t, err)
		assert.Equal(t, 0, resp.Scanned)
		assert.Equal(t, 0, resp.Updated)
	})
}
