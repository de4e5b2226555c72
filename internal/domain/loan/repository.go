package loan

import (
	"context"
	"time"
)

// Repository 借阅仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 借出/归还要求事务内操作(通过TxManager传递的context)
// 3. 滞纳金批处理的回写带"仍未归还"守卫,防止覆盖已闭合借阅的冻结值
type Repository interface {
	// Create 创建借阅记录
	// 注意:如果借阅单号已存在,应返回ErrIssueNoDuplicate
	Create(ctx context.Context, loan *Loan) error

	// FindByIssueNo 根据借阅单号查找借阅记录
	// 如果不存在,返回ErrLoanNotFound
	FindByIssueNo(ctx context.Context, issueNo string) (*Loan, error)

	// LockByIssueNo 悲观锁查询借阅记录(用于归还流程)
	// 使用SELECT FOR UPDATE锁定行,防止并发重复归还
	// 必须在事务中调用
	LockByIssueNo(ctx context.Context, issueNo string) (*Loan, error)

	// HasReturn 检查借阅记录是否已有归还记录
	HasReturn(ctx context.Context, loanID uint) (bool, error)

	// CreateReturn 创建归还记录
	// 注意:如果归还单号已存在,应返回ErrReturnNoDuplicate
	CreateReturn(ctx context.Context, record *ReturnRecord) error

	// FindOpenLoans 查询全部未归还借阅(滞纳金批处理的扫描快照)
	// 实现为LEFT JOIN反连接:不存在对应return_records行的loans
	FindOpenLoans(ctx context.Context) ([]*Loan, error)

	// UpdateLateFeeIfOpen 回写滞纳金,仅当借阅仍未归还
	// 返回值:true表示回写成功;false表示借阅已在扫描后被归还,跳过
	// 守卫UPDATE(... AND NOT EXISTS(return))保证扫描期间提交的归还
	// 只会导致本条跳过,绝不会覆盖闭合借阅的冻结滞纳金
	UpdateLateFeeIfOpen(ctx context.Context, loanID uint, lateFee int64) (bool, error)

	// CountByISBN 统计指定ISBN的历史借阅次数(含已归还)
	// 用于删除图书前的引用检查
	CountByISBN(ctx context.Context, isbn string) (int64, error)

	// FindOverdue 查询借出日期早于cutoff且未归还的借阅(只读报表路径)
	FindOverdue(ctx context.Context, cutoff time.Time) ([]*Loan, error)

	// ListByMemberNo 查询读者的借阅历史(分页)
	ListByMemberNo(ctx context.Context, memberNo string, page, pageSize int) ([]*Loan, int64, error)
}
