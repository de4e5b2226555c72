package circulation

import (
	"context"
)

// TxManager 事务管理器接口
// 设计说明:
// 1. 应用层只依赖接口,mysql.TxManager是生产实现
// 2. 单元测试注入内存实现(串行化的互斥锁事务),
//    使借出互斥性等并发属性可以在无数据库环境下验证
type TxManager interface {
	// Transaction 在单个事务中执行fn
	// fn内通过传入的context访问事务连接,返回error则整体回滚
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher 事件发布接口
// 实现方负责熔断保护与降级,Publish失败绝不影响流通操作的结果
type EventPublisher interface {
	Publish(routingKey string, message interface{}) error
}

// BookCache 图书详情缓存接口
// 借出/归还翻转状态后需要失效对应ISBN的缓存条目
type BookCache interface {
	DeleteBookDetail(ctx context.Context, isbn string) error
}

// =========================================
// 领域事件(发布到library.events交换机)
// =========================================

// LoanIssuedEvent 借出成功事件(routing key: loan.issued)
type LoanIssuedEvent struct {
	IssueNo   string `json:"issue_no"`
	MemberNo  string `json:"member_no"`
	ISBN      string `json:"isbn"`
	BookTitle string `json:"book_title"`
	EmpNo     string `json:"emp_no"`
	IssueDate string `json:"issue_date"`
}

// LoanReturnedEvent 归还成功事件(routing key: loan.returned)
type LoanReturnedEvent struct {
	ReturnNo   string `json:"return_no"`
	IssueNo    string `json:"issue_no"`
	ISBN       string `json:"isbn"`
	BookTitle  string `json:"book_title"`
	ReturnDate string `json:"return_date"`
	LateFee    int64  `json:"late_fee"` // 归还时点的冻结滞纳金(分)
}

// FeesAssessedEvent 滞纳金批处理完成事件(routing key: fees.assessed)
type FeesAssessedEvent struct {
	Scanned  int    `json:"scanned"`  // 扫描的未归还借阅数
	Updated  int    `json:"updated"`  // 成功回写的记录数
	Skipped  int    `json:"skipped"`  // 扫描期间被归还而跳过的记录数
	Failed   int    `json:"failed"`   // 回写失败的记录数
	AssessAt string `json:"assess_at"`
}

// 流通操作结果
const (
	// OutcomeOK 操作成功
	OutcomeOK = "ok"
	// OutcomeDeclined 被业务策略拒绝(图书已借出/借阅已归还)
	// 注意:这是正常业务结果,不是错误
	OutcomeDeclined = "declined"
)
