package loan

import (
	"time"
)

// Loan 借阅记录实体(聚合根)
// DDD设计说明:
// 1. IssueNo是业务主键(借阅单号),由借还台调用方提供,数据库UNIQUE索引保证唯一
// 2. 同一ISBN同一时刻至多存在一条未归还的Loan——该不变式由借出流程的
//    "锁行-检查-插入"保证,而非ISBN列上的唯一约束(历史上允许同一ISBN多次借出)
// 3. LateFee由滞纳金批处理回写,归还后冻结(归还不触发重算)
type Loan struct {
	ID        uint
	IssueNo   string    // 借阅单号(业务主键,全局唯一)
	MemberNo  string    // 借书证号
	ISBN      string    // 图书ISBN
	EmpNo     string    // 经办馆员工号
	IssueDate time.Time // 借出日期
	LateFee   int64     // 滞纳金(单位:分,默认0,由批处理评估)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewLoan 创建新借阅记录(工厂方法)
// 借出日期取当天,滞纳金初始为0
func NewLoan(issueNo, memberNo, isbn, empNo string, issueDate time.Time) *Loan {
	now := time.Now()
	return &Loan{
		IssueNo:   issueNo,
		MemberNo:  memberNo,
		ISBN:      isbn,
		EmpNo:     empNo,
		IssueDate: issueDate,
		LateFee:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ReturnRecord 归还记录实体
// 设计说明:
// 1. ReturnNo是业务主键(归还单号)
// 2. LoanID唯一索引保证一条借阅至多一条归还(1:0..1)
// 3. ISBN和BookTitle是归还时点的冗余快照,创建后不可变
type ReturnRecord struct {
	ID         uint
	ReturnNo   string    // 归还单号(业务主键,全局唯一)
	LoanID     uint      // 所闭合的借阅记录ID(唯一)
	ISBN       string    // 归还时点的ISBN快照
	BookTitle  string    // 归还时点的书名快照
	ReturnDate time.Time // 归还日期
	CreatedAt  time.Time
}

// NewReturnRecord 创建归还记录(工厂方法)
func NewReturnRecord(returnNo string, loanID uint, isbn, bookTitle string, returnDate time.Time) *ReturnRecord {
	return &ReturnRecord{
		ReturnNo:   returnNo,
		LoanID:     loanID,
		ISBN:       isbn,
		BookTitle:  bookTitle,
		ReturnDate: returnDate,
		CreatedAt:  time.Now(),
	}
}

// FeePolicy 滞纳金策略
// 参考策略:宽限期30天,超期每天50分(0.50元)
type FeePolicy struct {
	GraceDays    int   // 宽限天数(借出后N天内免费)
	DailyRateFen int64 // 超期日费率(单位:分/天)
}

// DefaultFeePolicy 参考默认策略
var DefaultFeePolicy = FeePolicy{
	GraceDays:    30,
	DailyRateFen: 50,
}

// LateFeeFor 计算指定借出日期在today时点的滞纳金
// 规则:
//   - elapsed = 整天数(today - issueDate),不足一天不计
//   - elapsed <= GraceDays: 0
//   - elapsed >  GraceDays: (elapsed - GraceDays) × DailyRateFen
//
// 注意:按自然日计算,借出当天不论几点都算第0天
func (p FeePolicy) LateFeeFor(issueDate, today time.Time) int64 {
	elapsed := elapsedDays(issueDate, today)
	if elapsed <= p.GraceDays {
		return 0
	}
	return int64(elapsed-p.GraceDays) * p.DailyRateFen
}

// elapsedDays 计算两个时间点之间的整天数(按自然日)
func elapsedDays(from, to time.Time) int {
	fromDate := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	toDate := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location())
	return int(toDate.Sub(fromDate).Hours() / 24)
}
