package circulation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// ReturnBookUseCase 归还图书用例
// 设计说明:
// 1. 与借出对称:锁定借阅记录 → 检查是否已归还 → 插入归还记录 → 状态置回在架
// 2. 状态无条件置回"在架":借阅唯一性不变式保证同一ISBN不存在其他未归还借阅
// 3. 归还不重算滞纳金:记录上的值冻结为最后一次批处理的评估结果
type ReturnBookUseCase struct {
	loanRepo  loan.Repository
	bookRepo  book.Repository
	txManager TxManager
	events    EventPublisher
	cache     BookCache
	now       func() time.Time
}

// NewReturnBookUseCase 创建归还用例
// events和cache允许为nil(单元测试/降级运行)
func NewReturnBookUseCase(
	loanRepo loan.Repository,
	bookRepo book.Repository,
	txManager TxManager,
	events EventPublisher,
	cache BookCache,
) *ReturnBookUseCase {
	return &ReturnBookUseCase{
		loanRepo:  loanRepo,
		bookRepo:  bookRepo,
		txManager: txManager,
		events:    events,
		cache:     cache,
		now:       time.Now,
	}
}

// ReturnBookRequest 归还请求DTO
type ReturnBookRequest struct {
	ReturnNo string // 归还单号(调用方提供,全局唯一)
	IssueNo  string // 要归还的借阅单号
}

// ReturnBookResponse 归还响应DTO
type ReturnBookResponse struct {
	Outcome    string `json:"outcome"`
	Message    string `json:"message"`
	ReturnNo   string `json:"return_no,omitempty"`
	IssueNo    string `json:"issue_no"`
	ISBN       string `json:"isbn"`
	BookTitle  string `json:"book_title"`
	ReturnDate string `json:"return_date,omitempty"`
	LateFee    int64  `json:"late_fee"` // 冻结的滞纳金(分)
}

// Execute 执行归还用例
//
// 流程(单事务):
//  1. SELECT FOR UPDATE 锁定借阅记录行
//  2. 检查是否已有归还记录(已归还 → 拒绝,不是错误)
//  3. 查图书取书名快照,插入归还记录
//  4. 图书状态无条件置回"在架"
//  5. COMMIT释放锁
//
// 并发场景:两个终端同时归还同一借阅单,后拿到锁的观察到
// 归还记录已存在,被拒绝——归还记录的1:0..1不变式不会被破坏
func (uc *ReturnBookUseCase) Execute(ctx context.Context, req ReturnBookRequest) (*ReturnBookResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "library-circulation", "ReturnBook")
	defer span.End()

	var (
		returnedLoan *loan.Loan
		returnedBook *book.Book
		declined     bool
	)
	returnDate := uc.now()

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// ========================================
		// 步骤1:锁定借阅记录(悲观锁,防止并发重复归还)
		// ========================================
		l, err := uc.loanRepo.LockByIssueNo(txCtx, req.IssueNo)
		if err != nil {
			return err // 借阅单不存在 → ErrLoanNotFound(ValidationError)
		}
		returnedLoan = l

		// ========================================
		// 步骤2:检查是否已归还
		// ========================================
		// 已归还是"策略拒绝",不做任何改动,正常提交空事务
		returned, err := uc.loanRepo.HasReturn(txCtx, l.ID)
		if err != nil {
			return err
		}
		if returned {
			declined = true
			return nil
		}

		// ========================================
		// 步骤3:查图书并插入归还记录(冗余书名快照)
		// ========================================
		b, err := uc.bookRepo.FindByISBN(txCtx, l.ISBN)
		if err != nil {
			return err
		}
		returnedBook = b

		record := loan.NewReturnRecord(req.ReturnNo, l.ID, b.ISBN, b.Title, returnDate)
		if err := uc.loanRepo.CreateReturn(txCtx, record); err != nil {
			return err // 归还单号重复由UNIQUE索引兜底 → ErrReturnNoDuplicate
		}

		// ========================================
		// 步骤4:状态无条件置回在架(事务自动COMMIT)
		// ========================================
		// 不检查是否存在其他未归还借阅:借阅唯一性不变式保证不存在
		return uc.bookRepo.UpdateStatus(txCtx, l.ISBN, book.StatusAvailable)
	})

	if err != nil {
		return nil, err
	}

	// 重复归还:无任何改动,计数后返回负向结果
	if declined {
		metrics.IncCounter(metrics.ReturnsDeclinedTotal)
		return &ReturnBookResponse{
			Outcome: OutcomeDeclined,
			Message: fmt.Sprintf("借阅单%s已归还,请勿重复操作", req.IssueNo),
			IssueNo: req.IssueNo,
			ISBN:    returnedLoan.ISBN,
			LateFee: returnedLoan.LateFee,
		}, nil
	}

	// 事务提交后的收尾动作:全部尽力而为,失败只记日志
	uc.afterReturn(ctx, req, returnedLoan, returnedBook, returnDate)

	return &ReturnBookResponse{
		Outcome:    OutcomeOK,
		Message:    fmt.Sprintf("《%s》(ISBN:%s)归还成功,归还单号:%s", returnedBook.Title, returnedBook.ISBN, req.ReturnNo),
		ReturnNo:   req.ReturnNo,
		IssueNo:    req.IssueNo,
		ISBN:       returnedBook.ISBN,
		BookTitle:  returnedBook.Title,
		ReturnDate: returnDate.Format("2006-01-02"),
		LateFee:    returnedLoan.LateFee,
	}, nil
}

// afterReturn 归还成功后的收尾:缓存失效、事件发布、指标
func (uc *ReturnBookUseCase) afterReturn(ctx context.Context, req ReturnBookRequest, l *loan.Loan, b *book.Book, returnDate time.Time) {
	metrics.IncCounter(metrics.LoansReturnedTotal)

	if uc.cache != nil {
		if err := uc.cache.DeleteBookDetail(ctx, b.ISBN); err != nil {
			log.Printf("[WARN] 图书缓存失效失败: isbn=%s, err=%v", b.ISBN, err)
		}
	}

	if uc.events != nil {
		event := LoanReturnedEvent{
			ReturnNo:   req.ReturnNo,
			IssueNo:    req.IssueNo,
			ISBN:       b.ISBN,
			BookTitle:  b.Title,
			ReturnDate: returnDate.Format("2006-01-02"),
			LateFee:    l.LateFee,
		}
		if err := uc.events.Publish("loan.returned", event); err != nil {
			log.Printf("[WARN] 归还事件发布降级: return_no=%s, err=%v", req.ReturnNo, err)
		}
	}
}
