package circulation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/staff"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// IssueBookUseCase 借出图书用例
// 教学要点:这是整个项目最核心的用例
// 涉及:事务处理、并发控制、拒借(策略拒绝)与错误的区分
type IssueBookUseCase struct {
	loanRepo     loan.Repository
	bookRepo     book.Repository
	memberRepo   member.Repository
	employeeRepo staff.EmployeeRepository
	txManager    TxManager
	events       EventPublisher
	cache        BookCache
	now          func() time.Time
}

// NewIssueBookUseCase 创建借出用例
// events和cache允许为nil(单元测试/降级运行)
func NewIssueBookUseCase(
	loanRepo loan.Repository,
	bookRepo book.Repository,
	memberRepo member.Repository,
	employeeRepo staff.EmployeeRepository,
	txManager TxManager,
	events EventPublisher,
	cache BookCache,
) *IssueBookUseCase {
	return &IssueBookUseCase{
		loanRepo:     loanRepo,
		bookRepo:     bookRepo,
		memberRepo:   memberRepo,
		employeeRepo: employeeRepo,
		txManager:    txManager,
		events:       events,
		cache:        cache,
		now:          time.Now,
	}
}

// IssueBookRequest 借出请求DTO
type IssueBookRequest struct {
	IssueNo  string // 借阅单号(调用方提供,全局唯一)
	MemberNo string // 借书证号
	ISBN     string // 图书ISBN
	EmpNo    string // 经办馆员工号
}

// IssueBookResponse 借出响应DTO
// Outcome区分成功(ok)与拒借(declined)——拒借是正常业务结果,不走error通道
type IssueBookResponse struct {
	Outcome   string `json:"outcome"`
	Message   string `json:"message"`
	IssueNo   string `json:"issue_no,omitempty"`
	ISBN      string `json:"isbn"`
	BookTitle string `json:"book_title"`
	IssueDate string `json:"issue_date,omitempty"`
}

// Execute 执行借出用例
// 教学重点:防止同一本书借给两个人的完整流程
//
// 核心问题:并发借出
// 场景:一本书在架,两个借还台同时扫码借出
// 错误实现:
//  1. 查询状态 → 在架
//  2. 判断可不可借 → 可借
//  3. 插入借阅记录,状态改为借出
//     结果:两个请求都通过了步骤2,同一本书"借"给了两个人
//
// 正确实现:悲观锁
//  1. SELECT FOR UPDATE 锁定图书行
//  2. 判断是否在架(已借出 → 拒借,不是错误)
//  3. 插入借阅记录
//  4. 翻转状态为借出
//  5. COMMIT释放锁
//
// 两个并发请求中,后拿到锁的那个必然观察到"借出"并被拒,恰好一个成功
func (uc *IssueBookUseCase) Execute(ctx context.Context, req IssueBookRequest) (*IssueBookResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "library-circulation", "IssueBook")
	defer span.End()

	// 1. 校验读者存在(ValidationError,事务外快速失败)
	if _, err := uc.memberRepo.FindByMemberNo(ctx, req.MemberNo); err != nil {
		return nil, err
	}

	// 2. 校验馆员存在
	if _, err := uc.employeeRepo.FindByEmpNo(ctx, req.EmpNo); err != nil {
		return nil, err
	}

	// 使用事务执行整个借出流程
	// 教学要点:事务保证原子性,状态检查与记录插入要么全成功,要么全失败
	var (
		issuedBook *book.Book
		declined   bool
	)
	issueDate := uc.now()

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// ========================================
		// 步骤1:锁定图书行(悲观锁,防止并发借出)
		// ========================================
		// LockByISBN执行:SELECT * FROM books WHERE isbn = ? FOR UPDATE
		// 其他事务必须等待当前事务COMMIT或ROLLBACK后才能访问该行
		b, err := uc.bookRepo.LockByISBN(txCtx, req.ISBN)
		if err != nil {
			return err // 图书不存在 → ErrBookNotFound(ValidationError)
		}
		issuedBook = b

		// ========================================
		// 步骤2:检查是否在架
		// ========================================
		// 教学要点:必须在锁定后检查,否则可能并发借出
		// 已借出是"策略拒绝",不是系统错误:不做任何改动,正常提交空事务
		if !b.IsAvailable() {
			declined = true
			return nil
		}

		// ========================================
		// 步骤3:创建借阅记录
		// ========================================
		// 借阅单号重复由UNIQUE索引兜底 → ErrIssueNoDuplicate
		newLoan := loan.NewLoan(req.IssueNo, req.MemberNo, req.ISBN, req.EmpNo, issueDate)
		if err := uc.loanRepo.Create(txCtx, newLoan); err != nil {
			return err
		}

		// ========================================
		// 步骤4:翻转图书状态(事务自动COMMIT)
		// ========================================
		return uc.bookRepo.UpdateStatus(txCtx, req.ISBN, book.StatusOnLoan)
	})

	if err != nil {
		return nil, err
	}

	// 拒借:无任何改动,计数后返回负向结果
	if declined {
		metrics.IncCounter(metrics.LoansDeclinedTotal)
		return &IssueBookResponse{
			Outcome:   OutcomeDeclined,
			Message:   fmt.Sprintf("《%s》(ISBN:%s)当前已借出,无法借阅", issuedBook.Title, issuedBook.ISBN),
			ISBN:      issuedBook.ISBN,
			BookTitle: issuedBook.Title,
		}, nil
	}

	// 事务提交后的收尾动作:全部尽力而为,失败只记日志
	uc.afterIssue(ctx, req, issuedBook, issueDate)

	return &IssueBookResponse{
		Outcome:   OutcomeOK,
		Message:   fmt.Sprintf("《%s》(ISBN:%s)借出成功,借阅单号:%s", issuedBook.Title, issuedBook.ISBN, req.IssueNo),
		IssueNo:   req.IssueNo,
		ISBN:      issuedBook.ISBN,
		BookTitle: issuedBook.Title,
		IssueDate: issueDate.Format("2006-01-02"),
	}, nil
}

// afterIssue 借出成功后的收尾:缓存失效、事件发布、指标
func (uc *IssueBookUseCase) afterIssue(ctx context.Context, req IssueBookRequest, b *book.Book, issueDate time.Time) {
	metrics.IncCounter(metrics.LoansIssuedTotal)

	// 图书状态已变化,失效详情缓存
	if uc.cache != nil {
		if err := uc.cache.DeleteBookDetail(ctx, b.ISBN); err != nil {
			log.Printf("[WARN] 图书缓存失效失败: isbn=%s, err=%v", b.ISBN, err)
		}
	}

	// 发布借出事件(熔断保护在EventPublisher实现内)
	if uc.events != nil {
		event := LoanIssuedEvent{
			IssueNo:   req.IssueNo,
			MemberNo:  req.MemberNo,
			ISBN:      b.ISBN,
			BookTitle: b.Title,
			EmpNo:     req.EmpNo,
			IssueDate: issueDate.Format("2006-01-02"),
		}
		if err := uc.events.Publish("loan.issued", event); err != nil {
			log.Printf("[WARN] 借出事件发布降级: issue_no=%s, err=%v", req.IssueNo, err)
		}
	}
}
