package circulation

import (
	"context"
	"sync"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/staff"
)

// =========================================
// 内存测试替身
// 设计说明:
// 1. memoryTxManager用单把互斥锁串行化"事务",模拟数据库行锁下
//    两个并发issue不可能同时观察到"在架"的效果
// 2. 仓储实现返回实体副本,模拟数据库读(防止测试代码绕过仓储直接改状态)
// 3. 全部实现domain层定义的仓储接口,生产代码无需改动即可注入
// =========================================

// memoryStore 共享内存状态
type memoryStore struct {
	mu   sync.Mutex // 保护map并发访问
	txMu sync.Mutex // 串行化事务(模拟行锁)

	books           map[string]*book.Book           // key: ISBN
	loansByNo       map[string]*loan.Loan           // key: IssueNo
	loansByID       map[uint]*loan.Loan             // key: ID
	returnsByLoanID map[uint]*loan.ReturnRecord     // key: LoanID
	returnNos       map[string]struct{}             // 归还单号唯一索引
	members         map[string]*member.Member       // key: MemberNo
	employees       map[string]*staff.Employee      // key: EmpNo
	nextLoanID      uint
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		books:           make(map[string]*book.Book),
		loansByNo:       make(map[string]*loan.Loan),
		loansByID:       make(map[uint]*loan.Loan),
		returnsByLoanID: make(map[uint]*loan.ReturnRecord),
		returnNos:       make(map[string]struct{}),
		members:         make(map[string]*member.Member),
		employees:       make(map[string]*staff.Employee),
	}
}

// seedBook 预置一本在架图书
func (s *memoryStore) seedBook(isbn, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := book.NewBook(isbn, title, "计算机", "测试作者", "测试出版社", 500)
	b.ID = uint(len(s.books) + 1)
	s.books[isbn] = b
}

// seedMember 预置一名读者
func (s *memoryStore) seedMember(memberNo, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := member.NewMember(memberNo, name, "测试地址")
	m.ID = uint(len(s.members) + 1)
	s.members[memberNo] = m
}

// seedEmployee 预置一名馆员
func (s *memoryStore) seedEmployee(empNo, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := staff.NewEmployee(empNo, name, "流通馆员", 800000, "B001", "hashed")
	e.ID = uint(len(s.employees) + 1)
	s.employees[empNo] = e
}

// seedOpenLoan 预置一条未归还借阅(指定借出日期,用于滞纳金测试)
func (s *memoryStore) seedOpenLoan(issueNo, memberNo, isbn, empNo string, issueDate time.Time) *loan.Loan {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := loan.NewLoan(issueNo, memberNo, isbn, empNo, issueDate)
	s.nextLoanID++
	l.ID = s.nextLoanID
	s.loansByNo[issueNo] = l
	s.loansByID[l.ID] = l
	return l
}

// =========================================
// TxManager替身
// =========================================

type memoryTxManager struct {
	store *memoryStore
}

// Transaction 串行化执行fn(模拟FOR UPDATE行锁的互斥效果)
func (m *memoryTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()
	return fn(ctx)
}

// =========================================
// 图书仓储替身
// =========================================

type memoryBookRepo struct {
	store *memoryStore
}

func copyBook(b *book.Book) *book.Book {
	cp := *b
	return &cp
}

func (r *memoryBookRepo) Create(ctx context.Context, b *book.Book) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.books[b.ISBN]; ok {
		return book.ErrISBNDuplicate
	}
	b.ID = uint(len(r.store.books) + 1)
	r.store.books[b.ISBN] = copyBook(b)
	return nil
}

func (r *memoryBookRepo) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, b := range r.store.books {
		if b.ID == id {
			return copyBook(b), nil
		}
	}
	return nil, book.ErrBookNotFound
}

func (r *memoryBookRepo) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.books[isbn]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return copyBook(b), nil
}

// LockByISBN 行锁效果由memoryTxManager的事务串行化提供
func (r *memoryBookRepo) LockByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	return r.FindByISBN(ctx, isbn)
}

func (r *memoryBookRepo) Update(ctx context.Context, b *book.Book) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.books[b.ISBN]; !ok {
		return book.ErrBookNotFound
	}
	r.store.books[b.ISBN] = copyBook(b)
	return nil
}

func (r *memoryBookRepo) UpdateStatus(ctx context.Context, isbn string, status book.Status) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.books[isbn]
	if !ok {
		return book.ErrBookNotFound
	}
	b.Status = status
	return nil
}

func (r *memoryBookRepo) Delete(ctx context.Context, id uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for isbn, b := range r.store.books {
		if b.ID == id {
			delete(r.store.books, isbn)
			return nil
		}
	}
	return book.ErrBookNotFound
}

func (r *memoryBookRepo) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*book.Book
	for _, b := range r.store.books {
		result = append(result, copyBook(b))
	}
	return result, int64(len(result)), nil
}

// =========================================
// 借阅仓储替身
// =========================================

type memoryLoanRepo struct {
	store *memoryStore
}

func copyLoan(l *loan.Loan) *loan.Loan {
	cp := *l
	return &cp
}

func (r *memoryLoanRepo) Create(ctx context.Context, l *loan.Loan) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.loansByNo[l.IssueNo]; ok {
		return loan.ErrIssueNoDuplicate
	}
	r.store.nextLoanID++
	l.ID = r.store.nextLoanID
	cp := copyLoan(l)
	r.store.loansByNo[l.IssueNo] = cp
	r.store.loansByID[l.ID] = cp
	return nil
}

func (r *memoryLoanRepo) FindByIssueNo(ctx context.Context, issueNo string) (*loan.Loan, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	l, ok := r.store.loansByNo[issueNo]
	if !ok {
		return nil, loan.ErrLoanNotFound
	}
	return copyLoan(l), nil
}

// LockByIssueNo 行锁效果由memoryTxManager的事务串行化提供
func (r *memoryLoanRepo) LockByIssueNo(ctx context.Context, issueNo string) (*loan.Loan, error) {
	return r.FindByIssueNo(ctx, issueNo)
}

func (r *memoryLoanRepo) HasReturn(ctx context.Context, loanID uint) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	_, ok := r.store.returnsByLoanID[loanID]
	return ok, nil
}

func (r *memoryLoanRepo) CreateReturn(ctx context.Context, record *loan.ReturnRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.returnNos[record.ReturnNo]; ok {
		return loan.ErrReturnNoDuplicate
	}
	if _, ok := r.store.returnsByLoanID[record.LoanID]; ok {
		// loan_id唯一索引兜底
		return loan.ErrAlreadyReturned
	}
	record.ID = uint(len(r.store.returnNos) + 1)
	r.store.returnNos[record.ReturnNo] = struct{}{}
	cp := *record
	r.store.returnsByLoanID[record.LoanID] = &cp
	return nil
}

func (r *memoryLoanRepo) FindOpenLoans(ctx context.Context) ([]*loan.Loan, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*loan.Loan
	for id, l := range r.store.loansByID {
		if _, returned := r.store.returnsByLoanID[id]; !returned {
			result = append(result, copyLoan(l))
		}
	}
	return result, nil
}

func (r *memoryLoanRepo) UpdateLateFeeIfOpen(ctx context.Context, loanID uint, lateFee int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, returned := r.store.returnsByLoanID[loanID]; returned {
		// 守卫未命中:借阅已闭合,冻结值不被覆盖
		return false, nil
	}
	l, ok := r.store.loansByID[loanID]
	if !ok {
		return false, loan.ErrLoanNotFound
	}
	l.LateFee = lateFee
	return true, nil
}

func (r *memoryLoanRepo) CountByISBN(ctx context.Context, isbn string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, l := range r.store.loansByID {
		if l.ISBN == isbn {
			count++
		}
	}
	return count, nil
}

func (r *memoryLoanRepo) FindOverdue(ctx context.Context, cutoff time.Time) ([]*loan.Loan, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*loan.Loan
	for id, l := range r.store.loansByID {
		if _, returned := r.store.returnsByLoanID[id]; returned {
			continue
		}
		if l.IssueDate.Before(cutoff) {
			result = append(result, copyLoan(l))
		}
	}
	return result, nil
}

func (r *memoryLoanRepo) ListByMemberNo(ctx context.Context, memberNo string, page, pageSize int) ([]*loan.Loan, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*loan.Loan
	for _, l := range r.store.loansByID {
		if l.MemberNo == memberNo {
			result = append(result, copyLoan(l))
		}
	}
	return result, int64(len(result)), nil
}

// =========================================
// 读者/馆员仓储替身
// =========================================

type memoryMemberRepo struct {
	store *memoryStore
}

func (r *memoryMemberRepo) Create(ctx context.Context, m *member.Member) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.members[m.MemberNo]; ok {
		return member.ErrMemberNoDuplicate
	}
	m.ID = uint(len(r.store.members) + 1)
	cp := *m
	r.store.members[m.MemberNo] = &cp
	return nil
}

func (r *memoryMemberRepo) FindByID(ctx context.Context, id uint) (*member.Member, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, m := range r.store.members {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, member.ErrMemberNotFound
}

func (r *memoryMemberRepo) FindByMemberNo(ctx context.Context, memberNo string) (*member.Member, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	m, ok := r.store.members[memberNo]
	if !ok {
		return nil, member.ErrMemberNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memoryMemberRepo) Update(ctx context.Context, m *member.Member) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.members[m.MemberNo]; !ok {
		return member.ErrMemberNotFound
	}
	cp := *m
	r.store.members[m.MemberNo] = &cp
	return nil
}

func (r *memoryMemberRepo) List(ctx context.Context, page, pageSize int) ([]*member.Member, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*member.Member
	for _, m := range r.store.members {
		cp := *m
		result = append(result, &cp)
	}
	return result, int64(len(result)), nil
}

type memoryEmployeeRepo struct {
	store *memoryStore
}

func (r *memoryEmployeeRepo) Create(ctx context.Context, e *staff.Employee) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.employees[e.EmpNo]; ok {
		return staff.ErrEmpNoDuplicate
	}
	e.ID = uint(len(r.store.employees) + 1)
	cp := *e
	r.store.employees[e.EmpNo] = &cp
	return nil
}

func (r *memoryEmployeeRepo) FindByID(ctx context.Context, id uint) (*staff.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, e := range r.store.employees {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, staff.ErrEmployeeNotFound
}

func (r *memoryEmployeeRepo) FindByEmpNo(ctx context.Context, empNo string) (*staff.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	e, ok := r.store.employees[empNo]
	if !ok {
		return nil, staff.ErrEmployeeNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *memoryEmployeeRepo) Update(ctx context.Context, e *staff.Employee) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.employees[e.EmpNo]; !ok {
		return staff.ErrEmployeeNotFound
	}
	cp := *e
	r.store.employees[e.EmpNo] = &cp
	return nil
}

// =========================================
// 事件发布替身
// =========================================

type recordedEvent struct {
	routingKey string
	message    interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(routingKey string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{routingKey: routingKey, message: message})
	return nil
}

func (p *recordingPublisher) routingKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, len(p.events))
	for i, e := range p.events {
		keys[i] = e.routingKey
	}
	return keys
}

// =========================================
// 测试装配
// =========================================

type fixture struct {
	store     *memoryStore
	bookRepo  *memoryBookRepo
	loanRepo  *memoryLoanRepo
	members   *memoryMemberRepo
	employees *memoryEmployeeRepo
	txManager *memoryTxManager
	publisher *recordingPublisher

	issueUC  *IssueBookUseCase
	returnUC *ReturnBookUseCase
}

func newFixture() *fixture {
	store := newMemoryStore()
	f := &fixture{
		store:     store,
		bookRepo:  &memoryBookRepo{store: store},
		loanRepo:  &memoryLoanRepo{store: store},
		members:   &memoryMemberRepo{store: store},
		employees: &memoryEmployeeRepo{store: store},
		txManager: &memoryTxManager{store: store},
		publisher: &recordingPublisher{},
	}
	f.issueUC = NewIssueBookUseCase(f.loanRepo, f.bookRepo, f.members, f.employees, f.txManager, f.publisher, nil)
	f.returnUC = NewReturnBookUseCase(f.loanRepo, f.bookRepo, f.txManager, f.publisher, nil)
	return f
}
