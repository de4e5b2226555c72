package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/loan"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// loanRepository 借阅仓储实现(MySQL)
// 设计说明:
// 1. loans与return_records两张表,是否归还由归还记录是否存在表达
// 2. return_records.loan_id有唯一索引,数据库层兜底防重复归还
// 3. 滞纳金回写使用守卫UPDATE,绝不覆盖已闭合借阅的冻结值
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository 创建借阅仓储
func NewLoanRepository(db *gorm.DB) loan.Repository {
	return &loanRepository{db: db}
}

// Create 创建借阅记录
func (r *loanRepository) Create(ctx context.Context, l *loan.Loan) error {
	model := &LoanModel{
		IssueNo:   l.IssueNo,
		MemberNo:  l.MemberNo,
		ISBN:      l.ISBN,
		EmpNo:     l.EmpNo,
		IssueDate: l.IssueDate,
		LateFee:   l.LateFee,
	}

	// 教学要点:借出流程在事务内调用,必须用getDB(ctx)
	db := getDB(ctx, r.db)
	if err := db.Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return loan.ErrIssueNoDuplicate
		}
		return apperrors.Wrap(err, "创建借阅记录失败")
	}

	l.ID = model.ID
	l.CreatedAt = model.CreatedAt
	l.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByIssueNo 根据借阅单号查找借阅记录
func (r *loanRepository) FindByIssueNo(ctx context.Context, issueNo string) (*loan.Loan, error) {
	var model LoanModel
	err := r.db.WithContext(ctx).Where("issue_no = ?", issueNo).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrLoanNotFound
		}
		return nil, apperrors.Wrap(err, "查询借阅记录失败")
	}

	return toLoanEntity(&model), nil
}

// LockByIssueNo 悲观锁查询借阅记录(用于归还流程)
// SELECT FOR UPDATE锁定行,并发归还同一借阅单时后到者阻塞,
// 拿到锁后会观察到先提交者插入的归还记录
func (r *loanRepository) LockByIssueNo(ctx context.Context, issueNo string) (*loan.Loan, error) {
	var model LoanModel
	db := getDB(ctx, r.db)
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("issue_no = ?", issueNo).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrLoanNotFound
		}
		return nil, apperrors.Wrap(err, "锁定借阅记录失败")
	}

	return toLoanEntity(&model), nil
}

// HasReturn 检查借阅记录是否已有归还记录
func (r *loanRepository) HasReturn(ctx context.Context, loanID uint) (bool, error) {
	var count int64
	db := getDB(ctx, r.db)
	err := db.Model(&ReturnModel{}).Where("loan_id = ?", loanID).Count(&count).Error

	if err != nil {
		return false, apperrors.Wrap(err, "查询归还记录失败")
	}

	return count > 0, nil
}

// CreateReturn 创建归还记录
func (r *loanRepository) CreateReturn(ctx context.Context, record *loan.ReturnRecord) error {
	model := &ReturnModel{
		ReturnNo:   record.ReturnNo,
		LoanID:     record.LoanID,
		ISBN:       record.ISBN,
		BookTitle:  record.BookTitle,
		ReturnDate: record.ReturnDate,
	}

	db := getDB(ctx, r.db)
	if err := db.Create(model).Error; err != nil {
		if isDuplicateError(err) {
			// 归还单号重复或loan_id唯一索引冲突(并发重复归还被数据库兜底)
			return loan.ErrReturnNoDuplicate
		}
		return apperrors.Wrap(err, "创建归还记录失败")
	}

	record.ID = model.ID
	record.CreatedAt = model.CreatedAt

	return nil
}

// FindOpenLoans 查询全部未归还借阅(滞纳金批处理的扫描快照)
// 教学要点:
// 1. LEFT JOIN反连接:return_records中不存在对应行的loans即未归还
// 2. 批处理不加锁,扫描是一致性快照;扫描后归还的记录靠守卫UPDATE跳过
func (r *loanRepository) FindOpenLoans(ctx context.Context) ([]*loan.Loan, error) {
	var models []LoanModel
	err := r.db.WithContext(ctx).
		Joins("LEFT JOIN return_records ON return_records.loan_id = loans.id").
		Where("return_records.id IS NULL").
		Find(&models).Error

	if err != nil {
		return nil, apperrors.Wrap(err, "查询未归还借阅失败")
	}

	loans := make([]*loan.Loan, len(models))
	for i, model := range models {
		loans[i] = toLoanEntity(&model)
	}

	return loans, nil
}

// UpdateLateFeeIfOpen 回写滞纳金,仅当借阅仍未归还
// 教学要点:
// 1. 守卫UPDATE: UPDATE loans SET late_fee=? WHERE id=? AND NOT EXISTS(归还记录)
// 2. RowsAffected=0表示借阅已在扫描后被归还,调用方跳过即可
// 3. 单条UPDATE自身原子,与归还事务并发时由行锁串行化
func (r *loanRepository) UpdateLateFeeIfOpen(ctx context.Context, loanID uint, lateFee int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&LoanModel{}).
		Where("id = ?", loanID).
		Where("NOT EXISTS (SELECT 1 FROM return_records WHERE return_records.loan_id = loans.id)").
		Update("late_fee", lateFee)

	if result.Error != nil {
		return false, apperrors.Wrap(result.Error, "回写滞纳金失败")
	}

	return result.RowsAffected > 0, nil
}

// CountByISBN 统计指定ISBN的历史借阅次数(含已归还)
func (r *loanRepository) CountByISBN(ctx context.Context, isbn string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&LoanModel{}).Where("isbn = ?", isbn).Count(&count).Error

	if err != nil {
		return 0, apperrors.Wrap(err, "统计借阅次数失败")
	}

	return count, nil
}

// FindOverdue 查询借出日期早于cutoff且未归还的借阅(只读报表路径)
func (r *loanRepository) FindOverdue(ctx context.Context, cutoff time.Time) ([]*loan.Loan, error) {
	var models []LoanModel
	err := r.db.WithContext(ctx).
		Joins("LEFT JOIN return_records ON return_records.loan_id = loans.id").
		Where("return_records.id IS NULL").
		Where("loans.issue_date < ?", cutoff).
		Order("loans.issue_date ASC").
		Find(&models).Error

	if err != nil {
		return nil, apperrors.Wrap(err, "查询逾期借阅失败")
	}

	loans := make([]*loan.Loan, len(models))
	for i, model := range models {
		loans[i] = toLoanEntity(&model)
	}

	return loans, nil
}

// ListByMemberNo 查询读者的借阅历史(分页)
func (r *loanRepository) ListByMemberNo(ctx context.Context, memberNo string, page, pageSize int) ([]*loan.Loan, int64, error) {
	var models []LoanModel
	var total int64

	query := r.db.WithContext(ctx).Model(&LoanModel{}).Where("member_no = ?", memberNo)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "统计借阅历史失败")
	}

	offset := (page - 1) * pageSize
	err := query.Order("issue_date DESC").Limit(pageSize).Offset(offset).Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅历史失败")
	}

	loans := make([]*loan.Loan, len(models))
	for i, model := range models {
		loans[i] = toLoanEntity(&model)
	}

	return loans, total, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toLoanEntity GORM模型 → 领域实体
func toLoanEntity(model *LoanModel) *loan.Loan {
	return &loan.Loan{
		ID:        model.ID,
		IssueNo:   model.IssueNo,
		MemberNo:  model.MemberNo,
		ISBN:      model.ISBN,
		EmpNo:     model.EmpNo,
		IssueDate: model.IssueDate,
		LateFee:   model.LateFee,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
