package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/staff"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// employeeRepository 馆员仓储实现(MySQL)
type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository 创建馆员仓储
func NewEmployeeRepository(db *gorm.DB) staff.EmployeeRepository {
	return &employeeRepository{db: db}
}

// Create 创建馆员
func (r *employeeRepository) Create(ctx context.Context, e *staff.Employee) error {
	model := &EmployeeModel{
		EmpNo:    e.EmpNo,
		Name:     e.Name,
		Position: e.Position,
		Salary:   e.Salary,
		BranchNo: e.BranchNo,
		Password: e.Password,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return staff.ErrEmpNoDuplicate
		}
		return apperrors.Wrap(err, "创建馆员失败")
	}

	e.ID = model.ID
	e.CreatedAt = model.CreatedAt
	e.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找馆员
func (r *employeeRepository) FindByID(ctx context.Context, id uint) (*staff.Employee, error) {
	var model EmployeeModel
	err := r.db.WithContext(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, staff.ErrEmployeeNotFound
		}
		return nil, apperrors.Wrap(err, "查询馆员失败")
	}

	return toEmployeeEntity(&model), nil
}

// FindByEmpNo 根据工号查找馆员
func (r *employeeRepository) FindByEmpNo(ctx context.Context, empNo string) (*staff.Employee, error) {
	var model EmployeeModel
	err := r.db.WithContext(ctx).Where("emp_no = ?", empNo).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, staff.ErrEmployeeNotFound
		}
		return nil, apperrors.Wrap(err, "查询馆员失败")
	}

	return toEmployeeEntity(&model), nil
}

// Update 更新馆员信息
func (r *employeeRepository) Update(ctx context.Context, e *staff.Employee) error {
	model := &EmployeeModel{
		ID:       e.ID,
		EmpNo:    e.EmpNo,
		Name:     e.Name,
		Position: e.Position,
		Salary:   e.Salary,
		BranchNo: e.BranchNo,
		Password: e.Password,
	}

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return apperrors.Wrap(err, "更新馆员失败")
	}

	e.UpdatedAt = model.UpdatedAt
	return nil
}

// toEmployeeEntity GORM模型 → 领域实体
func toEmployeeEntity(model *EmployeeModel) *staff.Employee {
	return &staff.Employee{
		ID:        model.ID,
		EmpNo:     model.EmpNo,
		Name:      model.Name,
		Position:  model.Position,
		Salary:    model.Salary,
		BranchNo:  model.BranchNo,
		Password:  model.Password,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// branchRepository 分馆仓储实现(MySQL)
type branchRepository struct {
	db *gorm.DB
}

// NewBranchRepository 创建分馆仓储
func NewBranchRepository(db *gorm.DB) staff.BranchRepository {
	return &branchRepository{db: db}
}

// Create 创建分馆
func (r *branchRepository) Create(ctx context.Context, b *staff.Branch) error {
	model := &BranchModel{
		BranchNo:  b.BranchNo,
		ManagerNo: b.ManagerNo,
		Address:   b.Address,
		Contact:   b.Contact,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return staff.ErrBranchNoDuplicate
		}
		return apperrors.Wrap(err, "创建分馆失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByBranchNo 根据分馆编号查找分馆
func (r *branchRepository) FindByBranchNo(ctx context.Context, branchNo string) (*staff.Branch, error) {
	var model BranchModel
	err := r.db.WithContext(ctx).Where("branch_no = ?", branchNo).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, staff.ErrBranchNotFound
		}
		return nil, apperrors.Wrap(err, "查询分馆失败")
	}

	return toBranchEntity(&model), nil
}

// Update 更新分馆信息(指派馆长等)
func (r *branchRepository) Update(ctx context.Context, b *staff.Branch) error {
	model := &BranchModel{
		ID:        b.ID,
		BranchNo:  b.BranchNo,
		ManagerNo: b.ManagerNo,
		Address:   b.Address,
		Contact:   b.Contact,
	}

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return apperrors.Wrap(err, "更新分馆失败")
	}

	b.UpdatedAt = model.UpdatedAt
	return nil
}

// List 查询全部分馆
func (r *branchRepository) List(ctx context.Context) ([]*staff.Branch, error) {
	var models []BranchModel
	err := r.db.WithContext(ctx).Order("branch_no ASC").Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询分馆列表失败")
	}

	branches := make([]*staff.Branch, len(models))
	for i, model := range models {
		branches[i] = toBranchEntity(&model)
	}

	return branches, nil
}

// toBranchEntity GORM模型 → 领域实体
func toBranchEntity(model *BranchModel) *staff.Branch {
	return &staff.Branch{
		ID:        model.ID,
		BranchNo:  model.BranchNo,
		ManagerNo: model.ManagerNo,
		Address:   model.Address,
		Contact:   model.Contact,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
