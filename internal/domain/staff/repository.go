package staff

import (
	"context"
)

// EmployeeRepository 馆员仓储接口
// DDD设计说明:
// 1. 接口定义在domain层(依赖倒置原则)
// 2. 具体实现在infrastructure/persistence/mysql层
type EmployeeRepository interface {
	// Create 创建馆员
	// 注意:如果工号已存在,应返回ErrEmpNoDuplicate
	Create(ctx context.Context, employee *Employee) error

	// FindByID 根据ID查找馆员
	FindByID(ctx context.Context, id uint) (*Employee, error)

	// FindByEmpNo 根据工号查找馆员
	// 如果不存在,返回ErrEmployeeNotFound
	FindByEmpNo(ctx context.Context, empNo string) (*Employee, error)

	// Update 更新馆员信息
	Update(ctx context.Context, employee *Employee) error
}

// BranchRepository 分馆仓储接口
type BranchRepository interface {
	// Create 创建分馆
	Create(ctx context.Context, branch *Branch) error

	// FindByBranchNo 根据分馆编号查找分馆
	// 如果不存在,返回ErrBranchNotFound
	FindByBranchNo(ctx context.Context, branchNo string) (*Branch, error)

	// Update 更新分馆信息(指派馆长等)
	Update(ctx context.Context, branch *Branch) error

	// List 查询全部分馆
	List(ctx context.Context) ([]*Branch, error)
}
