package member

import (
	"context"
)

// Repository 读者仓储接口
// DDD设计说明:
// 1. 接口定义在domain层(依赖倒置原则)
// 2. 具体实现在infrastructure/persistence/mysql层
// 3. 便于单元测试(Mock此接口)
type Repository interface {
	// Create 创建读者
	// 注意:如果借书证号已存在,应返回ErrMemberNoDuplicate
	Create(ctx context.Context, member *Member) error

	// FindByID 根据ID查找读者
	FindByID(ctx context.Context, id uint) (*Member, error)

	// FindByMemberNo 根据借书证号查找读者
	// 如果不存在,返回ErrMemberNotFound
	FindByMemberNo(ctx context.Context, memberNo string) (*Member, error)

	// Update 更新读者信息
	Update(ctx context.Context, member *Member) error

	// List 分页查询读者列表
	List(ctx context.Context, page, pageSize int) ([]*Member, int64, error)
}
