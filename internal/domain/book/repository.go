package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
// 3. 借还流程要求事务内的行锁操作(LockByISBN),通过context传递事务
type Repository interface {
	// Create 创建图书
	// 注意:如果ISBN已存在,应返回ErrISBNDuplicate
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByISBN 根据ISBN查找图书
	// 如果不存在,返回ErrBookNotFound
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// LockByISBN 悲观锁查询图书(用于借出时锁定状态)
	// 使用SELECT FOR UPDATE锁定行,防止两个并发issue同时观察到"在架"
	// 必须在事务中调用(通过TxManager传递的context)
	LockByISBN(ctx context.Context, isbn string) (*Book, error)

	// Update 更新图书信息
	Update(ctx context.Context, book *Book) error

	// UpdateStatus 更新流通状态
	// 借出/归还流程中只翻转状态,不回写整个实体
	UpdateStatus(ctx context.Context, isbn string, status Status) error

	// Delete 删除图书(软删除)
	// 调用方必须先确认该ISBN没有借阅记录
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表
	// params包含:page, pageSize, keyword, status等
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索关键词(搜索标题、作者、出版社)
	Category string // 分类过滤
	Status   Status // 状态过滤(0表示不过滤)
}
