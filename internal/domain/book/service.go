package book

import (
	"context"
	"regexp"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装跨实体的业务逻辑和业务规则校验
// 2. 不依赖具体的Repository实现(依赖倒置)
// 3. 删除前的借阅历史校验由application层完成(需要loan仓储)
type Service interface {
	// AddBook 新书入库
	// 业务规则:
	// - ISBN格式必须合法(10位或13位数字)
	// - 租价必须>=0
	// - ISBN不能重复
	AddBook(ctx context.Context, isbn, title, category, author, publisher string, price int64) (*Book, error)

	// GetBookByID 根据ID获取图书详情
	GetBookByID(ctx context.Context, id uint) (*Book, error)

	// GetBookByISBN 根据ISBN获取图书
	GetBookByISBN(ctx context.Context, isbn string) (*Book, error)

	// UpdateBookInfo 更新图书信息
	UpdateBookInfo(ctx context.Context, id uint, title, category, author, publisher string) error

	// UpdateBookPrice 更新图书租价
	UpdateBookPrice(ctx context.Context, id uint, newPrice int64) error

	// ListBooks 分页查询图书列表
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// DeleteBook 删除图书
	// 注意:借阅历史的引用检查由application层完成(需要loan仓储)
	DeleteBook(ctx context.Context, id uint) error
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// AddBook 新书入库
func (s *service) AddBook(ctx context.Context, isbn, title, category, author, publisher string, price int64) (*Book, error) {
	// 1. ISBN格式校验
	if !IsValidISBN(isbn) {
		return nil, ErrInvalidISBN
	}

	// 2. 租价校验
	if price < 0 {
		return nil, ErrInvalidPrice
	}

	// 3. 检查ISBN是否已存在(最终由数据库UNIQUE索引兜底)
	existingBook, err := s.repo.FindByISBN(ctx, isbn)
	if err == nil && existingBook != nil {
		return nil, ErrISBNDuplicate
	}
	// 如果是ErrBookNotFound以外的错误,返回
	if err != nil && err != ErrBookNotFound {
		return nil, err
	}

	// 4. 创建图书实体(初始状态:在架)
	book := NewBook(isbn, title, category, author, publisher, price)

	// 5. 持久化
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

// GetBookByID 根据ID获取图书
func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// GetBookByISBN 根据ISBN获取图书
func (s *service) GetBookByISBN(ctx context.Context, isbn string) (*Book, error) {
	if !IsValidISBN(isbn) {
		return nil, ErrInvalidISBN
	}
	return s.repo.FindByISBN(ctx, isbn)
}

// UpdateBookInfo 更新图书信息
func (s *service) UpdateBookInfo(ctx context.Context, id uint, title, category, author, publisher string) error {
	// 1. 查询图书
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// 2. 更新信息
	book.UpdateInfo(title, category, author, publisher)

	// 3. 持久化
	return s.repo.Update(ctx, book)
}

// UpdateBookPrice 更新图书租价
func (s *service) UpdateBookPrice(ctx context.Context, id uint, newPrice int64) error {
	// 1. 查询图书
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// 2. 更新租价(实体内校验)
	if err := book.UpdatePrice(newPrice); err != nil {
		return err
	}

	// 3. 持久化
	return s.repo.Update(ctx, book)
}

// ListBooks 分页查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	return s.repo.List(ctx, params)
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, id uint) error {
	// 确认图书存在
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// =========================================
// 辅助函数:业务规则校验
// =========================================

// IsValidISBN 校验ISBN格式
// 支持:
// - ISBN-10: 10位数字
// - ISBN-13: 13位数字,如9787115428028
// 简化实现:只检查位数和是否全为数字(生产环境应校验校验位)
func IsValidISBN(isbn string) bool {
	// 去除可能的分隔符(如978-7-115-42802-8 → 9787115428028)
	re := regexp.MustCompile(`[^0-9Xx]`)
	cleanISBN := re.ReplaceAllString(isbn, "")

	// 检查位数
	length := len(cleanISBN)
	return length == 10 || length == 13
}
