package catalog

import (
	"context"
	"fmt"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
)

// ManageBookUseCase 图书维护用例(改信息、调租价、删除)
// 设计说明:
// 1. 写路径统一在此用例,便于集中做缓存失效
// 2. 删除前检查借阅历史:有任何借阅记录(含已归还)的图书不可删除
// 3. cache允许为nil
type ManageBookUseCase struct {
	bookService book.Service
	loanRepo    loan.Repository
	cache       *redis.BookCache
}

// NewManageBookUseCase 创建维护用例
func NewManageBookUseCase(bookService book.Service, loanRepo loan.Repository, cache *redis.BookCache) *ManageBookUseCase {
	return &ManageBookUseCase{
		bookService: bookService,
		loanRepo:    loanRepo,
		cache:       cache,
	}
}

// UpdateBookInfoRequest 更新信息请求DTO
type UpdateBookInfoRequest struct {
	ID        uint
	Title     string
	Category  string
	Author    string
	Publisher string
}

// UpdateBookInfo 更新图书信息
func (uc *ManageBookUseCase) UpdateBookInfo(ctx context.Context, req UpdateBookInfoRequest) error {
	if err := uc.bookService.UpdateBookInfo(ctx, req.ID, req.Title, req.Category, req.Author, req.Publisher); err != nil {
		return err
	}

	uc.invalidateCache(ctx, req.ID)
	return nil
}

// UpdateBookPrice 更新图书租价
func (uc *ManageBookUseCase) UpdateBookPrice(ctx context.Context, id uint, newPrice int64) error {
	if err := uc.bookService.UpdateBookPrice(ctx, id, newPrice); err != nil {
		return err
	}

	uc.invalidateCache(ctx, id)
	return nil
}

// DeleteBook 删除图书
// 学习要点:
// 1. 引用完整性检查在应用层做(需要跨聚合的loan仓储)
// 2. 有借阅历史的图书承载着流通档案,不可删除
func (uc *ManageBookUseCase) DeleteBook(ctx context.Context, id uint) error {
	// 1. 查询图书(确认存在,拿到ISBN)
	b, err := uc.bookService.GetBookByID(ctx, id)
	if err != nil {
		return err
	}

	// 2. 借阅历史检查
	count, err := uc.loanRepo.CountByISBN(ctx, b.ISBN)
	if err != nil {
		return err
	}
	if count > 0 {
		return book.ErrBookReferenced
	}

	// 3. 删除并失效缓存
	if err := uc.bookService.DeleteBook(ctx, id); err != nil {
		return err
	}

	if uc.cache != nil {
		if err := uc.cache.DeleteBookDetail(ctx, b.ISBN); err != nil {
			fmt.Printf("[WARN] 删除图书缓存失败: %v\n", err)
		}
	}
	return nil
}

// invalidateCache 按ID失效详情缓存(先查ISBN)
func (uc *ManageBookUseCase) invalidateCache(ctx context.Context, id uint) {
	if uc.cache == nil {
		return
	}

	b, err := uc.bookService.GetBookByID(ctx, id)
	if err != nil {
		return
	}

	if err := uc.cache.DeleteBookDetail(ctx, b.ISBN); err != nil {
		fmt.Printf("[WARN] 删除图书缓存失败: %v\n", err)
	}
}
