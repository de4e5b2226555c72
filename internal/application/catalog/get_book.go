package catalog

import (
	"context"
	"fmt"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
)

// GetBookUseCase 图书详情查询用例
// 设计说明:
// 1. Cache-Aside模式:先查Redis缓存,未命中查库并回填
// 2. 缓存故障只打日志不阻断查询(降级为直连数据库)
// 3. cache允许为nil(单元测试或未部署Redis的环境)
type GetBookUseCase struct {
	bookService book.Service
	cache       *redis.BookCache
}

// NewGetBookUseCase 创建详情查询用例
func NewGetBookUseCase(bookService book.Service, cache *redis.BookCache) *GetBookUseCase {
	return &GetBookUseCase{
		bookService: bookService,
		cache:       cache,
	}
}

// GetBookResponse 详情响应DTO
type GetBookResponse struct {
	ID        uint   `json:"id"`
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	Price     int64  `json:"price"` // 租价(分)
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// Execute 执行详情查询用例
// 学习要点:
// 1. 缓存命中直接返回,未命中回源数据库
// 2. 回填缓存失败不影响本次查询结果
func (uc *GetBookUseCase) Execute(ctx context.Context, isbn string) (*GetBookResponse, error) {
	// 1. 先查缓存
	if uc.cache != nil {
		cached, err := uc.cache.GetBookDetail(ctx, isbn)
		if err != nil {
			// 缓存故障降级:打日志后直连数据库
			fmt.Printf("[WARN] 读取图书缓存失败: %v\n", err)
		}
		if cached != nil {
			return toGetBookResponse(cached), nil
		}
	}

	// 2. 回源数据库
	b, err := uc.bookService.GetBookByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}

	// 3. 回填缓存(失败不影响查询)
	if uc.cache != nil {
		if err := uc.cache.SetBookDetail(ctx, b); err != nil {
			fmt.Printf("[WARN] 回填图书缓存失败: %v\n", err)
		}
	}

	return toGetBookResponse(b), nil
}

func toGetBookResponse(b *book.Book) *GetBookResponse {
	return &GetBookResponse{
		ID:        b.ID,
		ISBN:      b.ISBN,
		Title:     b.Title,
		Category:  b.Category,
		Author:    b.Author,
		Publisher: b.Publisher,
		Price:     b.Price,
		Status:    b.Status.String(),
		CreatedAt: b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
