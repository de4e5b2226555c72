package catalog

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// AddBookUseCase 新书入库用例
// 设计说明:
// 1. 应用层负责用例编排,协调领域服务完成业务流程
// 2. 输入输出使用DTO(Data Transfer Object),与HTTP层解耦
// 3. 此用例比较简单,只需调用领域服务即可
type AddBookUseCase struct {
	bookService book.Service
}

// NewAddBookUseCase 创建入库用例
func NewAddBookUseCase(bookService book.Service) *AddBookUseCase {
	return &AddBookUseCase{
		bookService: bookService,
	}
}

// AddBookRequest 入库请求DTO
type AddBookRequest struct {
	ISBN      string // ISBN号
	Title     string // 书名
	Category  string // 分类
	Author    string // 作者
	Publisher string // 出版社
	Price     int64  // 租价(分)
}

// AddBookResponse 入库响应DTO
type AddBookResponse struct {
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

// Execute 执行入库用例
// 学习要点:
// 1. 应用层不直接操作Repository,通过领域服务间接操作
// 2. 业务规则校验由领域服务负责(ISBN格式、租价范围、ISBN重复检查)
// 3. 新书初始状态为"在架",由实体工厂保证
func (uc *AddBookUseCase) Execute(ctx context.Context, req AddBookRequest) (*AddBookResponse, error) {
	b, err := uc.bookService.AddBook(
		ctx,
		req.ISBN,
		req.Title,
		req.Category,
		req.Author,
		req.Publisher,
		req.Price,
	)
	if err != nil {
		return nil, err
	}

	// 构建响应DTO
	return &AddBookResponse{
		ID:        b.ID,
		ISBN:      b.ISBN,
		Title:     b.Title,
		Category:  b.Category,
		Author:    b.Author,
		Publisher: b.Publisher,
		Price:     b.Price,
		Status:    b.Status.String(),
		CreatedAt: b.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
