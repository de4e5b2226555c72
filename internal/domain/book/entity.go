package book

import (
	"time"
)

// Status 图书流通状态
// 教学要点:
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 定义为类型别名,便于添加方法
// 3. 图书只有两种状态,在issue/returnBook之间循环流转
type Status int

const (
	StatusAvailable Status = 1 // 在架(可借)
	StatusOnLoan    Status = 2 // 借出
)

// String 实现Stringer接口(方便日志输出)
func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "在架"
	case StatusOnLoan:
		return "借出"
	default:
		return "未知状态"
	}
}

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Book是图书聚合的根实体,包含图书的核心属性
// 2. 租价使用int64存储"分"为单位(避免浮点数精度问题)
// 3. ISBN作为业务唯一标识(数据库层保证唯一性)
// 4. Status的不变式:Status==借出 当且仅当 存在该ISBN的未归还借阅记录
type Book struct {
	ID        uint
	ISBN      string // ISBN号(国际标准书号)
	Title     string // 书名
	Category  string // 分类
	Author    string // 作者
	Publisher string // 出版社
	Price     int64  // 租价(单位:分,1元=100分)
	Status    Status // 流通状态
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBook 创建新图书(工厂方法)
// 新书入库时状态固定为"在架"
func NewBook(isbn, title, category, author, publisher string, price int64) *Book {
	now := time.Now()
	return &Book{
		ISBN:      isbn,
		Title:     title,
		Category:  category,
		Author:    author,
		Publisher: publisher,
		Price:     price,
		Status:    StatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAvailable 图书是否在架可借
func (b *Book) IsAvailable() bool {
	return b.Status == StatusAvailable
}

// MarkOnLoan 标记为借出(领域行为)
// 业务规则:只有在架的图书才能借出,已借出返回ErrBookOnLoan
func (b *Book) MarkOnLoan() error {
	if b.Status == StatusOnLoan {
		return ErrBookOnLoan
	}
	b.Status = StatusOnLoan
	b.UpdatedAt = time.Now()
	return nil
}

// MarkAvailable 标记为在架(领域行为)
// 说明:归还时无条件置回在架(由借阅唯一性不变式保证不会误放行其他借阅)
func (b *Book) MarkAvailable() {
	b.Status = StatusAvailable
	b.UpdatedAt = time.Now()
}

// UpdatePrice 更新租价(领域行为)
// 业务规则:租价不能为负数
func (b *Book) UpdatePrice(newPrice int64) error {
	if newPrice < 0 {
		return ErrInvalidPrice
	}
	b.Price = newPrice
	b.UpdatedAt = time.Now()
	return nil
}

// UpdateInfo 更新图书基本信息
func (b *Book) UpdateInfo(title, category, author, publisher string) {
	if title != "" {
		b.Title = title
	}
	if category != "" {
		b.Category = category
	}
	if author != "" {
		b.Author = author
	}
	if publisher != "" {
		b.Publisher = publisher
	}
	b.UpdatedAt = time.Now()
}
