package dto

import "fmt"

// AddBookRequest HTTP新书入库请求
// validator tag说明:
// - required: 必填字段
// - min/max: 数值范围校验
type AddBookRequest struct {
	ISBN      string `json:"isbn" binding:"required" example:"9787115428028"`
	Title     string `json:"title" binding:"required,max=200" example:"Go语言实战"`
	Category  string `json:"category" binding:"max=50" example:"计算机"`
	Author    string `json:"author" binding:"required,max=100" example:"威廉·肯尼迪"`
	Publisher string `json:"publisher" binding:"max=100" example:"人民邮电出版社"`
	Price     int64  `json:"price" binding:"min=0,max=999999" example:"500"` // 租价(分),5.00元
}

// BookResponse HTTP图书响应
// 用于单个图书详情返回
type BookResponse struct {
	ID        uint   `json:"id" example:"1"`
	ISBN      string `json:"isbn" example:"9787115428028"`
	Title     string `json:"title" example:"Go语言实战"`
	Category  string `json:"category" example:"计算机"`
	Author    string `json:"author" example:"威廉·肯尼迪"`
	Publisher string `json:"publisher" example:"人民邮电出版社"`
	Price     int64  `json:"price" example:"500"`       // 租价(分)
	PriceYuan string `json:"price_yuan" example:"5.00"` // 租价(元),方便前端显示
	Status    string `json:"status" example:"在架"`
	CreatedAt string `json:"created_at" example:"2024-01-15 10:30:00"`
}

// BookListItem HTTP图书列表项
type BookListItem struct {
	ID        uint   `json:"id" example:"1"`
	ISBN      string `json:"isbn" example:"9787115428028"`
	Title     string `json:"title" example:"Go语言实战"`
	Category  string `json:"category" example:"计算机"`
	Author    string `json:"author" example:"威廉·肯尼迪"`
	Publisher string `json:"publisher" example:"人民邮电出版社"`
	Price     int64  `json:"price" example:"500"`
	PriceYuan string `json:"price_yuan" example:"5.00"`
	Status    string `json:"status" example:"在架"`
	CreatedAt string `json:"created_at" example:"2024-01-15 10:30:00"`
}

// ListBooksRequest HTTP图书列表请求
type ListBooksRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"Go"`
	Category string `form:"category" binding:"omitempty,max=50" example:"计算机"`
	Status   int    `form:"status" binding:"omitempty,oneof=1 2" example:"1"` // 1在架 2借出
}

// UpdateBookInfoRequest HTTP图书信息更新请求
type UpdateBookInfoRequest struct {
	Title     string `json:"title" binding:"required,max=200" example:"Go语言实战(第2版)"`
	Category  string `json:"category" binding:"max=50" example:"计算机"`
	Author    string `json:"author" binding:"required,max=100" example:"威廉·肯尼迪"`
	Publisher string `json:"publisher" binding:"max=100" example:"人民邮电出版社"`
}

// UpdateBookPriceRequest HTTP租价调整请求
type UpdateBookPriceRequest struct {
	Price int64 `json:"price" binding:"min=0,max=999999" example:"600"` // 新租价(分)
}

// FormatPriceYuan 格式化价格(分→元)
// 工具函数:将价格从分转换为元的字符串表示
// 例如:500分 → "5.00"
func FormatPriceYuan(priceFen int64) string {
	yuan := float64(priceFen) / 100.0
	return fmt.Sprintf("%.2f", yuan)
}
