package dto

// RegisterMemberRequest HTTP办证请求
type RegisterMemberRequest struct {
	MemberNo string `json:"member_no" binding:"required,max=32" example:"M001"`
	Name     string `json:"name" binding:"required,max=50" example:"张三"`
	Address  string `json:"address" binding:"max=200" example:"上海市徐汇区"`
}

// MemberResponse HTTP读者响应
type MemberResponse struct {
	ID       uint   `json:"id" example:"1"`
	MemberNo string `json:"member_no" example:"M001"`
	Name     string `json:"name" example:"张三"`
	Address  string `json:"address" example:"上海市徐汇区"`
	RegDate  string `json:"reg_date" example:"2026-08-29"`
}

// UpdateMemberAddressRequest HTTP地址变更请求
type UpdateMemberAddressRequest struct {
	Address string `json:"address" binding:"required,max=200" example:"上海市浦东新区"`
}

// MemberLoansRequest HTTP借阅历史查询请求
type MemberLoansRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}
