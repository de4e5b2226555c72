package dto

// IssueBookRequest HTTP借出请求
// 借阅单号由借还台系统生成后传入(业务主键)
type IssueBookRequest struct {
	IssueNo  string `json:"issue_no" binding:"required,max=32" example:"I20260829001"`
	MemberNo string `json:"member_no" binding:"required,max=32" example:"M001"`
	ISBN     string `json:"isbn" binding:"required,max=20" example:"9787115428028"`
}

// IssueBookResponse HTTP借出响应
// Outcome说明:
// - "ok": 借出成功
// - "declined": 图书已借出,拒借(正常业务结果,不是错误)
type IssueBookResponse struct {
	Outcome   string `json:"outcome" example:"ok"`
	Message   string `json:"message" example:"《Go语言实战》(ISBN:9787115428028)借出成功"`
	IssueNo   string `json:"issue_no,omitempty" example:"I20260829001"`
	ISBN      string `json:"isbn" example:"9787115428028"`
	IssueDate string `json:"issue_date,omitempty" example:"2026-08-29"`
}

// ReturnBookRequest HTTP归还请求
type ReturnBookRequest struct {
	ReturnNo string `json:"return_no" binding:"required,max=32" example:"R20260829001"`
	IssueNo  string `json:"issue_no" binding:"required,max=32" example:"I20260829001"`
}

// ReturnBookResponse HTTP归还响应
// LateFee是最后一次批处理评估的冻结值,归还时不重算
type ReturnBookResponse struct {
	Outcome     string `json:"outcome" example:"ok"`
	Message     string `json:"message" example:"《Go语言实战》归还成功"`
	ReturnNo    string `json:"return_no,omitempty" example:"R20260829001"`
	ISBN        string `json:"isbn,omitempty" example:"9787115428028"`
	BookTitle   string `json:"book_title,omitempty" example:"Go语言实战"`
	ReturnDate  string `json:"return_date,omitempty" example:"2026-08-29"`
	LateFee     int64  `json:"late_fee" example:"500"`       // 滞纳金(分)
	LateFeeYuan string `json:"late_fee_yuan" example:"5.00"` // 滞纳金(元)
}

// AssessLateFeesResponse HTTP滞纳金批处理响应
type AssessLateFeesResponse struct {
	Scanned  int    `json:"scanned" example:"120"`  // 扫描的未归还借阅数
	Updated  int    `json:"updated" example:"118"`  // 成功回写数
	Skipped  int    `json:"skipped" example:"2"`    // 扫描后被归还而跳过数
	Failed   int    `json:"failed" example:"0"`     // 回写失败数
	AssessAt string `json:"assess_at" example:"2026-08-29 02:00:00"`
}
