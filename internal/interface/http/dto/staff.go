package dto

// RegisterEmployeeRequest HTTP馆员入职请求
type RegisterEmployeeRequest struct {
	EmpNo    string `json:"emp_no" binding:"required,max=32" example:"E001"`
	Name     string `json:"name" binding:"required,max=50" example:"李馆员"`
	Position string `json:"position" binding:"max=50" example:"流通部馆员"`
	Salary   int64  `json:"salary" binding:"min=0" example:"800000"` // 薪资(分)
	BranchNo string `json:"branch_no" binding:"required,max=32" example:"B001"`
	Password string `json:"password" binding:"required,min=8,max=20" example:"Passw0rd123"`
}

// EmployeeResponse HTTP馆员响应
type EmployeeResponse struct {
	ID       uint   `json:"id" example:"1"`
	EmpNo    string `json:"emp_no" example:"E001"`
	Name     string `json:"name" example:"李馆员"`
	Position string `json:"position" example:"流通部馆员"`
	BranchNo string `json:"branch_no" example:"B001"`
}

// LoginRequest HTTP登录请求
type LoginRequest struct {
	EmpNo    string `json:"emp_no" binding:"required,max=32" example:"E001"`
	Password string `json:"password" binding:"required" example:"Passw0rd123"`
}

// LoginResponse HTTP登录响应
type LoginResponse struct {
	Employee     EmployeeResponse `json:"employee"`
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	ExpiresIn    int64            `json:"expires_in" example:"7200"` // Access Token过期时间(秒)
}

// CreateBranchRequest HTTP建馆请求
// manager_no可空:分馆可以暂无馆长
type CreateBranchRequest struct {
	BranchNo  string  `json:"branch_no" binding:"required,max=32" example:"B001"`
	ManagerNo *string `json:"manager_no" binding:"omitempty,max=32" example:"E001"`
	Address   string  `json:"address" binding:"max=200" example:"上海市徐汇区漕溪北路100号"`
	Contact   string  `json:"contact" binding:"max=50" example:"021-12345678"`
}

// AssignManagerRequest HTTP指派馆长请求
type AssignManagerRequest struct {
	EmpNo string `json:"emp_no" binding:"required,max=32" example:"E001"`
}

// BranchResponse HTTP分馆响应
type BranchResponse struct {
	ID        uint    `json:"id" example:"1"`
	BranchNo  string  `json:"branch_no" example:"B001"`
	ManagerNo *string `json:"manager_no" example:"E001"` // null表示暂无馆长
	Address   string  `json:"address" example:"上海市徐汇区漕溪北路100号"`
	Contact   string  `json:"contact" example:"021-12345678"`
}
