package staff

import (
	"context"

	"github.com/xiebiao/library/internal/domain/staff"
)

// RegisterEmployeeUseCase 馆员入职用例
// 设计说明:
// 1. 密码加密、分馆存在性校验均由领域服务完成
// 2. 响应不回传密码哈希
type RegisterEmployeeUseCase struct {
	staffService staff.Service
}

// NewRegisterEmployeeUseCase 创建入职用例
func NewRegisterEmployeeUseCase(staffService staff.Service) *RegisterEmployeeUseCase {
	return &RegisterEmployeeUseCase{
		staffService: staffService,
	}
}

// RegisterEmployeeRequest 入职请求DTO
type RegisterEmployeeRequest struct {
	EmpNo    string // 工号
	Name     string // 姓名
	Position string // 职位
	Salary   int64  // 薪资(分)
	BranchNo string // 所属分馆编号
	Password string // 明文密码(领域服务负责加密)
}

// RegisterEmployeeResponse 入职响应DTO
type RegisterEmployeeResponse struct {
	ID       uint   `json:"id"`
	EmpNo    string `json:"emp_no"`
	Name     string `json:"name"`
	Position string `json:"position"`
	BranchNo string `json:"branch_no"`
}

// Execute 执行入职用例
func (uc *RegisterEmployeeUseCase) Execute(ctx context.Context, req RegisterEmployeeRequest) (*RegisterEmployeeResponse, error) {
	employee, err := uc.staffService.Register(
		ctx,
		req.EmpNo,
		req.Name,
		req.Position,
		req.Salary,
		req.BranchNo,
		req.Password,
	)
	if err != nil {
		return nil, err
	}

	return &RegisterEmployeeResponse{
		ID:       employee.ID,
		EmpNo:    employee.EmpNo,
		Name:     employee.Name,
		Position: employee.Position,
		BranchNo: employee.BranchNo,
	}, nil
}
