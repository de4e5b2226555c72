package staff

import (
	"context"

	"github.com/xiebiao/library/internal/domain/staff"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// ManageBranchUseCase 分馆维护用例(建馆、指派馆长、列表)
// 设计说明:
// 1. 分馆业务简单,用例直接编排Repository
// 2. 馆长是可空的软自引用:建馆时可不指定,后续指派
type ManageBranchUseCase struct {
	branchRepo   staff.BranchRepository
	employeeRepo staff.EmployeeRepository
}

// NewManageBranchUseCase 创建分馆维护用例
func NewManageBranchUseCase(branchRepo staff.BranchRepository, employeeRepo staff.EmployeeRepository) *ManageBranchUseCase {
	return &ManageBranchUseCase{
		branchRepo:   branchRepo,
		employeeRepo: employeeRepo,
	}
}

// CreateBranchRequest 建馆请求DTO
type CreateBranchRequest struct {
	BranchNo  string  // 分馆编号
	ManagerNo *string // 馆长工号(可空)
	Address   string  // 地址
	Contact   string  // 联系方式
}

// BranchInfo 分馆信息DTO
type BranchInfo struct {
	ID        uint    `json:"id"`
	BranchNo  string  `json:"branch_no"`
	ManagerNo *string `json:"manager_no"` // null表示暂无馆长
	Address   string  `json:"address"`
	Contact   string  `json:"contact"`
}

// CreateBranch 创建分馆
// 学习要点:
// 1. 馆长工号是软引用,指定时不强制要求馆员已录入
//    (分馆与馆长可能在同一批次导入,先后顺序不定)
func (uc *ManageBranchUseCase) CreateBranch(ctx context.Context, req CreateBranchRequest) (*BranchInfo, error) {
	if req.BranchNo == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "分馆编号不能为空")
	}

	b := staff.NewBranch(req.BranchNo, req.ManagerNo, req.Address, req.Contact)
	if err := uc.branchRepo.Create(ctx, b); err != nil {
		return nil, err
	}

	return toBranchInfo(b), nil
}

// AssignManager 指派馆长
// 业务规则:被指派的馆员必须已录入
func (uc *ManageBranchUseCase) AssignManager(ctx context.Context, branchNo, empNo string) error {
	// 1. 分馆必须存在
	b, err := uc.branchRepo.FindByBranchNo(ctx, branchNo)
	if err != nil {
		return err
	}

	// 2. 馆员必须存在(指派是明确的管理动作,与建馆时的软引用不同)
	if _, err := uc.employeeRepo.FindByEmpNo(ctx, empNo); err != nil {
		return err
	}

	// 3. 领域行为:指派馆长
	b.AssignManager(empNo)

	return uc.branchRepo.Update(ctx, b)
}

// ListBranches 查询全部分馆
func (uc *ManageBranchUseCase) ListBranches(ctx context.Context) ([]BranchInfo, error) {
	branches, err := uc.branchRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]BranchInfo, len(branches))
	for i, b := range branches {
		list[i] = *toBranchInfo(b)
	}
	return list, nil
}

func toBranchInfo(b *staff.Branch) *BranchInfo {
	return &BranchInfo{
		ID:        b.ID,
		BranchNo:  b.BranchNo,
		ManagerNo: b.ManagerNo,
		Address:   b.Address,
		Contact:   b.Contact,
	}
}
