package member

import (
	"context"

	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/member"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// RegisterMemberUseCase 读者办证用例
// 设计说明:
// 1. 读者模块业务简单,不引入领域服务,用例直接编排Repository
// 2. 借书证号由办证流程分配,调用方传入
type RegisterMemberUseCase struct {
	memberRepo member.Repository
}

// NewRegisterMemberUseCase 创建办证用例
func NewRegisterMemberUseCase(memberRepo member.Repository) *RegisterMemberUseCase {
	return &RegisterMemberUseCase{
		memberRepo: memberRepo,
	}
}

// RegisterMemberRequest 办证请求DTO
type RegisterMemberRequest struct {
	MemberNo string // 借书证号
	Name     string // 姓名
	Address  string // 地址
}

// RegisterMemberResponse 办证响应DTO
type RegisterMemberResponse struct {
	ID       uint   `json:"id"`
	MemberNo string `json:"member_no"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	RegDate  string `json:"reg_date"`
}

// Execute 执行办证用例
func (uc *RegisterMemberUseCase) Execute(ctx context.Context, req RegisterMemberRequest) (*RegisterMemberResponse, error) {
	// 1. 基本参数校验
	if req.MemberNo == "" || req.Name == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "借书证号和姓名不能为空")
	}

	// 2. 创建读者实体(办证日期取当天)
	m := member.NewMember(req.MemberNo, req.Name, req.Address)

	// 3. 持久化(借书证号重复由Repository返回ErrMemberNoDuplicate)
	if err := uc.memberRepo.Create(ctx, m); err != nil {
		return nil, err
	}

	return &RegisterMemberResponse{
		ID:       m.ID,
		MemberNo: m.MemberNo,
		Name:     m.Name,
		Address:  m.Address,
		RegDate:  m.RegDate.Format("2006-01-02"),
	}, nil
}

// UpdateMemberAddressUseCase 读者地址变更用例
type UpdateMemberAddressUseCase struct {
	memberRepo member.Repository
}

// NewUpdateMemberAddressUseCase 创建地址变更用例
func NewUpdateMemberAddressUseCase(memberRepo member.Repository) *UpdateMemberAddressUseCase {
	return &UpdateMemberAddressUseCase{
		memberRepo: memberRepo,
	}
}

// Execute 执行地址变更
func (uc *UpdateMemberAddressUseCase) Execute(ctx context.Context, memberNo, address string) error {
	// 1. 查找读者
	m, err := uc.memberRepo.FindByMemberNo(ctx, memberNo)
	if err != nil {
		return err
	}

	// 2. 领域行为:更新地址
	m.UpdateAddress(address)

	// 3. 持久化
	return uc.memberRepo.Update(ctx, m)
}

// MemberLoanHistoryUseCase 读者借阅历史查询用例
type MemberLoanHistoryUseCase struct {
	memberRepo member.Repository
	loanRepo   loan.Repository
}

// NewMemberLoanHistoryUseCase 创建借阅历史查询用例
func NewMemberLoanHistoryUseCase(memberRepo member.Repository, loanRepo loan.Repository) *MemberLoanHistoryUseCase {
	return &MemberLoanHistoryUseCase{
		memberRepo: memberRepo,
		loanRepo:   loanRepo,
	}
}

// LoanHistoryItem 借阅历史项DTO
type LoanHistoryItem struct {
	IssueNo   string `json:"issue_no"`
	ISBN      string `json:"isbn"`
	IssueDate string `json:"issue_date"`
	LateFee   int64  `json:"late_fee"` // 滞纳金(分)
}

// LoanHistoryResponse 借阅历史响应DTO
type LoanHistoryResponse struct {
	MemberNo string            `json:"member_no"`
	Name     string            `json:"name"`
	List     []LoanHistoryItem `json:"list"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// Execute 查询读者借阅历史(分页)
func (uc *MemberLoanHistoryUseCase) Execute(ctx context.Context, memberNo string, page, pageSize int) (*LoanHistoryResponse, error) {
	// 1. 参数默认值
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	// 2. 确认读者存在
	m, err := uc.memberRepo.FindByMemberNo(ctx, memberNo)
	if err != nil {
		return nil, err
	}

	// 3. 查询借阅历史
	loans, total, err := uc.loanRepo.ListByMemberNo(ctx, memberNo, page, pageSize)
	if err != nil {
		return nil, err
	}

	list := make([]LoanHistoryItem, len(loans))
	for i, l := range loans {
		list[i] = LoanHistoryItem{
			IssueNo:   l.IssueNo,
			ISBN:      l.ISBN,
			IssueDate: l.IssueDate.Format("2006-01-02"),
			LateFee:   l.LateFee,
		}
	}

	return &LoanHistoryResponse{
		MemberNo: m.MemberNo,
		Name:     m.Name,
		List:     list,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
