package handler

import (
	"github.com/gin-gonic/gin"

	appstaff "github.com/xiebiao/library/internal/application/staff"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// StaffHandler 馆员与分馆HTTP处理器
type StaffHandler struct {
	registerUseCase     *appstaff.RegisterEmployeeUseCase
	loginUseCase        *appstaff.LoginUseCase
	logoutUseCase       *appstaff.LogoutUseCase
	manageBranchUseCase *appstaff.ManageBranchUseCase
}

// NewStaffHandler 创建馆员处理器
func NewStaffHandler(
	registerUseCase *appstaff.RegisterEmployeeUseCase,
	loginUseCase *appstaff.LoginUseCase,
	logoutUseCase *appstaff.LogoutUseCase,
	manageBranchUseCase *appstaff.ManageBranchUseCase,
) *StaffHandler {
	return &StaffHandler{
		registerUseCase:     registerUseCase,
		loginUseCase:        loginUseCase,
		logoutUseCase:       logoutUseCase,
		manageBranchUseCase: manageBranchUseCase,
	}
}

// RegisterEmployee 馆员入职
// @Summary      馆员入职
// @Tags         馆员
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterEmployeeRequest true "馆员信息"
// @Success      200 {object} response.Response{data=dto.EmployeeResponse}
// @Failure      400 {object} response.Response "密码强度不足"
// @Failure      404 {object} response.Response "分馆不存在"
// @Failure      409 {object} response.Response "工号已存在"
// @Router       /api/v1/staff/register [post]
func (h *StaffHandler) RegisterEmployee(c *gin.Context) {
	var req dto.RegisterEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), appstaff.RegisterEmployeeRequest{
		EmpNo:    req.EmpNo,
		Name:     req.Name,
		Position: req.Position,
		Salary:   req.Salary,
		BranchNo: req.BranchNo,
		Password: req.Password,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.EmployeeResponse{
		ID:       result.ID,
		EmpNo:    result.EmpNo,
		Name:     result.Name,
		Position: result.Position,
		BranchNo: result.BranchNo,
	})
}

// Login 馆员登录
// @Summary      馆员登录
// @Tags         馆员
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=dto.LoginResponse}
// @Failure      401 {object} response.Response "工号或密码错误"
// @Router       /api/v1/staff/login [post]
func (h *StaffHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appstaff.LoginRequest{
		EmpNo:    req.EmpNo,
		Password: req.Password,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.LoginResponse{
		Employee: dto.EmployeeResponse{
			ID:       result.Employee.ID,
			EmpNo:    result.Employee.EmpNo,
			Name:     result.Employee.Name,
			Position: result.Employee.Position,
			BranchNo: result.Employee.BranchNo,
		},
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
	})
}

// Logout 馆员登出
// @Summary      馆员登出
// @Description  删除会话并将当前Token加入黑名单
// @Tags         馆员
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /api/v1/staff/logout [post]
func (h *StaffHandler) Logout(c *gin.Context) {
	employeeID := middleware.MustGetEmployeeID(c)
	accessToken := middleware.GetAccessToken(c)

	if err := h.logoutUseCase.Execute(c.Request.Context(), employeeID, accessToken); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// CreateBranch 创建分馆
// @Summary      创建分馆
// @Description  馆长可暂缺(manager_no传null)
// @Tags         分馆
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBranchRequest true "分馆信息"
// @Success      200 {object} response.Response{data=dto.BranchResponse}
// @Failure      409 {object} response.Response "分馆编号已存在"
// @Router       /api/v1/branches [post]
func (h *StaffHandler) CreateBranch(c *gin.Context) {
	var req dto.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageBranchUseCase.CreateBranch(c.Request.Context(), appstaff.CreateBranchRequest{
		BranchNo:  req.BranchNo,
		ManagerNo: req.ManagerNo,
		Address:   req.Address,
		Contact:   req.Contact,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.BranchResponse{
		ID:        result.ID,
		BranchNo:  result.BranchNo,
		ManagerNo: result.ManagerNo,
		Address:   result.Address,
		Contact:   result.Contact,
	})
}

// AssignManager 指派馆长
// @Summary      指派馆长
// @Tags         分馆
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        branch_no path string true "分馆编号"
// @Param        request body dto.AssignManagerRequest true "馆长工号"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "分馆/馆员不存在"
// @Router       /api/v1/branches/{branch_no}/manager [put]
func (h *StaffHandler) AssignManager(c *gin.Context) {
	branchNo := c.Param("branch_no")

	var req dto.AssignManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	if err := h.manageBranchUseCase.AssignManager(c.Request.Context(), branchNo, req.EmpNo); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// ListBranches 分馆列表
// @Summary      分馆列表
// @Tags         分馆
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]dto.BranchResponse}
// @Router       /api/v1/branches [get]
func (h *StaffHandler) ListBranches(c *gin.Context) {
	result, err := h.manageBranchUseCase.ListBranches(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.BranchResponse, len(result))
	for i, b := range result {
		list[i] = dto.BranchResponse{
			ID:        b.ID,
			BranchNo:  b.BranchNo,
			ManagerNo: b.ManagerNo,
			Address:   b.Address,
			Contact:   b.Contact,
		}
	}

	response.Success(c, list)
}
