package staff

import (
	"context"
	"fmt"
	"time"

	"github.com/xiebiao/library/internal/domain/staff"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/pkg/jwt"
)

// LoginUseCase 馆员登录用例
// 设计说明：
// 1. 验证工号密码
// 2. 生成JWT Token对
// 3. 保存会话到Redis(失败不阻断登录)
type LoginUseCase struct {
	staffService staff.Service
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	staffService staff.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
) *LoginUseCase {
	return &LoginUseCase{
		staffService: staffService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	// 1. 验证工号密码(调用领域服务)
	employee, err := uc.staffService.Login(ctx, req.EmpNo, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 生成JWT Token对
	tokenPair, err := uc.jwtManager.GenerateToken(employee.ID, employee.EmpNo, employee.Name)
	if err != nil {
		return nil, err
	}

	// 3. 保存会话到Redis
	sessionData := map[string]interface{}{
		"employee_id": employee.ID,
		"emp_no":      employee.EmpNo,
		"name":        employee.Name,
		"branch_no":   employee.BranchNo,
		"login_at":    time.Now().Unix(),
	}

	// 会话有效期 = Refresh Token有效期
	if uc.sessionStore != nil {
		if err := uc.sessionStore.SaveSession(ctx, employee.ID, sessionData, 7*24*time.Hour); err != nil {
			// 会话保存失败不影响登录
			fmt.Printf("[WARN] 保存登录会话失败: %v\n", err)
		}
	}

	// 4. 返回登录响应
	return &LoginResponse{
		Employee: EmployeeInfo{
			ID:       employee.ID,
			EmpNo:    employee.EmpNo,
			Name:     employee.Name,
			Position: employee.Position,
			BranchNo: employee.BranchNo,
		},
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// LogoutUseCase 馆员登出用例
type LogoutUseCase struct {
	sessionStore *redis.SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore *redis.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore}
}

// Execute 执行登出
func (uc *LogoutUseCase) Execute(ctx context.Context, employeeID uint, accessToken string) error {
	if uc.sessionStore == nil {
		return nil
	}

	// 1. 删除会话
	if err := uc.sessionStore.DeleteSession(ctx, employeeID); err != nil {
		return err
	}

	// 2. 将Access Token加入黑名单(防止Token在过期前继续使用)
	if err := uc.sessionStore.AddToBlacklist(ctx, accessToken, 2*time.Hour); err != nil {
		return err
	}

	return nil
}

// =========================================
// 应用层DTO
// =========================================

// LoginRequest 登录请求
type LoginRequest struct {
	EmpNo    string
	Password string
}

// LoginResponse 登录响应
type LoginResponse struct {
	Employee     EmployeeInfo `json:"employee"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"` // Access Token过期时间(秒)
}

// EmployeeInfo 馆员信息
type EmployeeInfo struct {
	ID       uint   `json:"id"`
	EmpNo    string `json:"emp_no"`
	Name     string `json:"name"`
	Position string `json:"position"`
	BranchNo string `json:"branch_no"`
}
