package staff

import (
	"context"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Service 馆员领域服务
// 设计说明:
// 1. Service包含不属于单个实体的业务逻辑(如密码加密、验证)
// 2. Service依赖Repository接口,不依赖具体实现(依赖倒置)
// 3. Service不处理HTTP请求,只处理业务逻辑
type Service interface {
	// Register 馆员入职(创建账号)
	Register(ctx context.Context, empNo, name, position string, salary int64, branchNo, password string) (*Employee, error)

	// Login 馆员登录
	Login(ctx context.Context, empNo, password string) (*Employee, error)

	// ValidatePassword 验证密码
	ValidatePassword(hashedPassword, plainPassword string) error
}

type service struct {
	employees EmployeeRepository
	branches  BranchRepository
}

// NewService 创建馆员服务
func NewService(employees EmployeeRepository, branches BranchRepository) Service {
	return &service{employees: employees, branches: branches}
}

// Register 馆员入职
// 业务规则:
// 1. 所属分馆必须存在
// 2. 密码强度校验(8-20位,包含字母和数字)
// 3. 密码bcrypt加密(cost=12)
// 4. 工号唯一性由数据库UNIQUE索引保证
func (s *service) Register(ctx context.Context, empNo, name, position string, salary int64, branchNo, password string) (*Employee, error) {
	// 1. 基本参数校验
	if empNo == "" || name == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "工号和姓名不能为空")
	}
	if salary < 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "薪资不能为负数")
	}

	// 2. 所属分馆必须存在
	if _, err := s.branches.FindByBranchNo(ctx, branchNo); err != nil {
		return nil, err
	}

	// 3. 密码强度校验
	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	// 4. 密码加密
	// 学习要点:
	// - bcrypt自动加盐,每次加密结果都不同(即使密码相同)
	// - cost=12是推荐值,平衡安全性与性能(cost每+1,耗时翻倍)
	// - 不要使用MD5/SHA1,已被证明不安全(彩虹表攻击)
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	// 5. 创建馆员实体
	employee := NewEmployee(empNo, name, position, salary, branchNo, string(hashedPassword))

	// 6. 持久化到数据库
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, err // Repository已转换为业务错误
	}

	return employee, nil
}

// Login 馆员登录
// 业务规则:
// 1. 工号必须存在
// 2. 密码必须正确
// 注意:工号不存在与密码错误返回相同的错误信息(防止工号枚举)
func (s *service) Login(ctx context.Context, empNo, password string) (*Employee, error) {
	// 1. 根据工号查找馆员
	employee, err := s.employees.FindByEmpNo(ctx, empNo)
	if err != nil {
		if err == ErrEmployeeNotFound {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}

	// 2. 验证密码
	if err := s.ValidatePassword(employee.Password, password); err != nil {
		return nil, err // 返回ErrInvalidPassword
	}

	return employee, nil
}

// ValidatePassword 验证密码
// 说明:登录时使用,验证明文密码与哈希值是否匹配
func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}

// =========================================
// 辅助函数:业务规则校验
// =========================================

// validatePasswordStrength 密码强度校验
// 规则:8-20位,必须包含字母和数字
func validatePasswordStrength(password string) error {
	// 长度校验
	if len(password) < 8 || len(password) > 20 {
		return ErrWeakPassword
	}

	// 必须包含字母
	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	// 必须包含数字
	hasDigit := regexp.MustCompile(`[0-9]`).MatchString(password)

	if !hasLetter || !hasDigit {
		return ErrWeakPassword
	}

	return nil
}
