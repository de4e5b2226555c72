package staff

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 馆员/分馆领域错误定义
var (
	// ErrEmployeeNotFound 馆员不存在
	ErrEmployeeNotFound = apperrors.New(apperrors.ErrCodeEmployeeNotFound, "馆员不存在")

	// ErrEmpNoDuplicate 工号已存在
	ErrEmpNoDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "工号已存在")

	// ErrBranchNotFound 分馆不存在
	ErrBranchNotFound = apperrors.New(apperrors.ErrCodeBranchNotFound, "分馆不存在")

	// ErrBranchNoDuplicate 分馆编号已存在
	ErrBranchNoDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "分馆编号已存在")

	// ErrWeakPassword 密码强度不足
	ErrWeakPassword = apperrors.New(apperrors.ErrCodeWeakPassword, "密码长度应为8-20位,且包含字母和数字")
)
