package member

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 读者领域错误定义
var (
	// ErrMemberNotFound 读者不存在
	ErrMemberNotFound = apperrors.New(apperrors.ErrCodeMemberNotFound, "读者不存在")

	// ErrMemberNoDuplicate 借书证号已存在
	ErrMemberNoDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "借书证号已存在")
)
