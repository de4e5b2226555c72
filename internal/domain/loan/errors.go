package loan

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 借阅领域错误定义
var (
	// ErrLoanNotFound 借阅记录不存在
	ErrLoanNotFound = apperrors.New(apperrors.ErrCodeLoanNotFound, "借阅记录不存在")

	// ErrIssueNoDuplicate 借阅单号已存在
	ErrIssueNoDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "借阅单号已存在")

	// ErrReturnNoDuplicate 归还单号已存在
	ErrReturnNoDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "归还单号已存在")

	// ErrAlreadyReturned 借阅已归还
	// 注意:returnBook流程中这不是系统故障,而是正常的拒绝结果
	ErrAlreadyReturned = apperrors.New(apperrors.ErrCodeAlreadyReturned, "该借阅记录已归还")
)
