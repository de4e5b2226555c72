package book

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "ISBN号已存在")

	// ErrInvalidISBN ISBN格式不正确
	ErrInvalidISBN = apperrors.New(apperrors.ErrCodeInvalidParams, "ISBN格式不正确")

	// ErrInvalidPrice 无效的租价
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "租价不能为负数")

	// ErrBookOnLoan 图书已借出
	// 注意:issue流程中这不是系统故障,而是正常的拒借结果
	ErrBookOnLoan = apperrors.New(apperrors.ErrCodeBookOnLoan, "图书已借出")

	// ErrBookReferenced 图书存在借阅记录,不可删除
	ErrBookReferenced = apperrors.New(apperrors.ErrCodeBookReferenced, "图书存在借阅记录,不可删除")
)
