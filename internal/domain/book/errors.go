package book

import (
	apperrors "github.com/xiebiao/bookhouse/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrNumberDuplicate 登记号已存在
	ErrNumberDuplicate = apperrors.New(apperrors.ErrCodeUniquenessViolation, "该登记号的图书已存在")

	// ErrInvalidPageCount 无效的页数
	ErrInvalidPageCount = apperrors.New(apperrors.ErrCodeInvalidParams, "页数必须大于0")

	// ErrBookReferenced 图书仍被流转日志引用,禁止删除
	ErrBookReferenced = apperrors.New(apperrors.ErrCodeReferentialIntegrity, "图书仍被流转日志引用，无法删除")
)
