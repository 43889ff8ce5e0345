package catalog

import (
	apperrors "github.com/xiebiao/bookhouse/pkg/errors"
)

// 目录领域错误定义
var (
	// ErrAuthorNotFound 作者不存在
	ErrAuthorNotFound = apperrors.New(apperrors.ErrCodeNotFound, "作者不存在")

	// ErrPublicationTypeNotFound 出版类型不存在
	ErrPublicationTypeNotFound = apperrors.New(apperrors.ErrCodeNotFound, "出版类型不存在")

	// ErrLibrarianNotFound 图书管理员不存在
	ErrLibrarianNotFound = apperrors.New(apperrors.ErrCodeLibrarianNotFound, "图书管理员不存在")

	// ErrReaderNotFound 读者不存在
	ErrReaderNotFound = apperrors.New(apperrors.ErrCodeReaderNotFound, "读者不存在")

	// ErrLibrarianFIODuplicate 管理员姓名已存在
	ErrLibrarianFIODuplicate = apperrors.New(apperrors.ErrCodeUniquenessViolation, "该姓名的图书管理员已存在")

	// ErrAuthorReferenced 作者仍被图书引用,禁止删除
	ErrAuthorReferenced = apperrors.New(apperrors.ErrCodeReferentialIntegrity, "作者仍被图书引用，无法删除")

	// ErrLibrarianReferenced 管理员仍被大厅或流转日志引用,禁止删除
	ErrLibrarianReferenced = apperrors.New(apperrors.ErrCodeReferentialIntegrity, "图书管理员仍被引用，无法删除")

	// ErrReaderReferenced 读者仍被流转日志引用,禁止删除
	ErrReaderReferenced = apperrors.New(apperrors.ErrCodeReferentialIntegrity, "读者仍被流转日志引用，无法删除")
)
