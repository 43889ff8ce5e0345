package shelving

import (
	apperrors "github.com/xiebiao/bookhouse/pkg/errors"
)

// 书库层级领域错误定义
var (
	// ErrHallNotFound 大厅不存在
	ErrHallNotFound = apperrors.New(apperrors.ErrCodeNotFound, "书库大厅不存在")

	// ErrCaseNotFound 书柜不存在
	ErrCaseNotFound = apperrors.New(apperrors.ErrCodeNotFound, "书柜不存在")

	// ErrShelfNotFound 书架不存在
	ErrShelfNotFound = apperrors.New(apperrors.ErrCodeShelfNotFound, "书架不存在")

	// ErrCaseNumberDuplicate 同一大厅内书柜编号重复
	ErrCaseNumberDuplicate = apperrors.New(apperrors.ErrCodeUniquenessViolation, "该大厅内已存在同编号书柜")

	// ErrShelfNumberDuplicate 同一书柜内书架编号重复
	ErrShelfNumberDuplicate = apperrors.New(apperrors.ErrCodeUniquenessViolation, "该书柜内已存在同编号书架")

	// ErrNoShelfAvailable 所有书架已满,无法收纳归还图书
	ErrNoShelfAvailable = apperrors.New(apperrors.ErrCodeCapacityExceeded, "没有可用书架，所有书架已满")

	// ErrShelfFull 目标书架已达容量上限
	ErrShelfFull = apperrors.New(apperrors.ErrCodeCapacityExceeded, "书架已满，无法放置更多图书")

	// ErrHallReferenced 大厅仍有下属书柜,禁止删除
	ErrHallReferenced = apperrors.New(apperrors.ErrCodeReferentialIntegrity, "大厅仍有下属书柜，无法删除")

	// ErrCaseReferenced 书柜仍有下属书架,禁止删除
	ErrCaseReferenced = apperrors.New(apperrors.ErrCodeReferentialIntegrity, "书柜仍有下属书架，无法删除")

	// ErrShelfReferenced 书架仍有在架图书或被流转日志引用,禁止删除
	ErrShelfReferenced = apperrors.New(apperrors.ErrCodeReferentialIntegrity, "书架仍被引用，无法删除")
)
