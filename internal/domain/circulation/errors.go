package circulation

import (
	apperrors "github.com/xiebiao/bookhouse/pkg/errors"
)

// 流转引擎领域错误定义
var (
	// ErrBookAlreadyOnLoan 图书已被借出(重复借出)
	ErrBookAlreadyOnLoan = apperrors.New(apperrors.ErrCodeInvalidState, "图书已被其他读者借出")

	// ErrLoanLimitExceeded 该读者对该图书的未归还记录超出上限
	ErrLoanLimitExceeded = apperrors.New(apperrors.ErrCodeLoanLimitExceeded, "借阅数量超出上限")
)
