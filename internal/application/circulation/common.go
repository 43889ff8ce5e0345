package circulation

import (
	apperrors "github.com/xiebiao/bookhouse/pkg/errors"
)

// failureReason 将业务错误映射为低基数的监控标签值
func failureReason(err error) string {
	switch apperrors.GetAppError(err).Code {
	case apperrors.ErrCodeInvalidState:
		return "invalid_state"
	case apperrors.ErrCodeLoanLimitExceeded:
		return "loan_limit"
	case apperrors.ErrCodeCapacityExceeded:
		return "capacity"
	case apperrors.ErrCodeTransient:
		return "transient"
	case apperrors.ErrCodeBookNotFound, apperrors.ErrCodeReaderNotFound, apperrors.ErrCodeLibrarianNotFound:
		return "not_found"
	case apperrors.ErrCodeInternal, apperrors.ErrCodeDatabaseError:
		return "internal"
	default:
		return "other"
	}
}
