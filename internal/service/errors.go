package service

import (
	"context"
	"errors"
	"fmt"

	"walletx/internal/core/domain"
	"walletx/pkg/apperror"
)

// storageError maps storage failures onto API errors. Anything that is not
// a known domain failure becomes a SYS_001 database error.
func storageError(op string, err error) error {
	wrapped := fmt.Errorf("%s: %w", op, err)
	switch {
	case errors.Is(err, domain.ErrWalletNotFound):
		return apperror.ErrWalletNotFound()
	case errors.Is(err, domain.ErrTransactionNotFound):
		return apperror.ErrTransactionNotFound()
	case errors.Is(err, domain.ErrInsufficientBalance):
		return apperror.ErrInsufficientBalance()
	case errors.Is(err, domain.ErrImmutable):
		return apperror.ErrImmutable()
	case errors.Is(err, domain.ErrAmountOutOfRange), errors.Is(err, domain.ErrInvalidQuery):
		return apperror.Validation(err.Error())
	case errors.Is(err, domain.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return apperror.ErrLockTimeout(wrapped)
	default:
		return apperror.ErrDatabaseError(wrapped)
	}
}
