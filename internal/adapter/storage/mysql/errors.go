package mysql

import (
	"context"
	"errors"
	"fmt"

	"walletx/internal/core/domain"

	mysqldrv "github.com/go-sql-driver/mysql"
)

// MySQL server error numbers.
const (
	erDupEntry        = 1062
	erNoReferencedRow = 1452
	erCheckViolated   = 3819
	erWarnOutOfRange  = 1264
	erDataOutOfRange  = 1690
	erLockWaitTimeout = 1205
	erLockDeadlock    = 1213
	erQueryTimeout    = 3024
	erSignalException = 1644 // SIGNAL from the immutability triggers
)

const sqlStateUserDefined = "45000"

// translate maps driver errors onto domain sentinels, keeping the original
// error in the chain.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrImmutable) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var myErr *mysqldrv.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case erDupEntry:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrDuplicateTxID, err)
		case erNoReferencedRow:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrWalletNotFound, err)
		case erCheckViolated:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrInsufficientBalance, err)
		case erWarnOutOfRange, erDataOutOfRange:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrAmountOutOfRange, err)
		case erLockWaitTimeout, erLockDeadlock, erQueryTimeout:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrTimeout, err)
		case erSignalException:
			if string(myErr.SQLState[:]) == sqlStateUserDefined {
				return fmt.Errorf("%s: %w: %w", op, domain.ErrImmutable, err)
			}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
