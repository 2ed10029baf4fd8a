package postgres

import (
	"context"
	"errors"
	"fmt"

	"walletx/internal/core/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATEs raised by the schema or by PostgreSQL itself.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNumericOutOfRange   = "22003"
	codeLockNotAvailable    = "55P03"
	codeQueryCanceled       = "57014"
	codeDeadlockDetected    = "40P01"
	codeSerialization       = "40001"
	codeImmutable           = "WX001" // walletx_transactions_immutable trigger
)

// translate maps driver errors onto domain sentinels, keeping the original
// error in the chain.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrDuplicateTxID, err)
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrWalletNotFound, err)
		case codeCheckViolation:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrInsufficientBalance, err)
		case codeNumericOutOfRange:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrAmountOutOfRange, err)
		case codeImmutable:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrImmutable, err)
		case codeLockNotAvailable, codeQueryCanceled, codeDeadlockDetected, codeSerialization:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrTimeout, err)
		}
	}

	if pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
