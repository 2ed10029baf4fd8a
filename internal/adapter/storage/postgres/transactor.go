package postgres

import (
	"context"
	"fmt"
	"time"

	"walletx/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// Transactor implements ports.DBTransactor using pgxpool.Pool.
type Transactor struct {
	pool        Pool
	lockTimeout time.Duration
}

// NewTransactor creates a new Transactor wrapping the connection pool.
// A positive lockTimeout bounds row lock waits inside each transaction.
func NewTransactor(pool Pool, lockTimeout time.Duration) *Transactor {
	return &Transactor{pool: pool, lockTimeout: lockTimeout}
}

// Begin starts a new database transaction.
func (t *Transactor) Begin(ctx context.Context) (ports.Tx, error) {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return nil, translate("begin tx", err)
	}

	if t.lockTimeout > 0 {
		// SET LOCAL takes no bind parameters; set_config(..., true) is its equivalent.
		_, err := tx.Exec(ctx, "SELECT set_config('lock_timeout', $1, true)",
			fmt.Sprintf("%dms", t.lockTimeout.Milliseconds()))
		if err != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			return nil, translate("set lock_timeout", err)
		}
	}
	return tx, nil
}

func asPgxTx(tx ports.Tx) (pgx.Tx, error) {
	pgTx, ok := tx.(pgx.Tx)
	if !ok || pgTx == nil {
		return nil, fmt.Errorf("postgres: unexpected tx type %T", tx)
	}
	return pgTx, nil
}
