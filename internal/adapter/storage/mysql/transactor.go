package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"walletx/internal/core/ports"

	"gorm.io/gorm"
)

// Transactor implements ports.DBTransactor on GORM.
type Transactor struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// NewTransactor creates a Transactor. A positive lockTimeout bounds how long
// a unit waits for a wallet row lock held by another unit.
func NewTransactor(db *gorm.DB, lockTimeout time.Duration) *Transactor {
	return &Transactor{db: db, lockTimeout: lockTimeout}
}

// Begin opens an atomic unit.
func (t *Transactor) Begin(ctx context.Context) (ports.Tx, error) {
	gtx := t.db.WithContext(ctx).Begin()
	if gtx.Error != nil {
		return nil, translate("begin transaction", gtx.Error)
	}

	if t.lockTimeout > 0 {
		err := gtx.Exec("SET SESSION innodb_lock_wait_timeout = ?", lockWaitSeconds(t.lockTimeout)).Error
		if err != nil {
			gtx.Rollback()
			return nil, translate("set lock wait timeout", err)
		}
	}
	return &Tx{db: gtx, lockWaitSet: t.lockTimeout > 0}, nil
}

// innodb_lock_wait_timeout takes whole seconds.
func lockWaitSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

const restoreLockWaitSQL = "SET SESSION innodb_lock_wait_timeout = DEFAULT"

// Tx wraps an open GORM transaction.
type Tx struct {
	db          *gorm.DB
	done        bool
	lockWaitSet bool
}

// restoreLockWait puts the session lock wait timeout back to the server
// default before the connection returns to the pool. SET SESSION is not
// transactional, so it holds whether the unit commits or rolls back.
//
// If ctx ends first, database/sql rolls the unit back on its own and keeps
// the connection; the next Begin on it overwrites the value.
func (t *Tx) restoreLockWait(ctx context.Context) error {
	if !t.lockWaitSet {
		return nil
	}
	return t.db.WithContext(ctx).Exec(restoreLockWaitSQL).Error
}

// Commit commits the unit.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return errors.New("mysql: tx already closed")
	}
	t.done = true
	if err := t.restoreLockWait(ctx); err != nil {
		t.db.Rollback()
		return translate("restore lock wait timeout", err)
	}
	return translate("commit", t.db.Commit().Error)
}

// Rollback aborts the unit. Calling it after Commit is a no-op.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	_ = t.restoreLockWait(ctx)
	if err := t.db.Rollback().Error; err != nil && !errors.Is(err, sql.ErrTxDone) {
		return translate("rollback", err)
	}
	return nil
}

func asGormTx(tx ports.Tx) (*gorm.DB, error) {
	mt, ok := tx.(*Tx)
	if !ok || mt == nil {
		return nil, fmt.Errorf("mysql: unexpected tx type %T", tx)
	}
	return mt.db, nil
}
