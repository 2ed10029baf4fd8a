package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var errSchemaMissing = errors.New("ledger tables missing")

// HealthChecker reports MySQL connectivity and schema presence.
type HealthChecker struct {
	db *gorm.DB
}

// NewHealthChecker creates a HealthChecker.
func NewHealthChecker(db *gorm.DB) *HealthChecker {
	return &HealthChecker{db: db}
}

// Ping implements ports.HealthChecker.
func (h *HealthChecker) Ping(ctx context.Context) error {
	if err := ping(ctx, h.db); err != nil {
		return err
	}
	m := h.db.WithContext(ctx).Migrator()
	if !m.HasTable(&walletModel{}) || !m.HasTable(&transactionModel{}) {
		return errSchemaMissing
	}
	return nil
}

// Name implements ports.HealthChecker.
func (h *HealthChecker) Name() string { return "mysql" }
