package postgres

import (
	"context"
	"errors"
)

var errSchemaMissing = errors.New("walletx schema not migrated")

// HealthCheck implements ports.HealthChecker for PostgreSQL.
type HealthCheck struct {
	pool Pool
}

// NewHealthCheck creates a PostgreSQL health checker.
func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

// Ping checks connectivity and that the ledger tables exist.
func (h *HealthCheck) Ping(ctx context.Context) error {
	var ready bool
	err := h.pool.QueryRow(ctx,
		"SELECT to_regclass('wallets') IS NOT NULL AND to_regclass('transactions') IS NOT NULL",
	).Scan(&ready)
	if err != nil {
		return err
	}
	if !ready {
		return errSchemaMissing
	}
	return nil
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "postgresql"
}
