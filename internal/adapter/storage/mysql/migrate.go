package mysql

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// MySQL fires no triggers for foreign key cascades, so wallet deletion still
// removes its transactions while direct UPDATE and DELETE are rejected.
var triggerStatements = []string{
	"DROP TRIGGER IF EXISTS walletx_transactions_no_update",
	`CREATE TRIGGER walletx_transactions_no_update BEFORE UPDATE ON transactions
		FOR EACH ROW SIGNAL SQLSTATE '45000' SET MESSAGE_TEXT = 'transactions are immutable'`,
	"DROP TRIGGER IF EXISTS walletx_transactions_no_delete",
	`CREATE TRIGGER walletx_transactions_no_delete BEFORE DELETE ON transactions
		FOR EACH ROW SIGNAL SQLSTATE '45000' SET MESSAGE_TEXT = 'transactions are immutable'`,
}

// Migrate creates or updates the wallets and transactions tables, their
// constraints and the immutability triggers. It is idempotent.
func Migrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(&walletModel{}, &transactionModel{}); err != nil {
		return fmt.Errorf("auto-migrating ledger tables: %w", err)
	}
	for _, stmt := range triggerStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("installing immutability triggers: %w", err)
		}
	}
	log.Info().Msg("MySQL schema migrated")
	return nil
}
