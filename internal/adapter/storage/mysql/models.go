package mysql

import (
	"time"

	"walletx/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// walletModel maps the wallets table.
type walletModel struct {
	ID        uuid.UUID       `gorm:"type:char(36);primaryKey"`
	Label     string          `gorm:"type:varchar(255);not null"`
	Balance   decimal.Decimal `gorm:"type:decimal(30,18);not null;default:0;check:walletx_wallet_balance_non_negative,balance >= 0"`
	CreatedAt time.Time       `gorm:"type:datetime(6);not null;index"`
	UpdatedAt time.Time       `gorm:"type:datetime(6);not null"`
}

func (*walletModel) TableName() string {
	return "wallets"
}

func (m *walletModel) toDomain() *domain.Wallet {
	return &domain.Wallet{
		ID:        m.ID,
		Label:     m.Label,
		Balance:   m.Balance,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func walletFromDomain(w *domain.Wallet) *walletModel {
	return &walletModel{
		ID:        w.ID,
		Label:     w.Label,
		Balance:   w.Balance,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// transactionModel maps the transactions table. Rows are insert-only: the
// update and delete hooks reject every GORM mutation, single or batch.
type transactionModel struct {
	ID        uuid.UUID       `gorm:"type:char(36);primaryKey"`
	WalletID  uuid.UUID       `gorm:"type:char(36);not null;index:idx_transactions_wallet_created,priority:1"`
	TxID      string          `gorm:"column:txid;type:varchar(255);not null;uniqueIndex:walletx_transactions_txid_unique"`
	Amount    decimal.Decimal `gorm:"type:decimal(30,18);not null"`
	CreatedAt time.Time       `gorm:"type:datetime(6);not null;index:idx_transactions_wallet_created,priority:2"`

	// Wallet only carries the foreign key; it is never loaded.
	Wallet *walletModel `gorm:"foreignKey:WalletID;constraint:walletx_transactions_wallet_fk,OnDelete:CASCADE"`
}

func (*transactionModel) TableName() string {
	return "transactions"
}

// BeforeUpdate rejects any update of a recorded transaction.
func (*transactionModel) BeforeUpdate(*gorm.DB) error {
	return domain.ErrImmutable
}

// BeforeDelete rejects any delete of a recorded transaction. The wallet
// cascade runs inside MySQL and never reaches this hook.
func (*transactionModel) BeforeDelete(*gorm.DB) error {
	return domain.ErrImmutable
}

func (m *transactionModel) toDomain() *domain.Transaction {
	return &domain.Transaction{
		ID:        m.ID,
		WalletID:  m.WalletID,
		TxID:      m.TxID,
		Amount:    m.Amount,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

func transactionFromDomain(t *domain.Transaction) *transactionModel {
	return &transactionModel{
		ID:        t.ID,
		WalletID:  t.WalletID,
		TxID:      t.TxID,
		Amount:    t.Amount,
		CreatedAt: t.CreatedAt,
	}
}
