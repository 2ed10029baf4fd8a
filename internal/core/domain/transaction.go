package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxTxIDLength bounds Transaction.TxID.
const MaxTxIDLength = 255

// Transaction is an immutable ledger entry. Amount is signed: positive
// credits the wallet, negative debits it.
type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	WalletID  uuid.UUID       `json:"wallet_id"`
	TxID      string          `json:"txid"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewTransaction builds a transaction ready to be appended to the ledger.
func NewTransaction(walletID uuid.UUID, txid string, amount decimal.Decimal, now time.Time) *Transaction {
	return &Transaction{
		ID:        uuid.New(),
		WalletID:  walletID,
		TxID:      txid,
		Amount:    amount,
		CreatedAt: now,
	}
}

// IsCredit returns true if the transaction increases the balance.
func (t *Transaction) IsCredit() bool {
	return t.Amount.IsPositive()
}

// IsDebit returns true if the transaction decreases the balance.
func (t *Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}
