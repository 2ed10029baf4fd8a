package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxLabelLength bounds Wallet.Label.
const MaxLabelLength = 255

// Wallet holds a non-negative balance that only the balance applier changes.
type Wallet struct {
	ID        uuid.UUID       `json:"id"`
	Label     string          `json:"label"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewWallet builds a wallet ready to be persisted. The balance always starts at zero.
func NewWallet(label string, now time.Time) *Wallet {
	return &Wallet{
		ID:        uuid.New(),
		Label:     label,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
