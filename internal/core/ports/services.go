package ports

//go:generate mockgen -source=services.go -destination=mocks/services_mock.go -package=mocks

import (
	"context"
	"time"

	"walletx/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionCache is a read-through cache for committed transactions.
// Only immutable records are cached, never balances.
type TransactionCache interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) // nil, nil on miss
	Set(ctx context.Context, t *domain.Transaction, ttl time.Duration) error
}

// --- Service Ports (Business Logic) ---

// WalletService manages wallet records. It never changes balances.
type WalletService interface {
	CreateWallet(ctx context.Context, label string) (*domain.Wallet, error)
	GetWallet(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	ListWallets(ctx context.Context, q domain.Query) ([]domain.Wallet, int64, error)
	UpdateLabel(ctx context.Context, id uuid.UUID, label string) (*domain.Wallet, error)
	DeleteWallet(ctx context.Context, id uuid.UUID) error
}

// LedgerService exposes the read side of the ledger.
type LedgerService interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, q domain.Query) ([]domain.Transaction, int64, error)
}

// BalanceApplier is the only write path for transactions and balances.
type BalanceApplier interface {
	Apply(ctx context.Context, req ApplyRequest) (*domain.Transaction, error)
}

// ApplyRequest holds validated input for a balance application.
type ApplyRequest struct {
	WalletID uuid.UUID
	TxID     string
	Amount   decimal.Decimal
}
