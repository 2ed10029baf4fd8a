package ports

//go:generate mockgen -source=repositories.go -destination=mocks/repositories_mock.go -package=mocks

import (
	"context"

	"walletx/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tx is one atomic unit on the storage backend. Rollback after Commit is a no-op.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DBTransactor opens atomic units.
type DBTransactor interface {
	Begin(ctx context.Context) (Tx, error)
}

// WalletRepository defines persistence operations for wallets.
// Balance is written only through AdjustBalance.
type WalletRepository interface {
	Create(ctx context.Context, w *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	List(ctx context.Context, q domain.Query) ([]domain.Wallet, int64, error)
	UpdateLabel(ctx context.Context, id uuid.UUID, label string) (*domain.Wallet, error)
	// Delete removes the wallet and, by cascade, its transactions.
	Delete(ctx context.Context, id uuid.UUID) error

	// AdjustBalance adds delta to the wallet's balance only if the result
	// stays non-negative, as one conditional write. It returns the number of
	// rows changed: 0 means the wallet is missing or the balance is too low.
	AdjustBalance(ctx context.Context, tx Tx, id uuid.UUID, delta decimal.Decimal) (int64, error)
	// Exists reports whether the wallet is present, as seen by tx.
	Exists(ctx context.Context, tx Tx, id uuid.UUID) (bool, error)
}

// TransactionRepository is the append-only ledger: no update, no delete.
type TransactionRepository interface {
	Append(ctx context.Context, tx Tx, t *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	List(ctx context.Context, q domain.Query) ([]domain.Transaction, int64, error)
}
