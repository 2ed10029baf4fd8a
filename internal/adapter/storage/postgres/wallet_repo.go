package postgres

import (
	"context"
	"errors"
	"fmt"

	"walletx/internal/core/domain"
	"walletx/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const walletColumns = "id, label, balance, created_at, updated_at"

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// Create inserts a new wallet into the database.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	query := `INSERT INTO wallets (id, label, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query, w.ID, w.Label, w.Balance, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return translate("insert wallet", err)
	}
	return nil
}

// GetByID fetches a wallet by its UUID (without locking).
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	w, err := scanWallet(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translate("get wallet by id", err)
	}
	return w, nil
}

// List fetches wallets with filtering, search, ordering and pagination.
func (r *WalletRepo) List(ctx context.Context, q domain.Query) ([]domain.Wallet, int64, error) {
	l, err := buildList(domain.WalletEntity, q)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM wallets %s", l.where)
	if err := r.pool.QueryRow(ctx, countQuery, l.args...).Scan(&total); err != nil {
		return nil, 0, translate("count wallets", err)
	}

	dataQuery := fmt.Sprintf("SELECT %s FROM wallets %s %s %s", walletColumns, l.where, l.orderBy, l.page(q))
	rows, err := r.pool.Query(ctx, dataQuery, l.args...)
	if err != nil {
		return nil, 0, translate("list wallets", err)
	}
	defer rows.Close()

	wallets := []domain.Wallet{}
	for rows.Next() {
		w := domain.Wallet{}
		if err := rows.Scan(&w.ID, &w.Label, &w.Balance, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan wallet row: %w", err)
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translate("iterate wallet rows", err)
	}
	return wallets, total, nil
}

// UpdateLabel changes the label only. Returns nil, nil if not found.
func (r *WalletRepo) UpdateLabel(ctx context.Context, id uuid.UUID, label string) (*domain.Wallet, error) {
	query := `UPDATE wallets SET label = $1, updated_at = NOW() WHERE id = $2
		RETURNING ` + walletColumns

	w, err := scanWallet(r.pool.QueryRow(ctx, query, label, id))
	if err != nil {
		return nil, translate("update wallet label", err)
	}
	return w, nil
}

// Delete removes a wallet. Its transactions go with it through
// ON DELETE CASCADE, which the immutability trigger lets through.
func (r *WalletRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM wallets WHERE id = $1`, id)
	if err != nil {
		return translate("delete wallet", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWalletNotFound
	}
	return nil
}

// AdjustBalance is the conditional write of the balance protocol: read,
// non-negativity check and write happen in one statement under the row lock.
// This MUST be called within a transaction.
func (r *WalletRepo) AdjustBalance(ctx context.Context, tx ports.Tx, id uuid.UUID, delta decimal.Decimal) (int64, error) {
	pgTx, err := asPgxTx(tx)
	if err != nil {
		return 0, err
	}

	query := `UPDATE wallets SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2 AND balance + $1 >= 0`

	tag, err := pgTx.Exec(ctx, query, delta, id)
	if err != nil {
		return 0, translate("adjust wallet balance", err)
	}
	return tag.RowsAffected(), nil
}

// Exists reports whether the wallet is visible to tx.
func (r *WalletRepo) Exists(ctx context.Context, tx ports.Tx, id uuid.UUID) (bool, error) {
	pgTx, err := asPgxTx(tx)
	if err != nil {
		return false, err
	}

	var exists bool
	err = pgTx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM wallets WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, translate("check wallet exists", err)
	}
	return exists, nil
}

// scanWallet returns nil, nil on pgx.ErrNoRows.
func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	err := row.Scan(&w.ID, &w.Label, &w.Balance, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return w, nil
}
