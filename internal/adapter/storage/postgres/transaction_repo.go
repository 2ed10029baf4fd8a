package postgres

import (
	"context"
	"errors"
	"fmt"

	"walletx/internal/core/domain"
	"walletx/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = "id, wallet_id, txid, amount, created_at"

// TransactionRepo implements ports.TransactionRepository. It has no update
// or delete statements; the schema trigger rejects them from anywhere else.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Append inserts a transaction within a database transaction. The txid
// UNIQUE constraint and the wallet foreign key surface as
// domain.ErrDuplicateTxID and domain.ErrWalletNotFound.
func (r *TransactionRepo) Append(ctx context.Context, tx ports.Tx, t *domain.Transaction) error {
	pgTx, err := asPgxTx(tx)
	if err != nil {
		return err
	}

	query := `INSERT INTO transactions (id, wallet_id, txid, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = pgTx.Exec(ctx, query, t.ID, t.WalletID, t.TxID, t.Amount, t.CreatedAt)
	if err != nil {
		return translate("insert transaction", err)
	}
	return nil
}

// GetByID fetches a transaction by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	t, err := scanTransaction(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translate("get transaction by id", err)
	}
	return t, nil
}

// List fetches transactions with filtering, search, ordering and pagination.
func (r *TransactionRepo) List(ctx context.Context, q domain.Query) ([]domain.Transaction, int64, error) {
	l, err := buildList(domain.TransactionEntity, q)
	if err != nil {
		return nil, 0, err
	}

	// Count total
	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM transactions %s", l.where)
	if err := r.pool.QueryRow(ctx, countQuery, l.args...).Scan(&total); err != nil {
		return nil, 0, translate("count transactions", err)
	}

	// Fetch page
	dataQuery := fmt.Sprintf("SELECT %s FROM transactions %s %s %s", transactionColumns, l.where, l.orderBy, l.page(q))
	rows, err := r.pool.Query(ctx, dataQuery, l.args...)
	if err != nil {
		return nil, 0, translate("list transactions", err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		t := domain.Transaction{}
		if err := rows.Scan(&t.ID, &t.WalletID, &t.TxID, &t.Amount, &t.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translate("iterate transaction rows", err)
	}
	return txns, total, nil
}

// scanTransaction returns nil, nil on pgx.ErrNoRows.
func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(&t.ID, &t.WalletID, &t.TxID, &t.Amount, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}
