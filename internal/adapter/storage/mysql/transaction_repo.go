package mysql

import (
	"context"
	"errors"
	"fmt"

	"walletx/internal/core/domain"
	"walletx/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	db *gorm.DB
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(db *gorm.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

// Append inserts a transaction inside tx. A taken txid surfaces as
// domain.ErrDuplicateTxID and an unknown wallet as domain.ErrWalletNotFound.
//
// The wallet row is locked FOR UPDATE first. The insert's foreign key check
// would otherwise take a shared lock on it, and two units upgrading their
// shared locks for the balance update deadlock each other.
func (r *TransactionRepo) Append(ctx context.Context, tx ports.Tx, t *domain.Transaction) error {
	gtx, err := asGormTx(tx)
	if err != nil {
		return err
	}
	if err := lockWallet(gtx.WithContext(ctx), t.WalletID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lock wallet %s: %w", t.WalletID, domain.ErrWalletNotFound)
		}
		return translate("lock wallet", err)
	}
	if err := gtx.WithContext(ctx).Create(transactionFromDomain(t)).Error; err != nil {
		return translate("insert transaction", err)
	}
	return nil
}

func lockWallet(db *gorm.DB, id uuid.UUID) *gorm.DB {
	var m walletModel
	return db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Select("id").
		Take(&m, "id = ?", id)
}

// GetByID fetches a transaction. Returns nil, nil if not found.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	var m transactionModel
	if err := r.db.WithContext(ctx).Take(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translate("get transaction by id", err)
	}
	return m.toDomain(), nil
}

// List fetches transactions with filtering, search, ordering and pagination.
func (r *TransactionRepo) List(ctx context.Context, q domain.Query) ([]domain.Transaction, int64, error) {
	l, err := buildList(domain.TransactionEntity, q)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&transactionModel{}).Scopes(l.filter).Count(&total).Error; err != nil {
		return nil, 0, translate("count transactions", err)
	}

	var rows []transactionModel
	if err := r.db.WithContext(ctx).Scopes(l.filter, l.page).Find(&rows).Error; err != nil {
		return nil, 0, translate("list transactions", err)
	}

	txns := make([]domain.Transaction, 0, len(rows))
	for i := range rows {
		txns = append(txns, *rows[i].toDomain())
	}
	return txns, total, nil
}
