package mysql

import (
	"context"
	"errors"
	"time"

	"walletx/internal/core/domain"
	"walletx/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	db *gorm.DB
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(db *gorm.DB) *WalletRepo {
	return &WalletRepo{db: db}
}

// Create inserts a new wallet.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	if err := r.db.WithContext(ctx).Create(walletFromDomain(w)).Error; err != nil {
		return translate("insert wallet", err)
	}
	return nil
}

// GetByID fetches a wallet by its UUID. Returns nil, nil if not found.
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	return getWallet(r.db.WithContext(ctx), id)
}

func getWallet(db *gorm.DB, id uuid.UUID) (*domain.Wallet, error) {
	var m walletModel
	if err := db.Take(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translate("get wallet by id", err)
	}
	return m.toDomain(), nil
}

// List fetches wallets with filtering, search, ordering and pagination.
func (r *WalletRepo) List(ctx context.Context, q domain.Query) ([]domain.Wallet, int64, error) {
	l, err := buildList(domain.WalletEntity, q)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&walletModel{}).Scopes(l.filter).Count(&total).Error; err != nil {
		return nil, 0, translate("count wallets", err)
	}

	var rows []walletModel
	if err := r.db.WithContext(ctx).Scopes(l.filter, l.page).Find(&rows).Error; err != nil {
		return nil, 0, translate("list wallets", err)
	}

	wallets := make([]domain.Wallet, 0, len(rows))
	for i := range rows {
		wallets = append(wallets, *rows[i].toDomain())
	}
	return wallets, total, nil
}

// UpdateLabel changes the label only. Returns nil, nil if not found.
func (r *WalletRepo) UpdateLabel(ctx context.Context, id uuid.UUID, label string) (*domain.Wallet, error) {
	var updated *domain.Wallet
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&walletModel{}).Where("id = ?", id).Updates(map[string]any{
			"label":      label,
			"updated_at": time.Now().UTC(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		var err error
		updated, err = getWallet(tx, id)
		return err
	})
	if err != nil {
		return nil, translate("update wallet label", err)
	}
	return updated, nil
}

// Delete removes a wallet. Its transactions go with it through the
// ON DELETE CASCADE foreign key; cascades do not fire triggers in MySQL.
func (r *WalletRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&walletModel{}, "id = ?", id)
	if res.Error != nil {
		return translate("delete wallet", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrWalletNotFound
	}
	return nil
}

// AdjustBalance is the conditional write of the balance protocol: the
// non-negativity check and the write happen in one statement under the row
// lock. This MUST be called within a transaction.
func (r *WalletRepo) AdjustBalance(ctx context.Context, tx ports.Tx, id uuid.UUID, delta decimal.Decimal) (int64, error) {
	gtx, err := asGormTx(tx)
	if err != nil {
		return 0, err
	}

	res := adjustBalance(gtx.WithContext(ctx), id, delta, time.Now().UTC())
	if res.Error != nil {
		return 0, translate("adjust wallet balance", res.Error)
	}
	return res.RowsAffected, nil
}

func adjustBalance(db *gorm.DB, id uuid.UUID, delta decimal.Decimal, now time.Time) *gorm.DB {
	return db.Model(&walletModel{}).
		Where("id = ? AND balance + "+decimalBind+" >= 0", id, delta).
		Updates(map[string]any{
			"balance":    gorm.Expr("balance + "+decimalBind, delta),
			"updated_at": now,
		})
}

// Exists reports whether the wallet is visible to tx.
func (r *WalletRepo) Exists(ctx context.Context, tx ports.Tx, id uuid.UUID) (bool, error) {
	gtx, err := asGormTx(tx)
	if err != nil {
		return false, err
	}

	var n int64
	if err := gtx.WithContext(ctx).Model(&walletModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, translate("check wallet exists", err)
	}
	return n > 0, nil
}
