package memory

import (
	"context"
	"fmt"
	"time"

	"walletx/internal/core/domain"
	"walletx/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var maxBalance = decimal.New(1, domain.IntegerDigits)

// WalletRepo implements ports.WalletRepository on a Store.
type WalletRepo struct {
	store *Store
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(store *Store) *WalletRepo {
	return &WalletRepo{store: store}
}

// Create inserts a new wallet.
func (r *WalletRepo) Create(_ context.Context, w *domain.Wallet) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.wallets[w.ID]; ok {
		return fmt.Errorf("create wallet: id %s already exists", w.ID)
	}
	cp := *w
	r.store.wallets[w.ID] = &cp
	return nil
}

// GetByID fetches a committed wallet. Returns nil, nil if not found.
func (r *WalletRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	w, ok := r.store.wallets[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

// List returns one page of wallets matching q and the total match count.
func (r *WalletRepo) List(_ context.Context, q domain.Query) ([]domain.Wallet, int64, error) {
	r.store.mu.RLock()
	items := make([]domain.Wallet, 0, len(r.store.wallets))
	for _, w := range r.store.wallets {
		items = append(items, *w)
	}
	r.store.mu.RUnlock()

	page, total := selectPage(items, domain.WalletEntity, q, walletField, func(w domain.Wallet) uuid.UUID { return w.ID })
	return page, total, nil
}

// UpdateLabel changes only the label. Returns nil, nil if not found.
func (r *WalletRepo) UpdateLabel(_ context.Context, id uuid.UUID, label string) (*domain.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	w, ok := r.store.wallets[id]
	if !ok {
		return nil, nil
	}
	w.Label = label
	w.UpdatedAt = time.Now().UTC()
	cp := *w
	return &cp, nil
}

// Delete removes the wallet and its transactions. It waits for any open
// unit holding the wallet's lock.
func (r *WalletRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ch := r.store.walletLock(id)
	if ch == nil {
		return domain.ErrWalletNotFound
	}
	if err := acquire(ctx, ch); err != nil {
		return err
	}
	defer func() { <-ch }()

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wallets[id]; !ok {
		return domain.ErrWalletNotFound
	}
	delete(s.wallets, id)
	delete(s.locks, id)
	for txID, txn := range s.txns {
		if txn.WalletID == id {
			delete(s.txids, txn.TxID)
			delete(s.txns, txID)
		}
	}
	return nil
}

// AdjustBalance stages balance + delta if the result stays non-negative.
// The first call for a wallet in a unit takes the wallet's lock and keeps it
// until Commit or Rollback; it gives up with ErrTimeout when ctx ends.
func (r *WalletRepo) AdjustBalance(ctx context.Context, tx ports.Tx, id uuid.UUID, delta decimal.Decimal) (int64, error) {
	mt, err := asTx(tx)
	if err != nil {
		return 0, err
	}
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.done {
		return 0, fmt.Errorf("memory: tx already closed")
	}

	if _, held := mt.held[id]; !held {
		ch := r.store.walletLock(id)
		if ch == nil {
			return 0, nil
		}
		if err := acquire(ctx, ch); err != nil {
			return 0, err
		}
		mt.held[id] = ch
	}

	current, staged := mt.balances[id]
	if !staged {
		r.store.mu.RLock()
		w, ok := r.store.wallets[id]
		if ok {
			current = w.Balance
		}
		r.store.mu.RUnlock()
		if !ok {
			return 0, nil
		}
	}

	next := current.Add(delta)
	if next.IsNegative() {
		return 0, nil
	}
	if next.GreaterThanOrEqual(maxBalance) {
		return 0, fmt.Errorf("%w: balance would exceed %d integer digits", domain.ErrAmountOutOfRange, domain.IntegerDigits)
	}
	mt.balances[id] = next
	return 1, nil
}

// Exists reports whether the wallet is present.
func (r *WalletRepo) Exists(_ context.Context, _ ports.Tx, id uuid.UUID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	_, ok := r.store.wallets[id]
	return ok, nil
}

func walletField(w domain.Wallet, name string) value {
	switch name {
	case "id":
		return value{kind: domain.KindUUID, id: w.ID}
	case "label":
		return value{kind: domain.KindText, text: w.Label}
	case "balance":
		return value{kind: domain.KindDecimal, dec: w.Balance}
	case "created_at":
		return value{kind: domain.KindTime, at: w.CreatedAt}
	case "updated_at":
		return value{kind: domain.KindTime, at: w.UpdatedAt}
	}
	return value{kind: domain.KindText}
}
