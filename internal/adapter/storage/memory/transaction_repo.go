package memory

import (
	"context"
	"fmt"

	"walletx/internal/core/domain"
	"walletx/internal/core/ports"

	"github.com/google/uuid"
)

// TransactionRepo implements ports.TransactionRepository on a Store.
// There is no way to change or remove a stored transaction.
type TransactionRepo struct {
	store *Store
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(store *Store) *TransactionRepo {
	return &TransactionRepo{store: store}
}

// Append stages t on tx. The txid is reserved immediately, so a concurrent
// unit appending the same txid fails with ErrDuplicateTxID even before
// either commits.
func (r *TransactionRepo) Append(_ context.Context, tx ports.Tx, t *domain.Transaction) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.done {
		return fmt.Errorf("memory: tx already closed")
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wallets[t.WalletID]; !ok {
		return fmt.Errorf("append transaction: %w", domain.ErrWalletNotFound)
	}
	if _, ok := s.txids[t.TxID]; ok {
		return fmt.Errorf("append transaction %q: %w", t.TxID, domain.ErrDuplicateTxID)
	}
	if _, ok := s.pending[t.TxID]; ok {
		return fmt.Errorf("append transaction %q: %w", t.TxID, domain.ErrDuplicateTxID)
	}
	s.pending[t.TxID] = struct{}{}

	cp := *t
	mt.inserts = append(mt.inserts, &cp)
	return nil
}

// GetByID fetches a committed transaction. Returns nil, nil if not found.
func (r *TransactionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	t, ok := r.store.txns[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

// List returns one page of committed transactions matching q.
func (r *TransactionRepo) List(_ context.Context, q domain.Query) ([]domain.Transaction, int64, error) {
	r.store.mu.RLock()
	items := make([]domain.Transaction, 0, len(r.store.txns))
	for _, t := range r.store.txns {
		items = append(items, *t)
	}
	r.store.mu.RUnlock()

	page, total := selectPage(items, domain.TransactionEntity, q, transactionField, func(t domain.Transaction) uuid.UUID { return t.ID })
	return page, total, nil
}

func transactionField(t domain.Transaction, name string) value {
	switch name {
	case "id":
		return value{kind: domain.KindUUID, id: t.ID}
	case "wallet_id":
		return value{kind: domain.KindUUID, id: t.WalletID}
	case "txid":
		return value{kind: domain.KindText, text: t.TxID}
	case "amount":
		return value{kind: domain.KindDecimal, dec: t.Amount}
	case "created_at":
		return value{kind: domain.KindTime, at: t.CreatedAt}
	}
	return value{kind: domain.KindText}
}
