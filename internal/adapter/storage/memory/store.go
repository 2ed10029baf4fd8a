// Package memory is a process-local storage backend. It keeps the same
// atomic-unit semantics as the SQL backends: writes are staged on a Tx and
// become visible only on Commit, and a wallet's balance is guarded by a
// per-wallet lock held from AdjustBalance until the unit ends.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"walletx/internal/core/domain"
	"walletx/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store holds all wallets and transactions.
type Store struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]*domain.Wallet
	txns    map[uuid.UUID]*domain.Transaction
	txids   map[string]uuid.UUID // committed txid -> transaction id
	pending map[string]struct{}  // txids reserved by open units
	locks   map[uuid.UUID]chan struct{}
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		wallets: make(map[uuid.UUID]*domain.Wallet),
		txns:    make(map[uuid.UUID]*domain.Transaction),
		txids:   make(map[string]uuid.UUID),
		pending: make(map[string]struct{}),
		locks:   make(map[uuid.UUID]chan struct{}),
	}
}

// Begin opens an atomic unit. It implements ports.DBTransactor.
func (s *Store) Begin(ctx context.Context) (ports.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	return &Tx{
		store:    s,
		balances: make(map[uuid.UUID]decimal.Decimal),
		held:     make(map[uuid.UUID]chan struct{}),
	}, nil
}

// Ping implements ports.HealthChecker.
func (s *Store) Ping(_ context.Context) error { return nil }

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return "memory" }

// walletLock returns the lock channel of a wallet, or nil if it does not exist.
func (s *Store) walletLock(id uuid.UUID) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wallets[id]; !ok {
		return nil
	}
	ch, ok := s.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[id] = ch
	}
	return ch
}

func acquire(ctx context.Context, ch chan struct{}) error {
	select {
	case ch <- struct{}{}:
		return nil
	default:
	}
	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: waiting for wallet lock: %v", domain.ErrTimeout, ctx.Err())
	}
}

// Tx is an open atomic unit on a Store.
type Tx struct {
	store *Store

	mu       sync.Mutex
	inserts  []*domain.Transaction
	balances map[uuid.UUID]decimal.Decimal // staged balances of locked wallets
	held     map[uuid.UUID]chan struct{}
	done     bool
}

// Commit publishes the staged writes and releases the wallet locks.
func (t *Tx) Commit(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return fmt.Errorf("memory: tx already closed")
	}
	t.done = true
	defer t.release()

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, txn := range t.inserts {
		delete(s.pending, txn.TxID)
	}
	for _, txn := range t.inserts {
		if _, ok := s.wallets[txn.WalletID]; !ok {
			return fmt.Errorf("commit transaction %s: %w", txn.TxID, domain.ErrWalletNotFound)
		}
	}

	now := time.Now().UTC()
	for id, bal := range t.balances {
		if w, ok := s.wallets[id]; ok {
			w.Balance = bal
			w.UpdatedAt = now
		}
	}
	for _, txn := range t.inserts {
		cp := *txn
		s.txns[cp.ID] = &cp
		s.txids[cp.TxID] = cp.ID
	}
	return nil
}

// Rollback discards the staged writes. Calling it after Commit is a no-op.
func (t *Tx) Rollback(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return nil
	}
	t.done = true

	s := t.store
	s.mu.Lock()
	for _, txn := range t.inserts {
		delete(s.pending, txn.TxID)
	}
	s.mu.Unlock()

	t.release()
	return nil
}

func (t *Tx) release() {
	for id, ch := range t.held {
		<-ch
		delete(t.held, id)
	}
}

func asTx(tx ports.Tx) (*Tx, error) {
	mt, ok := tx.(*Tx)
	if !ok || mt == nil {
		return nil, fmt.Errorf("memory: unexpected tx type %T", tx)
	}
	return mt, nil
}
