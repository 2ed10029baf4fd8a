package memory

import (
	"context"
	"testing"
	"time"

	"walletx/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWallet(t *testing.T, s *Store, label string) *domain.Wallet {
	t.Helper()
	w := domain.NewWallet(label, time.Now().UTC())
	require.NoError(t, NewWalletRepo(s).Create(context.Background(), w))
	return w
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestStore_CommitPublishesStagedWrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	wallets, txns := NewWalletRepo(s), NewTransactionRepo(s)
	w := newTestWallet(t, s, "main")

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	txn := domain.NewTransaction(w.ID, "t1", dec("12.5"), time.Now().UTC())
	require.NoError(t, txns.Append(ctx, tx, txn))
	rows, err := wallets.AdjustBalance(ctx, tx, w.ID, dec("12.5"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	// Nothing is visible before commit.
	got, _ := wallets.GetByID(ctx, w.ID)
	assert.True(t, got.Balance.IsZero())
	stored, _ := txns.GetByID(ctx, txn.ID)
	assert.Nil(t, stored)

	require.NoError(t, tx.Commit(ctx))
	require.NoError(t, tx.Rollback(ctx))

	got, _ = wallets.GetByID(ctx, w.ID)
	assert.Equal(t, "12.5", got.Balance.String())
	stored, _ = txns.GetByID(ctx, txn.ID)
	require.NotNil(t, stored)
	assert.Equal(t, "t1", stored.TxID)
}

func TestStore_RollbackDiscardsAndFreesTxID(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	wallets, txns := NewWalletRepo(s), NewTransactionRepo(s)
	w := newTestWallet(t, s, "main")

	tx, _ := s.Begin(ctx)
	require.NoError(t, txns.Append(ctx, tx, domain.NewTransaction(w.ID, "t1", dec("5"), time.Now())))
	_, err := wallets.AdjustBalance(ctx, tx, w.ID, dec("5"))
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))

	got, _ := wallets.GetByID(ctx, w.ID)
	assert.True(t, got.Balance.IsZero())

	tx2, _ := s.Begin(ctx)
	assert.NoError(t, txns.Append(ctx, tx2, domain.NewTransaction(w.ID, "t1", dec("5"), time.Now())))
	require.NoError(t, tx2.Rollback(ctx))
}

func TestStore_AdjustBalance_RejectsNegative(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	wallets := NewWalletRepo(s)
	w := newTestWallet(t, s, "main")

	tx, _ := s.Begin(ctx)
	defer tx.Rollback(ctx) //nolint:errcheck

	rows, err := wallets.AdjustBalance(ctx, tx, w.ID, dec("-0.000000000000000001"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	rows, err = wallets.AdjustBalance(ctx, tx, uuid.New(), dec("1"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestStore_AdjustBalance_Overflow(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	wallets := NewWalletRepo(s)
	w := newTestWallet(t, s, "main")

	tx, _ := s.Begin(ctx)
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err := wallets.AdjustBalance(ctx, tx, w.ID, dec("999999999999"))
	require.NoError(t, err)
	_, err = wallets.AdjustBalance(ctx, tx, w.ID, dec("1"))
	assert.ErrorIs(t, err, domain.ErrAmountOutOfRange)
}

func TestStore_WalletLockTimesOut(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	wallets := NewWalletRepo(s)
	w := newTestWallet(t, s, "main")

	holder, _ := s.Begin(ctx)
	_, err := wallets.AdjustBalance(ctx, holder, w.ID, dec("1"))
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	waiter, _ := s.Begin(ctx)
	_, err = wallets.AdjustBalance(waitCtx, waiter, w.ID, dec("1"))
	assert.ErrorIs(t, err, domain.ErrTimeout)
	require.NoError(t, waiter.Rollback(ctx))

	// Other wallets are not blocked.
	other := newTestWallet(t, s, "other")
	tx, _ := s.Begin(ctx)
	rows, err := wallets.AdjustBalance(ctx, tx, other.ID, dec("1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	require.NoError(t, tx.Rollback(ctx))

	require.NoError(t, holder.Commit(ctx))
}

func TestStore_AppendPendingDuplicate(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	txns := NewTransactionRepo(s)
	w := newTestWallet(t, s, "main")

	a, _ := s.Begin(ctx)
	b, _ := s.Begin(ctx)
	defer a.Rollback(ctx) //nolint:errcheck
	defer b.Rollback(ctx) //nolint:errcheck

	require.NoError(t, txns.Append(ctx, a, domain.NewTransaction(w.ID, "same", dec("1"), time.Now())))
	err := txns.Append(ctx, b, domain.NewTransaction(w.ID, "same", dec("1"), time.Now()))
	assert.ErrorIs(t, err, domain.ErrDuplicateTxID)
}

func TestStore_AppendUnknownWallet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	tx, _ := s.Begin(ctx)
	defer tx.Rollback(ctx) //nolint:errcheck

	err := NewTransactionRepo(s).Append(ctx, tx, domain.NewTransaction(uuid.New(), "x", dec("1"), time.Now()))
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestStore_BeginCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewStore().Begin(ctx)
	assert.ErrorIs(t, err, domain.ErrTimeout)
}

func TestWalletRepo_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	wallets, txns := NewWalletRepo(s), NewTransactionRepo(s)
	w := newTestWallet(t, s, "main")

	tx, _ := s.Begin(ctx)
	txn := domain.NewTransaction(w.ID, "t1", dec("3"), time.Now())
	require.NoError(t, txns.Append(ctx, tx, txn))
	_, err := wallets.AdjustBalance(ctx, tx, w.ID, dec("3"))
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	require.NoError(t, wallets.Delete(ctx, w.ID))

	got, _ := wallets.GetByID(ctx, w.ID)
	assert.Nil(t, got)
	stored, _ := txns.GetByID(ctx, txn.ID)
	assert.Nil(t, stored)

	assert.ErrorIs(t, wallets.Delete(ctx, w.ID), domain.ErrWalletNotFound)
}

func TestWalletRepo_UpdateLabel(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	wallets := NewWalletRepo(s)
	w := newTestWallet(t, s, "old")

	got, err := wallets.UpdateLabel(ctx, w.ID, "new")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Label)
	assert.True(t, got.Balance.IsZero())

	got, err = wallets.UpdateLabel(ctx, uuid.New(), "x")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWalletRepo_List(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	wallets := NewWalletRepo(s)

	for i, label := range []string{"Alpha", "beta", "Gamma"} {
		w := newTestWallet(t, s, label)
		tx, _ := s.Begin(ctx)
		_, err := wallets.AdjustBalance(ctx, tx, w.ID, decimal.NewFromInt(int64(i*10)))
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))
	}

	tests := []struct {
		name   string
		query  domain.Query
		labels []string
		total  int64
	}{
		{
			name:   "balance gte, ordered desc",
			query:  domain.Query{Filters: []domain.Filter{{Field: "balance", Op: domain.OpGTE, Value: "10"}}, Ordering: []domain.Ordering{{Field: "balance", Desc: true}}},
			labels: []string{"Gamma", "beta"},
			total:  2,
		},
		{
			name:   "label icontains",
			query:  domain.Query{Filters: []domain.Filter{{Field: "label", Op: domain.OpIContains, Value: "AL"}}},
			labels: []string{"Alpha"},
			total:  1,
		},
		{
			name:   "label exact is case sensitive",
			query:  domain.Query{Filters: []domain.Filter{{Field: "label", Op: domain.OpExact, Value: "alpha"}}},
			labels: []string{},
			total:  0,
		},
		{
			name:   "balance in",
			query:  domain.Query{Filters: []domain.Filter{{Field: "balance", Op: domain.OpIn, Value: "0,20"}}, Ordering: []domain.Ordering{{Field: "balance"}}},
			labels: []string{"Alpha", "Gamma"},
			total:  2,
		},
		{
			name:   "search",
			query:  domain.Query{Search: "MM"},
			labels: []string{"Gamma"},
			total:  1,
		},
		{
			name:   "search matches fixed-scale balance",
			query:  domain.Query{Search: "20.000000000000000000"},
			labels: []string{"Gamma"},
			total:  1,
		},
		{
			name:   "second page",
			query:  domain.Query{Ordering: []domain.Ordering{{Field: "balance"}}, Page: 2, PageSize: 2},
			labels: []string{"Gamma"},
			total:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.query.Normalize()
			if tt.query.PageSize != 0 {
				q.PageSize = tt.query.PageSize
			}
			page, total, err := wallets.List(ctx, q)
			require.NoError(t, err)
			assert.Equal(t, tt.total, total)
			labels := make([]string, 0, len(page))
			for _, w := range page {
				labels = append(labels, w.Label)
			}
			assert.Equal(t, tt.labels, labels)
		})
	}
}

func TestTransactionRepo_ListByWallet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	wallets, txns := NewWalletRepo(s), NewTransactionRepo(s)
	a := newTestWallet(t, s, "a")
	b := newTestWallet(t, s, "b")

	for i, w := range []*domain.Wallet{a, a, b} {
		tx, _ := s.Begin(ctx)
		require.NoError(t, txns.Append(ctx, tx, domain.NewTransaction(w.ID, uuid.NewString(), decimal.NewFromInt(int64(i+1)), time.Now())))
		_, err := wallets.AdjustBalance(ctx, tx, w.ID, decimal.NewFromInt(int64(i+1)))
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))
	}

	q := domain.Query{Filters: []domain.Filter{{Field: "wallet_id", Op: domain.OpExact, Value: a.ID.String()}}}.Normalize()
	page, total, err := txns.List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, txn := range page {
		assert.Equal(t, a.ID, txn.WalletID)
	}
}
