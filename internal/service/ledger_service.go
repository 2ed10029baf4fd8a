package service

import (
	"context"
	"time"

	"walletx/internal/core/domain"
	"walletx/internal/core/ports"
	"walletx/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LedgerServiceImpl implements ports.LedgerService.
type LedgerServiceImpl struct {
	txRepo   ports.TransactionRepository
	cache    ports.TransactionCache // nil = no caching
	cacheTTL time.Duration
	log      zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl. cache may be nil.
func NewLedgerService(txRepo ports.TransactionRepository, cache ports.TransactionCache, cacheTTL time.Duration, log zerolog.Logger) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		txRepo:   txRepo,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// GetTransaction fetches a transaction, reading through the cache.
// Committed transactions never change, so a cached copy is never stale.
func (s *LedgerServiceImpl) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Str("tx_id", id.String()).Msg("transaction cache read failed, falling through to DB")
		}
		if cached != nil {
			return cached, nil
		}
	}

	t, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError("get transaction", err)
	}
	if t == nil {
		return nil, apperror.ErrTransactionNotFound()
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, t, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Str("tx_id", id.String()).Msg("failed to cache transaction")
		}
	}

	return t, nil
}

// ListTransactions returns one page of transactions matching q.
func (s *LedgerServiceImpl) ListTransactions(ctx context.Context, q domain.Query) ([]domain.Transaction, int64, error) {
	q = q.Normalize()
	if err := domain.TransactionEntity.Validate(q); err != nil {
		return nil, 0, apperror.Validation(err.Error())
	}

	txns, total, err := s.txRepo.List(ctx, q)
	if err != nil {
		return nil, 0, storageError("list transactions", err)
	}
	return txns, total, nil
}
