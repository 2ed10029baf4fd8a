package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"walletx/internal/core/domain"
	"walletx/internal/core/ports"
	"walletx/pkg/apperror"

	"github.com/rs/zerolog"
)

// BalanceApplierImpl implements ports.BalanceApplier.
type BalanceApplierImpl struct {
	txRepo     ports.TransactionRepository
	walletRepo ports.WalletRepository
	transactor ports.DBTransactor
	timeout    time.Duration
	log        zerolog.Logger
}

// NewBalanceApplier creates a new BalanceApplierImpl. timeout bounds one
// Apply call; zero leaves only the caller's deadline.
func NewBalanceApplier(
	txRepo ports.TransactionRepository,
	walletRepo ports.WalletRepository,
	transactor ports.DBTransactor,
	timeout time.Duration,
	log zerolog.Logger,
) *BalanceApplierImpl {
	return &BalanceApplierImpl{
		txRepo:     txRepo,
		walletRepo: walletRepo,
		transactor: transactor,
		timeout:    timeout,
		log:        log,
	}
}

// Apply records a transaction and adds its amount to the wallet balance as
// one atomic unit. The balance changes only if it stays non-negative;
// otherwise nothing is written.
func (s *BalanceApplierImpl) Apply(ctx context.Context, req ports.ApplyRequest) (*domain.Transaction, error) {
	if err := validateApply(req); err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, storageError("begin tx", err)
	}
	// Rollback must run even when ctx is already done.
	defer dbTx.Rollback(context.WithoutCancel(ctx)) //nolint:errcheck

	txn := domain.NewTransaction(req.WalletID, req.TxID, req.Amount, time.Now().UTC())

	// Uniqueness of txid is left to the storage constraint; no pre-check.
	if err := s.txRepo.Append(ctx, dbTx, txn); err != nil {
		if errors.Is(err, domain.ErrDuplicateTxID) {
			return nil, apperror.ErrDuplicateTxID(req.TxID)
		}
		return nil, storageError("append transaction", err)
	}

	rows, err := s.walletRepo.AdjustBalance(ctx, dbTx, req.WalletID, req.Amount)
	if err != nil {
		return nil, storageError("adjust balance", err)
	}
	if rows == 0 {
		exists, err := s.walletRepo.Exists(ctx, dbTx, req.WalletID)
		if err != nil {
			return nil, storageError("check wallet", err)
		}
		if !exists {
			return nil, apperror.ErrWalletNotFound()
		}
		s.log.Info().
			Str("wallet_id", req.WalletID.String()).
			Str("txid", req.TxID).
			Str("amount", req.Amount.String()).
			Str("direction", direction(txn)).
			Msg("transaction rejected: insufficient balance")
		return nil, apperror.ErrInsufficientBalance()
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, storageError("commit tx", err)
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("wallet_id", req.WalletID.String()).
		Str("txid", req.TxID).
		Str("amount", req.Amount.String()).
		Str("direction", direction(txn)).
		Msg("transaction applied")

	return txn, nil
}

func direction(t *domain.Transaction) string {
	switch {
	case t.IsCredit():
		return "credit"
	case t.IsDebit():
		return "debit"
	default:
		return "zero"
	}
}

func validateApply(req ports.ApplyRequest) error {
	txid := strings.TrimSpace(req.TxID)
	if txid == "" {
		return apperror.Validation("txid is required")
	}
	if txid != req.TxID {
		return apperror.Validation("txid must not have surrounding whitespace")
	}
	if utf8.RuneCountInString(req.TxID) > domain.MaxTxIDLength {
		return apperror.Validation(fmt.Sprintf("txid must be at most %d characters", domain.MaxTxIDLength))
	}
	if err := domain.ValidateAmount(req.Amount); err != nil {
		return apperror.Validation(err.Error())
	}
	return nil
}
