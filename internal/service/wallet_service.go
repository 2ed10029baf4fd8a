package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"walletx/internal/core/domain"
	"walletx/internal/core/ports"
	"walletx/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	log        zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(walletRepo ports.WalletRepository, log zerolog.Logger) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		log:        log,
	}
}

// CreateWallet persists a new wallet. Its balance is always zero.
func (s *WalletServiceImpl) CreateWallet(ctx context.Context, label string) (*domain.Wallet, error) {
	label, err := validateLabel(label)
	if err != nil {
		return nil, err
	}

	w := domain.NewWallet(label, time.Now().UTC())
	if err := s.walletRepo.Create(ctx, w); err != nil {
		return nil, storageError("create wallet", err)
	}

	s.log.Info().
		Str("wallet_id", w.ID.String()).
		Str("label", w.Label).
		Msg("wallet created")

	return w, nil
}

// GetWallet fetches a wallet by id.
func (s *WalletServiceImpl) GetWallet(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	w, err := s.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError("get wallet", err)
	}
	if w == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	return w, nil
}

// ListWallets returns one page of wallets matching q.
func (s *WalletServiceImpl) ListWallets(ctx context.Context, q domain.Query) ([]domain.Wallet, int64, error) {
	q = q.Normalize()
	if err := domain.WalletEntity.Validate(q); err != nil {
		return nil, 0, apperror.Validation(err.Error())
	}

	wallets, total, err := s.walletRepo.List(ctx, q)
	if err != nil {
		return nil, 0, storageError("list wallets", err)
	}
	return wallets, total, nil
}

// UpdateLabel renames a wallet. The balance is not reachable from here.
func (s *WalletServiceImpl) UpdateLabel(ctx context.Context, id uuid.UUID, label string) (*domain.Wallet, error) {
	label, err := validateLabel(label)
	if err != nil {
		return nil, err
	}

	w, err := s.walletRepo.UpdateLabel(ctx, id, label)
	if err != nil {
		return nil, storageError("update wallet label", err)
	}
	if w == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	return w, nil
}

// DeleteWallet removes a wallet together with its transactions.
// Administrative only; the ledger itself never deletes.
func (s *WalletServiceImpl) DeleteWallet(ctx context.Context, id uuid.UUID) error {
	if err := s.walletRepo.Delete(ctx, id); err != nil {
		return storageError("delete wallet", err)
	}

	s.log.Warn().
		Str("wallet_id", id.String()).
		Msg("wallet deleted with its transactions")

	return nil
}

func validateLabel(label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", apperror.Validation("label is required")
	}
	if len([]rune(label)) > domain.MaxLabelLength {
		return "", apperror.Validation(fmt.Sprintf("label must be at most %d characters", domain.MaxLabelLength))
	}
	return label, nil
}
