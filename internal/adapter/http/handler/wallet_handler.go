package handler

import (
	"context"

	"walletx/internal/adapter/http/dto"
	"walletx/internal/core/domain"
	"walletx/internal/core/ports"
	"walletx/pkg/apperror"
	"walletx/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// embeddedTransactions caps the transactions listed inside a wallet.
const embeddedTransactions = domain.MaxPageSize

// WalletHandler handles wallet endpoints.
type WalletHandler struct {
	walletSvc ports.WalletService
	ledgerSvc ports.LedgerService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService, ledgerSvc ports.LedgerService) *WalletHandler {
	return &WalletHandler{
		walletSvc: walletSvc,
		ledgerSvc: ledgerSvc,
	}
}

// Create handles POST /api/v1/wallets.
func (h *WalletHandler) Create(c *gin.Context) {
	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	w, err := h.walletSvc.CreateWallet(c.Request.Context(), req.Label)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewWalletResponse(w, nil))
}

// List handles GET /api/v1/wallets.
func (h *WalletHandler) List(c *gin.Context) {
	q, err := listQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	wallets, total, err := h.walletSvc.ListWallets(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.WalletResponse, 0, len(wallets))
	for i := range wallets {
		items = append(items, dto.NewWalletResponse(&wallets[i], nil))
	}
	response.OK(c, dto.WalletListResponse{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: dto.TotalPages(total, q.PageSize),
	})
}

// Get handles GET /api/v1/wallets/:id. The newest transactions are embedded.
func (h *WalletHandler) Get(c *gin.Context) {
	id, err := pathID(c, apperror.ErrWalletNotFound)
	if err != nil {
		response.Error(c, err)
		return
	}

	w, err := h.walletSvc.GetWallet(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respondWithTransactions(c, w)
}

// Update handles PATCH /api/v1/wallets/:id. Only the label is writable; a
// balance in the body is ignored.
func (h *WalletHandler) Update(c *gin.Context) {
	id, err := pathID(c, apperror.ErrWalletNotFound)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	var w *domain.Wallet
	if req.Label == nil {
		w, err = h.walletSvc.GetWallet(c.Request.Context(), id)
	} else {
		w, err = h.walletSvc.UpdateLabel(c.Request.Context(), id, *req.Label)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respondWithTransactions(c, w)
}

// Delete handles DELETE /api/v1/wallets/:id. Its transactions go with it.
func (h *WalletHandler) Delete(c *gin.Context) {
	id, err := pathID(c, apperror.ErrWalletNotFound)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.walletSvc.DeleteWallet(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *WalletHandler) respondWithTransactions(c *gin.Context, w *domain.Wallet) {
	txns, err := h.walletTransactions(c.Request.Context(), w.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewWalletResponse(w, txns))
}

func (h *WalletHandler) walletTransactions(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error) {
	txns, _, err := h.ledgerSvc.ListTransactions(ctx, domain.Query{
		Filters:  []domain.Filter{{Field: "wallet_id", Op: domain.OpExact, Value: walletID.String()}},
		Ordering: []domain.Ordering{{Field: "created_at", Desc: true}},
		Page:     1,
		PageSize: embeddedTransactions,
	})
	return txns, err
}
