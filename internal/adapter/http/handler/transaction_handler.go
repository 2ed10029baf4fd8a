package handler

import (
	"walletx/internal/adapter/http/dto"
	"walletx/internal/core/domain"
	"walletx/internal/core/ports"
	"walletx/pkg/apperror"
	"walletx/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionHandler handles ledger endpoints.
type TransactionHandler struct {
	applier   ports.BalanceApplier
	ledgerSvc ports.LedgerService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(applier ports.BalanceApplier, ledgerSvc ports.LedgerService) *TransactionHandler {
	return &TransactionHandler{
		applier:   applier,
		ledgerSvc: ledgerSvc,
	}
}

// Create handles POST /api/v1/transactions.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amount, err := domain.ParseAmount(req.Amount.String())
	if err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	txn, err := h.applier.Apply(c.Request.Context(), ports.ApplyRequest{
		WalletID: uuid.MustParse(req.WalletID),
		TxID:     req.TxID,
		Amount:   amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewTransactionResponse(txn))
}

// List handles GET /api/v1/transactions.
func (h *TransactionHandler) List(c *gin.Context) {
	q, err := listQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	txns, total, err := h.ledgerSvc.ListTransactions(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, dto.NewTransactionResponse(&txns[i]))
	}
	response.OK(c, dto.TransactionListResponse{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: dto.TotalPages(total, q.PageSize),
	})
}

// Get handles GET /api/v1/transactions/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := pathID(c, apperror.ErrTransactionNotFound)
	if err != nil {
		response.Error(c, err)
		return
	}

	txn, err := h.ledgerSvc.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewTransactionResponse(txn))
}

// Immutable answers every attempt to edit or remove a recorded transaction.
func (h *TransactionHandler) Immutable(c *gin.Context) {
	response.Error(c, apperror.ErrImmutable())
}
