package dto

import (
	"encoding/json"
	"time"

	"walletx/internal/core/domain"
)

// CreateWalletRequest is the request body for wallet creation. A balance
// field in the payload is ignored; new wallets always start at zero.
type CreateWalletRequest struct {
	Label string `json:"label" binding:"required,max=255"`
}

// UpdateWalletRequest is the request body for PATCH /wallets/:id. Only the
// label can change.
type UpdateWalletRequest struct {
	Label *string `json:"label" binding:"omitempty,max=255"`
}

// CreateTransactionRequest is the request body for applying a transaction.
// Amount accepts a JSON number or a numeric string.
type CreateTransactionRequest struct {
	WalletID string      `json:"wallet_id" binding:"required,uuid"`
	TxID     string      `json:"txid" binding:"required,max=255,trimmed"`
	Amount   json.Number `json:"amount" binding:"required,decimal"`
}

// TransactionResponse is the wire form of a transaction.
type TransactionResponse struct {
	ID        string `json:"id"`
	WalletID  string `json:"wallet_id"`
	TxID      string `json:"txid"`
	Amount    string `json:"amount"`
	CreatedAt string `json:"created_at"`
}

// WalletResponse is the wire form of a wallet.
type WalletResponse struct {
	ID           string                `json:"id"`
	Label        string                `json:"label"`
	Balance      string                `json:"balance"`
	CreatedAt    string                `json:"created_at"`
	UpdatedAt    string                `json:"updated_at"`
	Transactions []TransactionResponse `json:"transactions"`
}

// WalletListResponse wraps a paginated wallet list.
type WalletListResponse struct {
	Items      []WalletResponse `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// TransactionListResponse wraps a paginated transaction list.
type TransactionListResponse struct {
	Items      []TransactionResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// Decimals are rendered with the full storage scale.
const decimalPlaces = 18

const timeLayout = time.RFC3339Nano

// NewTransactionResponse converts a domain transaction.
func NewTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        t.ID.String(),
		WalletID:  t.WalletID.String(),
		TxID:      t.TxID,
		Amount:    t.Amount.StringFixed(decimalPlaces),
		CreatedAt: t.CreatedAt.UTC().Format(timeLayout),
	}
}

// NewWalletResponse converts a domain wallet with its embedded transactions.
func NewWalletResponse(w *domain.Wallet, txns []domain.Transaction) WalletResponse {
	resp := WalletResponse{
		ID:           w.ID.String(),
		Label:        w.Label,
		Balance:      w.Balance.StringFixed(decimalPlaces),
		CreatedAt:    w.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt:    w.UpdatedAt.UTC().Format(timeLayout),
		Transactions: make([]TransactionResponse, 0, len(txns)),
	}
	for i := range txns {
		resp.Transactions = append(resp.Transactions, NewTransactionResponse(&txns[i]))
	}
	return resp
}

// TotalPages returns the page count for total rows at pageSize.
func TotalPages(total int64, pageSize int) int {
	if pageSize < 1 || total == 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
