package domain

import "errors"

// Storage adapters return these; services map them to API errors.
var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateTxID       = errors.New("duplicate txid")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrImmutable           = errors.New("transactions cannot be edited")
	ErrTimeout             = errors.New("lock wait or deadline exceeded")
	ErrAmountOutOfRange    = errors.New("amount out of range")
	ErrInvalidQuery        = errors.New("invalid query")
)
