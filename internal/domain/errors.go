package domain

import "errors"

var (
	// Transaction errors
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateID         = errors.New("transaction id already exists")
	ErrInvalidDate         = errors.New("invalid date")

	// Store errors
	ErrKeyNotFound = errors.New("key not found")
)
