package dto

import (
	"encoding/json"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// AddTransactionRequest represents a request to add a transaction. Amount
// accepts a JSON number or a numeric string.
type AddTransactionRequest struct {
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Amount      json.RawMessage `json:"amount"`
	Description string          `json:"description"`
	// Date is an optional YYYY-MM-DD calendar day.
	Date string `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AddTransactionRequest) ToUseCaseInput() usecase.AddTransactionInput {
	return usecase.AddTransactionInput{
		Type:        r.Type,
		Category:    r.Category,
		Amount:      domain.CoerceAmount(r.Amount).String(),
		Description: r.Description,
		Date:        r.Date,
	}
}
