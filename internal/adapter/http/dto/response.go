package dto

import (
	"github.com/iho/fintrack/internal/domain"
)

// Entities are returned with their persisted JSON shape. The types below wrap
// collections and operation results.

// ListResponse wraps a collection.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// NewListResponse builds a ListResponse. A nil slice is returned as [].
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Total: len(items)}
}

// PaymentResponse reports a debt payment.
type PaymentResponse struct {
	Debt   *domain.Debt         `json:"debt"`
	Result domain.PaymentResult `json:"result"`
}

// ProcessRecurringResponse lists the transactions a scheduler run emitted.
type ProcessRecurringResponse struct {
	Generated    int                  `json:"generated"`
	Transactions []domain.Transaction `json:"transactions"`
}

// ConsistencyResponse reports derived-field drift.
type ConsistencyResponse struct {
	Consistent bool     `json:"consistent"`
	Issues     []string `json:"issues"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}
