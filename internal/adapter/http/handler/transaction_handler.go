package handler

import (
	"context"
	"net/http"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	AddTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, input usecase.UpdateTransactionInput) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	GetTransaction(id string) (*domain.Transaction, bool)
	ListTransactions(filter usecase.TransactionFilter) []domain.Transaction
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	transactionUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionUC: transactionUC}
}

// Create records a transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tx, err := h.transactionUC.AddTransaction(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to add transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	tx, found := h.transactionUC.GetTransaction(id)
	if !found {
		writeNotFound(w, "transaction", id)
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

// List lists transactions, newest first, narrowed by query parameters.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := usecase.TransactionFilter{
		AccountID: q.Get("accountId"),
		Category:  q.Get("category"),
		Type:      domain.TransactionType(q.Get("type")),
		From:      parseTimeQuery(r, "from"),
		To:        parseTimeQuery(r, "to"),
		Limit:     parseIntQuery(r, "limit", 0),
		Offset:    parseIntQuery(r, "offset", 0),
	}

	writeJSON(w, http.StatusOK, dto.NewListResponse(h.transactionUC.ListTransactions(filter)))
}

// Update reverses the stored transaction and records the edited one.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tx, err := h.transactionUC.UpdateTransaction(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to update transaction", err)
		return
	}
	if tx == nil {
		writeNotFound(w, "transaction", id)
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

// Delete removes a transaction and reverses its effects.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.transactionUC.DeleteTransaction(r.Context(), id); err != nil {
		writeDomainError(w, "failed to delete transaction", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
