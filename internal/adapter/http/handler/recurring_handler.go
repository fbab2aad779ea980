package handler

import (
	"context"
	"net/http"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// RecurringService defines the behavior needed by RecurringHandler.
type RecurringService interface {
	AddRecurring(ctx context.Context, input usecase.CreateRecurringInput) (*domain.RecurringTransaction, error)
	UpdateRecurring(ctx context.Context, id string, input usecase.UpdateRecurringInput) (*domain.RecurringTransaction, error)
	ToggleRecurring(ctx context.Context, id string) (*domain.RecurringTransaction, error)
	DeleteRecurring(ctx context.Context, id string) error
	GetRecurring(id string) (*domain.RecurringTransaction, bool)
	ListRecurring() []domain.RecurringTransaction
	ProcessRecurring(ctx context.Context) ([]domain.Transaction, error)
}

// RecurringHandler handles recurring template requests.
type RecurringHandler struct {
	recurringUC RecurringService
}

// NewRecurringHandler creates a new RecurringHandler.
func NewRecurringHandler(recurringUC RecurringService) *RecurringHandler {
	return &RecurringHandler{recurringUC: recurringUC}
}

func (h *RecurringHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRecurringRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rt, err := h.recurringUC.AddRecurring(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to add recurring transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, rt)
}

func (h *RecurringHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	rt, found := h.recurringUC.GetRecurring(id)
	if !found {
		writeNotFound(w, "recurring transaction", id)
		return
	}

	writeJSON(w, http.StatusOK, rt)
}

func (h *RecurringHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.NewListResponse(h.recurringUC.ListRecurring()))
}

func (h *RecurringHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateRecurringRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rt, err := h.recurringUC.UpdateRecurring(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to update recurring transaction", err)
		return
	}
	if rt == nil {
		writeNotFound(w, "recurring transaction", id)
		return
	}

	writeJSON(w, http.StatusOK, rt)
}

// Toggle flips whether the template is active.
func (h *RecurringHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	rt, err := h.recurringUC.ToggleRecurring(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to toggle recurring transaction", err)
		return
	}
	if rt == nil {
		writeNotFound(w, "recurring transaction", id)
		return
	}

	writeJSON(w, http.StatusOK, rt)
}

func (h *RecurringHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.recurringUC.DeleteRecurring(r.Context(), id); err != nil {
		writeDomainError(w, "failed to delete recurring transaction", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Process emits every due template once.
func (h *RecurringHandler) Process(w http.ResponseWriter, r *http.Request) {
	txs, err := h.recurringUC.ProcessRecurring(r.Context())
	if err != nil {
		writeDomainError(w, "failed to process recurring transactions", err)
		return
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}

	writeJSON(w, http.StatusOK, dto.ProcessRecurringResponse{
		Generated:    len(txs),
		Transactions: txs,
	})
}
