package handler

import (
	"context"
	"net/http"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// BudgetService defines the behavior needed by BudgetHandler.
type BudgetService interface {
	AddBudget(ctx context.Context, input usecase.CreateBudgetInput) (*domain.Budget, error)
	UpdateBudget(ctx context.Context, id string, input usecase.UpdateBudgetInput) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, id string) error
	GetBudget(id string) (*domain.Budget, bool)
	ListBudgets() []domain.Budget
	GetBudgetProgress(id string) (*domain.BudgetProgress, bool)
	ListBudgetProgress() []domain.BudgetProgress
}

// BudgetHandler handles budget requests.
type BudgetHandler struct {
	budgetUC BudgetService
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetUC BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetUC: budgetUC}
}

func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBudgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := h.budgetUC.AddBudget(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to add budget", err)
		return
	}

	writeJSON(w, http.StatusCreated, b)
}

func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	b, found := h.budgetUC.GetBudget(id)
	if !found {
		writeNotFound(w, "budget", id)
		return
	}

	writeJSON(w, http.StatusOK, b)
}

func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.NewListResponse(h.budgetUC.ListBudgets()))
}

func (h *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateBudgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := h.budgetUC.UpdateBudget(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to update budget", err)
		return
	}
	if b == nil {
		writeNotFound(w, "budget", id)
		return
	}

	writeJSON(w, http.StatusOK, b)
}

func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.budgetUC.DeleteBudget(r.Context(), id); err != nil {
		writeDomainError(w, "failed to delete budget", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Progress reports spending against one budget.
func (h *BudgetHandler) Progress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	p, found := h.budgetUC.GetBudgetProgress(id)
	if !found {
		writeNotFound(w, "budget", id)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// ListProgress reports spending against every budget.
func (h *BudgetHandler) ListProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.NewListResponse(h.budgetUC.ListBudgetProgress()))
}
