package handler

import (
	"context"
	"net/http"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// SavingsService defines the behavior needed by SavingsHandler.
type SavingsService interface {
	AddGoal(ctx context.Context, input usecase.CreateGoalInput) (*domain.SavingsGoal, error)
	UpdateGoal(ctx context.Context, id string, input usecase.UpdateGoalInput) (*domain.SavingsGoal, error)
	DeleteGoal(ctx context.Context, id string) error
	Contribute(ctx context.Context, input usecase.GoalMovementInput) (*domain.SavingsGoal, error)
	Withdraw(ctx context.Context, input usecase.GoalMovementInput) (*usecase.WithdrawResult, error)
	GetGoal(id string) (*domain.SavingsGoal, bool)
	ListGoals() []domain.SavingsGoal
}

// SavingsHandler handles savings goal requests.
type SavingsHandler struct {
	savingsUC SavingsService
}

// NewSavingsHandler creates a new SavingsHandler.
func NewSavingsHandler(savingsUC SavingsService) *SavingsHandler {
	return &SavingsHandler{savingsUC: savingsUC}
}

func (h *SavingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateGoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	g, err := h.savingsUC.AddGoal(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to add savings goal", err)
		return
	}

	writeJSON(w, http.StatusCreated, g)
}

func (h *SavingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	g, found := h.savingsUC.GetGoal(id)
	if !found {
		writeNotFound(w, "savings goal", id)
		return
	}

	writeJSON(w, http.StatusOK, g)
}

func (h *SavingsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.NewListResponse(h.savingsUC.ListGoals()))
}

func (h *SavingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateGoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	g, err := h.savingsUC.UpdateGoal(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to update savings goal", err)
		return
	}
	if g == nil {
		writeNotFound(w, "savings goal", id)
		return
	}

	writeJSON(w, http.StatusOK, g)
}

func (h *SavingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.savingsUC.DeleteGoal(r.Context(), id); err != nil {
		writeDomainError(w, "failed to delete savings goal", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Contribute moves money into a goal.
func (h *SavingsHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.GoalMovementRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	g, err := h.savingsUC.Contribute(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeDomainError(w, "failed to contribute", err)
		return
	}
	if g == nil {
		writeNotFound(w, "savings goal", id)
		return
	}

	writeJSON(w, http.StatusOK, g)
}

// Withdraw takes money out of a goal, capped at its current amount.
func (h *SavingsHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.GoalMovementRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.savingsUC.Withdraw(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeDomainError(w, "failed to withdraw", err)
		return
	}
	if result == nil {
		writeNotFound(w, "savings goal", id)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
