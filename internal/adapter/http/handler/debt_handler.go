package handler

import (
	"context"
	"net/http"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// DebtService defines the behavior needed by DebtHandler.
type DebtService interface {
	AddDebt(ctx context.Context, input usecase.CreateDebtInput) (*domain.Debt, error)
	UpdateDebt(ctx context.Context, id string, input usecase.UpdateDebtInput) (*domain.Debt, error)
	DeleteDebt(ctx context.Context, id string) error
	RecordPayment(ctx context.Context, input usecase.RecordPaymentInput) (domain.PaymentResult, error)
	SettleDebt(ctx context.Context, id string) (domain.PaymentResult, error)
	GetDebt(id string) (*domain.Debt, bool)
	ListDebts() []domain.Debt
}

// DebtHandler handles debt requests.
type DebtHandler struct {
	debtUC DebtService
}

// NewDebtHandler creates a new DebtHandler.
func NewDebtHandler(debtUC DebtService) *DebtHandler {
	return &DebtHandler{debtUC: debtUC}
}

func (h *DebtHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDebtRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d, err := h.debtUC.AddDebt(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to add debt", err)
		return
	}

	writeJSON(w, http.StatusCreated, d)
}

func (h *DebtHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	d, found := h.debtUC.GetDebt(id)
	if !found {
		writeNotFound(w, "debt", id)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

func (h *DebtHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.NewListResponse(h.debtUC.ListDebts()))
}

func (h *DebtHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateDebtRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d, err := h.debtUC.UpdateDebt(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to update debt", err)
		return
	}
	if d == nil {
		writeNotFound(w, "debt", id)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

func (h *DebtHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.debtUC.DeleteDebt(r.Context(), id); err != nil {
		writeDomainError(w, "failed to delete debt", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RecordPayment pays down a debt. The response carries how much was applied
// and how much was ignored past the remaining amount.
func (h *DebtHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.PaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, found := h.debtUC.GetDebt(id); !found {
		writeNotFound(w, "debt", id)
		return
	}

	result, err := h.debtUC.RecordPayment(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeDomainError(w, "failed to record payment", err)
		return
	}

	h.writePayment(w, id, result)
}

// Settle pays off the remaining amount.
func (h *DebtHandler) Settle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if _, found := h.debtUC.GetDebt(id); !found {
		writeNotFound(w, "debt", id)
		return
	}

	result, err := h.debtUC.SettleDebt(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to settle debt", err)
		return
	}

	h.writePayment(w, id, result)
}

func (h *DebtHandler) writePayment(w http.ResponseWriter, id string, result domain.PaymentResult) {
	d, _ := h.debtUC.GetDebt(id)
	writeJSON(w, http.StatusOK, dto.PaymentResponse{Debt: d, Result: result})
}
