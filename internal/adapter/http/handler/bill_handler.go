package handler

import (
	"context"
	"net/http"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// BillService defines the behavior needed by BillHandler.
type BillService interface {
	AddBill(ctx context.Context, input usecase.CreateBillInput) (*domain.BillReminder, error)
	UpdateBill(ctx context.Context, id string, input usecase.UpdateBillInput) (*domain.BillReminder, error)
	MarkPaid(ctx context.Context, id string) (*domain.BillReminder, error)
	DeleteBill(ctx context.Context, id string) error
	GetBill(id string) (*domain.BillReminder, bool)
	ListBills() []domain.BillReminder
}

// BillHandler handles bill reminder requests.
type BillHandler struct {
	billUC BillService
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(billUC BillService) *BillHandler {
	return &BillHandler{billUC: billUC}
}

func (h *BillHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBillRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := h.billUC.AddBill(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to add bill", err)
		return
	}

	writeJSON(w, http.StatusCreated, b)
}

func (h *BillHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	b, found := h.billUC.GetBill(id)
	if !found {
		writeNotFound(w, "bill", id)
		return
	}

	writeJSON(w, http.StatusOK, b)
}

func (h *BillHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.NewListResponse(h.billUC.ListBills()))
}

func (h *BillHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateBillRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := h.billUC.UpdateBill(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to update bill", err)
		return
	}
	if b == nil {
		writeNotFound(w, "bill", id)
		return
	}

	writeJSON(w, http.StatusOK, b)
}

// MarkPaid marks a bill paid, rolling a recurring bill to its next due date.
func (h *BillHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	b, err := h.billUC.MarkPaid(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to mark bill paid", err)
		return
	}
	if b == nil {
		writeNotFound(w, "bill", id)
		return
	}

	writeJSON(w, http.StatusOK, b)
}

func (h *BillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.billUC.DeleteBill(r.Context(), id); err != nil {
		writeDomainError(w, "failed to delete bill", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
