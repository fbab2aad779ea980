package handler

import (
	"context"
	"net/http"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// SplitService defines the behavior needed by SplitHandler.
type SplitService interface {
	CreateGroup(ctx context.Context, input usecase.CreateGroupInput) (*domain.SplitGroup, error)
	RenameGroup(ctx context.Context, id, name string) (*domain.SplitGroup, error)
	DeleteGroup(ctx context.Context, id string) error
	AddMember(ctx context.Context, groupID string, input usecase.MemberInput) (*domain.Member, error)
	RemoveMember(ctx context.Context, groupID, memberID string) error
	AddExpense(ctx context.Context, groupID string, input usecase.AddExpenseInput) (*domain.SplitExpense, error)
	DeleteExpense(ctx context.Context, groupID, expenseID string) error
	AddSettlement(ctx context.Context, groupID string, input usecase.AddSettlementInput) (*domain.Settlement, error)
	DeleteSettlement(ctx context.Context, groupID, settlementID string) error
	GetGroup(id string) (*domain.SplitGroup, bool)
	ListGroups() []domain.SplitGroup
	GetBalances(groupID string) ([]domain.MemberBalance, bool)
	GetSettleUpSuggestions(groupID string) ([]domain.SettleUpSuggestion, bool)
}

// SplitHandler handles expense-sharing group requests.
type SplitHandler struct {
	splitUC SplitService
}

// NewSplitHandler creates a new SplitHandler.
func NewSplitHandler(splitUC SplitService) *SplitHandler {
	return &SplitHandler{splitUC: splitUC}
}

func (h *SplitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	g, err := h.splitUC.CreateGroup(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create group", err)
		return
	}

	writeJSON(w, http.StatusCreated, g)
}

func (h *SplitHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	g, found := h.splitUC.GetGroup(id)
	if !found {
		writeNotFound(w, "group", id)
		return
	}

	writeJSON(w, http.StatusOK, g)
}

func (h *SplitHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.NewListResponse(h.splitUC.ListGroups()))
}

func (h *SplitHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.RenameGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	g, err := h.splitUC.RenameGroup(r.Context(), id, req.Name)
	if err != nil {
		writeDomainError(w, "failed to rename group", err)
		return
	}
	if g == nil {
		writeNotFound(w, "group", id)
		return
	}

	writeJSON(w, http.StatusOK, g)
}

func (h *SplitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.splitUC.DeleteGroup(r.Context(), id); err != nil {
		writeDomainError(w, "failed to delete group", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SplitHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.MemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	m, err := h.splitUC.AddMember(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to add member", err)
		return
	}
	if m == nil {
		writeNotFound(w, "group", id)
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

// RemoveMember removes a member. A member still referenced by an expense or
// settlement is rejected with 400.
func (h *SplitHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	memberID, ok := pathID(w, r, "memberID")
	if !ok {
		return
	}

	if err := h.splitUC.RemoveMember(r.Context(), id, memberID); err != nil {
		writeDomainError(w, "failed to remove member", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SplitHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.AddExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	e, err := h.splitUC.AddExpense(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to add expense", err)
		return
	}
	if e == nil {
		writeNotFound(w, "group", id)
		return
	}

	writeJSON(w, http.StatusCreated, e)
}

func (h *SplitHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	expenseID, ok := pathID(w, r, "expenseID")
	if !ok {
		return
	}

	if err := h.splitUC.DeleteExpense(r.Context(), id, expenseID); err != nil {
		writeDomainError(w, "failed to delete expense", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SplitHandler) AddSettlement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.AddSettlementRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	st, err := h.splitUC.AddSettlement(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to add settlement", err)
		return
	}
	if st == nil {
		writeNotFound(w, "group", id)
		return
	}

	writeJSON(w, http.StatusCreated, st)
}

func (h *SplitHandler) DeleteSettlement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	settlementID, ok := pathID(w, r, "settlementID")
	if !ok {
		return
	}

	if err := h.splitUC.DeleteSettlement(r.Context(), id, settlementID); err != nil {
		writeDomainError(w, "failed to delete settlement", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Balances reports every member's paid, owed and net amounts.
func (h *SplitHandler) Balances(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	balances, found := h.splitUC.GetBalances(id)
	if !found {
		writeNotFound(w, "group", id)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewListResponse(balances))
}

// SettleUp suggests the transfers that zero every balance.
func (h *SplitHandler) SettleUp(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	suggestions, found := h.splitUC.GetSettleUpSuggestions(id)
	if !found {
		writeNotFound(w, "group", id)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewListResponse(suggestions))
}
