package handler

import (
	"net/http"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/usecase"
)

// ReconciliationService defines the behavior needed by LedgerHandler.
type ReconciliationService interface {
	ReconcileAccount(accountID string) (*usecase.ReconciliationResult, bool)
	CheckConsistency() []string
	GenerateReconciliationReport() *usecase.ReconciliationReport
}

// LedgerHandler handles ledger-wide operations.
type LedgerHandler struct {
	reconciliationUC ReconciliationService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(reconciliationUC ReconciliationService) *LedgerHandler {
	return &LedgerHandler{reconciliationUC: reconciliationUC}
}

// Reconcile returns the full reconciliation report.
func (h *LedgerHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.reconciliationUC.GenerateReconciliationReport())
}

// ReconcileAccount recomputes one account's balance from its history.
func (h *LedgerHandler) ReconcileAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, found := h.reconciliationUC.ReconcileAccount(id)
	if !found {
		writeNotFound(w, "account", id)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// CheckConsistency checks derived fields of debts, goals and groups.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	issues := h.reconciliationUC.CheckConsistency()
	if len(issues) > 0 {
		writeJSON(w, http.StatusConflict, dto.ConsistencyResponse{Consistent: false, Issues: issues})
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyResponse{Consistent: true, Issues: issues})
}
