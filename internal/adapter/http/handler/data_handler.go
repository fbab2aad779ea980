package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/iho/fintrack/internal/domain"
)

const maxImportSize = 32 << 20

// DataService defines the behavior needed by DataHandler.
type DataService interface {
	Export(module domain.Module) (*domain.ExportFile, error)
	Import(ctx context.Context, raw []byte) error
}

// DataHandler serves the import/export file contract.
type DataHandler struct {
	dataUC DataService
}

// NewDataHandler creates a new DataHandler.
func NewDataHandler(dataUC DataService) *DataHandler {
	return &DataHandler{dataUC: dataUC}
}

// Export returns an export file. ?module=finance exports finance only; no
// module exports everything.
func (h *DataHandler) Export(w http.ResponseWriter, r *http.Request) {
	file, err := h.dataUC.Export(domain.Module(r.URL.Query().Get("module")))
	if err != nil {
		writeDomainError(w, "failed to export", err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="fintrack-export.json"`)
	writeJSON(w, http.StatusOK, file)
}

// Import replaces the finance data with the uploaded file.
func (h *DataHandler) Import(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.dataUC.Import(r.Context(), raw); err != nil {
		writeDomainError(w, "failed to import", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}
