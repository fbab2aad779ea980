package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/transactions?limit=50", nil)
	assert.Equal(t, 50, parseIntQuery(req, "limit", 10))

	req = httptest.NewRequest(http.MethodGet, "/transactions?limit=invalid", nil)
	assert.Equal(t, 10, parseIntQuery(req, "limit", 10))

	req.URL = &url.URL{RawQuery: ""}
	assert.Equal(t, 25, parseIntQuery(req, "limit", 25))
}

func TestParseTimeQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/transactions?from=2026-03-01&to=2026-03-31T23:59:59Z&bad=yesterday", nil)

	from := parseTimeQuery(req, "from")
	require.NotNil(t, from)
	assert.True(t, from.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))

	to := parseTimeQuery(req, "to")
	require.NotNil(t, to)
	assert.Equal(t, 31, to.Day())

	assert.Nil(t, parseTimeQuery(req, "bad"))
	assert.Nil(t, parseTimeQuery(req, "missing"))
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", domain.NewValidationError("amount", "must be positive"), http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("add: %w", domain.NewValidationError("name", "required")), http.StatusBadRequest},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"invalid file", domain.ErrInvalidFile, http.StatusBadRequest},
		{"unsupported module", domain.ErrUnsupportedModule, http.StatusBadRequest},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mapDomainError(tt.err))
		})
	}
}

func TestWriteDomainError_IncludesField(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(rec, "failed to add transaction", domain.NewValidationError("category", "required"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "failed to add transaction", resp.Error)
	assert.Equal(t, "category", resp.Field)
}
