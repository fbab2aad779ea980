package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Export file identity.
const (
	AppName       = "fintrack"
	ExportVersion = "1.0"
)

// Module names a tracker domain. Only ModuleFinance is owned by this engine.
type Module string

const (
	ModuleFinance  Module = "finance"
	ModuleHabits   Module = "habits"
	ModuleWorkouts Module = "workouts"
)

// IsValid reports whether m is a known domain.
func (m Module) IsValid() bool {
	switch m {
	case ModuleFinance, ModuleHabits, ModuleWorkouts:
		return true
	}
	return false
}

// ExportFile is the import/export document. Module is nil for a full export.
type ExportFile struct {
	AppName    string          `json:"appName"`
	Module     *Module         `json:"module,omitempty"`
	Version    string          `json:"version"`
	ExportedAt time.Time       `json:"exportedAt"`
	Data       json.RawMessage `json:"data"`
}

// FullExportData is the data of a full export. Habit and workout payloads are
// carried opaquely.
type FullExportData struct {
	Finance  *Snapshot       `json:"finance"`
	Habits   json.RawMessage `json:"habits,omitempty"`
	Workouts json.RawMessage `json:"workouts,omitempty"`
}

// NewFinanceExport wraps a snapshot in a finance-scoped export document.
func NewFinanceExport(s *Snapshot, at time.Time) (*ExportFile, error) {
	data, err := s.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	module := ModuleFinance
	return &ExportFile{
		AppName:    AppName,
		Module:     &module,
		Version:    ExportVersion,
		ExportedAt: at,
		Data:       data,
	}, nil
}

// NewFullExport wraps a snapshot in a full export document.
func NewFullExport(s *Snapshot, at time.Time) (*ExportFile, error) {
	data, err := json.Marshal(FullExportData{Finance: s})
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	return &ExportFile{
		AppName:    AppName,
		Version:    ExportVersion,
		ExportedAt: at,
		Data:       data,
	}, nil
}

// DecodeFinanceImport validates an import document and extracts the finance
// snapshot from it. It accepts finance-scoped and full exports and rejects
// everything else with ErrInvalidFile.
func DecodeFinanceImport(raw []byte) (*Snapshot, error) {
	var file ExportFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	if file.AppName != AppName {
		return nil, fmt.Errorf("%w: not a %s export", ErrInvalidFile, AppName)
	}

	if len(file.Data) == 0 {
		return nil, fmt.Errorf("%w: missing data", ErrInvalidFile)
	}

	if file.Module != nil {
		if *file.Module != ModuleFinance {
			return nil, fmt.Errorf("%w: expected %s module, got %q", ErrInvalidFile, ModuleFinance, *file.Module)
		}

		s, err := DecodeSnapshot(file.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
		}
		return s, nil
	}

	var full FullExportData
	if err := json.Unmarshal(file.Data, &full); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if full.Finance == nil {
		return nil, fmt.Errorf("%w: full export carries no finance data", ErrInvalidFile)
	}

	full.Finance.Normalize()
	return full.Finance, nil
}
