package usecase

import (
	"context"
	"fmt"

	"github.com/iho/fintrack/internal/domain"
)

// DataUseCase handles the import/export file contract.
type DataUseCase struct {
	ledger *Ledger
}

// NewDataUseCase creates a new DataUseCase.
func NewDataUseCase(ledger *Ledger) *DataUseCase {
	return &DataUseCase{ledger: ledger}
}

// Export builds an export document for module. An empty module produces a full export.
func (uc *DataUseCase) Export(module domain.Module) (*domain.ExportFile, error) {
	s := uc.ledger.Snapshot()
	now := uc.ledger.Now()

	switch module {
	case domain.ModuleFinance:
		return domain.NewFinanceExport(s, now)
	case "":
		return domain.NewFullExport(s, now)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedModule, module)
	}
}

// Import validates raw and replaces every finance collection with its
// content. A rejected file leaves the ledger untouched.
func (uc *DataUseCase) Import(ctx context.Context, raw []byte) error {
	imported, err := domain.DecodeFinanceImport(raw)
	if err != nil {
		return err
	}

	err = uc.ledger.Update(ctx, "data.import", func(s *domain.Snapshot) error {
		*s = *imported
		return nil
	})
	if err != nil {
		return err
	}

	uc.ledger.logger.Info().
		Int("accounts", len(imported.Accounts)).
		Int("transactions", len(imported.Transactions)).
		Msg("finance data imported")
	return nil
}
