package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// BudgetUseCase manages category budgets and derives their progress on read.
type BudgetUseCase struct {
	ledger *Ledger
}

// NewBudgetUseCase creates a new BudgetUseCase.
func NewBudgetUseCase(ledger *Ledger) *BudgetUseCase {
	return &BudgetUseCase{ledger: ledger}
}

// CreateBudgetInput represents input for adding a budget. A missing window
// defaults to the current period.
type CreateBudgetInput struct {
	Category       string
	Amount         decimal.Decimal
	Period         domain.BudgetPeriod
	StartDate      *time.Time
	EndDate        *time.Time
	AlertThreshold decimal.Decimal
}

// UpdateBudgetInput carries the fields to change. Nil fields are left alone.
type UpdateBudgetInput struct {
	Category       *string
	Amount         *decimal.Decimal
	Period         *domain.BudgetPeriod
	StartDate      *time.Time
	EndDate        *time.Time
	AlertThreshold *decimal.Decimal
}

// AddBudget adds a budget.
func (uc *BudgetUseCase) AddBudget(ctx context.Context, input CreateBudgetInput) (*domain.Budget, error) {
	var created domain.Budget
	err := uc.ledger.Update(ctx, "budget.add", func(s *domain.Snapshot) error {
		now := uc.ledger.Now()

		b := domain.Budget{
			ID:             uc.ledger.NewID(),
			Category:       strings.TrimSpace(input.Category),
			Amount:         input.Amount,
			Period:         input.Period,
			AlertThreshold: input.AlertThreshold,
			CreatedAt:      now,
		}
		b.StartDate, b.EndDate = input.Period.Window(now)
		if input.StartDate != nil {
			b.StartDate = domain.DayOf(*input.StartDate)
		}
		if input.EndDate != nil {
			b.EndDate = domain.DayOf(*input.EndDate)
		}

		if err := b.Validate(); err != nil {
			return err
		}

		s.Budgets = append(s.Budgets, b)
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// UpdateBudget applies input to budget id. An unknown id is a no-op and returns nil.
func (uc *BudgetUseCase) UpdateBudget(ctx context.Context, id string, input UpdateBudgetInput) (*domain.Budget, error) {
	var updated *domain.Budget
	err := uc.ledger.Update(ctx, "budget.update", func(s *domain.Snapshot) error {
		b := s.Budget(id)
		if b == nil {
			return errUnchanged
		}

		next := *b
		if input.Category != nil {
			next.Category = strings.TrimSpace(*input.Category)
		}
		if input.Amount != nil {
			next.Amount = *input.Amount
		}
		if input.Period != nil {
			next.Period = *input.Period
		}
		if input.StartDate != nil {
			next.StartDate = domain.DayOf(*input.StartDate)
		}
		if input.EndDate != nil {
			next.EndDate = domain.DayOf(*input.EndDate)
		}
		if input.AlertThreshold != nil {
			next.AlertThreshold = *input.AlertThreshold
		}

		if err := next.Validate(); err != nil {
			return err
		}

		*b = next
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteBudget removes budget id.
func (uc *BudgetUseCase) DeleteBudget(ctx context.Context, id string) error {
	return uc.ledger.Update(ctx, "budget.delete", func(s *domain.Snapshot) error {
		if !s.RemoveBudget(id) {
			return errUnchanged
		}
		return nil
	})
}

// GetBudget retrieves a budget by ID.
func (uc *BudgetUseCase) GetBudget(id string) (*domain.Budget, bool) {
	var out *domain.Budget
	uc.ledger.View(func(s *domain.Snapshot) {
		if b := s.Budget(id); b != nil {
			cp := *b
			out = &cp
		}
	})
	return out, out != nil
}

// ListBudgets lists every budget.
func (uc *BudgetUseCase) ListBudgets() []domain.Budget {
	var out []domain.Budget
	uc.ledger.View(func(s *domain.Snapshot) {
		out = append([]domain.Budget{}, s.Budgets...)
	})
	return out
}

// GetBudgetProgress derives spent, remaining and percentage for budget id.
func (uc *BudgetUseCase) GetBudgetProgress(id string) (*domain.BudgetProgress, bool) {
	var out *domain.BudgetProgress
	uc.ledger.View(func(s *domain.Snapshot) {
		if b := s.Budget(id); b != nil {
			p := b.Progress(s.Transactions)
			out = &p
		}
	})
	return out, out != nil
}

// ListBudgetProgress derives progress for every budget.
func (uc *BudgetUseCase) ListBudgetProgress() []domain.BudgetProgress {
	out := []domain.BudgetProgress{}
	uc.ledger.View(func(s *domain.Snapshot) {
		for i := range s.Budgets {
			out = append(out, s.Budgets[i].Progress(s.Transactions))
		}
	})
	return out
}
