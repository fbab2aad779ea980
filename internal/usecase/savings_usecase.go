package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// SavingsUseCase manages savings goals and their contribution ledger.
type SavingsUseCase struct {
	ledger *Ledger
}

// NewSavingsUseCase creates a new SavingsUseCase.
func NewSavingsUseCase(ledger *Ledger) *SavingsUseCase {
	return &SavingsUseCase{ledger: ledger}
}

// CreateGoalInput represents input for adding a savings goal.
type CreateGoalInput struct {
	Name         string
	TargetAmount decimal.Decimal
	Deadline     *time.Time
}

// UpdateGoalInput carries the fields to change. Nil fields are left alone.
type UpdateGoalInput struct {
	Name          *string
	TargetAmount  *decimal.Decimal
	Deadline      *time.Time
	ClearDeadline bool
}

// GoalMovementInput is a contribution to or withdrawal from a goal. With an
// account the movement is mirrored into the ledger.
type GoalMovementInput struct {
	GoalID    string
	Amount    decimal.Decimal
	Note      string
	AccountID string
}

// WithdrawResult reports how much was actually taken out of a goal.
type WithdrawResult struct {
	Goal      *domain.SavingsGoal `json:"goal"`
	Requested decimal.Decimal     `json:"requested"`
	Withdrawn decimal.Decimal     `json:"withdrawn"`
}

// AddGoal adds a savings goal.
func (uc *SavingsUseCase) AddGoal(ctx context.Context, input CreateGoalInput) (*domain.SavingsGoal, error) {
	var created domain.SavingsGoal
	err := uc.ledger.Update(ctx, "savings.add", func(s *domain.Snapshot) error {
		g := domain.SavingsGoal{
			ID:            uc.ledger.NewID(),
			Name:          strings.TrimSpace(input.Name),
			TargetAmount:  input.TargetAmount,
			CurrentAmount: decimal.Zero,
			Deadline:      input.Deadline,
			Contributions: []domain.Contribution{},
			CreatedAt:     uc.ledger.Now(),
		}
		if err := g.Validate(); err != nil {
			return err
		}

		s.SavingsGoals = append(s.SavingsGoals, g)
		created = g.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// UpdateGoal applies input to goal id. Changing the target recomputes isCompleted.
func (uc *SavingsUseCase) UpdateGoal(ctx context.Context, id string, input UpdateGoalInput) (*domain.SavingsGoal, error) {
	var updated *domain.SavingsGoal
	err := uc.ledger.Update(ctx, "savings.update", func(s *domain.Snapshot) error {
		g := s.SavingsGoal(id)
		if g == nil {
			return errUnchanged
		}

		if input.Name != nil {
			g.Name = strings.TrimSpace(*input.Name)
		}
		if input.TargetAmount != nil {
			g.TargetAmount = *input.TargetAmount
		}
		if input.Deadline != nil {
			deadline := *input.Deadline
			g.Deadline = &deadline
		}
		if input.ClearDeadline {
			g.Deadline = nil
		}
		if err := g.Validate(); err != nil {
			return err
		}
		g.Recalculate()

		cp := g.Clone()
		updated = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteGoal removes goal id. Ledger transactions it mirrored stay in place.
func (uc *SavingsUseCase) DeleteGoal(ctx context.Context, id string) error {
	return uc.ledger.Update(ctx, "savings.delete", func(s *domain.Snapshot) error {
		if !s.RemoveSavingsGoal(id) {
			return errUnchanged
		}
		return nil
	})
}

// Contribute adds amount to goal id. With an account, the money leaves the
// account as an "investments" expense.
func (uc *SavingsUseCase) Contribute(ctx context.Context, input GoalMovementInput) (*domain.SavingsGoal, error) {
	if err := domain.ValidateAmount("amount", input.Amount); err != nil {
		return nil, err
	}

	var updated *domain.SavingsGoal
	err := uc.ledger.Update(ctx, "savings.contribute", func(s *domain.Snapshot) error {
		g := s.SavingsGoal(input.GoalID)
		if g == nil {
			return errUnchanged
		}

		now := uc.ledger.Now()
		g.Contribute(uc.ledger.NewID(), input.Amount, input.Note, input.AccountID, now)

		if input.AccountID != "" {
			tx := savingsTransaction(g, domain.TransactionTypeExpense, input.AccountID, input.Amount, uc.ledger.NewID(), now)
			if err := recordMirror(s, tx, uc.ledger.NewID, now); err != nil {
				return err
			}
		}

		cp := g.Clone()
		updated = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Withdraw takes up to amount out of goal id; the withdrawal is capped at the
// goal's current amount. With an account, the withdrawn money returns to it as
// "investments" income.
func (uc *SavingsUseCase) Withdraw(ctx context.Context, input GoalMovementInput) (*WithdrawResult, error) {
	if err := domain.ValidateAmount("amount", input.Amount); err != nil {
		return nil, err
	}

	var result *WithdrawResult
	err := uc.ledger.Update(ctx, "savings.withdraw", func(s *domain.Snapshot) error {
		g := s.SavingsGoal(input.GoalID)
		if g == nil {
			return errUnchanged
		}

		now := uc.ledger.Now()
		withdrawn := g.Withdraw(uc.ledger.NewID(), input.Amount, input.Note, input.AccountID, now)

		cp := g.Clone()
		result = &WithdrawResult{Goal: &cp, Requested: input.Amount, Withdrawn: withdrawn}

		if !withdrawn.IsPositive() {
			return errUnchanged
		}

		if input.AccountID != "" {
			tx := savingsTransaction(g, domain.TransactionTypeIncome, input.AccountID, withdrawn, uc.ledger.NewID(), now)
			if err := recordMirror(s, tx, uc.ledger.NewID, now); err != nil {
				result = nil
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result != nil && result.Withdrawn.LessThan(result.Requested) {
		if m := uc.ledger.metrics; m != nil {
			m.AmountsCapped.WithLabelValues("savings_withdrawal").Inc()
		}
		uc.ledger.logger.Warn().
			Str("goal_id", input.GoalID).
			Str("requested", result.Requested.String()).
			Str("withdrawn", result.Withdrawn.String()).
			Msg("withdrawal capped at goal balance")
	}

	return result, nil
}

func savingsTransaction(g *domain.SavingsGoal, typ domain.TransactionType, accountID string, amount decimal.Decimal, id string, at time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:        id,
		Type:      typ,
		Amount:    amount,
		Category:  domain.CategoryInvestments,
		AccountID: accountID,
		Date:      at,
		Note:      "Savings: " + g.Name,
		CreatedAt: at,
	}
}

// GetGoal retrieves a goal by ID.
func (uc *SavingsUseCase) GetGoal(id string) (*domain.SavingsGoal, bool) {
	var out *domain.SavingsGoal
	uc.ledger.View(func(s *domain.Snapshot) {
		if g := s.SavingsGoal(id); g != nil {
			cp := g.Clone()
			out = &cp
		}
	})
	return out, out != nil
}

// ListGoals lists every goal.
func (uc *SavingsUseCase) ListGoals() []domain.SavingsGoal {
	var out []domain.SavingsGoal
	uc.ledger.View(func(s *domain.Snapshot) {
		out = make([]domain.SavingsGoal, len(s.SavingsGoals))
		for i := range s.SavingsGoals {
			out[i] = s.SavingsGoals[i].Clone()
		}
	})
	return out
}
