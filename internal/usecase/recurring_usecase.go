package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// RecurringUseCase manages recurring templates and turns due ones into transactions.
type RecurringUseCase struct {
	ledger *Ledger
}

// NewRecurringUseCase creates a new RecurringUseCase.
func NewRecurringUseCase(ledger *Ledger) *RecurringUseCase {
	return &RecurringUseCase{ledger: ledger}
}

// CreateRecurringInput represents input for adding a recurring template.
type CreateRecurringInput struct {
	Type          domain.TransactionType
	Amount        decimal.Decimal
	Category      string
	AccountID     string
	ToAccountID   string
	PaymentMethod string
	Note          string
	Frequency     domain.Frequency
	NextDueDate   *time.Time
	EndDate       *time.Time
}

// UpdateRecurringInput carries the fields to change. Nil fields are left alone.
type UpdateRecurringInput struct {
	Type          *domain.TransactionType
	Amount        *decimal.Decimal
	Category      *string
	AccountID     *string
	ToAccountID   *string
	PaymentMethod *string
	Note          *string
	Frequency     *domain.Frequency
	NextDueDate   *time.Time
	EndDate       *time.Time
	ClearEndDate  bool
	IsActive      *bool
}

func validateRecurring(s *domain.Snapshot, r *domain.RecurringTransaction) error {
	if err := r.Validate(); err != nil {
		return err
	}
	tx := r.Instantiate(r.NextDueDate)
	return requireAccounts(s, &tx)
}

// AddRecurring adds an active template. NextDueDate defaults to today.
func (uc *RecurringUseCase) AddRecurring(ctx context.Context, input CreateRecurringInput) (*domain.RecurringTransaction, error) {
	var created domain.RecurringTransaction
	err := uc.ledger.Update(ctx, "recurring.add", func(s *domain.Snapshot) error {
		now := uc.ledger.Now()

		r := domain.RecurringTransaction{
			ID:            uc.ledger.NewID(),
			Type:          input.Type,
			Amount:        input.Amount,
			Category:      strings.TrimSpace(input.Category),
			AccountID:     input.AccountID,
			ToAccountID:   input.ToAccountID,
			PaymentMethod: input.PaymentMethod,
			Note:          input.Note,
			Frequency:     input.Frequency,
			NextDueDate:   domain.DayOf(now),
			EndDate:       input.EndDate,
			IsActive:      true,
			CreatedAt:     now,
		}
		if input.NextDueDate != nil {
			r.NextDueDate = *input.NextDueDate
		}

		if err := validateRecurring(s, &r); err != nil {
			return err
		}

		s.RecurringTransactions = append(s.RecurringTransactions, r)
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// UpdateRecurring applies input to template id. An unknown id is a no-op and returns nil.
func (uc *RecurringUseCase) UpdateRecurring(ctx context.Context, id string, input UpdateRecurringInput) (*domain.RecurringTransaction, error) {
	var updated *domain.RecurringTransaction
	err := uc.ledger.Update(ctx, "recurring.update", func(s *domain.Snapshot) error {
		r := s.Recurring(id)
		if r == nil {
			return errUnchanged
		}

		next := *r
		if input.Type != nil {
			next.Type = *input.Type
		}
		if input.Amount != nil {
			next.Amount = *input.Amount
		}
		if input.Category != nil {
			next.Category = strings.TrimSpace(*input.Category)
		}
		if input.AccountID != nil {
			next.AccountID = *input.AccountID
		}
		if input.ToAccountID != nil {
			next.ToAccountID = *input.ToAccountID
		}
		if input.PaymentMethod != nil {
			next.PaymentMethod = *input.PaymentMethod
		}
		if input.Note != nil {
			next.Note = *input.Note
		}
		if input.Frequency != nil {
			next.Frequency = *input.Frequency
		}
		if input.NextDueDate != nil {
			next.NextDueDate = *input.NextDueDate
		}
		if input.EndDate != nil {
			end := *input.EndDate
			next.EndDate = &end
		}
		if input.ClearEndDate {
			next.EndDate = nil
		}
		if input.IsActive != nil {
			next.IsActive = *input.IsActive
		}

		if err := validateRecurring(s, &next); err != nil {
			return err
		}

		*r = next
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// ToggleRecurring flips isActive on template id.
func (uc *RecurringUseCase) ToggleRecurring(ctx context.Context, id string) (*domain.RecurringTransaction, error) {
	var updated *domain.RecurringTransaction
	err := uc.ledger.Update(ctx, "recurring.toggle", func(s *domain.Snapshot) error {
		r := s.Recurring(id)
		if r == nil {
			return errUnchanged
		}
		r.IsActive = !r.IsActive
		cp := *r
		updated = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteRecurring removes template id. Transactions it already generated stay.
func (uc *RecurringUseCase) DeleteRecurring(ctx context.Context, id string) error {
	return uc.ledger.Update(ctx, "recurring.delete", func(s *domain.Snapshot) error {
		if !s.RemoveRecurring(id) {
			return errUnchanged
		}
		return nil
	})
}

// GetRecurring retrieves a template by ID.
func (uc *RecurringUseCase) GetRecurring(id string) (*domain.RecurringTransaction, bool) {
	var out *domain.RecurringTransaction
	uc.ledger.View(func(s *domain.Snapshot) {
		if r := s.Recurring(id); r != nil {
			cp := *r
			out = &cp
		}
	})
	return out, out != nil
}

// ListRecurring lists every template.
func (uc *RecurringUseCase) ListRecurring() []domain.RecurringTransaction {
	var out []domain.RecurringTransaction
	uc.ledger.View(func(s *domain.Snapshot) {
		out = append([]domain.RecurringTransaction{}, s.RecurringTransactions...)
	})
	return out
}

// ProcessRecurring emits one transaction, dated today, for every due template
// and advances each by a single period. Missed periods are not backfilled.
// A template whose transaction is rejected is skipped, left unadvanced and logged.
func (uc *RecurringUseCase) ProcessRecurring(ctx context.Context) ([]domain.Transaction, error) {
	var generated []domain.Transaction
	skipped := 0

	err := uc.ledger.Update(ctx, "recurring.process", func(s *domain.Snapshot) error {
		now := uc.ledger.Now()
		today := domain.DayOf(now)

		for i := range s.RecurringTransactions {
			r := &s.RecurringTransactions[i]
			if !r.IsDue(now) {
				continue
			}

			tx := r.Instantiate(today)
			tx.ID = uc.ledger.NewID()
			tx.CreatedAt = now

			if err := recordTransaction(s, &tx, uc.ledger.NewID, now); err != nil {
				skipped++
				uc.ledger.logger.Warn().
					Err(err).
					Str("recurring_id", r.ID).
					Msg("skipping recurring template")
				continue
			}

			r.MarkProcessed(now)
			generated = append(generated, tx)
		}

		if len(generated) == 0 {
			return errUnchanged
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if m := uc.ledger.metrics; m != nil {
		m.RecurringGenerated.Add(float64(len(generated)))
		m.RecurringSkipped.Add(float64(skipped))
		for _, tx := range generated {
			m.TransactionsAdded.WithLabelValues(string(tx.Type)).Inc()
		}
	}

	uc.ledger.logger.Info().
		Int("generated", len(generated)).
		Int("skipped", skipped).
		Msg("recurring processing complete")

	if generated == nil {
		generated = []domain.Transaction{}
	}
	return generated, nil
}
