package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// TransactionUseCase records money movements against accounts.
type TransactionUseCase struct {
	ledger *Ledger
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(ledger *Ledger) *TransactionUseCase {
	return &TransactionUseCase{ledger: ledger}
}

// CreateTransactionInput represents input for adding a transaction.
type CreateTransactionInput struct {
	Type          domain.TransactionType
	Amount        decimal.Decimal
	Category      string
	AccountID     string
	ToAccountID   string
	Date          *time.Time
	PaymentMethod string
	Note          string
}

// UpdateTransactionInput carries the fields to change. Nil fields are left alone.
type UpdateTransactionInput struct {
	Type          *domain.TransactionType
	Amount        *decimal.Decimal
	Category      *string
	AccountID     *string
	ToAccountID   *string
	Date          *time.Time
	PaymentMethod *string
	Note          *string
}

// TransactionFilter narrows ListTransactions. Zero fields match everything.
type TransactionFilter struct {
	AccountID string
	Category  string
	Type      domain.TransactionType
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// AddTransaction validates and records a transaction. A credit-card expense
// also grows the card's open debt.
func (uc *TransactionUseCase) AddTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	var created domain.Transaction
	err := uc.ledger.Update(ctx, "transaction.add", func(s *domain.Snapshot) error {
		now := uc.ledger.Now()

		tx := domain.Transaction{
			ID:            uc.ledger.NewID(),
			Type:          input.Type,
			Amount:        input.Amount,
			Category:      strings.TrimSpace(input.Category),
			AccountID:     input.AccountID,
			ToAccountID:   input.ToAccountID,
			Date:          now,
			PaymentMethod: input.PaymentMethod,
			Note:          input.Note,
			CreatedAt:     now,
		}
		if input.Date != nil {
			tx.Date = *input.Date
		}
		if tx.Type == domain.TransactionTypeTransfer && tx.Category == "" {
			tx.Category = domain.CategoryTransfer
		}

		if err := recordTransaction(s, &tx, uc.ledger.NewID, now); err != nil {
			return err
		}

		created = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	if m := uc.ledger.metrics; m != nil {
		m.TransactionsAdded.WithLabelValues(string(created.Type)).Inc()
	}

	return &created, nil
}

// UpdateTransaction reverses the old effect of id and applies the updated one,
// moving its card-debt link if needed. An unknown id is a no-op and returns nil.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, id string, input UpdateTransactionInput) (*domain.Transaction, error) {
	var updated *domain.Transaction
	err := uc.ledger.Update(ctx, "transaction.update", func(s *domain.Snapshot) error {
		old := s.Transaction(id)
		if old == nil {
			return errUnchanged
		}

		next := *old
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
		if input.Date != nil {
			next.Date = *input.Date
		}
		if input.PaymentMethod != nil {
			next.PaymentMethod = *input.PaymentMethod
		}
		if input.Note != nil {
			next.Note = *input.Note
		}
		if next.Type != domain.TransactionTypeTransfer {
			next.ToAccountID = ""
		}

		if err := next.Validate(); err != nil {
			return err
		}
		if err := requireAccounts(s, &next); err != nil {
			return err
		}

		previous := *old
		if s.CardUsageSettled(&previous) && sameCardCharge(&previous, &next) {
			// The charge was paid off; only the balance side can move.
			s.RevertBalances(&previous)
			s.ApplyBalances(&next)
		} else {
			unrecordEffects(s, &previous)
			s.ApplyTransaction(&next)
			linkCardDebt(s, &next, uc.ledger.NewID, uc.ledger.Now())
		}

		*s.Transaction(id) = next
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteTransaction reverses the balance and card effects of id and removes it.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, id string) error {
	return uc.ledger.Update(ctx, "transaction.delete", func(s *domain.Snapshot) error {
		tx := s.Transaction(id)
		if tx == nil {
			return errUnchanged
		}

		removed := *tx
		unrecordEffects(s, &removed)
		s.RemoveTransaction(id)
		return nil
	})
}

// GetTransaction retrieves a transaction by ID.
func (uc *TransactionUseCase) GetTransaction(id string) (*domain.Transaction, bool) {
	var tx *domain.Transaction
	uc.ledger.View(func(s *domain.Snapshot) {
		if t := s.Transaction(id); t != nil {
			cp := *t
			tx = &cp
		}
	})
	return tx, tx != nil
}

// ListTransactions returns matching transactions, newest first.
func (uc *TransactionUseCase) ListTransactions(filter TransactionFilter) []domain.Transaction {
	var out []domain.Transaction
	uc.ledger.View(func(s *domain.Snapshot) {
		for i := range s.Transactions {
			if matchesFilter(&s.Transactions[i], filter) {
				out = append(out, s.Transactions[i])
			}
		}
	})

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []domain.Transaction{}
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	if out == nil {
		out = []domain.Transaction{}
	}
	return out
}

func matchesFilter(tx *domain.Transaction, f TransactionFilter) bool {
	if f.AccountID != "" && !tx.References(f.AccountID) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(tx.Category, f.Category) {
		return false
	}
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	day := domain.DayOf(tx.Date)
	if f.From != nil && day.Before(domain.DayOf(*f.From)) {
		return false
	}
	if f.To != nil && day.After(domain.DayOf(*f.To)) {
		return false
	}
	return true
}
