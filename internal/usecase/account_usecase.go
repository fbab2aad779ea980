package usecase

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	ledger *Ledger
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(ledger *Ledger) *AccountUseCase {
	return &AccountUseCase{ledger: ledger}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name        string
	Kind        domain.AccountKind
	Balance     decimal.Decimal
	Currency    string
	CreditLimit decimal.Decimal
	IsDefault   bool
}

// UpdateAccountInput carries the fields to change. Nil fields are left alone.
// Balance is a corrective update.
type UpdateAccountInput struct {
	Name        *string
	Kind        *domain.AccountKind
	Balance     *decimal.Decimal
	Currency    *string
	CreditLimit *decimal.Decimal
	IsDefault   *bool
}

func validateAccountFields(name string, kind domain.AccountKind, currency string, creditLimit decimal.Decimal) error {
	if err := domain.ValidateName("name", name); err != nil {
		return err
	}
	if !kind.IsValid() {
		return domain.NewValidationError("type", "must be cash, bank, credit_card, wallet or investment")
	}
	if err := domain.ValidateCurrency(currency); err != nil {
		return err
	}
	if creditLimit.IsNegative() {
		return domain.NewValidationError("creditLimit", "cannot be negative")
	}
	return nil
}

// CreateAccount adds an account whose opening balance is input.Balance.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := validateAccountFields(input.Name, input.Kind, input.Currency, input.CreditLimit); err != nil {
		return nil, err
	}

	var created domain.Account
	err := uc.ledger.Update(ctx, "account.create", func(s *domain.Snapshot) error {
		now := uc.ledger.Now()

		currency := strings.ToUpper(strings.TrimSpace(input.Currency))
		if currency == "" {
			currency = s.Currency
		}

		acc := domain.Account{
			ID:             uc.ledger.NewID(),
			Name:           strings.TrimSpace(input.Name),
			Kind:           input.Kind,
			Balance:        input.Balance,
			OpeningBalance: input.Balance,
			Currency:       currency,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if acc.IsCreditCard() {
			acc.CreditLimit = input.CreditLimit
			acc.IsSettled = true
		}

		s.Accounts = append(s.Accounts, acc)
		if input.IsDefault {
			s.SetDefaultAccount(acc.ID)
		}

		created = *s.Account(acc.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// UpdateAccount applies input to account id. An unknown id is a no-op and returns nil.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, id string, input UpdateAccountInput) (*domain.Account, error) {
	var updated *domain.Account
	err := uc.ledger.Update(ctx, "account.update", func(s *domain.Snapshot) error {
		acc := s.Account(id)
		if acc == nil {
			return errUnchanged
		}

		next := *acc
		if input.Name != nil {
			next.Name = strings.TrimSpace(*input.Name)
		}
		if input.Kind != nil {
			next.Kind = *input.Kind
		}
		if input.Currency != nil {
			next.Currency = strings.ToUpper(strings.TrimSpace(*input.Currency))
		}
		if input.CreditLimit != nil {
			next.CreditLimit = *input.CreditLimit
		}
		if err := validateAccountFields(next.Name, next.Kind, next.Currency, next.CreditLimit); err != nil {
			return err
		}
		if input.Balance != nil {
			next.CorrectBalance(*input.Balance)
		}
		next.UpdatedAt = uc.ledger.Now()

		*acc = next
		if input.IsDefault != nil {
			if *input.IsDefault {
				s.SetDefaultAccount(id)
			} else {
				acc.IsDefault = false
			}
		}

		updated = new(domain.Account)
		*updated = *s.Account(id)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteAccount removes the account. Transactions referencing it are kept as history.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, id string) error {
	return uc.ledger.Update(ctx, "account.delete", func(s *domain.Snapshot) error {
		if !s.RemoveAccount(id) {
			return errUnchanged
		}
		return nil
	})
}

// SetDefaultAccount makes id the only default account.
func (uc *AccountUseCase) SetDefaultAccount(ctx context.Context, id string) error {
	return uc.ledger.Update(ctx, "account.set_default", func(s *domain.Snapshot) error {
		if !s.SetDefaultAccount(id) {
			return errUnchanged
		}
		return nil
	})
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(id string) (*domain.Account, bool) {
	var acc *domain.Account
	uc.ledger.View(func(s *domain.Snapshot) {
		if a := s.Account(id); a != nil {
			cp := *a
			acc = &cp
		}
	})
	return acc, acc != nil
}

// ListAccounts lists every account in creation order.
func (uc *AccountUseCase) ListAccounts() []domain.Account {
	var accounts []domain.Account
	uc.ledger.View(func(s *domain.Snapshot) {
		accounts = append([]domain.Account{}, s.Accounts...)
	})
	return accounts
}
