package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// DebtUseCase manages debts, their payment ledger and credit-card settlement.
type DebtUseCase struct {
	ledger *Ledger
}

// NewDebtUseCase creates a new DebtUseCase.
func NewDebtUseCase(ledger *Ledger) *DebtUseCase {
	return &DebtUseCase{ledger: ledger}
}

// CreateDebtInput represents input for adding a debt.
type CreateDebtInput struct {
	Type               domain.DebtType
	Name               string
	Description        string
	Amount             decimal.Decimal
	DueDate            *time.Time
	LinkedCreditCardID string
}

// UpdateDebtInput carries the fields to change. Nil fields are left alone.
type UpdateDebtInput struct {
	Name           *string
	Description    *string
	OriginalAmount *decimal.Decimal
	DueDate        *time.Time
	ClearDueDate   bool
}

// RecordPaymentInput represents a payment against a debt. AccountID is optional.
type RecordPaymentInput struct {
	DebtID    string
	Amount    decimal.Decimal
	Note      string
	AccountID string
}

// AddDebt adds a debt. A debt linked to a card must be the card's only open debt.
func (uc *DebtUseCase) AddDebt(ctx context.Context, input CreateDebtInput) (*domain.Debt, error) {
	var created domain.Debt
	err := uc.ledger.Update(ctx, "debt.add", func(s *domain.Snapshot) error {
		d := domain.Debt{
			ID:                 uc.ledger.NewID(),
			Type:               input.Type,
			Name:               strings.TrimSpace(input.Name),
			Description:        input.Description,
			OriginalAmount:     input.Amount,
			RemainingAmount:    input.Amount,
			DueDate:            input.DueDate,
			Payments:           []domain.DebtPayment{},
			LinkedCreditCardID: input.LinkedCreditCardID,
			CreatedAt:          uc.ledger.Now(),
		}

		if err := d.Validate(); err != nil {
			return err
		}

		if d.LinksCreditCard() {
			card := s.Account(d.LinkedCreditCardID)
			if card == nil || !card.IsCreditCard() {
				return domain.NewValidationError("linkedCreditCardId", "must reference a credit card account")
			}
			if s.OpenCreditCardDebt(d.LinkedCreditCardID) != nil {
				return domain.NewValidationError("linkedCreditCardId", "card already has an open debt")
			}
		}

		s.Debts = append(s.Debts, d)
		created = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// UpdateDebt applies input to debt id and recomputes remainingAmount from the
// payments. An unknown id is a no-op and returns nil.
func (uc *DebtUseCase) UpdateDebt(ctx context.Context, id string, input UpdateDebtInput) (*domain.Debt, error) {
	var updated *domain.Debt
	err := uc.ledger.Update(ctx, "debt.update", func(s *domain.Snapshot) error {
		d := s.Debt(id)
		if d == nil {
			return errUnchanged
		}

		if input.Name != nil {
			d.Name = strings.TrimSpace(*input.Name)
		}
		if input.Description != nil {
			d.Description = *input.Description
		}
		if input.OriginalAmount != nil {
			d.OriginalAmount = *input.OriginalAmount
		}
		if input.DueDate != nil {
			due := *input.DueDate
			d.DueDate = &due
		}
		if input.ClearDueDate {
			d.DueDate = nil
		}

		if err := d.Validate(); err != nil {
			return err
		}

		d.Recalculate()
		s.SettleCreditCard(d)

		cp := d.Clone()
		updated = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteDebt removes debt id. Transactions that referenced it keep their link
// and reversing them later is a no-op on the debt side.
func (uc *DebtUseCase) DeleteDebt(ctx context.Context, id string) error {
	return uc.ledger.Update(ctx, "debt.delete", func(s *domain.Snapshot) error {
		if !s.RemoveDebt(id) {
			return errUnchanged
		}
		return nil
	})
}

// RecordPayment applies a payment capped at the remaining amount. With an
// account, the applied amount is mirrored into the ledger as a "personal"
// transaction. A payment on a settled or unknown debt changes nothing.
func (uc *DebtUseCase) RecordPayment(ctx context.Context, input RecordPaymentInput) (domain.PaymentResult, error) {
	if err := domain.ValidateAmount("amount", input.Amount); err != nil {
		return domain.PaymentResult{}, err
	}

	result := domain.PaymentResult{Requested: input.Amount, Applied: decimal.Zero, Ignored: decimal.Zero}
	var debtName string

	err := uc.ledger.Update(ctx, "debt.payment", func(s *domain.Snapshot) error {
		d := s.Debt(input.DebtID)
		if d == nil {
			return errUnchanged
		}
		if d.IsSettled {
			result = domain.PaymentResult{Requested: input.Amount, Applied: decimal.Zero, Ignored: input.Amount, Settled: true}
			return errUnchanged
		}
		if input.AccountID != "" && s.Account(input.AccountID) == nil {
			return domain.NewValidationError("accountId", "unknown account "+input.AccountID)
		}
		if input.AccountID != "" && input.AccountID == d.LinkedCreditCardID {
			return domain.NewValidationError("accountId", "a card cannot pay its own balance")
		}

		now := uc.ledger.Now()
		result = d.ApplyPayment(uc.ledger.NewID(), input.Amount, input.Note, input.AccountID, now)
		debtName = d.Name

		var mirror *domain.Transaction
		if input.AccountID != "" && result.Applied.IsPositive() {
			mirror = debtPaymentTransaction(d, input.AccountID, result.Applied, uc.ledger.NewID(), now)
		}

		// Settle before mirroring: a card-paid mirror may append to s.Debts.
		s.SettleCreditCard(d)

		if mirror != nil {
			return recordMirror(s, mirror, uc.ledger.NewID, now)
		}
		return nil
	})
	if err != nil {
		return domain.PaymentResult{}, err
	}

	uc.observePayment(input.DebtID, debtName, result)
	return result, nil
}

// SettleDebt records a closing payment for the remaining amount, without an account.
func (uc *DebtUseCase) SettleDebt(ctx context.Context, id string) (domain.PaymentResult, error) {
	result := domain.PaymentResult{Requested: decimal.Zero, Applied: decimal.Zero, Ignored: decimal.Zero}
	var debtName string

	err := uc.ledger.Update(ctx, "debt.settle", func(s *domain.Snapshot) error {
		d := s.Debt(id)
		if d == nil || d.IsSettled {
			return errUnchanged
		}

		result = d.ApplyPayment(uc.ledger.NewID(), d.RemainingAmount, "Settled", "", uc.ledger.Now())
		debtName = d.Name
		s.SettleCreditCard(d)
		return nil
	})
	if err != nil {
		return domain.PaymentResult{}, err
	}

	uc.observePayment(id, debtName, result)
	return result, nil
}

func (uc *DebtUseCase) observePayment(debtID, name string, result domain.PaymentResult) {
	if !result.Applied.IsPositive() {
		return
	}

	if m := uc.ledger.metrics; m != nil {
		m.DebtPayments.Inc()
		if result.Ignored.IsPositive() {
			m.AmountsCapped.WithLabelValues("debt_payment").Inc()
		}
	}

	if result.Ignored.IsPositive() {
		uc.ledger.logger.Warn().
			Str("debt_id", debtID).
			Str("requested", result.Requested.String()).
			Str("applied", result.Applied.String()).
			Str("ignored", result.Ignored.String()).
			Msg("debt payment capped at remaining amount")
	}

	if result.Settled {
		uc.ledger.logger.Info().Str("debt_id", debtID).Str("name", name).Msg("debt settled")
	}
}

func debtPaymentTransaction(d *domain.Debt, accountID string, amount decimal.Decimal, id string, at time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:        id,
		Type:      d.Type.PaymentTransactionType(),
		Amount:    amount,
		Category:  domain.CategoryPersonal,
		AccountID: accountID,
		Date:      at,
		Note:      "Debt payment: " + d.Name,
		CreatedAt: at,
	}
}

// GetDebt retrieves a debt by ID.
func (uc *DebtUseCase) GetDebt(id string) (*domain.Debt, bool) {
	var out *domain.Debt
	uc.ledger.View(func(s *domain.Snapshot) {
		if d := s.Debt(id); d != nil {
			cp := d.Clone()
			out = &cp
		}
	})
	return out, out != nil
}

// ListDebts lists every debt.
func (uc *DebtUseCase) ListDebts() []domain.Debt {
	var out []domain.Debt
	uc.ledger.View(func(s *domain.Snapshot) {
		out = make([]domain.Debt, len(s.Debts))
		for i := range s.Debts {
			out[i] = s.Debts[i].Clone()
		}
	})
	return out
}
