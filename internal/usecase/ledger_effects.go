package usecase

import (
	"time"

	"github.com/iho/fintrack/internal/domain"
)

// requireAccounts checks that every account tx touches exists in s.
func requireAccounts(s *domain.Snapshot, tx *domain.Transaction) error {
	if s.Account(tx.AccountID) == nil {
		return domain.NewValidationError("accountId", "unknown account "+tx.AccountID)
	}
	if tx.Type == domain.TransactionTypeTransfer && s.Account(tx.ToAccountID) == nil {
		return domain.NewValidationError("toAccountId", "unknown account "+tx.ToAccountID)
	}
	return nil
}

// recordTransaction validates tx, applies its balance effects and appends it.
// A credit-card expense is then linked to the card's open debt.
func recordTransaction(s *domain.Snapshot, tx *domain.Transaction, newID func() string, now time.Time) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if err := requireAccounts(s, tx); err != nil {
		return err
	}

	s.ApplyTransaction(tx)
	linkCardDebt(s, tx, newID, now)

	s.Transactions = append(s.Transactions, *tx)
	return nil
}

// recordMirror appends a transaction synthesized by another component (a debt
// payment or a savings movement). A mirror paid from a card is a card expense
// like any other and is linked to the card's open debt.
func recordMirror(s *domain.Snapshot, tx *domain.Transaction, newID func() string, now time.Time) error {
	return recordTransaction(s, tx, newID, now)
}

// linkCardDebt is the secondary effect of a credit-card expense: it grows the
// card's open debt, or opens one, and remembers the link on tx.
func linkCardDebt(s *domain.Snapshot, tx *domain.Transaction, newID func() string, now time.Time) {
	tx.LinkedDebtID = ""
	if tx.Type != domain.TransactionTypeExpense {
		return
	}

	acc := s.Account(tx.AccountID)
	if acc == nil || !acc.IsCreditCard() {
		return
	}

	tx.LinkedDebtID = s.LinkCreditCardExpense(acc.ID, tx.Amount, newID(), now)
}

// unrecordEffects reverses the balance effect of tx and its card-debt link.
// Usage already cleared by a settlement stays cleared. The transaction itself
// stays in s.
func unrecordEffects(s *domain.Snapshot, tx *domain.Transaction) {
	s.RevertTransaction(tx)
	if tx.LinkedDebtID != "" {
		s.UnlinkCreditCardExpense(tx.LinkedDebtID, tx.Amount)
	}
}

// sameCardCharge reports whether next charges the same card the same amount as prev.
func sameCardCharge(prev, next *domain.Transaction) bool {
	return prev.Type == domain.TransactionTypeExpense &&
		next.Type == domain.TransactionTypeExpense &&
		prev.AccountID == next.AccountID &&
		prev.Amount.Equal(next.Amount)
}
