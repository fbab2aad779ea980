package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the closed set of transaction types.
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
		return true
	}
	return false
}

// Categories used by synthesized ledger entries.
const (
	CategoryPersonal    = "personal"
	CategoryInvestments = "investments"
	CategoryTransfer    = "transfer"
)

// Transaction is a concrete money movement against one or two accounts.
type Transaction struct {
	ID            string          `json:"id"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	AccountID     string          `json:"accountId"`
	ToAccountID   string          `json:"toAccountId,omitempty"`
	Date          time.Time       `json:"date"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Note          string          `json:"note,omitempty"`
	IsRecurring   bool            `json:"isRecurring"`
	RecurringID   string          `json:"recurringId,omitempty"`
	LinkedDebtID  string          `json:"linkedDebtId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Validate checks the fields every transaction must carry.
func (t *Transaction) Validate() error {
	if !t.Type.IsValid() {
		return NewValidationError("type", "must be income, expense or transfer")
	}

	if err := ValidateAmount("amount", t.Amount); err != nil {
		return err
	}

	if t.AccountID == "" {
		return NewValidationError("accountId", "is required")
	}

	if t.Type == TransactionTypeTransfer {
		if t.ToAccountID == "" {
			return NewValidationError("toAccountId", "is required for transfers")
		}
		if t.ToAccountID == t.AccountID {
			return NewValidationError("toAccountId", "cannot transfer to the same account")
		}
		return nil
	}

	return ValidateCategory(t.Category)
}

// Effect is the signed balance change a transaction causes on one account.
type Effect struct {
	AccountID string
	Delta     decimal.Decimal
}

// Effects returns the signed balance deltas of t: income credits the account, expense
// debits it, transfer debits the source and credits the destination.
func (t *Transaction) Effects() []Effect {
	switch t.Type {
	case TransactionTypeIncome:
		return []Effect{{AccountID: t.AccountID, Delta: t.Amount}}
	case TransactionTypeExpense:
		return []Effect{{AccountID: t.AccountID, Delta: t.Amount.Neg()}}
	case TransactionTypeTransfer:
		return []Effect{
			{AccountID: t.AccountID, Delta: t.Amount.Neg()},
			{AccountID: t.ToAccountID, Delta: t.Amount},
		}
	}
	return nil
}

// References reports whether t touches accountID on either side.
func (t *Transaction) References(accountID string) bool {
	return t.AccountID == accountID || (t.Type == TransactionTypeTransfer && t.ToAccountID == accountID)
}
