package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DebtType is the closed set of debt directions.
type DebtType string

const (
	DebtTypeOwe        DebtType = "owe"
	DebtTypeLent       DebtType = "lent"
	DebtTypeCreditCard DebtType = "credit_card"
)

// IsValid reports whether t is a known debt type.
func (t DebtType) IsValid() bool {
	switch t {
	case DebtTypeOwe, DebtTypeLent, DebtTypeCreditCard:
		return true
	}
	return false
}

// PaymentTransactionType is the ledger direction of a payment on a debt of type t:
// paying what you owe is an expense, being repaid what you lent is income.
func (t DebtType) PaymentTransactionType() TransactionType {
	switch t {
	case DebtTypeLent:
		return TransactionTypeIncome
	case DebtTypeOwe, DebtTypeCreditCard:
		return TransactionTypeExpense
	}
	return TransactionTypeExpense
}

// DebtPayment is one applied payment against a debt.
type DebtPayment struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Note      string          `json:"note,omitempty"`
	AccountID string          `json:"accountId,omitempty"`
}

// Debt tracks money owed to or by the user.
type Debt struct {
	ID                 string          `json:"id"`
	Type               DebtType        `json:"type"`
	Name               string          `json:"name"`
	Description        string          `json:"description,omitempty"`
	OriginalAmount     decimal.Decimal `json:"originalAmount"`
	RemainingAmount    decimal.Decimal `json:"remainingAmount"`
	DueDate            *time.Time      `json:"dueDate,omitempty"`
	Payments           []DebtPayment   `json:"payments"`
	IsSettled          bool            `json:"isSettled"`
	LinkedCreditCardID string          `json:"linkedCreditCardId,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// Validate checks the debt fields.
func (d *Debt) Validate() error {
	if !d.Type.IsValid() {
		return NewValidationError("type", "must be owe, lent or credit_card")
	}

	if err := ValidateName("name", d.Name); err != nil {
		return err
	}

	return ValidateAmount("originalAmount", d.OriginalAmount)
}

// Paid sums the applied payments.
func (d *Debt) Paid() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range d.Payments {
		paid = paid.Add(p.Amount)
	}
	return paid
}

// Recalculate derives remainingAmount and isSettled from originalAmount and payments.
func (d *Debt) Recalculate() {
	d.RemainingAmount = decimal.Max(decimal.Zero, d.OriginalAmount.Sub(d.Paid()))
	d.IsSettled = d.RemainingAmount.IsZero()
}

// LinksCreditCard reports whether settling this debt settles a card account.
func (d *Debt) LinksCreditCard() bool {
	return d.LinkedCreditCardID != ""
}

// PaymentResult reports how much of a requested payment was applied.
type PaymentResult struct {
	Requested decimal.Decimal `json:"requested"`
	Applied   decimal.Decimal `json:"applied"`
	Ignored   decimal.Decimal `json:"ignored"`
	Settled   bool            `json:"settled"`
}

// ApplyPayment records a payment capped at the remaining amount. Any excess is
// noted on the payment and ignored. A settled debt is left untouched.
func (d *Debt) ApplyPayment(id string, amount decimal.Decimal, note, accountID string, at time.Time) PaymentResult {
	if d.IsSettled {
		return PaymentResult{Requested: amount, Applied: decimal.Zero, Ignored: amount, Settled: true}
	}

	applied := decimal.Min(amount, d.RemainingAmount)
	ignored := amount.Sub(applied)

	if ignored.IsPositive() {
		excess := fmt.Sprintf("overpayment of %s ignored", ignored.StringFixed(2))
		if note == "" {
			note = excess
		} else {
			note = note + " (" + excess + ")"
		}
	}

	d.Payments = append(d.Payments, DebtPayment{
		ID:        id,
		Amount:    applied,
		Date:      at,
		Note:      note,
		AccountID: accountID,
	})
	d.RemainingAmount = d.RemainingAmount.Sub(applied)
	d.IsSettled = d.RemainingAmount.IsZero()

	return PaymentResult{Requested: amount, Applied: applied, Ignored: ignored, Settled: d.IsSettled}
}

// Augment grows an open credit-card debt by a new card expense.
func (d *Debt) Augment(amount decimal.Decimal) {
	d.OriginalAmount = d.OriginalAmount.Add(amount)
	d.RemainingAmount = d.RemainingAmount.Add(amount)
	d.IsSettled = false
}

// Shrink reverses Augment. It reports false when the debt would be fully consumed,
// in which case the caller removes it.
func (d *Debt) Shrink(amount decimal.Decimal) bool {
	remaining := d.RemainingAmount.Sub(amount)
	if remaining.LessThanOrEqual(decimal.Zero) {
		return false
	}
	d.OriginalAmount = d.OriginalAmount.Sub(amount)
	d.RemainingAmount = remaining
	return true
}

// Clone returns a deep copy.
func (d Debt) Clone() Debt {
	d.Payments = append([]DebtPayment{}, d.Payments...)
	if d.DueDate != nil {
		due := *d.DueDate
		d.DueDate = &due
	}
	return d
}
