package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind is the closed set of account kinds.
type AccountKind string

const (
	AccountKindCash       AccountKind = "cash"
	AccountKindBank       AccountKind = "bank"
	AccountKindCreditCard AccountKind = "credit_card"
	AccountKindWallet     AccountKind = "wallet"
	AccountKindInvestment AccountKind = "investment"
)

// IsValid reports whether k is a known account kind.
func (k AccountKind) IsValid() bool {
	switch k {
	case AccountKindCash, AccountKindBank, AccountKindCreditCard, AccountKindWallet, AccountKindInvestment:
		return true
	}
	return false
}

// Account is a named balance-holding entity.
type Account struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Kind           AccountKind     `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Currency       string          `json:"currency"`
	CreditLimit    decimal.Decimal `json:"creditLimit"`
	CreditUsed     decimal.Decimal `json:"creditUsed"`
	IsDefault      bool            `json:"isDefault"`
	IsSettled      bool            `json:"isSettled"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// IsCreditCard reports whether the account is a credit card.
func (a *Account) IsCreditCard() bool {
	return a.Kind == AccountKindCreditCard
}

// ApplyDebit decreases the balance by amount.
func (a *Account) ApplyDebit(amount decimal.Decimal) {
	a.Balance = a.Balance.Sub(amount)
}

// ApplyCredit increases the balance by amount.
func (a *Account) ApplyCredit(amount decimal.Decimal) {
	a.Balance = a.Balance.Add(amount)
}

// ChargeCredit records card usage. No-op for non-card accounts.
func (a *Account) ChargeCredit(amount decimal.Decimal) {
	if !a.IsCreditCard() {
		return
	}
	a.CreditUsed = a.CreditUsed.Add(amount)
	a.IsSettled = false
}

// ReleaseCredit reverses card usage. CreditUsed never drops below zero: a settled
// card has already had its usage reset.
func (a *Account) ReleaseCredit(amount decimal.Decimal) {
	if !a.IsCreditCard() {
		return
	}
	a.CreditUsed = a.CreditUsed.Sub(amount)
	if a.CreditUsed.IsNegative() {
		a.CreditUsed = decimal.Zero
	}
}

// MarkSettled clears card usage after the linked debt is paid off.
func (a *Account) MarkSettled() {
	if !a.IsCreditCard() {
		return
	}
	a.IsSettled = true
	a.CreditUsed = decimal.Zero
}

// AvailableCredit returns the unused part of the credit limit.
func (a *Account) AvailableCredit() decimal.Decimal {
	if !a.IsCreditCard() {
		return decimal.Zero
	}
	return a.CreditLimit.Sub(a.CreditUsed)
}

// CorrectBalance sets the balance directly and shifts the opening balance by the
// same delta so the account still reconciles against its transactions.
func (a *Account) CorrectBalance(balance decimal.Decimal) {
	delta := balance.Sub(a.Balance)
	a.Balance = balance
	a.OpeningBalance = a.OpeningBalance.Add(delta)
}
