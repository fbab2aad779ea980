package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The persisted document stores money as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultCurrency is used when a snapshot carries no currency.
const DefaultCurrency = "USD"

// Snapshot is the whole finance state. It is the unit of persistence and the
// object every mutation is applied to.
type Snapshot struct {
	Accounts              []Account              `json:"accounts"`
	Transactions          []Transaction          `json:"transactions"`
	RecurringTransactions []RecurringTransaction `json:"recurringTransactions"`
	Budgets               []Budget               `json:"budgets"`
	SavingsGoals          []SavingsGoal          `json:"savingsGoals"`
	BillReminders         []BillReminder         `json:"billReminders"`
	Debts                 []Debt                 `json:"debts"`
	SplitGroups           []SplitGroup           `json:"splitGroups"`
	Currency              string                 `json:"currency"`
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	s := &Snapshot{Currency: DefaultCurrency}
	s.Normalize()
	return s
}

// DecodeSnapshot parses a persisted snapshot document.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	s.Normalize()
	return &s, nil
}

// Encode serialises the snapshot into its persisted document shape.
func (s *Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// Normalize replaces nil collections with empty ones so the document always carries arrays.
func (s *Snapshot) Normalize() {
	if s.Accounts == nil {
		s.Accounts = []Account{}
	}
	if s.Transactions == nil {
		s.Transactions = []Transaction{}
	}
	if s.RecurringTransactions == nil {
		s.RecurringTransactions = []RecurringTransaction{}
	}
	if s.Budgets == nil {
		s.Budgets = []Budget{}
	}
	if s.SavingsGoals == nil {
		s.SavingsGoals = []SavingsGoal{}
	}
	if s.BillReminders == nil {
		s.BillReminders = []BillReminder{}
	}
	if s.Debts == nil {
		s.Debts = []Debt{}
	}
	if s.SplitGroups == nil {
		s.SplitGroups = []SplitGroup{}
	}
	if s.Currency == "" {
		s.Currency = DefaultCurrency
	}

	for i := range s.SavingsGoals {
		if s.SavingsGoals[i].Contributions == nil {
			s.SavingsGoals[i].Contributions = []Contribution{}
		}
	}
	for i := range s.Debts {
		if s.Debts[i].Payments == nil {
			s.Debts[i].Payments = []DebtPayment{}
		}
	}
	for i := range s.SplitGroups {
		g := &s.SplitGroups[i]
		if g.Members == nil {
			g.Members = []Member{}
		}
		if g.Expenses == nil {
			g.Expenses = []SplitExpense{}
		}
		if g.Settlements == nil {
			g.Settlements = []Settlement{}
		}
		for j := range g.Expenses {
			if g.Expenses[j].Splits == nil {
				g.Expenses[j].Splits = []Split{}
			}
		}
	}
}

// Clone returns a deep copy. Mutations run against a clone and replace the
// original only when they succeed.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		Accounts:              append([]Account{}, s.Accounts...),
		Transactions:          append([]Transaction{}, s.Transactions...),
		RecurringTransactions: make([]RecurringTransaction, len(s.RecurringTransactions)),
		Budgets:               append([]Budget{}, s.Budgets...),
		SavingsGoals:          make([]SavingsGoal, len(s.SavingsGoals)),
		BillReminders:         make([]BillReminder, len(s.BillReminders)),
		Debts:                 make([]Debt, len(s.Debts)),
		SplitGroups:           make([]SplitGroup, len(s.SplitGroups)),
		Currency:              s.Currency,
	}

	for i, r := range s.RecurringTransactions {
		if r.EndDate != nil {
			end := *r.EndDate
			r.EndDate = &end
		}
		if r.LastProcessed != nil {
			last := *r.LastProcessed
			r.LastProcessed = &last
		}
		c.RecurringTransactions[i] = r
	}
	for i, g := range s.SavingsGoals {
		c.SavingsGoals[i] = g.Clone()
	}
	for i, b := range s.BillReminders {
		c.BillReminders[i] = b.Clone()
	}
	for i, d := range s.Debts {
		c.Debts[i] = d.Clone()
	}
	for i, g := range s.SplitGroups {
		c.SplitGroups[i] = g.Clone()
	}

	return c
}

// Account returns the account with id, or nil.
func (s *Snapshot) Account(id string) *Account {
	for i := range s.Accounts {
		if s.Accounts[i].ID == id {
			return &s.Accounts[i]
		}
	}
	return nil
}

// Transaction returns the transaction with id, or nil.
func (s *Snapshot) Transaction(id string) *Transaction {
	for i := range s.Transactions {
		if s.Transactions[i].ID == id {
			return &s.Transactions[i]
		}
	}
	return nil
}

// Recurring returns the recurring template with id, or nil.
func (s *Snapshot) Recurring(id string) *RecurringTransaction {
	for i := range s.RecurringTransactions {
		if s.RecurringTransactions[i].ID == id {
			return &s.RecurringTransactions[i]
		}
	}
	return nil
}

// Budget returns the budget with id, or nil.
func (s *Snapshot) Budget(id string) *Budget {
	for i := range s.Budgets {
		if s.Budgets[i].ID == id {
			return &s.Budgets[i]
		}
	}
	return nil
}

// SavingsGoal returns the goal with id, or nil.
func (s *Snapshot) SavingsGoal(id string) *SavingsGoal {
	for i := range s.SavingsGoals {
		if s.SavingsGoals[i].ID == id {
			return &s.SavingsGoals[i]
		}
	}
	return nil
}

// BillReminder returns the bill with id, or nil.
func (s *Snapshot) BillReminder(id string) *BillReminder {
	for i := range s.BillReminders {
		if s.BillReminders[i].ID == id {
			return &s.BillReminders[i]
		}
	}
	return nil
}

// Debt returns the debt with id, or nil.
func (s *Snapshot) Debt(id string) *Debt {
	for i := range s.Debts {
		if s.Debts[i].ID == id {
			return &s.Debts[i]
		}
	}
	return nil
}

// SplitGroup returns the group with id, or nil.
func (s *Snapshot) SplitGroup(id string) *SplitGroup {
	for i := range s.SplitGroups {
		if s.SplitGroups[i].ID == id {
			return &s.SplitGroups[i]
		}
	}
	return nil
}

// RemoveAccount deletes the account with id. It reports whether anything was removed.
func (s *Snapshot) RemoveAccount(id string) bool {
	return removeWhere(&s.Accounts, func(a *Account) bool { return a.ID == id })
}

// RemoveTransaction deletes the transaction with id.
func (s *Snapshot) RemoveTransaction(id string) bool {
	return removeWhere(&s.Transactions, func(t *Transaction) bool { return t.ID == id })
}

// RemoveRecurring deletes the recurring template with id.
func (s *Snapshot) RemoveRecurring(id string) bool {
	return removeWhere(&s.RecurringTransactions, func(r *RecurringTransaction) bool { return r.ID == id })
}

// RemoveBudget deletes the budget with id.
func (s *Snapshot) RemoveBudget(id string) bool {
	return removeWhere(&s.Budgets, func(b *Budget) bool { return b.ID == id })
}

// RemoveSavingsGoal deletes the goal with id.
func (s *Snapshot) RemoveSavingsGoal(id string) bool {
	return removeWhere(&s.SavingsGoals, func(g *SavingsGoal) bool { return g.ID == id })
}

// RemoveBillReminder deletes the bill with id.
func (s *Snapshot) RemoveBillReminder(id string) bool {
	return removeWhere(&s.BillReminders, func(b *BillReminder) bool { return b.ID == id })
}

// RemoveDebt deletes the debt with id.
func (s *Snapshot) RemoveDebt(id string) bool {
	return removeWhere(&s.Debts, func(d *Debt) bool { return d.ID == id })
}

// RemoveSplitGroup deletes the group with id.
func (s *Snapshot) RemoveSplitGroup(id string) bool {
	return removeWhere(&s.SplitGroups, func(g *SplitGroup) bool { return g.ID == id })
}

func removeWhere[T any](items *[]T, match func(*T) bool) bool {
	for i := range *items {
		if match(&(*items)[i]) {
			*items = append((*items)[:i], (*items)[i+1:]...)
			return true
		}
	}
	return false
}

// ApplyTransaction applies the balance effects of tx, plus card usage for a
// credit-card expense. Effects on unknown accounts are skipped.
func (s *Snapshot) ApplyTransaction(tx *Transaction) {
	s.ApplyBalances(tx)

	if tx.Type == TransactionTypeExpense {
		if acc := s.Account(tx.AccountID); acc != nil {
			acc.ChargeCredit(tx.Amount)
		}
	}
}

// RevertTransaction applies the inverse of ApplyTransaction. Card usage that a
// settlement already cleared is not released a second time.
func (s *Snapshot) RevertTransaction(tx *Transaction) {
	s.RevertBalances(tx)

	if tx.Type == TransactionTypeExpense && !s.CardUsageSettled(tx) {
		if acc := s.Account(tx.AccountID); acc != nil {
			acc.ReleaseCredit(tx.Amount)
		}
	}
}

// ApplyBalances applies only the balance effects of tx.
func (s *Snapshot) ApplyBalances(tx *Transaction) {
	for _, e := range tx.Effects() {
		if acc := s.Account(e.AccountID); acc != nil {
			acc.ApplyCredit(e.Delta)
		}
	}
}

// RevertBalances reverses ApplyBalances.
func (s *Snapshot) RevertBalances(tx *Transaction) {
	for _, e := range tx.Effects() {
		if acc := s.Account(e.AccountID); acc != nil {
			acc.ApplyDebit(e.Delta)
		}
	}
}

// CardUsageSettled reports whether tx is a card expense whose linked debt has
// been paid off or removed. Its usage is then no longer part of creditUsed.
func (s *Snapshot) CardUsageSettled(tx *Transaction) bool {
	if tx.Type != TransactionTypeExpense || tx.LinkedDebtID == "" {
		return false
	}
	d := s.Debt(tx.LinkedDebtID)
	return d == nil || d.IsSettled
}

// OpenCreditCardDebt returns the unsettled debt linked to cardID, or nil.
func (s *Snapshot) OpenCreditCardDebt(cardID string) *Debt {
	for i := range s.Debts {
		d := &s.Debts[i]
		if d.LinkedCreditCardID == cardID && !d.IsSettled {
			return d
		}
	}
	return nil
}

// LinkCreditCardExpense records a card expense against the card's open debt,
// creating the debt (with newID) when none is open. It returns the debt id.
func (s *Snapshot) LinkCreditCardExpense(cardID string, amount decimal.Decimal, newID string, at time.Time) string {
	if d := s.OpenCreditCardDebt(cardID); d != nil {
		d.Augment(amount)
		return d.ID
	}

	name := "Credit card"
	if acc := s.Account(cardID); acc != nil {
		name = acc.Name
	}

	s.Debts = append(s.Debts, Debt{
		ID:                 newID,
		Type:               DebtTypeOwe,
		Name:               name,
		Description:        "Credit card balance",
		OriginalAmount:     amount,
		RemainingAmount:    amount,
		Payments:           []DebtPayment{},
		LinkedCreditCardID: cardID,
		CreatedAt:          at,
	})
	return newID
}

// UnlinkCreditCardExpense reverses LinkCreditCardExpense for debtID, removing the
// debt when the reversal would consume it. A missing or settled debt is left
// as it is.
func (s *Snapshot) UnlinkCreditCardExpense(debtID string, amount decimal.Decimal) {
	d := s.Debt(debtID)
	if d == nil || d.IsSettled {
		return
	}
	if !d.Shrink(amount) {
		s.RemoveDebt(debtID)
	}
}

// SettleCreditCard marks the card linked to d as settled once d is paid off.
func (s *Snapshot) SettleCreditCard(d *Debt) {
	if !d.IsSettled || !d.LinksCreditCard() {
		return
	}
	if acc := s.Account(d.LinkedCreditCardID); acc != nil {
		acc.MarkSettled()
	}
}

// SetDefaultAccount makes id the only default account. It reports false when id is unknown.
func (s *Snapshot) SetDefaultAccount(id string) bool {
	if s.Account(id) == nil {
		return false
	}
	for i := range s.Accounts {
		s.Accounts[i].IsDefault = s.Accounts[i].ID == id
	}
	return true
}

// ComputedBalance is the opening balance of accountID plus the signed effects of
// every transaction that references it.
func (s *Snapshot) ComputedBalance(accountID string) decimal.Decimal {
	acc := s.Account(accountID)
	if acc == nil {
		return decimal.Zero
	}

	balance := acc.OpeningBalance
	for i := range s.Transactions {
		for _, e := range s.Transactions[i].Effects() {
			if e.AccountID == accountID {
				balance = balance.Add(e.Delta)
			}
		}
	}
	return balance
}
