package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContributionType distinguishes deposits into a goal from withdrawals out of it.
type ContributionType string

const (
	ContributionTypeContribution ContributionType = "contribution"
	ContributionTypeWithdrawal   ContributionType = "withdrawal"
)

// Contribution is one signed movement on a savings goal.
type Contribution struct {
	ID        string           `json:"id"`
	Amount    decimal.Decimal  `json:"amount"`
	Date      time.Time        `json:"date"`
	Note      string           `json:"note,omitempty"`
	AccountID string           `json:"accountId,omitempty"`
	Type      ContributionType `json:"type"`
}

// SavingsGoal is a target amount built up from contributions.
type SavingsGoal struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	Contributions []Contribution  `json:"contributions"`
	IsCompleted   bool            `json:"isCompleted"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Validate checks the goal fields.
func (g *SavingsGoal) Validate() error {
	if err := ValidateName("name", g.Name); err != nil {
		return err
	}
	return ValidateAmount("targetAmount", g.TargetAmount)
}

// Recalculate derives currentAmount and isCompleted from the contribution ledger.
func (g *SavingsGoal) Recalculate() {
	current := decimal.Zero
	for _, c := range g.Contributions {
		current = current.Add(c.Amount)
	}
	g.CurrentAmount = current
	g.IsCompleted = current.GreaterThanOrEqual(g.TargetAmount)
}

// Contribute appends a deposit of amount.
func (g *SavingsGoal) Contribute(id string, amount decimal.Decimal, note, accountID string, at time.Time) {
	g.Contributions = append(g.Contributions, Contribution{
		ID:        id,
		Amount:    amount,
		Date:      at,
		Note:      note,
		AccountID: accountID,
		Type:      ContributionTypeContribution,
	})
	g.Recalculate()
}

// Withdraw takes up to amount out of the goal and returns what was actually withdrawn.
// Nothing is recorded when the goal is empty.
func (g *SavingsGoal) Withdraw(id string, amount decimal.Decimal, note, accountID string, at time.Time) decimal.Decimal {
	actual := decimal.Min(amount, g.CurrentAmount)
	if actual.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	g.Contributions = append(g.Contributions, Contribution{
		ID:        id,
		Amount:    actual.Neg(),
		Date:      at,
		Note:      note,
		AccountID: accountID,
		Type:      ContributionTypeWithdrawal,
	})
	g.Recalculate()

	return actual
}

// ProgressPercentage returns currentAmount as a percentage of the target, capped at 100.
func (g *SavingsGoal) ProgressPercentage() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	return decimal.Min(hundred, g.CurrentAmount.Div(g.TargetAmount).Mul(hundred))
}

// Clone returns a deep copy.
func (g SavingsGoal) Clone() SavingsGoal {
	g.Contributions = append([]Contribution{}, g.Contributions...)
	if g.Deadline != nil {
		deadline := *g.Deadline
		g.Deadline = &deadline
	}
	return g
}
