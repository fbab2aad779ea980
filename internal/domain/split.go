package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SplitMethod is the rule used to divide a group expense among members.
type SplitMethod string

const (
	SplitMethodEqual      SplitMethod = "equal"
	SplitMethodExact      SplitMethod = "exact"
	SplitMethodPercentage SplitMethod = "percentage"
	SplitMethodShares     SplitMethod = "shares"
)

// IsValid reports whether m is a known split method.
func (m SplitMethod) IsValid() bool {
	switch m {
	case SplitMethodEqual, SplitMethodExact, SplitMethodPercentage, SplitMethodShares:
		return true
	}
	return false
}

// Member is a participant of a split group.
type Member struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	IsCurrentUser bool   `json:"isCurrentUser"`
}

// Split is one member's share of an expense.
type Split struct {
	MemberID string          `json:"memberId"`
	Amount   decimal.Decimal `json:"amount"`
}

// SplitExpense is a shared expense fronted by one member.
type SplitExpense struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      string          `json:"paidBy"`
	SplitMethod SplitMethod     `json:"splitMethod"`
	Splits      []Split         `json:"splits"`
	Date        time.Time       `json:"date"`
}

// Settlement is a recorded real-world payment between two members.
type Settlement struct {
	ID           string          `json:"id"`
	FromMemberID string          `json:"fromMemberId"`
	ToMemberID   string          `json:"toMemberId"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	Note         string          `json:"note,omitempty"`
}

// SplitGroup is a set of members sharing expenses.
type SplitGroup struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Members       []Member        `json:"members"`
	Expenses      []SplitExpense  `json:"expenses"`
	Settlements   []Settlement    `json:"settlements"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// HasMember reports whether memberID belongs to the group.
func (g *SplitGroup) HasMember(memberID string) bool {
	for _, m := range g.Members {
		if m.ID == memberID {
			return true
		}
	}
	return false
}

// MemberReferenced reports whether any expense or settlement mentions memberID.
func (g *SplitGroup) MemberReferenced(memberID string) bool {
	for _, e := range g.Expenses {
		if e.PaidBy == memberID {
			return true
		}
		for _, s := range e.Splits {
			if s.MemberID == memberID {
				return true
			}
		}
	}
	for _, s := range g.Settlements {
		if s.FromMemberID == memberID || s.ToMemberID == memberID {
			return true
		}
	}
	return false
}

// ComputeSplits divides amount among the given members according to method.
// custom holds absolute amounts (exact), percentages (percentage) or weights (shares).
func ComputeSplits(method SplitMethod, amount decimal.Decimal, among []string, custom map[string]decimal.Decimal) ([]Split, error) {
	if len(among) == 0 {
		return nil, NewValidationError("splitAmong", "must name at least one member")
	}

	seen := make(map[string]bool, len(among))
	for _, id := range among {
		if seen[id] {
			return nil, NewValidationError("splitAmong", fmt.Sprintf("member %s listed twice", id))
		}
		seen[id] = true
	}

	splits := make([]Split, 0, len(among))

	switch method {
	case SplitMethodEqual:
		share := amount.Div(decimal.NewFromInt(int64(len(among))))
		for _, id := range among {
			splits = append(splits, Split{MemberID: id, Amount: share})
		}

	case SplitMethodExact:
		total := decimal.Zero
		for _, id := range among {
			v := custom[id]
			if v.IsNegative() {
				return nil, NewValidationError("customSplits", "amounts cannot be negative")
			}
			total = total.Add(v)
			splits = append(splits, Split{MemberID: id, Amount: v})
		}
		if total.Sub(amount).Abs().GreaterThan(SettleEpsilon) {
			return nil, NewValidationError("customSplits", fmt.Sprintf("exact amounts total %s, expected %s", total, amount))
		}

	case SplitMethodPercentage:
		total := decimal.Zero
		for _, id := range among {
			pct := custom[id]
			if pct.IsNegative() {
				return nil, NewValidationError("customSplits", "percentages cannot be negative")
			}
			total = total.Add(pct)
			splits = append(splits, Split{MemberID: id, Amount: amount.Mul(pct).Div(hundred)})
		}
		if total.Sub(hundred).Abs().GreaterThan(SettleEpsilon) {
			return nil, NewValidationError("customSplits", fmt.Sprintf("percentages total %s, expected 100", total))
		}

	case SplitMethodShares:
		totalShares := decimal.Zero
		for _, id := range among {
			if custom[id].IsNegative() {
				return nil, NewValidationError("customSplits", "shares cannot be negative")
			}
			totalShares = totalShares.Add(custom[id])
		}
		if !totalShares.IsPositive() {
			return nil, NewValidationError("customSplits", "total shares must be positive")
		}
		for _, id := range among {
			splits = append(splits, Split{MemberID: id, Amount: amount.Mul(custom[id]).Div(totalShares)})
		}

	default:
		return nil, NewValidationError("splitMethod", "must be equal, exact, percentage or shares")
	}

	return splits, nil
}

// Clone returns a deep copy.
func (g SplitGroup) Clone() SplitGroup {
	g.Members = append([]Member{}, g.Members...)
	g.Settlements = append([]Settlement{}, g.Settlements...)
	expenses := make([]SplitExpense, len(g.Expenses))
	for i, e := range g.Expenses {
		e.Splits = append([]Split{}, e.Splits...)
		expenses[i] = e
	}
	g.Expenses = expenses
	return g
}
