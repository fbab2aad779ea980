package domain

import "github.com/shopspring/decimal"

// MemberBalance is the derived position of one member in a group.
// Positive Balance means the group owes the member.
type MemberBalance struct {
	MemberID string          `json:"memberId"`
	Name     string          `json:"name"`
	Paid     decimal.Decimal `json:"paid"`
	Owes     decimal.Decimal `json:"owes"`
	Balance  decimal.Decimal `json:"balance"`
}

// SettleUpSuggestion is one suggested payment from a debtor to a creditor.
type SettleUpSuggestion struct {
	FromMemberID string          `json:"fromMemberId"`
	ToMemberID   string          `json:"toMemberId"`
	Amount       decimal.Decimal `json:"amount"`
}

// Balances derives every member's paid, owed and net amounts, in member order.
// A settlement counts as paid for its sender and as negative paid for its receiver.
func (g *SplitGroup) Balances() []MemberBalance {
	index := make(map[string]int, len(g.Members))
	balances := make([]MemberBalance, len(g.Members))
	for i, m := range g.Members {
		index[m.ID] = i
		balances[i] = MemberBalance{
			MemberID: m.ID,
			Name:     m.Name,
			Paid:     decimal.Zero,
			Owes:     decimal.Zero,
		}
	}

	credit := func(memberID string, amount decimal.Decimal) {
		if i, ok := index[memberID]; ok {
			balances[i].Paid = balances[i].Paid.Add(amount)
		}
	}

	for _, e := range g.Expenses {
		credit(e.PaidBy, e.Amount)
		for _, s := range e.Splits {
			if i, ok := index[s.MemberID]; ok {
				balances[i].Owes = balances[i].Owes.Add(s.Amount)
			}
		}
	}

	for _, s := range g.Settlements {
		credit(s.FromMemberID, s.Amount)
		credit(s.ToMemberID, s.Amount.Neg())
	}

	for i := range balances {
		balances[i].Balance = balances[i].Paid.Sub(balances[i].Owes)
	}

	return balances
}

type party struct {
	memberID  string
	remaining decimal.Decimal
}

// SimplifyDebts greedily pairs debtors with creditors in the order the balances are
// given. Balances within SettleEpsilon of zero are treated as settled. The result
// zeroes every balance but is not guaranteed to use the fewest transfers.
func SimplifyDebts(balances []MemberBalance) []SettleUpSuggestion {
	var creditors, debtors []party
	for _, b := range balances {
		switch {
		case b.Balance.GreaterThan(SettleEpsilon):
			creditors = append(creditors, party{memberID: b.MemberID, remaining: b.Balance})
		case b.Balance.LessThan(SettleEpsilon.Neg()):
			debtors = append(debtors, party{memberID: b.MemberID, remaining: b.Balance.Abs()})
		}
	}

	var suggestions []SettleUpSuggestion
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := &debtors[i], &creditors[j]

		amount := decimal.Min(debtor.remaining, creditor.remaining)
		suggestions = append(suggestions, SettleUpSuggestion{
			FromMemberID: debtor.memberID,
			ToMemberID:   creditor.memberID,
			Amount:       amount,
		})

		debtor.remaining = debtor.remaining.Sub(amount)
		creditor.remaining = creditor.remaining.Sub(amount)

		if debtor.remaining.LessThanOrEqual(SettleEpsilon) {
			i++
		}
		if creditor.remaining.LessThanOrEqual(SettleEpsilon) {
			j++
		}
	}

	return suggestions
}
