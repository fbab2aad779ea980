package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// SplitUseCase manages expense-sharing groups, their balances and settle-up suggestions.
type SplitUseCase struct {
	ledger *Ledger
}

// NewSplitUseCase creates a new SplitUseCase.
func NewSplitUseCase(ledger *Ledger) *SplitUseCase {
	return &SplitUseCase{ledger: ledger}
}

// MemberInput describes a group member.
type MemberInput struct {
	Name          string
	IsCurrentUser bool
}

// CreateGroupInput represents input for creating a group.
type CreateGroupInput struct {
	Name    string
	Members []MemberInput
}

// AddExpenseInput represents a shared expense. CustomSplits holds absolute
// amounts, percentages or share weights depending on SplitMethod.
type AddExpenseInput struct {
	Description  string
	Amount       decimal.Decimal
	PaidBy       string
	SplitMethod  domain.SplitMethod
	SplitAmong   []string
	CustomSplits map[string]decimal.Decimal
	Date         *time.Time
}

// AddSettlementInput represents a real-world payment between two members.
type AddSettlementInput struct {
	FromMemberID string
	ToMemberID   string
	Amount       decimal.Decimal
	Note         string
	Date         *time.Time
}

// CreateGroup creates a group with its initial members.
func (uc *SplitUseCase) CreateGroup(ctx context.Context, input CreateGroupInput) (*domain.SplitGroup, error) {
	if err := domain.ValidateName("name", input.Name); err != nil {
		return nil, err
	}
	for _, m := range input.Members {
		if err := domain.ValidateName("members.name", m.Name); err != nil {
			return nil, err
		}
	}

	var created domain.SplitGroup
	err := uc.ledger.Update(ctx, "split.group.create", func(s *domain.Snapshot) error {
		g := domain.SplitGroup{
			ID:            uc.ledger.NewID(),
			Name:          strings.TrimSpace(input.Name),
			Members:       make([]domain.Member, 0, len(input.Members)),
			Expenses:      []domain.SplitExpense{},
			Settlements:   []domain.Settlement{},
			TotalExpenses: decimal.Zero,
			CreatedAt:     uc.ledger.Now(),
		}
		for _, m := range input.Members {
			g.Members = append(g.Members, domain.Member{
				ID:            uc.ledger.NewID(),
				Name:          strings.TrimSpace(m.Name),
				IsCurrentUser: m.IsCurrentUser,
			})
		}

		s.SplitGroups = append(s.SplitGroups, g)
		created = g.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// RenameGroup renames group id.
func (uc *SplitUseCase) RenameGroup(ctx context.Context, id, name string) (*domain.SplitGroup, error) {
	if err := domain.ValidateName("name", name); err != nil {
		return nil, err
	}

	var updated *domain.SplitGroup
	err := uc.ledger.Update(ctx, "split.group.rename", func(s *domain.Snapshot) error {
		g := s.SplitGroup(id)
		if g == nil {
			return errUnchanged
		}
		g.Name = strings.TrimSpace(name)
		cp := g.Clone()
		updated = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteGroup removes group id with all its expenses and settlements.
func (uc *SplitUseCase) DeleteGroup(ctx context.Context, id string) error {
	return uc.ledger.Update(ctx, "split.group.delete", func(s *domain.Snapshot) error {
		if !s.RemoveSplitGroup(id) {
			return errUnchanged
		}
		return nil
	})
}

// AddMember adds a member to group id.
func (uc *SplitUseCase) AddMember(ctx context.Context, groupID string, input MemberInput) (*domain.Member, error) {
	if err := domain.ValidateName("name", input.Name); err != nil {
		return nil, err
	}

	var added *domain.Member
	err := uc.ledger.Update(ctx, "split.member.add", func(s *domain.Snapshot) error {
		g := s.SplitGroup(groupID)
		if g == nil {
			return errUnchanged
		}
		m := domain.Member{
			ID:            uc.ledger.NewID(),
			Name:          strings.TrimSpace(input.Name),
			IsCurrentUser: input.IsCurrentUser,
		}
		g.Members = append(g.Members, m)
		added = &m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// RemoveMember removes a member who appears in no expense or settlement.
func (uc *SplitUseCase) RemoveMember(ctx context.Context, groupID, memberID string) error {
	return uc.ledger.Update(ctx, "split.member.remove", func(s *domain.Snapshot) error {
		g := s.SplitGroup(groupID)
		if g == nil || !g.HasMember(memberID) {
			return errUnchanged
		}
		if g.MemberReferenced(memberID) {
			return domain.NewValidationError("memberId", "member has expenses or settlements")
		}

		members := g.Members[:0]
		for _, m := range g.Members {
			if m.ID != memberID {
				members = append(members, m)
			}
		}
		g.Members = members
		return nil
	})
}

// AddExpense splits a shared expense among members and adds it to the group.
func (uc *SplitUseCase) AddExpense(ctx context.Context, groupID string, input AddExpenseInput) (*domain.SplitExpense, error) {
	if err := domain.ValidateAmount("amount", input.Amount); err != nil {
		return nil, err
	}

	var added *domain.SplitExpense
	err := uc.ledger.Update(ctx, "split.expense.add", func(s *domain.Snapshot) error {
		g := s.SplitGroup(groupID)
		if g == nil {
			return errUnchanged
		}

		if !g.HasMember(input.PaidBy) {
			return domain.NewValidationError("paidBy", "is not a group member")
		}
		for _, id := range input.SplitAmong {
			if !g.HasMember(id) {
				return domain.NewValidationError("splitAmong", "member "+id+" is not in the group")
			}
		}

		splits, err := domain.ComputeSplits(input.SplitMethod, input.Amount, input.SplitAmong, input.CustomSplits)
		if err != nil {
			return err
		}

		now := uc.ledger.Now()
		e := domain.SplitExpense{
			ID:          uc.ledger.NewID(),
			Description: strings.TrimSpace(input.Description),
			Amount:      input.Amount,
			PaidBy:      input.PaidBy,
			SplitMethod: input.SplitMethod,
			Splits:      splits,
			Date:        now,
		}
		if input.Date != nil {
			e.Date = *input.Date
		}

		g.Expenses = append(g.Expenses, e)
		g.TotalExpenses = g.TotalExpenses.Add(e.Amount)
		added = &e
		return nil
	})
	if err != nil {
		return nil, err
	}

	if added != nil {
		if m := uc.ledger.metrics; m != nil {
			m.SplitExpensesAdded.Inc()
		}
	}
	return added, nil
}

// DeleteExpense removes an expense and takes its stored amount off totalExpenses.
func (uc *SplitUseCase) DeleteExpense(ctx context.Context, groupID, expenseID string) error {
	return uc.ledger.Update(ctx, "split.expense.delete", func(s *domain.Snapshot) error {
		g := s.SplitGroup(groupID)
		if g == nil {
			return errUnchanged
		}
		for i, e := range g.Expenses {
			if e.ID == expenseID {
				g.TotalExpenses = g.TotalExpenses.Sub(e.Amount)
				g.Expenses = append(g.Expenses[:i], g.Expenses[i+1:]...)
				return nil
			}
		}
		return errUnchanged
	})
}

// AddSettlement records a payment between two members. It need not follow the suggestions.
func (uc *SplitUseCase) AddSettlement(ctx context.Context, groupID string, input AddSettlementInput) (*domain.Settlement, error) {
	if err := domain.ValidateAmount("amount", input.Amount); err != nil {
		return nil, err
	}
	if input.FromMemberID == input.ToMemberID {
		return nil, domain.NewValidationError("toMemberId", "must differ from fromMemberId")
	}

	var added *domain.Settlement
	err := uc.ledger.Update(ctx, "split.settlement.add", func(s *domain.Snapshot) error {
		g := s.SplitGroup(groupID)
		if g == nil {
			return errUnchanged
		}
		if !g.HasMember(input.FromMemberID) {
			return domain.NewValidationError("fromMemberId", "is not a group member")
		}
		if !g.HasMember(input.ToMemberID) {
			return domain.NewValidationError("toMemberId", "is not a group member")
		}

		st := domain.Settlement{
			ID:           uc.ledger.NewID(),
			FromMemberID: input.FromMemberID,
			ToMemberID:   input.ToMemberID,
			Amount:       input.Amount,
			Date:         uc.ledger.Now(),
			Note:         input.Note,
		}
		if input.Date != nil {
			st.Date = *input.Date
		}

		g.Settlements = append(g.Settlements, st)
		added = &st
		return nil
	})
	if err != nil {
		return nil, err
	}

	if added != nil {
		if m := uc.ledger.metrics; m != nil {
			m.SettlementsAdded.Inc()
		}
	}
	return added, nil
}

// DeleteSettlement removes a recorded settlement.
func (uc *SplitUseCase) DeleteSettlement(ctx context.Context, groupID, settlementID string) error {
	return uc.ledger.Update(ctx, "split.settlement.delete", func(s *domain.Snapshot) error {
		g := s.SplitGroup(groupID)
		if g == nil {
			return errUnchanged
		}
		for i, st := range g.Settlements {
			if st.ID == settlementID {
				g.Settlements = append(g.Settlements[:i], g.Settlements[i+1:]...)
				return nil
			}
		}
		return errUnchanged
	})
}

// GetGroup retrieves a group by ID.
func (uc *SplitUseCase) GetGroup(id string) (*domain.SplitGroup, bool) {
	var out *domain.SplitGroup
	uc.ledger.View(func(s *domain.Snapshot) {
		if g := s.SplitGroup(id); g != nil {
			cp := g.Clone()
			out = &cp
		}
	})
	return out, out != nil
}

// ListGroups lists every group.
func (uc *SplitUseCase) ListGroups() []domain.SplitGroup {
	var out []domain.SplitGroup
	uc.ledger.View(func(s *domain.Snapshot) {
		out = make([]domain.SplitGroup, len(s.SplitGroups))
		for i := range s.SplitGroups {
			out[i] = s.SplitGroups[i].Clone()
		}
	})
	return out
}

// GetBalances derives every member's balance in group id.
func (uc *SplitUseCase) GetBalances(groupID string) ([]domain.MemberBalance, bool) {
	var (
		out   []domain.MemberBalance
		found bool
	)
	uc.ledger.View(func(s *domain.Snapshot) {
		if g := s.SplitGroup(groupID); g != nil {
			out, found = g.Balances(), true
		}
	})
	return out, found
}

// GetSettleUpSuggestions returns transfers that would zero every balance in group id.
func (uc *SplitUseCase) GetSettleUpSuggestions(groupID string) ([]domain.SettleUpSuggestion, bool) {
	balances, ok := uc.GetBalances(groupID)
	if !ok {
		return nil, false
	}

	suggestions := domain.SimplifyDebts(balances)
	if suggestions == nil {
		suggestions = []domain.SettleUpSuggestion{}
	}
	return suggestions, true
}
