package usecase

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// ReconciliationUseCase checks recorded balances against the transaction history.
type ReconciliationUseCase struct {
	ledger *Ledger
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(ledger *Ledger) *ReconciliationUseCase {
	return &ReconciliationUseCase{ledger: ledger}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountID         string          `json:"accountId"`
	RecordedBalance   decimal.Decimal `json:"recordedBalance"`
	CalculatedBalance decimal.Decimal `json:"calculatedBalance"`
	Difference        decimal.Decimal `json:"difference"`
	IsReconciled      bool            `json:"isReconciled"`
	LastChecked       time.Time       `json:"lastChecked"`
}

// ReconcileAccount recomputes the balance of accountID from its opening balance
// and every transaction referencing it.
func (uc *ReconciliationUseCase) ReconcileAccount(accountID string) (*ReconciliationResult, bool) {
	var out *ReconciliationResult
	uc.ledger.View(func(s *domain.Snapshot) {
		out = reconcile(s, accountID, uc.ledger.Now())
	})
	return out, out != nil
}

// ReconcileAllAccounts reconciles every account.
func (uc *ReconciliationUseCase) ReconcileAllAccounts() []*ReconciliationResult {
	var results []*ReconciliationResult
	uc.ledger.View(func(s *domain.Snapshot) {
		now := uc.ledger.Now()
		results = make([]*ReconciliationResult, 0, len(s.Accounts))
		for i := range s.Accounts {
			results = append(results, reconcile(s, s.Accounts[i].ID, now))
		}
	})
	return results
}

func reconcile(s *domain.Snapshot, accountID string, now time.Time) *ReconciliationResult {
	acc := s.Account(accountID)
	if acc == nil {
		return nil
	}

	calculated := s.ComputedBalance(accountID)
	diff := acc.Balance.Sub(calculated)
	return &ReconciliationResult{
		AccountID:         accountID,
		RecordedBalance:   acc.Balance,
		CalculatedBalance: calculated,
		Difference:        diff,
		IsReconciled:      diff.IsZero(),
		LastChecked:       now,
	}
}

// CheckConsistency verifies the derived fields of debts, goals and split
// groups against their own ledgers.
func (uc *ReconciliationUseCase) CheckConsistency() []string {
	issues := []string{}
	uc.ledger.View(func(s *domain.Snapshot) {
		for i := range s.Debts {
			d := s.Debts[i]
			want := decimal.Max(decimal.Zero, d.OriginalAmount.Sub(d.Paid()))
			if !d.RemainingAmount.Equal(want) {
				issues = append(issues, fmt.Sprintf("debt %s: remaining=%s expected=%s", d.ID, d.RemainingAmount, want))
			}
			if d.IsSettled != d.RemainingAmount.IsZero() {
				issues = append(issues, fmt.Sprintf("debt %s: isSettled=%t with remaining=%s", d.ID, d.IsSettled, d.RemainingAmount))
			}
		}

		for i := range s.SavingsGoals {
			g := s.SavingsGoals[i]
			sum := decimal.Zero
			for _, c := range g.Contributions {
				sum = sum.Add(c.Amount)
			}
			if !g.CurrentAmount.Equal(sum) {
				issues = append(issues, fmt.Sprintf("goal %s: current=%s expected=%s", g.ID, g.CurrentAmount, sum))
			}
		}

		for i := range s.SplitGroups {
			g := s.SplitGroups[i]
			sum := decimal.Zero
			for _, e := range g.Expenses {
				sum = sum.Add(e.Amount)
			}
			if !g.TotalExpenses.Equal(sum) {
				issues = append(issues, fmt.Sprintf("group %s: totalExpenses=%s expected=%s", g.ID, g.TotalExpenses, sum))
			}
		}
	})
	return issues
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalAccounts      int                     `json:"totalAccounts"`
	ReconciledAccounts int                     `json:"reconciledAccounts"`
	Discrepancies      []*ReconciliationResult `json:"discrepancies"`
	Inconsistencies    []string                `json:"inconsistencies"`
	LedgerConsistent   bool                    `json:"ledgerConsistent"`
	CheckedAt          time.Time               `json:"checkedAt"`
}

// GenerateReconciliationReport generates a comprehensive reconciliation report
func (uc *ReconciliationUseCase) GenerateReconciliationReport() *ReconciliationReport {
	results := uc.ReconcileAllAccounts()
	issues := uc.CheckConsistency()

	report := &ReconciliationReport{
		TotalAccounts:    len(results),
		Discrepancies:    make([]*ReconciliationResult, 0),
		Inconsistencies:  issues,
		LedgerConsistent: len(issues) == 0,
		CheckedAt:        uc.ledger.Now(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	if len(report.Discrepancies) > 0 || !report.LedgerConsistent {
		uc.ledger.logger.Warn().
			Int("discrepancies", len(report.Discrepancies)).
			Int("inconsistencies", len(issues)).
			Msg("reconciliation found drift")
	}

	return report
}
