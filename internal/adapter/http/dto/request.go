package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name        string             `json:"name"`
	Type        domain.AccountKind `json:"type"`
	Balance     decimal.Decimal    `json:"balance"`
	Currency    string             `json:"currency"`
	CreditLimit decimal.Decimal    `json:"creditLimit"`
	IsDefault   bool               `json:"isDefault"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:        r.Name,
		Kind:        r.Type,
		Balance:     r.Balance,
		Currency:    r.Currency,
		CreditLimit: r.CreditLimit,
		IsDefault:   r.IsDefault,
	}
}

// UpdateAccountRequest represents a partial account update.
type UpdateAccountRequest struct {
	Name        *string             `json:"name,omitempty"`
	Type        *domain.AccountKind `json:"type,omitempty"`
	Balance     *decimal.Decimal    `json:"balance,omitempty"`
	Currency    *string             `json:"currency,omitempty"`
	CreditLimit *decimal.Decimal    `json:"creditLimit,omitempty"`
	IsDefault   *bool               `json:"isDefault,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput() usecase.UpdateAccountInput {
	return usecase.UpdateAccountInput{
		Name:        r.Name,
		Kind:        r.Type,
		Balance:     r.Balance,
		Currency:    r.Currency,
		CreditLimit: r.CreditLimit,
		IsDefault:   r.IsDefault,
	}
}

// CreateTransactionRequest represents a request to record a transaction.
type CreateTransactionRequest struct {
	Type          domain.TransactionType `json:"type"`
	Amount        decimal.Decimal        `json:"amount"`
	Category      string                 `json:"category"`
	AccountID     string                 `json:"accountId"`
	ToAccountID   string                 `json:"toAccountId,omitempty"`
	Date          *time.Time             `json:"date,omitempty"`
	PaymentMethod string                 `json:"paymentMethod,omitempty"`
	Note          string                 `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		Type:          r.Type,
		Amount:        r.Amount,
		Category:      r.Category,
		AccountID:     r.AccountID,
		ToAccountID:   r.ToAccountID,
		Date:          r.Date,
		PaymentMethod: r.PaymentMethod,
		Note:          r.Note,
	}
}

// UpdateTransactionRequest represents a partial transaction update.
type UpdateTransactionRequest struct {
	Type          *domain.TransactionType `json:"type,omitempty"`
	Amount        *decimal.Decimal        `json:"amount,omitempty"`
	Category      *string                 `json:"category,omitempty"`
	AccountID     *string                 `json:"accountId,omitempty"`
	ToAccountID   *string                 `json:"toAccountId,omitempty"`
	Date          *time.Time              `json:"date,omitempty"`
	PaymentMethod *string                 `json:"paymentMethod,omitempty"`
	Note          *string                 `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateTransactionRequest) ToUseCaseInput() usecase.UpdateTransactionInput {
	return usecase.UpdateTransactionInput{
		Type:          r.Type,
		Amount:        r.Amount,
		Category:      r.Category,
		AccountID:     r.AccountID,
		ToAccountID:   r.ToAccountID,
		Date:          r.Date,
		PaymentMethod: r.PaymentMethod,
		Note:          r.Note,
	}
}

// CreateRecurringRequest represents a request to add a recurring template.
type CreateRecurringRequest struct {
	Type          domain.TransactionType `json:"type"`
	Amount        decimal.Decimal        `json:"amount"`
	Category      string                 `json:"category"`
	AccountID     string                 `json:"accountId"`
	ToAccountID   string                 `json:"toAccountId,omitempty"`
	PaymentMethod string                 `json:"paymentMethod,omitempty"`
	Note          string                 `json:"note,omitempty"`
	Frequency     domain.Frequency       `json:"frequency"`
	NextDueDate   *time.Time             `json:"nextDueDate,omitempty"`
	EndDate       *time.Time             `json:"endDate,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateRecurringRequest) ToUseCaseInput() usecase.CreateRecurringInput {
	return usecase.CreateRecurringInput{
		Type:          r.Type,
		Amount:        r.Amount,
		Category:      r.Category,
		AccountID:     r.AccountID,
		ToAccountID:   r.ToAccountID,
		PaymentMethod: r.PaymentMethod,
		Note:          r.Note,
		Frequency:     r.Frequency,
		NextDueDate:   r.NextDueDate,
		EndDate:       r.EndDate,
	}
}

// UpdateRecurringRequest represents a partial recurring template update.
type UpdateRecurringRequest struct {
	Type          *domain.TransactionType `json:"type,omitempty"`
	Amount        *decimal.Decimal        `json:"amount,omitempty"`
	Category      *string                 `json:"category,omitempty"`
	AccountID     *string                 `json:"accountId,omitempty"`
	ToAccountID   *string                 `json:"toAccountId,omitempty"`
	PaymentMethod *string                 `json:"paymentMethod,omitempty"`
	Note          *string                 `json:"note,omitempty"`
	Frequency     *domain.Frequency       `json:"frequency,omitempty"`
	NextDueDate   *time.Time              `json:"nextDueDate,omitempty"`
	EndDate       *time.Time              `json:"endDate,omitempty"`
	ClearEndDate  bool                    `json:"clearEndDate,omitempty"`
	IsActive      *bool                   `json:"isActive,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateRecurringRequest) ToUseCaseInput() usecase.UpdateRecurringInput {
	return usecase.UpdateRecurringInput{
		Type:          r.Type,
		Amount:        r.Amount,
		Category:      r.Category,
		AccountID:     r.AccountID,
		ToAccountID:   r.ToAccountID,
		PaymentMethod: r.PaymentMethod,
		Note:          r.Note,
		Frequency:     r.Frequency,
		NextDueDate:   r.NextDueDate,
		EndDate:       r.EndDate,
		ClearEndDate:  r.ClearEndDate,
		IsActive:      r.IsActive,
	}
}

// CreateBudgetRequest represents a request to add a budget.
type CreateBudgetRequest struct {
	Category       string              `json:"category"`
	Amount         decimal.Decimal     `json:"amount"`
	Period         domain.BudgetPeriod `json:"period"`
	StartDate      *time.Time          `json:"startDate,omitempty"`
	EndDate        *time.Time          `json:"endDate,omitempty"`
	AlertThreshold decimal.Decimal     `json:"alertThreshold"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBudgetRequest) ToUseCaseInput() usecase.CreateBudgetInput {
	return usecase.CreateBudgetInput{
		Category:       r.Category,
		Amount:         r.Amount,
		Period:         r.Period,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		AlertThreshold: r.AlertThreshold,
	}
}

// UpdateBudgetRequest represents a partial budget update.
type UpdateBudgetRequest struct {
	Category       *string              `json:"category,omitempty"`
	Amount         *decimal.Decimal     `json:"amount,omitempty"`
	Period         *domain.BudgetPeriod `json:"period,omitempty"`
	StartDate      *time.Time           `json:"startDate,omitempty"`
	EndDate        *time.Time           `json:"endDate,omitempty"`
	AlertThreshold *decimal.Decimal     `json:"alertThreshold,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateBudgetRequest) ToUseCaseInput() usecase.UpdateBudgetInput {
	return usecase.UpdateBudgetInput{
		Category:       r.Category,
		Amount:         r.Amount,
		Period:         r.Period,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		AlertThreshold: r.AlertThreshold,
	}
}

// CreateDebtRequest represents a request to add a debt.
type CreateDebtRequest struct {
	Type               domain.DebtType `json:"type"`
	Name               string          `json:"name"`
	Description        string          `json:"description,omitempty"`
	Amount             decimal.Decimal `json:"amount"`
	DueDate            *time.Time      `json:"dueDate,omitempty"`
	LinkedCreditCardID string          `json:"linkedCreditCardId,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateDebtRequest) ToUseCaseInput() usecase.CreateDebtInput {
	return usecase.CreateDebtInput{
		Type:               r.Type,
		Name:               r.Name,
		Description:        r.Description,
		Amount:             r.Amount,
		DueDate:            r.DueDate,
		LinkedCreditCardID: r.LinkedCreditCardID,
	}
}

// UpdateDebtRequest represents a partial debt update.
type UpdateDebtRequest struct {
	Name           *string          `json:"name,omitempty"`
	Description    *string          `json:"description,omitempty"`
	OriginalAmount *decimal.Decimal `json:"originalAmount,omitempty"`
	DueDate        *time.Time       `json:"dueDate,omitempty"`
	ClearDueDate   bool             `json:"clearDueDate,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateDebtRequest) ToUseCaseInput() usecase.UpdateDebtInput {
	return usecase.UpdateDebtInput{
		Name:           r.Name,
		Description:    r.Description,
		OriginalAmount: r.OriginalAmount,
		DueDate:        r.DueDate,
		ClearDueDate:   r.ClearDueDate,
	}
}

// PaymentRequest represents a debt payment. AccountID is optional.
type PaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
	AccountID string          `json:"accountId,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *PaymentRequest) ToUseCaseInput(debtID string) usecase.RecordPaymentInput {
	return usecase.RecordPaymentInput{
		DebtID:    debtID,
		Amount:    r.Amount,
		Note:      r.Note,
		AccountID: r.AccountID,
	}
}

// CreateGoalRequest represents a request to add a savings goal.
type CreateGoalRequest struct {
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	Deadline     *time.Time      `json:"deadline,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateGoalRequest) ToUseCaseInput() usecase.CreateGoalInput {
	return usecase.CreateGoalInput{
		Name:         r.Name,
		TargetAmount: r.TargetAmount,
		Deadline:     r.Deadline,
	}
}

// UpdateGoalRequest represents a partial savings goal update.
type UpdateGoalRequest struct {
	Name          *string          `json:"name,omitempty"`
	TargetAmount  *decimal.Decimal `json:"targetAmount,omitempty"`
	Deadline      *time.Time       `json:"deadline,omitempty"`
	ClearDeadline bool             `json:"clearDeadline,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateGoalRequest) ToUseCaseInput() usecase.UpdateGoalInput {
	return usecase.UpdateGoalInput{
		Name:          r.Name,
		TargetAmount:  r.TargetAmount,
		Deadline:      r.Deadline,
		ClearDeadline: r.ClearDeadline,
	}
}

// GoalMovementRequest represents a contribution or withdrawal.
type GoalMovementRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
	AccountID string          `json:"accountId,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *GoalMovementRequest) ToUseCaseInput(goalID string) usecase.GoalMovementInput {
	return usecase.GoalMovementInput{
		GoalID:    goalID,
		Amount:    r.Amount,
		Note:      r.Note,
		AccountID: r.AccountID,
	}
}

// CreateBillRequest represents a request to add a bill reminder.
type CreateBillRequest struct {
	Name         string           `json:"name"`
	Amount       decimal.Decimal  `json:"amount"`
	Category     string           `json:"category,omitempty"`
	DueDate      *time.Time       `json:"dueDate,omitempty"`
	Frequency    domain.Frequency `json:"frequency,omitempty"`
	AccountID    string           `json:"accountId,omitempty"`
	ReminderDays int              `json:"reminderDays"`
	Note         string           `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBillRequest) ToUseCaseInput() usecase.CreateBillInput {
	return usecase.CreateBillInput{
		Name:         r.Name,
		Amount:       r.Amount,
		Category:     r.Category,
		DueDate:      r.DueDate,
		Frequency:    r.Frequency,
		AccountID:    r.AccountID,
		ReminderDays: r.ReminderDays,
		Note:         r.Note,
	}
}

// UpdateBillRequest represents a partial bill reminder update.
type UpdateBillRequest struct {
	Name         *string           `json:"name,omitempty"`
	Amount       *decimal.Decimal  `json:"amount,omitempty"`
	Category     *string           `json:"category,omitempty"`
	DueDate      *time.Time        `json:"dueDate,omitempty"`
	ClearDueDate bool              `json:"clearDueDate,omitempty"`
	Frequency    *domain.Frequency `json:"frequency,omitempty"`
	AccountID    *string           `json:"accountId,omitempty"`
	ReminderDays *int              `json:"reminderDays,omitempty"`
	IsPaid       *bool             `json:"isPaid,omitempty"`
	Note         *string           `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateBillRequest) ToUseCaseInput() usecase.UpdateBillInput {
	return usecase.UpdateBillInput{
		Name:         r.Name,
		Amount:       r.Amount,
		Category:     r.Category,
		DueDate:      r.DueDate,
		ClearDueDate: r.ClearDueDate,
		Frequency:    r.Frequency,
		AccountID:    r.AccountID,
		ReminderDays: r.ReminderDays,
		IsPaid:       r.IsPaid,
		Note:         r.Note,
	}
}

// MemberRequest describes a split group member.
type MemberRequest struct {
	Name          string `json:"name"`
	IsCurrentUser bool   `json:"isCurrentUser,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *MemberRequest) ToUseCaseInput() usecase.MemberInput {
	return usecase.MemberInput{Name: r.Name, IsCurrentUser: r.IsCurrentUser}
}

// CreateGroupRequest represents a request to create a split group.
type CreateGroupRequest struct {
	Name    string          `json:"name"`
	Members []MemberRequest `json:"members"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateGroupRequest) ToUseCaseInput() usecase.CreateGroupInput {
	members := make([]usecase.MemberInput, len(r.Members))
	for i := range r.Members {
		members[i] = r.Members[i].ToUseCaseInput()
	}
	return usecase.CreateGroupInput{Name: r.Name, Members: members}
}

// RenameGroupRequest represents a group rename.
type RenameGroupRequest struct {
	Name string `json:"name"`
}

// AddExpenseRequest represents a shared expense.
type AddExpenseRequest struct {
	Description  string                     `json:"description"`
	Amount       decimal.Decimal            `json:"amount"`
	PaidBy       string                     `json:"paidBy"`
	SplitMethod  domain.SplitMethod         `json:"splitMethod"`
	SplitAmong   []string                   `json:"splitAmong"`
	CustomSplits map[string]decimal.Decimal `json:"customSplits,omitempty"`
	Date         *time.Time                 `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AddExpenseRequest) ToUseCaseInput() usecase.AddExpenseInput {
	return usecase.AddExpenseInput{
		Description:  r.Description,
		Amount:       r.Amount,
		PaidBy:       r.PaidBy,
		SplitMethod:  r.SplitMethod,
		SplitAmong:   r.SplitAmong,
		CustomSplits: r.CustomSplits,
		Date:         r.Date,
	}
}

// AddSettlementRequest represents a payment between two members.
type AddSettlementRequest struct {
	FromMemberID string          `json:"fromMemberId"`
	ToMemberID   string          `json:"toMemberId"`
	Amount       decimal.Decimal `json:"amount"`
	Note         string          `json:"note,omitempty"`
	Date         *time.Time      `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AddSettlementRequest) ToUseCaseInput() usecase.AddSettlementInput {
	return usecase.AddSettlementInput{
		FromMemberID: r.FromMemberID,
		ToMemberID:   r.ToMemberID,
		Amount:       r.Amount,
		Note:         r.Note,
		Date:         r.Date,
	}
}
