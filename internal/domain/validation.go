package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxNameLength     = 255
	MaxCategoryLength = 64
	MaxAmount         = "1000000000000" // 1 trillion
)

// SettleEpsilon is the smallest balance treated as non-zero (one hundredth of a currency unit).
var SettleEpsilon = decimal.New(1, -2)

// ValidateName validates a user-facing entity name.
func ValidateName(field, name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return NewValidationError(field, "cannot be empty")
	}

	if len(name) > MaxNameLength {
		return NewValidationError(field, fmt.Sprintf("exceeds %d characters", MaxNameLength))
	}

	return nil
}

// ValidateCategory validates a transaction or budget category.
func ValidateCategory(category string) error {
	category = strings.TrimSpace(category)

	if category == "" {
		return NewValidationError("category", "cannot be empty")
	}

	if len(category) > MaxCategoryLength {
		return NewValidationError("category", fmt.Sprintf("exceeds %d characters", MaxCategoryLength))
	}

	return nil
}

// ValidateCurrency validates a three-letter currency code. Empty means "use the ledger default".
func ValidateCurrency(currency string) error {
	currency = strings.TrimSpace(currency)
	if currency == "" {
		return nil
	}

	if len(currency) != 3 {
		return NewValidationError("currency", fmt.Sprintf("%q is not a three-letter code", currency))
	}

	for _, r := range currency {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return NewValidationError("currency", fmt.Sprintf("%q is not a three-letter code", currency))
		}
	}

	return nil
}

// ValidateAmount validates a strictly positive money amount.
func ValidateAmount(field string, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return &ValidationError{Field: field, Reason: ErrInvalidAmount.Error()}
	}

	if amount.GreaterThan(decimal.RequireFromString(MaxAmount)) {
		return NewValidationError(field, "exceeds maximum allowed")
	}

	return nil
}

// ParseAmount parses a user-entered amount, returning def when the input is empty or malformed.
func ParseAmount(s string, def decimal.Decimal) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return def
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return def
	}

	return d
}
