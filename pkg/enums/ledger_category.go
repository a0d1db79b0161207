package enums

import "fmt"

// LedgerCategory labels why a ledger entry was written.
type LedgerCategory string

const (
	LedgerCategoryAllowance LedgerCategory = "allowance"
	LedgerCategoryPurchase  LedgerCategory = "purchase"
	LedgerCategoryAdvance   LedgerCategory = "advance"
	LedgerCategoryDeduction LedgerCategory = "deduction"
	LedgerCategoryGift      LedgerCategory = "gift"
	LedgerCategoryInfo      LedgerCategory = "info"
)

var validLedgerCategories = []LedgerCategory{
	LedgerCategoryAllowance,
	LedgerCategoryPurchase,
	LedgerCategoryAdvance,
	LedgerCategoryDeduction,
	LedgerCategoryGift,
	LedgerCategoryInfo,
}

// LedgerCategories returns the canonical categories in display order.
func LedgerCategories() []LedgerCategory {
	out := make([]LedgerCategory, len(validLedgerCategories))
	copy(out, validLedgerCategories)
	return out
}

// IsValid reports whether the value matches the canonical ledger categories.
func (c LedgerCategory) IsValid() bool {
	for _, candidate := range validLedgerCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseLedgerCategory converts raw input into LedgerCategory.
func ParseLedgerCategory(value string) (LedgerCategory, error) {
	for _, candidate := range validLedgerCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ledger category %q", value)
}
