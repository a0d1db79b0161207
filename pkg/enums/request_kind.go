package enums

import "fmt"

// RequestKind distinguishes financed wishlist purchases from cash advances.
type RequestKind string

const (
	RequestKindPurchase RequestKind = "purchase"
	RequestKindLoan     RequestKind = "loan"
)

var validRequestKinds = []RequestKind{
	RequestKindPurchase,
	RequestKindLoan,
}

// IsValid reports whether the value matches a known request kind.
func (k RequestKind) IsValid() bool {
	for _, candidate := range validRequestKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseRequestKind converts raw input into RequestKind.
func ParseRequestKind(value string) (RequestKind, error) {
	for _, candidate := range validRequestKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request kind %q", value)
}
