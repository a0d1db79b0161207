package pricing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const (
	DefaultFlatFeeRate      = "0.10"
	DefaultCreditLimitWeeks = 4

	// MaxAmount caps every principal, price and allowance the ledger accepts.
	// Sums of bounded amounts stay far inside int64.
	MaxAmount int64 = 1_000_000_000_000
)

var maxInt64 = decimal.NewFromInt(math.MaxInt64)

// Policy fixes the flat fee applied once at contract creation and the
// multiplier used for the displayed credit limit.
type Policy struct {
	FlatFeeRate      decimal.Decimal
	CreditLimitWeeks int64
}

// DefaultPolicy returns a 10% flat fee and a four week credit limit.
func DefaultPolicy() Policy {
	return Policy{
		FlatFeeRate:      decimal.RequireFromString(DefaultFlatFeeRate),
		CreditLimitWeeks: DefaultCreditLimitWeeks,
	}
}

// Quote is the priced form of a principal repaid over a number of weeks.
type Quote struct {
	Principal         int64 `json:"principal"`
	InstallmentWeeks  int   `json:"installment_weeks"`
	TotalRepayment    int64 `json:"total_repayment"`
	WeeklyInstallment int64 `json:"weekly_installment"`
	FeeAmount         int64 `json:"fee_amount"`
}

// PriceInstallment computes the repayment schedule. Both the total and the
// installment round up, so installments times weeks never undershoots the total.
func (p Policy) PriceInstallment(principal int64, weeks int) (Quote, error) {
	if principal < 0 {
		return Quote{}, fmt.Errorf("principal must not be negative, got %d", principal)
	}
	if principal > MaxAmount {
		return Quote{}, fmt.Errorf("principal must be at most %d, got %d", MaxAmount, principal)
	}
	if weeks < 1 {
		return Quote{}, fmt.Errorf("installment weeks must be at least 1, got %d", weeks)
	}

	exact := p.totalRepayment(principal)
	if exact.GreaterThan(maxInt64) {
		return Quote{}, fmt.Errorf("total repayment for %d does not fit an amount", principal)
	}
	total := exact.IntPart()
	n := int64(weeks)
	return Quote{
		Principal:         principal,
		InstallmentWeeks:  weeks,
		TotalRepayment:    total,
		WeeklyInstallment: (total + n - 1) / n,
		FeeAmount:         total - principal,
	}, nil
}

// TotalRepayment is ceil(principal * (1 + flat fee rate)). Callers pass a
// principal already bounded by MaxAmount.
func (p Policy) TotalRepayment(principal int64) int64 {
	return p.totalRepayment(principal).IntPart()
}

func (p Policy) totalRepayment(principal int64) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(p.FlatFeeRate)
	return decimal.NewFromInt(principal).Mul(factor).Ceil()
}

// CreditLimit is the informational borrowing figure shown to the child.
func (p Policy) CreditLimit(weeklyAllowance int64) int64 {
	return weeklyAllowance * p.CreditLimitWeeks
}
