package affordability

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/firstcredit-backend/internal/credit"
)

const DefaultCeilingPercent = 50

// Gate enforces the debt service ceiling: the installments of every binding
// contract may not exceed CeilingPercent of the weekly allowance.
type Gate struct {
	CeilingPercent int64
}

func DefaultGate() Gate {
	return Gate{CeilingPercent: DefaultCeilingPercent}
}

// ExceedsDebtCeiling reports whether adding candidate to the current debt
// service would strictly exceed the ceiling. Only approved requests count.
func (g Gate) ExceedsDebtCeiling(requests []credit.Request, weeklyAllowance, candidate int64) bool {
	if candidate < 0 {
		return true
	}
	service := decimal.NewFromInt(credit.WeeklyDebtService(requests)).Add(decimal.NewFromInt(candidate))
	return g.exceedsDecimal(service, weeklyAllowance)
}

// Breached reports whether the existing obligations already sit over the
// ceiling for the given allowance.
func (g Gate) Breached(requests []credit.Request, weeklyAllowance int64) bool {
	return g.exceeds(credit.WeeklyDebtService(requests), weeklyAllowance)
}

func (g Gate) exceeds(debtService, weeklyAllowance int64) bool {
	return g.exceedsDecimal(decimal.NewFromInt(debtService), weeklyAllowance)
}

// exceedsDecimal compares service*100 against allowance*percent without
// int64 products.
func (g Gate) exceedsDecimal(debtService decimal.Decimal, weeklyAllowance int64) bool {
	limit := decimal.NewFromInt(weeklyAllowance).Mul(decimal.NewFromInt(g.CeilingPercent))
	return debtService.Mul(decimal.NewFromInt(100)).GreaterThan(limit)
}

// CeilingAmount is the largest weekly debt service the allowance supports.
func (g Gate) CeilingAmount(weeklyAllowance int64) int64 {
	return weeklyAllowance * g.CeilingPercent / 100
}

// Headroom is the largest additional installment that would still pass.
func (g Gate) Headroom(requests []credit.Request, weeklyAllowance int64) int64 {
	room := g.CeilingAmount(weeklyAllowance) - credit.WeeklyDebtService(requests)
	if room < 0 {
		return 0
	}
	return room
}
