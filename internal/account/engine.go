package account

import (
	"time"

	"github.com/angelmondragon/firstcredit-backend/internal/affordability"
	"github.com/angelmondragon/firstcredit-backend/internal/ledger"
	"github.com/angelmondragon/firstcredit-backend/internal/pricing"
	"github.com/angelmondragon/firstcredit-backend/pkg/enums"
	"github.com/google/uuid"
)

// EngineParams groups the policy and seed values for the command engine.
type EngineParams struct {
	Pricing         pricing.Policy
	Gate            affordability.Gate
	StartingBalance int64
	WeeklyAllowance int64
	Clock           func() time.Time
	IDs             func() uuid.UUID
}

// Engine applies commands to snapshots. Every command is a pure function of
// its input state: on refusal it returns that state unchanged together with a
// typed error, and it never writes through to the input's collections.
type Engine struct {
	pricing         pricing.Policy
	gate            affordability.Gate
	startingBalance int64
	weeklyAllowance int64
	clock           func() time.Time
	ids             func() uuid.UUID
}

func NewEngine(params EngineParams) *Engine {
	e := &Engine{
		pricing:         params.Pricing,
		gate:            params.Gate,
		startingBalance: params.StartingBalance,
		weeklyAllowance: params.WeeklyAllowance,
		clock:           params.Clock,
		ids:             params.IDs,
	}
	if e.pricing.CreditLimitWeeks == 0 {
		e.pricing = pricing.DefaultPolicy()
	}
	if e.gate.CeilingPercent == 0 {
		e.gate = affordability.DefaultGate()
	}
	if e.weeklyAllowance <= 0 {
		e.weeklyAllowance = DefaultWeeklyAllowance
	}
	if e.startingBalance < 0 {
		e.startingBalance = DefaultStartingBalance
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	if e.ids == nil {
		e.ids = uuid.New
	}
	return e
}

// DefaultEngine uses the stock policy and seed values.
func DefaultEngine() *Engine {
	return NewEngine(EngineParams{StartingBalance: DefaultStartingBalance})
}

func (e *Engine) now() time.Time {
	return e.clock().UTC()
}

func (e *Engine) entry(at time.Time, category enums.LedgerCategory, amount int64, description string) ledger.Entry {
	return ledger.Entry{
		ID:           e.ids(),
		Category:     category,
		Description:  description,
		SignedAmount: amount,
		Timestamp:    at,
	}
}
