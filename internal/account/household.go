package account

import (
	"fmt"

	"github.com/angelmondragon/firstcredit-backend/internal/pricing"
	"github.com/angelmondragon/firstcredit-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/firstcredit-backend/pkg/errors"
)

// AddAllowance deposits a one-off amount.
func (e *Engine) AddAllowance(s State, amount int64) (State, error) {
	if amount <= 0 || amount > pricing.MaxAmount {
		return s, pkgerrors.Newf(pkgerrors.CodeValidation, "allowance amount must be between 1 and %d", pricing.MaxAmount)
	}
	s.Balance += amount
	s.Ledger = s.Ledger.Append(e.entry(e.now(), enums.LedgerCategoryAllowance, amount, "Allowance deposit"))
	return s, nil
}

// SetWeeklyAllowance changes the weekly income. Lowering it is refused while
// the contracts already approved would then sit above the debt ceiling.
func (e *Engine) SetWeeklyAllowance(s State, amount int64) (State, error) {
	if amount <= 0 || amount > pricing.MaxAmount {
		return s, pkgerrors.Newf(pkgerrors.CodeValidation, "weekly allowance must be between 1 and %d", pricing.MaxAmount)
	}
	if amount == s.WeeklyAllowance {
		return s, nil
	}
	if e.gate.Breached(s.Requests, amount) {
		return s, pkgerrors.New(pkgerrors.CodePolicyViolation, "approved repayments would exceed the debt ceiling").
			WithDetails(map[string]any{
				"weekly_allowance": amount,
				"ceiling":          e.gate.CeilingAmount(amount),
			})
	}
	previous := s.WeeklyAllowance
	s.WeeklyAllowance = amount
	s.Ledger = s.Ledger.Append(e.entry(e.now(), enums.LedgerCategoryInfo, 0,
		fmt.Sprintf("Weekly allowance changed from %d to %d", previous, amount)))
	return s, nil
}

// SetMode switches the presentation side. It has no financial effect.
func (e *Engine) SetMode(s State, mode enums.ViewMode) (State, error) {
	if !mode.IsValid() {
		return s, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid view mode %q", mode)
	}
	s.Mode = mode
	return s, nil
}

func (e *Engine) ToggleMode(s State) (State, error) {
	s.Mode = s.Mode.Toggle()
	return s, nil
}

// Reset discards everything and returns the seeded default snapshot.
func (e *Engine) Reset(State) (State, error) {
	return e.DefaultState(), nil
}
