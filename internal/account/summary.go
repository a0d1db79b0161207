package account

import (
	"github.com/angelmondragon/firstcredit-backend/internal/credit"
	"github.com/angelmondragon/firstcredit-backend/internal/pricing"
	"github.com/angelmondragon/firstcredit-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/firstcredit-backend/pkg/errors"
)

// Summary holds the figures derived from a snapshot. None of it is stored.
type Summary struct {
	CreditLimit       int64 `json:"credit_limit"`
	TotalOutstanding  int64 `json:"total_outstanding"`
	WeeklyDebtService int64 `json:"weekly_debt_service"`
	DebtCeiling       int64 `json:"debt_ceiling"`
	Headroom          int64 `json:"headroom"`
	PendingRequests   int   `json:"pending_requests"`
	UnseenDecisions   int   `json:"unseen_decisions"`
}

func (e *Engine) Summarize(s State) Summary {
	counts := credit.CountByStatus(s.Requests)
	return Summary{
		CreditLimit:       e.pricing.CreditLimit(s.WeeklyAllowance),
		TotalOutstanding:  credit.TotalOutstanding(s.Requests),
		WeeklyDebtService: credit.WeeklyDebtService(s.Requests),
		DebtCeiling:       e.gate.CeilingAmount(s.WeeklyAllowance),
		Headroom:          e.gate.Headroom(s.Requests, s.WeeklyAllowance),
		PendingRequests:   counts[enums.RequestStatusPending] + counts[enums.RequestStatusHold],
		UnseenDecisions:   credit.CountUnseenDecisions(s.Requests),
	}
}

// Quote previews pricing and affordability for a prospective request.
type Quote struct {
	pricing.Quote
	DebtServiceAfter int64 `json:"debt_service_after"`
	DebtCeiling      int64 `json:"debt_ceiling"`
	ExceedsCeiling   bool  `json:"exceeds_ceiling"`
}

func (e *Engine) Quote(s State, principal int64, weeks int) (Quote, error) {
	if principal <= 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "principal must be positive")
	}
	priced, err := e.pricing.PriceInstallment(principal, weeks)
	if err != nil {
		return Quote{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "price request")
	}
	return Quote{
		Quote:            priced,
		DebtServiceAfter: credit.WeeklyDebtService(s.Requests) + priced.WeeklyInstallment,
		DebtCeiling:      e.gate.CeilingAmount(s.WeeklyAllowance),
		ExceedsCeiling:   e.gate.ExceedsDebtCeiling(s.Requests, s.WeeklyAllowance, priced.WeeklyInstallment),
	}, nil
}
