package account

import (
	"fmt"

	"github.com/angelmondragon/firstcredit-backend/internal/credit"
	"github.com/angelmondragon/firstcredit-backend/internal/ledger"
	"github.com/angelmondragon/firstcredit-backend/pkg/enums"
)

// AdvanceWeek settles one week: every binding contract is debited one
// installment out of the incoming allowance, contracts that reach their term
// complete, and the remainder (never below zero) is credited to the balance.
//
// The debt service is measured before any request moves, and each request is
// updated from the snapshot alone, so the sweep is order independent.
func (e *Engine) AdvanceWeek(s State) (State, error) {
	debtService := credit.WeeklyDebtService(s.Requests)

	requests := make([]credit.Request, len(s.Requests))
	var completed []credit.Request
	for i, r := range s.Requests {
		repaid, done := r.RepayInstallment()
		requests[i] = repaid
		if done {
			completed = append(completed, repaid)
		}
	}

	netCredit := s.WeeklyAllowance - debtService
	if netCredit < 0 {
		netCredit = 0
	}

	at := e.now()
	week := s.CurrentWeekIndex
	entries := make([]ledger.Entry, 0, len(completed)+2)
	if debtService != 0 {
		entries = append(entries, e.entry(at, enums.LedgerCategoryDeduction, -debtService,
			fmt.Sprintf("Installment deductions, week %d", week)))
	}
	entries = append(entries, e.entry(at, enums.LedgerCategoryAllowance, netCredit,
		fmt.Sprintf("Weekly allowance, week %d", week)))
	for _, r := range completed {
		entries = append(entries, e.entry(at, enums.LedgerCategoryInfo, 0,
			fmt.Sprintf("Paid off: %s", r.Name)))
	}

	s.Requests = requests
	s.Balance += netCredit
	s.CurrentWeekIndex = week + 1
	s.Ledger = s.Ledger.Append(entries...)
	return s, nil
}
