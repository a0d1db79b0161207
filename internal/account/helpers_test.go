package account

import (
	"testing"
	"time"

	"github.com/angelmondragon/firstcredit-backend/internal/credit"
	"github.com/angelmondragon/firstcredit-backend/internal/ledger"
	"github.com/angelmondragon/firstcredit-backend/internal/wishlist"
	"github.com/angelmondragon/firstcredit-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	return NewEngine(EngineParams{
		StartingBalance: DefaultStartingBalance,
		WeeklyAllowance: DefaultWeeklyAllowance,
		Clock:           func() time.Time { return fixedNow },
	})
}

// blankState has the default allowance and nothing else.
func blankState() State {
	return State{
		Mode:             enums.ViewModeChild,
		Balance:          0,
		WeeklyAllowance:  10000,
		CurrentWeekIndex: 1,
		Items:            wishlist.Items{},
		Requests:         []credit.Request{},
		Ledger:           ledger.Log{},
	}
}

func loanInput(principal int64, weeks int) credit.NewRequestInput {
	return credit.NewRequestInput{
		Kind:             enums.RequestKindLoan,
		Name:             "Concert ticket",
		Principal:        principal,
		InstallmentWeeks: weeks,
		Reason:           "my favourite band",
	}
}

// mustCreate creates a request and returns its id.
func mustCreate(t *testing.T, e *Engine, s State, in credit.NewRequestInput) (State, uuid.UUID) {
	t.Helper()
	next, err := e.CreateRequest(s, in)
	require.NoError(t, err)
	require.Len(t, next.Requests, len(s.Requests)+1)
	return next, next.Requests[0].ID
}

func requestByID(t *testing.T, s State, id uuid.UUID) credit.Request {
	t.Helper()
	i := credit.FindIndex(s.Requests, id)
	require.GreaterOrEqual(t, i, 0)
	return s.Requests[i]
}

func approvedInstallments(s State) int64 {
	return credit.WeeklyDebtService(s.Requests)
}
