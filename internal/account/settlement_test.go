package account

import (
	"math/rand"
	"testing"

	"github.com/angelmondragon/firstcredit-backend/internal/credit"
	"github.com/angelmondragon/firstcredit-backend/internal/wishlist"
	"github.com/angelmondragon/firstcredit-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceWeekWithoutDebtPaysFullAllowance(t *testing.T) {
	e := testEngine()
	for _, s := range []State{blankState(), e.DefaultState()} {
		next, err := e.AdvanceWeek(s)
		require.NoError(t, err)
		assert.Equal(t, s.Balance+s.WeeklyAllowance, next.Balance)
		assert.Equal(t, s.CurrentWeekIndex+1, next.CurrentWeekIndex)
		require.Len(t, next.Ledger, len(s.Ledger)+1)
		last := next.Ledger[len(next.Ledger)-1]
		assert.Equal(t, enums.LedgerCategoryAllowance, last.Category)
		assert.Equal(t, s.WeeklyAllowance, last.SignedAmount)
	}
}

func TestAdvanceWeekLedgerOrder(t *testing.T) {
	e := testEngine()
	s := blankState()
	s, oneWeek := mustCreate(t, e, s, loanInput(1000, 1))
	s, twoWeeks := mustCreate(t, e, s, loanInput(2000, 2))
	var err error
	for _, id := range []uuid.UUID{oneWeek, twoWeeks} {
		s, err = e.ApproveRequest(s, id, "")
		require.NoError(t, err)
	}
	start := len(s.Ledger)

	s, err = e.AdvanceWeek(s)
	require.NoError(t, err)
	week := s.Ledger[start:]
	require.Len(t, week, 3)
	assert.Equal(t, enums.LedgerCategoryDeduction, week[0].Category)
	assert.Equal(t, int64(-(1100 + 1100)), week[0].SignedAmount)
	assert.Equal(t, enums.LedgerCategoryAllowance, week[1].Category)
	assert.Equal(t, int64(10000-2200), week[1].SignedAmount)
	assert.Equal(t, enums.LedgerCategoryInfo, week[2].Category)
	assert.Zero(t, week[2].SignedAmount)

	assert.Equal(t, enums.RequestStatusCompleted, requestByID(t, s, oneWeek).Status)
	assert.Equal(t, enums.RequestStatusApproved, requestByID(t, s, twoWeeks).Status)
}

func TestAdvanceWeekFloorsNetCreditAtZero(t *testing.T) {
	e := testEngine()
	s := blankState()
	s.Balance = 300
	// Binding contracts can outweigh a small allowance when stored data predates the ceiling.
	s.Requests = []credit.Request{
		{ID: uuid.New(), Kind: enums.RequestKindLoan, Status: enums.RequestStatusApproved, TotalRepayment: 24000, WeeklyInstallment: 12000, InstallmentWeeks: 2},
	}

	next, err := e.AdvanceWeek(s)
	require.NoError(t, err)
	assert.Equal(t, int64(300), next.Balance)
	last := next.Ledger[len(next.Ledger)-1]
	assert.Equal(t, enums.LedgerCategoryAllowance, last.Category)
	assert.Zero(t, last.SignedAmount, "zero allowance entry is still written")
}

func TestAdvanceWeekIsOrderIndependent(t *testing.T) {
	e := testEngine()
	s := blankState()
	s.WeeklyAllowance = 100000
	var ids []uuid.UUID
	for weeks := 1; weeks <= 5; weeks++ {
		var id uuid.UUID
		s, id = mustCreate(t, e, s, loanInput(int64(1000*weeks), weeks))
		ids = append(ids, id)
	}
	var err error
	for _, id := range ids {
		s, err = e.ApproveRequest(s, id, "")
		require.NoError(t, err)
	}

	forward, err := e.AdvanceWeek(s)
	require.NoError(t, err)

	reversed := s.Clone()
	for i, j := 0, len(reversed.Requests)-1; i < j; i, j = i+1, j-1 {
		reversed.Requests[i], reversed.Requests[j] = reversed.Requests[j], reversed.Requests[i]
	}
	backward, err := e.AdvanceWeek(reversed)
	require.NoError(t, err)

	assert.Equal(t, forward.Balance, backward.Balance)
	for _, id := range ids {
		assert.Equal(t, requestByID(t, forward, id), requestByID(t, backward, id))
	}
}

func TestAdvanceWeekDoesNotTouchInput(t *testing.T) {
	e := testEngine()
	s, id := mustCreate(t, e, blankState(), loanInput(1000, 2))
	s, err := e.ApproveRequest(s, id, "")
	require.NoError(t, err)
	snapshot := s.Clone()

	_, err = e.AdvanceWeek(s)
	require.NoError(t, err)
	assert.Equal(t, snapshot, s)
}

func TestAmortizationTerminatesAfterTerm(t *testing.T) {
	e := testEngine()
	for weeks := 1; weeks <= 8; weeks++ {
		s, id := mustCreate(t, e, blankState(), loanInput(500, weeks))
		s, err := e.ApproveRequest(s, id, "")
		require.NoError(t, err)
		for i := 1; i <= weeks; i++ {
			s, err = e.AdvanceWeek(s)
			require.NoError(t, err)
			req := requestByID(t, s, id)
			assert.LessOrEqual(t, req.WeeksRepaid, weeks)
			assert.Equal(t, i == weeks, req.Status == enums.RequestStatusCompleted)
		}
		assert.Equal(t, weeks, requestByID(t, s, id).WeeksRepaid)
		assert.Zero(t, requestByID(t, s, id).Outstanding())
	}
}

// TestRandomCommandsKeepInvariants drives the engine with seeded random
// commands and checks the ceiling, balance and amortization bounds hold after
// every step, including refused ones.
func TestRandomCommandsKeepInvariants(t *testing.T) {
	e := testEngine()
	rng := rand.New(rand.NewSource(42))
	s := e.DefaultState()

	pick := func() uuid.UUID {
		if len(s.Requests) == 0 {
			return uuid.New()
		}
		return s.Requests[rng.Intn(len(s.Requests))].ID
	}

	for step := 0; step < 2000; step++ {
		before := s.Clone()
		var next State
		var err error
		switch rng.Intn(11) {
		case 0, 1:
			next, err = e.CreateRequest(s, loanInput(int64(rng.Intn(20000)+1), rng.Intn(6)+1))
		case 2:
			next, err = e.ApproveRequest(s, pick(), "")
		case 3:
			next, err = e.HoldRequest(s, pick(), "")
		case 4:
			next, err = e.RejectRequest(s, pick(), "")
		case 5:
			next, err = e.GiftRequest(s, pick(), "")
		case 6:
			next, err = e.CancelRequest(s, pick())
		case 7:
			next, err = e.AcknowledgeNotification(s, pick())
		case 8:
			next, err = e.SetWeeklyAllowance(s, int64(rng.Intn(20000)+1))
		case 9:
			next, err = e.AddItem(s, wishlist.NewItemInput{Name: "thing", Price: int64(rng.Intn(5000))})
		default:
			next, err = e.AdvanceWeek(s)
		}
		if err != nil {
			require.Equal(t, before, next, "refused command at step %d changed state", step)
			continue
		}
		s = next

		require.LessOrEqual(t, credit.WeeklyDebtService(s.Requests)*2, s.WeeklyAllowance, "ceiling breached at step %d", step)
		require.GreaterOrEqual(t, s.Balance, int64(0))
		for _, r := range s.Requests {
			require.LessOrEqual(t, r.WeeksRepaid, r.InstallmentWeeks)
			if r.Status == enums.RequestStatusCompleted {
				require.Equal(t, r.InstallmentWeeks, r.WeeksRepaid)
			}
		}
	}
}
