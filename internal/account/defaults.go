package account

import (
	"time"

	"github.com/angelmondragon/firstcredit-backend/internal/credit"
	"github.com/angelmondragon/firstcredit-backend/internal/ledger"
	"github.com/angelmondragon/firstcredit-backend/internal/wishlist"
	"github.com/angelmondragon/firstcredit-backend/pkg/enums"
	"github.com/google/uuid"
)

const (
	DefaultStartingBalance int64 = 50000
	DefaultWeeklyAllowance int64 = 10000
)

var seedNamespace = uuid.MustParse("6f1c2a9e-4d0b-4c55-9a51-2b7e0d3f8a10")

func seedID(name string) uuid.UUID {
	return uuid.NewSHA1(seedNamespace, []byte(name))
}

// DefaultState is the snapshot used when storage holds nothing yet. Seed ids
// are stable so repeated seeding yields the same entities.
func (e *Engine) DefaultState() State {
	now := e.now()
	day := 24 * time.Hour

	items := wishlist.Items{
		{ID: seedID("item-1"), Name: "Lego Ninjago set", Price: 45000, Icon: "🧱", CreatedAt: now.Add(-day)},
		{ID: seedID("item-2"), Name: "Pokemon card pack", Price: 8000, Icon: "🃏", CreatedAt: now.Add(-day / 2)},
		{ID: seedID("item-3"), Name: "Ice cream cake", Price: 25000, Icon: "🍰", CreatedAt: now},
	}
	log := ledger.Log{
		{ID: seedID("entry-1"), Category: enums.LedgerCategoryAllowance, Description: "Weekly allowance", SignedAmount: 10000, Timestamp: now.Add(-7 * day)},
		{ID: seedID("entry-2"), Category: enums.LedgerCategoryPurchase, Description: "Bought Stationery set", SignedAmount: -5000, Timestamp: now.Add(-3 * day)},
		{ID: seedID("entry-3"), Category: enums.LedgerCategoryAllowance, Description: "Weekly allowance", SignedAmount: 10000, Timestamp: now.Add(-day)},
	}

	return State{
		Mode:             enums.ViewModeChild,
		Balance:          e.startingBalance,
		WeeklyAllowance:  e.weeklyAllowance,
		CurrentWeekIndex: 1,
		Items:            items,
		Requests:         []credit.Request{},
		Ledger:           log,
	}
}

// Normalize backfills fields an older or partial snapshot may lack.
func (e *Engine) Normalize(s State) State {
	if !s.Mode.IsValid() {
		s.Mode = enums.ViewModeChild
	}
	if s.WeeklyAllowance <= 0 {
		s.WeeklyAllowance = e.weeklyAllowance
	}
	if s.CurrentWeekIndex < 1 {
		s.CurrentWeekIndex = 1
	}
	if s.Items == nil {
		s.Items = wishlist.Items{}
	}
	if s.Requests == nil {
		s.Requests = []credit.Request{}
	}
	if s.Ledger == nil {
		s.Ledger = ledger.Log{}
	}
	return s
}
