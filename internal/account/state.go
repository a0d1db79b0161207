package account

import (
	"github.com/angelmondragon/firstcredit-backend/internal/credit"
	"github.com/angelmondragon/firstcredit-backend/internal/ledger"
	"github.com/angelmondragon/firstcredit-backend/internal/wishlist"
	"github.com/angelmondragon/firstcredit-backend/pkg/enums"
)

// State is the aggregate root. Every other entity is owned by it and
// referenced by id.
type State struct {
	Mode             enums.ViewMode   `json:"mode"`
	Balance          int64            `json:"balance"`
	WeeklyAllowance  int64            `json:"weekly_allowance"`
	CurrentWeekIndex int              `json:"current_week_index"`
	Items            wishlist.Items   `json:"items"`
	Requests         []credit.Request `json:"requests"`
	Ledger           ledger.Log       `json:"ledger"`
}

// Clone copies the collections so the result shares no backing arrays.
func (s State) Clone() State {
	out := s
	out.Items = s.Items.Clone()
	out.Requests = make([]credit.Request, len(s.Requests))
	copy(out.Requests, s.Requests)
	out.Ledger = s.Ledger.Clone()
	return out
}

func (s State) withRequest(i int, r credit.Request) State {
	requests := make([]credit.Request, len(s.Requests))
	copy(requests, s.Requests)
	requests[i] = r
	s.Requests = requests
	return s
}
