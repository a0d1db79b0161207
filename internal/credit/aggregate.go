package credit

import (
	"github.com/angelmondragon/firstcredit-backend/pkg/enums"
	"github.com/google/uuid"
)

// WeeklyDebtService sums the installments of every binding contract.
func WeeklyDebtService(requests []Request) int64 {
	var total int64
	for _, r := range requests {
		if r.IsBinding() {
			total += r.WeeklyInstallment
		}
	}
	return total
}

// TotalOutstanding sums what is still owed across binding contracts.
func TotalOutstanding(requests []Request) int64 {
	var total int64
	for _, r := range requests {
		total += r.Outstanding()
	}
	return total
}

// CountByStatus tallies requests per status.
func CountByStatus(requests []Request) map[enums.RequestStatus]int {
	out := make(map[enums.RequestStatus]int)
	for _, r := range requests {
		out[r.Status]++
	}
	return out
}

// CountUnseenDecisions counts decisions the child has not acknowledged yet.
func CountUnseenDecisions(requests []Request) int {
	n := 0
	for _, r := range requests {
		if r.HasUnseenDecision() {
			n++
		}
	}
	return n
}

// FindIndex returns the position of id or -1.
func FindIndex(requests []Request, id uuid.UUID) int {
	for i, r := range requests {
		if r.ID == id {
			return i
		}
	}
	return -1
}
