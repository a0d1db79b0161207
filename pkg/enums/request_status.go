package enums

import "fmt"

// RequestStatus tracks a credit request through guardian review and repayment.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusHold      RequestStatus = "hold"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCancelled RequestStatus = "cancelled"
	RequestStatusCompleted RequestStatus = "completed"
)

var validRequestStatuses = []RequestStatus{
	RequestStatusPending,
	RequestStatusHold,
	RequestStatusApproved,
	RequestStatusRejected,
	RequestStatusCancelled,
	RequestStatusCompleted,
}

// requestTransitions lists the statuses reachable from each status.
var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPending: {
		RequestStatusApproved,
		RequestStatusRejected,
		RequestStatusHold,
		RequestStatusCancelled,
		RequestStatusCompleted,
	},
	RequestStatusHold: {
		RequestStatusApproved,
		RequestStatusRejected,
		RequestStatusCancelled,
		RequestStatusCompleted,
	},
	RequestStatusApproved: {
		RequestStatusCompleted,
	},
}

// IsValid reports whether the status is part of the canonical set.
func (s RequestStatus) IsValid() bool {
	for _, candidate := range validRequestStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusRejected || s == RequestStatusCancelled || s == RequestStatusCompleted
}

// IsGuardianDecision reports whether the status is an outcome the guardian
// chose and the child is notified about.
func (s RequestStatus) IsGuardianDecision() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected || s == RequestStatusCompleted
}

// IsUndecided reports whether the guardian has not committed to an outcome yet.
func (s RequestStatus) IsUndecided() bool {
	return s == RequestStatusPending || s == RequestStatusHold
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, candidate := range requestTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseRequestStatus converts raw input into RequestStatus.
func ParseRequestStatus(value string) (RequestStatus, error) {
	for _, candidate := range validRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request status %q", value)
}
