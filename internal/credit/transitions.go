package credit

import (
	"github.com/angelmondragon/firstcredit-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/firstcredit-backend/pkg/errors"
)

const DefaultGiftMessage = "This one is on us. Enjoy!"

func (r Request) moveTo(next enums.RequestStatus, action string) (Request, error) {
	if !r.Status.CanTransitionTo(next) {
		return r, pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot %s a %s request", action, r.Status).
			WithDetails(map[string]any{"request_id": r.ID, "status": r.Status})
	}
	r.Status = next
	return r, nil
}

// Approve binds the contract. Affordability is checked by the caller.
func (r Request) Approve(message string) (Request, error) {
	if !r.Status.IsUndecided() {
		return r, pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot approve a %s request", r.Status)
	}
	out, err := r.moveTo(enums.RequestStatusApproved, "approve")
	if err != nil {
		return r, err
	}
	out.GuardianMessage = message
	return out, nil
}

func (r Request) Reject(message string) (Request, error) {
	out, err := r.moveTo(enums.RequestStatusRejected, "reject")
	if err != nil {
		return r, err
	}
	out.GuardianMessage = message
	return out, nil
}

// Hold defers a pending decision. Held requests cannot be held again.
func (r Request) Hold(message string) (Request, error) {
	out, err := r.moveTo(enums.RequestStatusHold, "hold")
	if err != nil {
		return r, err
	}
	out.GuardianMessage = message
	return out, nil
}

// Gift completes the request as fully repaid without amortization. A
// binding contract may be gifted too, forgiving the remaining installments.
func (r Request) Gift(message string) (Request, error) {
	out, err := r.moveTo(enums.RequestStatusCompleted, "gift")
	if err != nil {
		return r, err
	}
	if message == "" {
		message = DefaultGiftMessage
	}
	out.WeeksRepaid = out.InstallmentWeeks
	out.GuardianMessage = message
	return out, nil
}

// Cancel withdraws a request before the guardian has committed.
func (r Request) Cancel() (Request, error) {
	if !r.Status.IsUndecided() {
		return r, pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot cancel a %s request", r.Status)
	}
	return r.moveTo(enums.RequestStatusCancelled, "cancel")
}

// Acknowledge marks the guardian decision as seen. Repeat calls are no-ops.
func (r Request) Acknowledge() (Request, error) {
	if r.Status.IsUndecided() {
		return r, pkgerrors.Newf(pkgerrors.CodeStateConflict, "no decision to acknowledge on a %s request", r.Status)
	}
	r.NotificationAcknowledged = true
	return r, nil
}

// RepayInstallment applies one weekly debit to a binding contract and reports
// whether it completed.
func (r Request) RepayInstallment() (Request, bool) {
	if !r.IsBinding() || r.WeeksRepaid >= r.InstallmentWeeks {
		return r, false
	}
	r.WeeksRepaid++
	if r.WeeksRepaid == r.InstallmentWeeks {
		r.Status = enums.RequestStatusCompleted
		return r, true
	}
	return r, false
}
