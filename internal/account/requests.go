package account

import (
	"fmt"

	"github.com/angelmondragon/firstcredit-backend/internal/credit"
	"github.com/angelmondragon/firstcredit-backend/internal/wishlist"
	"github.com/angelmondragon/firstcredit-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/firstcredit-backend/pkg/errors"
	"github.com/google/uuid"
)

// CreateRequest prices a new request and records it as pending. The debt
// ceiling is checked here as an early guard; approval re-checks it.
func (e *Engine) CreateRequest(s State, in credit.NewRequestInput) (State, error) {
	if err := in.Validate(); err != nil {
		return s, err
	}
	if in.Kind == enums.RequestKindPurchase && in.LinkedItemID != nil {
		if _, ok := s.Items.Find(*in.LinkedItemID); !ok {
			return s, itemNotFound(*in.LinkedItemID)
		}
	}

	quote, err := e.pricing.PriceInstallment(in.Principal, in.InstallmentWeeks)
	if err != nil {
		return s, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "price request")
	}
	if err := e.checkCeiling(s, quote.WeeklyInstallment); err != nil {
		return s, err
	}

	req, err := credit.NewRequest(e.ids(), in, quote, e.now())
	if err != nil {
		return s, err
	}
	requests := make([]credit.Request, 0, len(s.Requests)+1)
	requests = append(requests, req)
	s.Requests = append(requests, s.Requests...)
	return s, nil
}

// ApproveRequest commits a pending or held request after re-validating the
// ceiling against the requests approved so far.
func (e *Engine) ApproveRequest(s State, requestID uuid.UUID, message string) (State, error) {
	i, err := findRequest(s, requestID)
	if err != nil {
		return s, err
	}
	current := s.Requests[i]
	approved, err := current.Approve(message)
	if err != nil {
		return s, err
	}
	if err := e.checkCeiling(s, current.WeeklyInstallment); err != nil {
		return s, err
	}

	at := e.now()
	next := s.withRequest(i, approved)
	switch approved.Kind {
	case enums.RequestKindLoan:
		next.Balance += approved.Principal
		next.Ledger = next.Ledger.Append(e.entry(at, enums.LedgerCategoryAdvance, approved.Principal,
			fmt.Sprintf("Advance approved: %s", approved.Name)))
	default:
		next.Items = removeLinked(next, approved)
		next.Ledger = next.Ledger.Append(e.entry(at, enums.LedgerCategoryAdvance, 0,
			fmt.Sprintf("Installment purchase approved: %s", approved.Name)))
	}
	return next, nil
}

func (e *Engine) RejectRequest(s State, requestID uuid.UUID, message string) (State, error) {
	return e.transition(s, requestID, func(r credit.Request) (credit.Request, error) { return r.Reject(message) })
}

func (e *Engine) HoldRequest(s State, requestID uuid.UUID, message string) (State, error) {
	return e.transition(s, requestID, func(r credit.Request) (credit.Request, error) { return r.Hold(message) })
}

// GiftRequest completes a request as fully repaid at the guardian's expense.
func (e *Engine) GiftRequest(s State, requestID uuid.UUID, message string) (State, error) {
	i, err := findRequest(s, requestID)
	if err != nil {
		return s, err
	}
	gifted, err := s.Requests[i].Gift(message)
	if err != nil {
		return s, err
	}
	next := s.withRequest(i, gifted)
	next.Items = removeLinked(next, gifted)
	next.Ledger = next.Ledger.Append(e.entry(e.now(), enums.LedgerCategoryGift, 0,
		fmt.Sprintf("Gift: %s", gifted.Name)))
	return next, nil
}

func (e *Engine) CancelRequest(s State, requestID uuid.UUID) (State, error) {
	return e.transition(s, requestID, credit.Request.Cancel)
}

// AcknowledgeNotification marks a decision as seen. Acknowledging twice
// returns the state unchanged.
func (e *Engine) AcknowledgeNotification(s State, requestID uuid.UUID) (State, error) {
	i, err := findRequest(s, requestID)
	if err != nil {
		return s, err
	}
	if s.Requests[i].NotificationAcknowledged {
		return s, nil
	}
	return e.transition(s, requestID, credit.Request.Acknowledge)
}

func (e *Engine) transition(s State, requestID uuid.UUID, step func(credit.Request) (credit.Request, error)) (State, error) {
	i, err := findRequest(s, requestID)
	if err != nil {
		return s, err
	}
	updated, err := step(s.Requests[i])
	if err != nil {
		return s, err
	}
	return s.withRequest(i, updated), nil
}

func (e *Engine) checkCeiling(s State, candidate int64) error {
	if !e.gate.ExceedsDebtCeiling(s.Requests, s.WeeklyAllowance, candidate) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodePolicyViolation, "weekly repayments would exceed the debt ceiling").
		WithDetails(map[string]any{
			"weekly_debt_service": credit.WeeklyDebtService(s.Requests),
			"candidate":           candidate,
			"ceiling":             e.gate.CeilingAmount(s.WeeklyAllowance),
		})
}

func findRequest(s State, id uuid.UUID) (int, error) {
	i := credit.FindIndex(s.Requests, id)
	if i < 0 {
		return -1, pkgerrors.New(pkgerrors.CodeNotFound, "request not found").
			WithDetails(map[string]any{"request_id": id})
	}
	return i, nil
}

// removeLinked drops the request's wishlist item. A dangling link is ignored.
func removeLinked(s State, r credit.Request) wishlist.Items {
	if r.LinkedItemID == nil {
		return s.Items
	}
	items, _ := s.Items.Remove(*r.LinkedItemID)
	return items
}
