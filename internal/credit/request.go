package credit

import (
	"strings"
	"time"

	"github.com/angelmondragon/firstcredit-backend/internal/pricing"
	"github.com/angelmondragon/firstcredit-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/firstcredit-backend/pkg/errors"
	"github.com/google/uuid"
)

// Request is an installment purchase or a cash loan. Pricing fields are fixed
// at creation; afterwards only Status, WeeksRepaid, GuardianMessage and
// NotificationAcknowledged move.
type Request struct {
	ID                       uuid.UUID           `json:"id"`
	Kind                     enums.RequestKind   `json:"kind"`
	LinkedItemID             *uuid.UUID          `json:"linked_item_id,omitempty"`
	Name                     string              `json:"name"`
	Principal                int64               `json:"principal"`
	TotalRepayment           int64               `json:"total_repayment"`
	WeeklyInstallment        int64               `json:"weekly_installment"`
	InstallmentWeeks         int                 `json:"installment_weeks"`
	WeeksRepaid              int                 `json:"weeks_repaid"`
	Status                   enums.RequestStatus `json:"status"`
	RequesterReason          string              `json:"requester_reason"`
	GuardianMessage          string              `json:"guardian_message,omitempty"`
	NotificationAcknowledged bool                `json:"notification_acknowledged"`
	CreatedAt                time.Time           `json:"created_at"`
}

// NewRequestInput carries what the child supplies when asking for credit.
type NewRequestInput struct {
	Kind             enums.RequestKind
	LinkedItemID     *uuid.UUID
	Name             string
	Principal        int64
	InstallmentWeeks int
	Reason           string
}

// Validate checks the creation preconditions.
func (in NewRequestInput) Validate() error {
	if !in.Kind.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid request kind %q", in.Kind)
	}
	if in.Kind == enums.RequestKindLoan && in.LinkedItemID != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "loan requests cannot link a wishlist item")
	}
	if strings.TrimSpace(in.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if in.Principal <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "principal must be positive")
	}
	if in.Principal > pricing.MaxAmount {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "principal must be at most %d", pricing.MaxAmount)
	}
	if in.InstallmentWeeks < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "installment weeks must be at least 1")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	}
	return nil
}

// NewRequest builds a pending request priced by the quote.
func NewRequest(id uuid.UUID, in NewRequestInput, quote pricing.Quote, createdAt time.Time) (Request, error) {
	if err := in.Validate(); err != nil {
		return Request{}, err
	}
	var linked *uuid.UUID
	if in.LinkedItemID != nil {
		v := *in.LinkedItemID
		linked = &v
	}
	return Request{
		ID:                id,
		Kind:              in.Kind,
		LinkedItemID:      linked,
		Name:              strings.TrimSpace(in.Name),
		Principal:         in.Principal,
		TotalRepayment:    quote.TotalRepayment,
		WeeklyInstallment: quote.WeeklyInstallment,
		InstallmentWeeks:  in.InstallmentWeeks,
		Status:            enums.RequestStatusPending,
		RequesterReason:   strings.TrimSpace(in.Reason),
		CreatedAt:         createdAt,
	}, nil
}

// IsBinding reports whether the request currently commits future allowance.
func (r Request) IsBinding() bool {
	return r.Status == enums.RequestStatusApproved
}

// Outstanding is what remains to be repaid on a binding contract.
func (r Request) Outstanding() int64 {
	if !r.IsBinding() {
		return 0
	}
	remaining := r.TotalRepayment - int64(r.WeeksRepaid)*r.WeeklyInstallment
	if remaining < 0 {
		return 0
	}
	return remaining
}

// HasUnseenDecision reports whether the child still has a guardian decision
// to acknowledge. A cancellation is the child's own act and never counts.
func (r Request) HasUnseenDecision() bool {
	return !r.NotificationAcknowledged && r.Status.IsGuardianDecision()
}
