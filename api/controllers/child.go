package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/firstcredit-backend/api/responses"
	"github.com/angelmondragon/firstcredit-backend/api/validators"
	"github.com/angelmondragon/firstcredit-backend/internal/account"
	"github.com/angelmondragon/firstcredit-backend/internal/credit"
	"github.com/angelmondragon/firstcredit-backend/internal/wishlist"
	"github.com/angelmondragon/firstcredit-backend/pkg/enums"
	"github.com/angelmondragon/firstcredit-backend/pkg/logger"
)

const (
	maxNameLength   = 80
	maxReasonLength = 280
	maxIconLength   = 8
)

type addItemRequest struct {
	Name  string `json:"name" validate:"required,notblank"`
	Price int64  `json:"price" validate:"gt=0,lte=1000000000000"`
	Icon  string `json:"icon"`
}

// ItemCreate adds a wishlist item.
func ItemCreate(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.AddItem(r.Context(), wishlist.NewItemInput{
			Name:  validators.SanitizeString(payload.Name, maxNameLength),
			Price: payload.Price,
			Icon:  validators.SanitizeString(payload.Icon, maxIconLength),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func ItemDelete(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return withID("itemId", logg, svc.DeleteItem)
}

func ItemPurchase(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return withID("itemId", logg, svc.PurchaseItem)
}

// QuoteGet previews pricing and the debt ceiling for a prospective request.
func QuoteGet(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := validators.ParseRequiredInt64(r, "principal", 0)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		weeks, err := validators.ParseRequiredInt64(r, "weeks", 1)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quote, err := svc.Quote(r.Context(), principal, int(weeks))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

type createRequestRequest struct {
	Kind             string     `json:"kind" validate:"required,oneof=purchase loan"`
	LinkedItemID     *uuid.UUID `json:"linked_item_id"`
	Name             string     `json:"name" validate:"required,notblank"`
	Principal        int64      `json:"principal" validate:"gt=0,lte=1000000000000"`
	InstallmentWeeks int        `json:"installment_weeks" validate:"gte=1"`
	Reason           string     `json:"reason" validate:"required,notblank"`
}

func (p createRequestRequest) toInput() credit.NewRequestInput {
	return credit.NewRequestInput{
		Kind:             enums.RequestKind(p.Kind),
		LinkedItemID:     p.LinkedItemID,
		Name:             validators.SanitizeString(p.Name, maxNameLength),
		Principal:        p.Principal,
		InstallmentWeeks: p.InstallmentWeeks,
		Reason:           validators.SanitizeString(p.Reason, maxReasonLength),
	}
}

// RequestCreate submits a purchase or loan request for guardian review.
func RequestCreate(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createRequestRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.CreateRequest(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func RequestCancel(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return withID("requestId", logg, svc.CancelRequest)
}

func RequestAcknowledge(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return withID("requestId", logg, svc.AcknowledgeNotification)
}
