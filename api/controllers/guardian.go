package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/firstcredit-backend/api/responses"
	"github.com/angelmondragon/firstcredit-backend/api/validators"
	"github.com/angelmondragon/firstcredit-backend/internal/account"
	"github.com/angelmondragon/firstcredit-backend/pkg/logger"
)

type decisionRequest struct {
	Message string `json:"message"`
}

type decisionFunc func(ctx context.Context, requestID uuid.UUID, message string) (account.View, error)

func RequestApprove(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return decide(svc.ApproveRequest, logg)
}

func RequestReject(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return decide(svc.RejectRequest, logg)
}

func RequestHold(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return decide(svc.HoldRequest, logg)
}

func RequestGift(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return decide(svc.GiftRequest, logg)
}

func decide(fn decisionFunc, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := validators.ParseUUIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload decisionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := fn(r.Context(), requestID, validators.SanitizeString(payload.Message, maxReasonLength))
		writeView(w, r, logg, view, err)
	}
}

type amountRequest struct {
	Amount int64 `json:"amount" validate:"gt=0,lte=1000000000000"`
}

type weeklyAllowanceRequest struct {
	Amount int64 `json:"amount" validate:"gt=0,lte=1000000000000"`
}

// AllowanceDeposit credits a one-off allowance to the balance.
func AllowanceDeposit(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload amountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.AddAllowance(r.Context(), payload.Amount)
		writeView(w, r, logg, view, err)
	}
}

func AllowanceWeeklySet(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload weeklyAllowanceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.SetWeeklyAllowance(r.Context(), payload.Amount)
		writeView(w, r, logg, view, err)
	}
}

// WeekAdvance runs weekly settlement.
func WeekAdvance(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.AdvanceWeek(r.Context())
		writeView(w, r, logg, view, err)
	}
}

func AccountReset(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.Reset(r.Context())
		writeView(w, r, logg, view, err)
	}
}

func withID(param string, logg *logger.Logger, fn func(context.Context, uuid.UUID) (account.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, param)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := fn(r.Context(), id)
		writeView(w, r, logg, view, err)
	}
}
