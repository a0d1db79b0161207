package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/firstcredit-backend/api/responses"
	"github.com/angelmondragon/firstcredit-backend/api/validators"
	"github.com/angelmondragon/firstcredit-backend/internal/account"
	"github.com/angelmondragon/firstcredit-backend/internal/ledger"
	"github.com/angelmondragon/firstcredit-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/firstcredit-backend/pkg/errors"
	"github.com/angelmondragon/firstcredit-backend/pkg/logger"
	"github.com/angelmondragon/firstcredit-backend/pkg/pagination"
)

// AccountGet returns the current snapshot with its derived summary.
func AccountGet(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errServiceUnavailable)
			return
		}
		view, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// LedgerList pages through ledger entries newest first.
func LedgerList(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errServiceUnavailable)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filter ledger.Filter
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, parseErr := enums.ParseLedgerCategory(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid category").
					WithDetails(map[string]any{"field": "category", "allowed": enums.LedgerCategories()}))
				return
			}
			filter.Category = category
		}

		page, err := svc.Ledger(r.Context(), filter, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, page.Items, page.NextCursor)
	}
}

// LedgerSummary returns per-category totals.
func LedgerSummary(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errServiceUnavailable)
			return
		}
		summary, err := svc.LedgerSummary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

type setModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=child guardian"`
}

func ModeSet(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errServiceUnavailable)
			return
		}
		var payload setModeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.SetMode(r.Context(), enums.ViewMode(payload.Mode))
		writeView(w, r, logg, view, err)
	}
}

func ModeToggle(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errServiceUnavailable)
			return
		}
		view, err := svc.ToggleMode(r.Context())
		writeView(w, r, logg, view, err)
	}
}

var errServiceUnavailable = pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable")

func writeView(w http.ResponseWriter, r *http.Request, logg *logger.Logger, view account.View, err error) {
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, view)
}
