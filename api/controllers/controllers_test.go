package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/firstcredit-backend/internal/account"
	"github.com/angelmondragon/firstcredit-backend/internal/snapshot"
	"github.com/angelmondragon/firstcredit-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/firstcredit-backend/pkg/errors"
	"github.com/angelmondragon/firstcredit-backend/pkg/types"
)

func newTestService(t *testing.T) account.Service {
	t.Helper()
	engine := account.DefaultEngine()
	svc, err := account.NewService(account.ServiceParams{
		Engine: engine,
		Store:  snapshot.NewRepository(snapshot.NewMemoryStore(), snapshot.NewCodec(engine)),
		Key:    "controllers-test",
	})
	require.NoError(t, err)
	return svc
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func errorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Error.Code
}

func viewOf(t *testing.T, resp *httptest.ResponseRecorder) account.View {
	t.Helper()
	var envelope struct {
		Data account.View `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

type stubReadiness struct{ err error }

func (s stubReadiness) Ready(context.Context) error { return s.err }

func TestHealthReadyReportsStoreFailure(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}, Storage: config.StorageConfig{Backend: "redis"}}

	resp := httptest.NewRecorder()
	HealthReady(cfg, stubReadiness{}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = httptest.NewRecorder()
	failing := stubReadiness{err: pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("connection refused"), "snapshot store unavailable")}
	HealthReady(cfg, failing, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Equal(t, string(pkgerrors.CodeDependency), errorCode(t, resp))
}

func TestItemCreateAndPurchase(t *testing.T) {
	svc := newTestService(t)

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/child/items", strings.NewReader(`{"name":"  Yo-yo  ","price":1500}`))
	ItemCreate(svc, nil).ServeHTTP(resp, req)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	view := viewOf(t, resp)
	require.Len(t, view.State.Items, 4)
	item := view.State.Items[0]
	assert.Equal(t, "Yo-yo", item.Name)
	assert.Equal(t, "🛒", item.Icon)

	resp = httptest.NewRecorder()
	req = withURLParam(httptest.NewRequest(http.MethodPost, "/", nil), "itemId", item.ID.String())
	ItemPurchase(svc, nil).ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	view = viewOf(t, resp)
	assert.Equal(t, int64(48500), view.State.Balance)
	assert.Len(t, view.State.Items, 3)
}

func TestItemPurchaseInsufficientBalance(t *testing.T) {
	svc := newTestService(t)
	view, err := svc.Get(context.Background())
	require.NoError(t, err)

	ids := map[string]uuid.UUID{}
	for _, it := range view.State.Items {
		ids[it.Name] = it.ID
	}
	_, err = svc.PurchaseItem(context.Background(), ids["Lego Ninjago set"])
	require.NoError(t, err)

	resp := httptest.NewRecorder()
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/", nil), "itemId", ids["Ice cream cake"].String())
	ItemPurchase(svc, nil).ServeHTTP(resp, req)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, string(pkgerrors.CodePolicyViolation), errorCode(t, resp))

	after, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5000), after.State.Balance)
	assert.Len(t, after.State.Items, 2)
}

func TestItemDeleteValidatesID(t *testing.T) {
	svc := newTestService(t)

	resp := httptest.NewRecorder()
	ItemDelete(svc, nil).ServeHTTP(resp, withURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "itemId", "not-a-uuid"))
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = httptest.NewRecorder()
	ItemDelete(svc, nil).ServeHTTP(resp, withURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "itemId", uuid.NewString()))
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestQuoteGet(t *testing.T) {
	svc := newTestService(t)

	resp := httptest.NewRecorder()
	QuoteGet(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/child/quote?principal=9000&weeks=3", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Data account.Quote `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, int64(9900), envelope.Data.TotalRepayment)
	assert.Equal(t, int64(3300), envelope.Data.WeeklyInstallment)
	assert.False(t, envelope.Data.ExceedsCeiling)

	resp = httptest.NewRecorder()
	QuoteGet(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/child/quote?principal=9000&weeks=0", nil))
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRequestCreateValidation(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"unknown kind", `{"kind":"gift","name":"x","principal":100,"installment_weeks":1,"reason":"r"}`, http.StatusBadRequest},
		{"principal beyond int64 headroom", `{"kind":"loan","name":"x","principal":100000000000000000,"installment_weeks":1,"reason":"r"}`, http.StatusBadRequest},
		{"zero weeks", `{"kind":"loan","name":"x","principal":100,"installment_weeks":0,"reason":"r"}`, http.StatusBadRequest},
		{"missing reason", `{"kind":"loan","name":"x","principal":100,"installment_weeks":1}`, http.StatusBadRequest},
		{"loan linked to item", `{"kind":"loan","linked_item_id":"` + uuid.NewString() + `","name":"x","principal":100,"installment_weeks":1,"reason":"r"}`, http.StatusBadRequest},
		{"missing linked item", `{"kind":"purchase","linked_item_id":"` + uuid.NewString() + `","name":"x","principal":100,"installment_weeks":1,"reason":"r"}`, http.StatusNotFound},
		{"ok", `{"kind":"loan","name":"Snacks","principal":1000,"installment_weeks":2,"reason":"school trip"}`, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			RequestCreate(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)))
			assert.Equal(t, tt.code, resp.Code, resp.Body.String())
		})
	}
}

func TestGuardianDecisionsAndSettlement(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	view, err := svc.CreateRequest(ctx, loanRequest(t))
	require.NoError(t, err)
	requestID := view.State.Requests[0].ID.String()

	resp := httptest.NewRecorder()
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"let's talk first"}`)), "requestId", requestID)
	RequestHold(svc, nil).ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "let's talk first", viewOf(t, resp).State.Requests[0].GuardianMessage)

	resp = httptest.NewRecorder()
	req = withURLParam(httptest.NewRequest(http.MethodPost, "/", nil), "requestId", requestID)
	RequestGift(svc, nil).ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	gifted := viewOf(t, resp).State.Requests[0]
	assert.Equal(t, "This one is on us. Enjoy!", gifted.GuardianMessage)
	assert.Equal(t, int64(0), gifted.Outstanding())

	resp = httptest.NewRecorder()
	req = withURLParam(httptest.NewRequest(http.MethodPost, "/", nil), "requestId", requestID)
	RequestReject(svc, nil).ServeHTTP(resp, req)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, string(pkgerrors.CodeStateConflict), errorCode(t, resp))

	resp = httptest.NewRecorder()
	WeekAdvance(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, int64(60000), viewOf(t, resp).State.Balance)
}

func TestAllowanceHandlers(t *testing.T) {
	svc := newTestService(t)

	resp := httptest.NewRecorder()
	AllowanceDeposit(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":0}`)))
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = httptest.NewRecorder()
	AllowanceWeeklySet(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"amount":0}`)))
	require.Equal(t, http.StatusBadRequest, resp.Code)
	var refused struct {
		Error struct {
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &refused))
	assert.Equal(t, "must be greater than 0", refused.Error.Details["amount"])

	resp = httptest.NewRecorder()
	AllowanceWeeklySet(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"amount":12000}`)))
	require.Equal(t, http.StatusOK, resp.Code)
	view := viewOf(t, resp)
	assert.Equal(t, int64(12000), view.State.WeeklyAllowance)
	assert.Equal(t, int64(48000), view.Summary.CreditLimit)

	resp = httptest.NewRecorder()
	AccountReset(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, int64(10000), viewOf(t, resp).State.WeeklyAllowance)
}

func TestLedgerListRejectsBadCursor(t *testing.T) {
	svc := newTestService(t)
	resp := httptest.NewRecorder()
	LedgerList(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/ledger?cursor=garbage", nil))
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestLedgerListFiltersCategory(t *testing.T) {
	svc := newTestService(t)
	resp := httptest.NewRecorder()
	LedgerList(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/ledger?category=purchase", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Data struct {
			Items []struct {
				Category     string `json:"category"`
				SignedAmount int64  `json:"signed_amount"`
			} `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Items, 1)
	assert.Equal(t, int64(-5000), envelope.Data.Items[0].SignedAmount)
}
