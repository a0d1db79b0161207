package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/firstcredit-backend/internal/account"
	"github.com/angelmondragon/firstcredit-backend/internal/snapshot"
	"github.com/angelmondragon/firstcredit-backend/pkg/config"
	"github.com/angelmondragon/firstcredit-backend/pkg/enums"
	"github.com/angelmondragon/firstcredit-backend/pkg/logger"
	"github.com/angelmondragon/firstcredit-backend/pkg/metrics"
	"github.com/angelmondragon/firstcredit-backend/pkg/types"
)

type memoryIdempotency struct {
	data map[string]string
}

func (m *memoryIdempotency) Get(_ context.Context, key string) (string, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", goredis.Nil
}

func (m *memoryIdempotency) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value.(string)
	return true, nil
}

func (m *memoryIdempotency) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryIdempotency) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("test:%s:%s", scope, id)
}

func testConfig() *config.Config {
	return &config.Config{
		App:          config.AppConfig{Env: config.AppEnvDev, Port: "0"},
		Storage:      config.StorageConfig{Backend: config.StorageBackendMemory, Key: "test-household"},
		FeatureFlags: config.FeatureFlagsConfig{RequireIdempotency: false},
	}
}

type testRouter struct {
	handler http.Handler
	reg     *prometheus.Registry
	idem    *memoryIdempotency
}

func newTestRouter(t *testing.T, cfg *config.Config) testRouter {
	t.Helper()
	engine := account.DefaultEngine()
	reg := prometheus.NewRegistry()
	svc, err := account.NewService(account.ServiceParams{
		Engine:  engine,
		Store:   snapshot.NewRepository(snapshot.NewMemoryStore(), snapshot.NewCodec(engine)),
		Key:     cfg.Storage.Key,
		Logger:  logger.Nop(),
		Metrics: metrics.NewCommandMetrics(reg),
	})
	require.NoError(t, err)

	idem := &memoryIdempotency{data: map[string]string{}}
	handler := NewRouter(Deps{
		Config:           cfg,
		Logger:           logger.Nop(),
		Account:          svc,
		IdempotencyStore: idem,
		HTTPMetrics:      metrics.NewHTTPMetrics(reg),
		Gatherer:         reg,
	})
	return testRouter{handler: handler, reg: reg, idem: idem}
}

func (tr testRouter) do(t *testing.T, method, path string, role enums.ActorRole, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("X-Actor-Role", string(role))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp := httptest.NewRecorder()
	tr.handler.ServeHTTP(resp, req)
	return resp
}

func decodeView(t *testing.T, resp *httptest.ResponseRecorder) account.View {
	t.Helper()
	var envelope struct {
		Data account.View `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

func decodeErrorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Error.Code
}

func TestHealthRoutes(t *testing.T) {
	tr := newTestRouter(t, testConfig())

	live := tr.do(t, http.MethodGet, "/health/live", "", "")
	require.Equal(t, http.StatusOK, live.Code)
	assert.Equal(t, config.AppEnvDev, live.Header().Get("X-FirstCredit-Env"))

	ready := tr.do(t, http.MethodGet, "/health/ready", "", "")
	require.Equal(t, http.StatusOK, ready.Code)
	assert.Contains(t, ready.Body.String(), `"storage":"memory"`)
}

func TestAccountSeedsDefaultSnapshot(t *testing.T) {
	tr := newTestRouter(t, testConfig())

	resp := tr.do(t, http.MethodGet, "/api/v1/account", "", "")
	require.Equal(t, http.StatusOK, resp.Code)

	view := decodeView(t, resp)
	assert.Equal(t, int64(50000), view.State.Balance)
	assert.Equal(t, int64(10000), view.State.WeeklyAllowance)
	assert.Len(t, view.State.Items, 3)
	assert.Equal(t, int64(40000), view.Summary.CreditLimit)
	assert.Equal(t, int64(5000), view.Summary.DebtCeiling)
}

func TestRoleGroupsAreGated(t *testing.T) {
	tr := newTestRouter(t, testConfig())

	resp := tr.do(t, http.MethodPost, "/api/v1/guardian/weeks/advance", enums.ActorRoleChild, "")
	require.Equal(t, http.StatusForbidden, resp.Code)

	resp = tr.do(t, http.MethodGet, "/api/v1/child/quote?principal=9000&weeks=3", enums.ActorRoleGuardian, "")
	require.Equal(t, http.StatusForbidden, resp.Code)

	resp = tr.do(t, http.MethodGet, "/api/v1/child/quote?principal=9000&weeks=3", "", "")
	require.Equal(t, http.StatusForbidden, resp.Code)

	resp = tr.do(t, http.MethodGet, "/api/v1/child/quote?principal=9000&weeks=3", "auntie", "")
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestLoanLifecycleThroughHTTP(t *testing.T) {
	tr := newTestRouter(t, testConfig())

	created := tr.do(t, http.MethodPost, "/api/v1/child/requests", enums.ActorRoleChild,
		`{"kind":"loan","name":"Concert ticket","principal":9000,"installment_weeks":3,"reason":"favourite band"}`)
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	view := decodeView(t, created)
	require.NotEmpty(t, view.State.Requests)
	req := view.State.Requests[0]
	assert.Equal(t, enums.RequestStatusPending, req.Status)
	assert.Equal(t, int64(9900), req.TotalRepayment)
	assert.Equal(t, int64(3300), req.WeeklyInstallment)
	assert.Equal(t, 1, view.Summary.PendingRequests)

	approved := tr.do(t, http.MethodPost, "/api/v1/guardian/requests/"+req.ID.String()+"/approve", enums.ActorRoleGuardian,
		`{"message":"ok, but save up next time"}`)
	require.Equal(t, http.StatusOK, approved.Code, approved.Body.String())
	view = decodeView(t, approved)
	assert.Equal(t, int64(59000), view.State.Balance)
	assert.Equal(t, int64(3300), view.Summary.WeeklyDebtService)

	again := tr.do(t, http.MethodPost, "/api/v1/guardian/requests/"+req.ID.String()+"/approve", enums.ActorRoleGuardian, "")
	require.Equal(t, http.StatusUnprocessableEntity, again.Code)
	assert.Equal(t, "STATE_CONFLICT", decodeErrorCode(t, again))

	advanced := tr.do(t, http.MethodPost, "/api/v1/guardian/weeks/advance", enums.ActorRoleGuardian, "")
	require.Equal(t, http.StatusOK, advanced.Code)
	view = decodeView(t, advanced)
	assert.Equal(t, int64(59000+10000-3300), view.State.Balance)
	assert.Equal(t, 2, view.State.CurrentWeekIndex)

	ack := tr.do(t, http.MethodPost, "/api/v1/child/requests/"+req.ID.String()+"/acknowledge", enums.ActorRoleChild, "")
	require.Equal(t, http.StatusOK, ack.Code)
	assert.Equal(t, 0, decodeView(t, ack).Summary.UnseenDecisions)
}

func TestDebtCeilingRefusalKeepsSnapshot(t *testing.T) {
	tr := newTestRouter(t, testConfig())

	resp := tr.do(t, http.MethodPost, "/api/v1/child/requests", enums.ActorRoleChild,
		`{"kind":"loan","name":"Bike","principal":40000,"installment_weeks":2,"reason":"ride to school"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, "POLICY_VIOLATION", decodeErrorCode(t, resp))

	view := decodeView(t, tr.do(t, http.MethodGet, "/api/v1/account", "", ""))
	assert.Empty(t, view.State.Requests)
}

func TestIdempotentAllowanceDeposit(t *testing.T) {
	tr := newTestRouter(t, testConfig())

	first := tr.do(t, http.MethodPost, "/api/v1/guardian/allowance", enums.ActorRoleGuardian, `{"amount":2500}`, "Idempotency-Key", "deposit-1")
	require.Equal(t, http.StatusOK, first.Code)
	second := tr.do(t, http.MethodPost, "/api/v1/guardian/allowance", enums.ActorRoleGuardian, `{"amount":2500}`, "Idempotency-Key", "deposit-1")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))

	view := decodeView(t, tr.do(t, http.MethodGet, "/api/v1/account", "", ""))
	assert.Equal(t, int64(52500), view.State.Balance)
	assert.Len(t, tr.idem.data, 1)
}

func TestRequiredIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	cfg.FeatureFlags.RequireIdempotency = true
	tr := newTestRouter(t, cfg)

	resp := tr.do(t, http.MethodPost, "/api/v1/guardian/weeks/advance", enums.ActorRoleGuardian, "")
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = tr.do(t, http.MethodPost, "/api/v1/guardian/reset", enums.ActorRoleGuardian, "")
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestLedgerRoutes(t *testing.T) {
	tr := newTestRouter(t, testConfig())

	resp := tr.do(t, http.MethodGet, "/api/v1/ledger?limit=2", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	var page struct {
		Data struct {
			Items      []json.RawMessage `json:"items"`
			NextCursor string            `json:"next_cursor"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	assert.Len(t, page.Data.Items, 2)
	require.NotEmpty(t, page.Data.NextCursor)

	resp = tr.do(t, http.MethodGet, "/api/v1/ledger?limit=2&cursor="+page.Data.NextCursor, "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	assert.Len(t, page.Data.Items, 1)
	assert.Empty(t, page.Data.NextCursor)

	resp = tr.do(t, http.MethodGet, "/api/v1/ledger?category=bogus", "", "")
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = tr.do(t, http.MethodGet, "/api/v1/ledger/summary", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"net":15000`)
}

func TestModeRoutes(t *testing.T) {
	tr := newTestRouter(t, testConfig())

	resp := tr.do(t, http.MethodPut, "/api/v1/mode", "", `{"mode":"guardian"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, enums.ViewModeGuardian, decodeView(t, resp).State.Mode)

	resp = tr.do(t, http.MethodPost, "/api/v1/mode/toggle", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, enums.ViewModeChild, decodeView(t, resp).State.Mode)

	resp = tr.do(t, http.MethodPut, "/api/v1/mode", "", `{"mode":"teen"}`)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	tr := newTestRouter(t, testConfig())
	resp := tr.do(t, http.MethodGet, "/api/v1/nope", "", "")
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decodeErrorCode(t, resp))
}

func TestMetricsEndpoint(t *testing.T) {
	tr := newTestRouter(t, testConfig())
	tr.do(t, http.MethodPost, "/api/v1/guardian/weeks/advance", enums.ActorRoleGuardian, "")

	resp := tr.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, `ledger_command_total{command="advance_week",outcome="applied"} 1`)
	assert.Contains(t, body, `route="/api/v1/guardian/weeks/advance"`)
}
