package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/firstcredit-backend/api/controllers"
	"github.com/angelmondragon/firstcredit-backend/api/middleware"
	"github.com/angelmondragon/firstcredit-backend/api/responses"
	"github.com/angelmondragon/firstcredit-backend/internal/account"
	"github.com/angelmondragon/firstcredit-backend/pkg/config"
	"github.com/angelmondragon/firstcredit-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/firstcredit-backend/pkg/errors"
	"github.com/angelmondragon/firstcredit-backend/pkg/logger"
	"github.com/angelmondragon/firstcredit-backend/pkg/metrics"
	"github.com/angelmondragon/firstcredit-backend/pkg/redis"
)

// Deps groups what the router needs. IdempotencyStore may be nil when redis
// is not configured; Gatherer defaults to the global prometheus registry.
type Deps struct {
	Config           *config.Config
	Logger           *logger.Logger
	Account          account.Service
	IdempotencyStore redis.IdempotencyStore
	HTTPMetrics      *metrics.HTTPMetrics
	Gatherer         prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger
	svc := deps.Account

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	idempotency := middleware.Idempotency(deps.IdempotencyStore, cfg.FeatureFlags.RequireIdempotency, logg)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.HTTP.CORSOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "method not allowed on route"))
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, svc, logg))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ActorRole(logg))

		r.Get("/account", controllers.AccountGet(svc, logg))
		r.Get("/ledger", controllers.LedgerList(svc, logg))
		r.Get("/ledger/summary", controllers.LedgerSummary(svc, logg))
		r.Put("/mode", controllers.ModeSet(svc, logg))
		r.Post("/mode/toggle", controllers.ModeToggle(svc, logg))

		r.Route("/child", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.ActorRoleChild, logg))
			r.Get("/quote", controllers.QuoteGet(svc, logg))

			r.Group(func(r chi.Router) {
				r.Use(idempotency)
				r.Post("/items", controllers.ItemCreate(svc, logg))
				r.Delete("/items/{itemId}", controllers.ItemDelete(svc, logg))
				r.Post("/items/{itemId}/purchase", controllers.ItemPurchase(svc, logg))
				r.Post("/requests", controllers.RequestCreate(svc, logg))
				r.Post("/requests/{requestId}/cancel", controllers.RequestCancel(svc, logg))
				r.Post("/requests/{requestId}/acknowledge", controllers.RequestAcknowledge(svc, logg))
			})
		})

		r.Route("/guardian", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.ActorRoleGuardian, logg))

			r.Group(func(r chi.Router) {
				r.Use(idempotency)
				r.Post("/requests/{requestId}/approve", controllers.RequestApprove(svc, logg))
				r.Post("/requests/{requestId}/reject", controllers.RequestReject(svc, logg))
				r.Post("/requests/{requestId}/hold", controllers.RequestHold(svc, logg))
				r.Post("/requests/{requestId}/gift", controllers.RequestGift(svc, logg))
				r.Post("/allowance", controllers.AllowanceDeposit(svc, logg))
				r.Put("/allowance/weekly", controllers.AllowanceWeeklySet(svc, logg))
				r.Post("/weeks/advance", controllers.WeekAdvance(svc, logg))
				r.Post("/reset", controllers.AccountReset(svc, logg))
			})
		})
	})

	return r
}
