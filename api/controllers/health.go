package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/firstcredit-backend/api/responses"
	"github.com/angelmondragon/firstcredit-backend/pkg/config"
	"github.com/angelmondragon/firstcredit-backend/pkg/logger"
)

const envHeader = "X-FirstCredit-Env"

// ReadinessChecker reports whether the snapshot store can serve commands.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, checker ReadinessChecker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if checker != nil {
			if err := checker.Ready(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{
			"status":  "ready",
			"storage": cfg.Storage.Backend,
		})
	}
}
