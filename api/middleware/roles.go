package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/firstcredit-backend/api/responses"
	"github.com/angelmondragon/firstcredit-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/firstcredit-backend/pkg/errors"
	"github.com/angelmondragon/firstcredit-backend/pkg/logger"
)

const actorRoleHeader = "X-Actor-Role"

// ActorRole reads the household role from X-Actor-Role. The header only
// selects which command group a caller may reach; it is not authentication.
func ActorRole(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(actorRoleHeader))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			role, err := enums.ParseActorRole(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid actor role").
					WithDetails(map[string]any{"header": actorRoleHeader}))
				return
			}
			ctx := WithRole(r.Context(), role)
			if logg != nil {
				ctx = logg.WithActorRole(ctx, string(role))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireRole(role enums.ActorRole, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != role {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Newf(pkgerrors.CodeForbidden, "%s role required", role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
