package middleware

import (
	"context"

	"github.com/angelmondragon/firstcredit-backend/pkg/enums"
)

type contextKey string

const ctxRole contextKey = "actor_role"

func RoleFromContext(ctx context.Context) enums.ActorRole {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(enums.ActorRole); ok {
		return v
	}
	return ""
}

// WithRole injects the acting household member into the context.
func WithRole(ctx context.Context, role enums.ActorRole) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}
