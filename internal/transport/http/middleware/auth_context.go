package middleware

import (
	"context"

	"github.com/mbressan/identity-service/internal/domain"
)

type ctxKey string

const ctxUser ctxKey = "user"

// WithUser attaches the resolved subject to the request context.
func WithUser(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, ctxUser, u)
}

// UserFromContext returns the subject the guard attached, if any.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(ctxUser).(domain.User)
	return u, ok && u.ID != ""
}
