package httpapi

import (
	"context"

	"github.com/riskibarqy/f1-fantasy/internal/domain/user"
	"github.com/riskibarqy/f1-fantasy/internal/usecase"
)

type contextKey string

const (
	principalContextKey contextKey = "auth_principal"
	actorContextKey     contextKey = "auth_actor"
)

func withPrincipal(ctx context.Context, p user.Principal, admin bool) context.Context {
	ctx = context.WithValue(ctx, principalContextKey, p)
	return context.WithValue(ctx, actorContextKey, usecase.Actor{UserID: p.UserID, Admin: admin})
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(user.Principal)
	return p, ok
}

func actorFromContext(ctx context.Context) (usecase.Actor, bool) {
	a, ok := ctx.Value(actorContextKey).(usecase.Actor)
	return a, ok
}
