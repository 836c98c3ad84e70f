package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey int

const (
	userIDKey contextKey = iota
	roleKey
	tokenKey
)

func valueFrom[T any](ctx context.Context, key contextKey) (T, bool) {
	v, ok := ctx.Value(key).(T)
	return v, ok
}

// GetUserIDFromContext returns the caller set by the auth middleware.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := valueFrom[uuid.UUID](ctx, userIDKey)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	return valueFrom[string](ctx, roleKey)
}

func SetUserContext(ctx context.Context, userID uuid.UUID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// GetTokenFromContext returns the session token the request authenticated with.
func GetTokenFromContext(ctx context.Context) (string, bool) {
	return valueFrom[string](ctx, tokenKey)
}

func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}
