package api

import "context"

type contextKey string

const userIDContextKey contextKey = "user_id"

// UserIDFromContext extracts the authenticated user id from context
func UserIDFromContext(ctx context.Context) string {
	id, ok := ctx.Value(userIDContextKey).(string)
	if !ok {
		return ""
	}
	return id
}

// ContextWithUserID adds the authenticated user id to context
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
