package auth

import "context"

var _ Checker = (*LoginChecker)(nil)

type Checker interface {
	UserID(ctx context.Context, token string) (string, error)
	IsLogged(ctx context.Context, token string) (bool, error)
}

type userIDKey struct{}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext returns the authenticated user set by the auth middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey{}).(string)
	return userID, ok && userID != ""
}
