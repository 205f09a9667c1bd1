package auth

import "context"

type contextKey string

const contextKeyUser contextKey = "user"

func WithUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, contextKeyUser, username)
}

func UserFromContext(ctx context.Context) (string, bool) {
	u, ok := ctx.Value(contextKeyUser).(string)
	return u, ok
}
