package auth

import "context"

type Identity struct {
	UserID int64
}

type contextKey struct{}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(contextKey{}).(Identity)
	if !ok || identity.UserID <= 0 {
		return Identity{}, false
	}
	return identity, true
}
