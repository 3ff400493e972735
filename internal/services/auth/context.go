package auth

import "context"

type identityContextKey struct{}

// Identity is the authenticated caller as the middleware resolved it from
// the bearer token: the user, the session the token belongs to, and the
// role used for admin gating.
type Identity struct {
	UserID int64
	SID    string
	Role   string
}

// WithIdentity stashes the caller identity on the request context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext reports the caller identity, if the request passed
// the auth middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(Identity)
	return identity, ok
}
