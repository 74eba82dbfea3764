package auth

import "context"

// Identity is the authenticated caller handed to resource handlers. It is
// resolved fresh from the store on every request; handlers must not accept
// identity from any other source.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type contextKey string

const identityKey = contextKey("identity")

// WithIdentity attaches the resolved identity to a request context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
