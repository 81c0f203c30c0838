package domain

import "context"

// Identity is the authenticated caller extracted from a validated access
// token. It is threaded explicitly through every operation that needs the
// current caller (reissue, logout, profile fetch); there is no process-wide
// authentication state.
type Identity struct {
	// Subject is the principal identity string the token was issued for
	// (the account email). Refresh token records are keyed by it.
	Subject   string
	Authority Authority
}

type identityContextKey struct{}

// WithIdentity returns a context carrying the authenticated caller.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext retrieves the authenticated caller, if any.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(*Identity)
	return id, ok && id != nil
}
