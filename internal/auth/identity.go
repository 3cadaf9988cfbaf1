package auth

import (
	"context"

	"storefront/internal/domain"
)

// Identity is the verified caller attached to the request context by the
// authentication middleware.
type Identity struct {
	UserID int
	Name   string
	Email  string
	Role   string
}

func (i Identity) IsAdmin() bool {
	return i.Role == domain.RoleAdmin
}

type contextKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IdentityFrom returns the caller identity, if any. The second return is
// false on unauthenticated (anonymous) requests.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
