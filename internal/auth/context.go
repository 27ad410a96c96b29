// Package auth carries the caller's verified identity and issues bearer tokens.
package auth

import (
	"context"

	"github.com/yukikurage/workspace-api/internal/models"
)

type userKey struct{}

// WithUser returns a copy of ctx carrying the authenticated caller.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the authenticated caller, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	if ctx == nil {
		return nil, false
	}
	user, ok := ctx.Value(userKey{}).(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
