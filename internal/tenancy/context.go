// Package tenancy resolves the workspace addressed by a request and keeps every
// tenant-scoped query inside it.
//
// The active workspace travels in the request's context.Context. There is no
// package-level "current workspace": a request that never called WithWorkspace
// runs unscoped, and two concurrent requests cannot observe each other's tenant.
package tenancy

import (
	"context"

	"github.com/yukikurage/workspace-api/internal/models"
)

type workspaceKey struct{}

type bypassKey struct{}

// WithWorkspace returns a copy of ctx carrying ws as the active tenant.
func WithWorkspace(ctx context.Context, ws *models.Workspace) context.Context {
	return context.WithValue(ctx, workspaceKey{}, ws)
}

// FromContext returns the active tenant, or false when the request is
// tenant-independent.
func FromContext(ctx context.Context) (*models.Workspace, bool) {
	if ctx == nil {
		return nil, false
	}
	ws, ok := ctx.Value(workspaceKey{}).(*models.Workspace)
	if !ok || ws == nil {
		return nil, false
	}
	return ws, true
}

// WorkspaceID returns the active tenant id, or 0 when none is set.
func WorkspaceID(ctx context.Context) uint64 {
	if ws, ok := FromContext(ctx); ok {
		return ws.ID
	}
	return 0
}

// WithoutScope marks ctx so the query scope is skipped while the tenant stays
// readable through FromContext. Only reference loading that must tell
// "belongs to another workspace" apart from "does not exist" should use it.
func WithoutScope(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassKey{}, true)
}

func scopeBypassed(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, _ := ctx.Value(bypassKey{}).(bool)
	return v
}
