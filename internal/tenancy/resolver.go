package tenancy

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/workspace-api/internal/models"
)

// WorkspaceFinder looks a workspace up by slug. It must return
// gorm.ErrRecordNotFound when no workspace matches.
type WorkspaceFinder interface {
	FindBySlug(ctx context.Context, slug string) (*models.Workspace, error)
}

// Resolver maps a request's workspace slug to the workspace and activates it.
type Resolver struct {
	finder WorkspaceFinder
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewResolver builds a resolver. A nil cache or a non-positive ttl disables
// caching.
func NewResolver(finder WorkspaceFinder, cache Cache, ttl time.Duration, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{finder: finder, cache: cache, ttl: ttl, logger: logger}
}

// Resolve returns the workspace addressed by slug. An empty slug means the
// request is tenant-independent and yields (nil, nil).
func (r *Resolver) Resolve(ctx context.Context, slug string) (*models.Workspace, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}

	if r.cache != nil && r.ttl > 0 {
		if ws, ok := r.cache.Get(ctx, slug); ok {
			return ws, nil
		}
	}

	ws, err := r.finder.FindBySlug(WithoutScope(ctx), slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		r.logger.Error("workspace lookup failed", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}

	if r.cache != nil && r.ttl > 0 {
		r.cache.Set(ctx, slug, ws, r.ttl)
	}
	return ws, nil
}

// Activate resolves slug and returns ctx with the workspace set as the active
// tenant. When slug is empty ctx is returned unchanged.
func (r *Resolver) Activate(ctx context.Context, slug string) (context.Context, *models.Workspace, error) {
	ws, err := r.Resolve(ctx, slug)
	if err != nil || ws == nil {
		return ctx, nil, err
	}
	return WithWorkspace(ctx, ws), ws, nil
}

// Invalidate drops slug from the cache. Call it after the workspace changes.
func (r *Resolver) Invalidate(ctx context.Context, slug string) {
	if r.cache != nil {
		r.cache.Delete(ctx, slug)
	}
}
