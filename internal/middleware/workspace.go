package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yukikurage/workspace-api/internal/constants"
	apierrors "github.com/yukikurage/workspace-api/internal/errors"
	"github.com/yukikurage/workspace-api/internal/models"
	"github.com/yukikurage/workspace-api/internal/tenancy"
)

// ResolveWorkspace activates the workspace named by the :slug path segment.
// It runs before any handler of the group, so an unknown slug never reaches
// tenant-scoped code. Routes without the segment pass through unscoped.
func ResolveWorkspace(resolver *tenancy.Resolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param(constants.WorkspaceSlugParam)

		ctx, ws, err := resolver.Activate(c.Request.Context(), slug)
		if err != nil {
			if errors.Is(err, tenancy.ErrTenantNotFound) {
				logger.Info("unknown workspace", zap.String("slug", slug), zap.String("path", c.Request.URL.Path))
				apierrors.RespondWithDomainError(c, err)
			} else {
				apierrors.InternalError(c, "Failed to resolve workspace")
			}
			c.Abort()
			return
		}

		if ws != nil {
			c.Request = c.Request.WithContext(ctx)
			c.Set(constants.ContextKeyWorkspace, ws)
		}
		c.Next()
	}
}

// CurrentWorkspace returns the workspace activated for the request
func CurrentWorkspace(c *gin.Context) (*models.Workspace, bool) {
	return tenancy.FromContext(c.Request.Context())
}
