package middleware

import (
	"context"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/workspace-api/internal/auth"
	"github.com/yukikurage/workspace-api/internal/constants"
	apierrors "github.com/yukikurage/workspace-api/internal/errors"
	"github.com/yukikurage/workspace-api/internal/models"
	"github.com/yukikurage/workspace-api/internal/tenancy"
)

// UserLoader loads the user behind a verified identity
type UserLoader interface {
	GetUser(ctx context.Context, id uint64) (*models.User, error)
}

// RequireAuth identifies the caller by session cookie or bearer token. When a
// workspace is active the caller must be one of its members.
func RequireAuth(users UserLoader, tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, tokenWorkspaceID, ok := identify(c, tokens)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := users.GetUser(c.Request.Context(), userID)
		if err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if ws, active := tenancy.FromContext(c.Request.Context()); active {
			if user.WorkspaceID != ws.ID || (tokenWorkspaceID != 0 && tokenWorkspaceID != ws.ID) {
				apierrors.Forbidden(c, "You are not a member of this workspace")
				c.Abort()
				return
			}
		}

		// Store user in context for easy access in handlers and services
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), user))
		c.Next()
	}
}

// identify returns the caller's user id and, for bearer tokens, the workspace
// the token was issued for.
func identify(c *gin.Context, tokens *auth.TokenManager) (uint64, uint64, bool) {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, constants.BearerPrefix) && tokens != nil {
		claims, err := tokens.ParseToken(strings.TrimPrefix(header, constants.BearerPrefix))
		if err != nil {
			return 0, 0, false
		}
		return claims.UserID, claims.WorkspaceID, true
	}

	session := sessions.Default(c)
	id, ok := toUint64(session.Get(constants.ContextKeyUserID))
	return id, 0, ok
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUint64(userID)
}

// CurrentUser returns the user loaded by RequireAuth
func CurrentUser(c *gin.Context) (*models.User, bool) {
	return auth.UserFromContext(c.Request.Context())
}

func toUint64(v interface{}) (uint64, bool) {
	switch v := v.(type) {
	case uint64:
		return v, v != 0
	case uint:
		return uint64(v), v != 0
	case int:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	case float64:
		// Cookie stores encode numbers through gob and keep the type; JSON
		// backed stores hand numbers back as float64.
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
