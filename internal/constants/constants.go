package constants

// Context keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUser      = "current_user"
	ContextKeyWorkspace = "workspace"
)

// Routing
const (
	WorkspaceSlugParam = "slug"
	BearerPrefix       = "Bearer "
)

// ReservedWorkspaceSlugs collide with global routes under /api
var ReservedWorkspaceSlugs = map[string]struct{}{
	"auth":   {},
	"health": {},
}

// Session
const (
	SessionCookieName = "workspace_session"
	SessionMaxAge     = 86400 * 7
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Validation
const (
	MinPasswordLength   = 8
	MaxReactionTypeLen  = 20
	MaxWorkspaceSlugLen = 50
)

// Slug fallbacks used when a name yields an empty token
const (
	DefaultChannelSlug     = "channel"
	DefaultPublicationSlug = "publication"
)
