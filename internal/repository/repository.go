package repository

import (
	"context"

	"github.com/yukikurage/workspace-api/internal/models"
	"github.com/yukikurage/workspace-api/internal/utils"
)

// All repositories run their queries with db.WithContext(ctx), so tenant-scoped
// reads, updates and deletes are filtered by the workspace active in ctx.

// WorkspaceRepository defines the interface for workspace data access
type WorkspaceRepository interface {
	// Create creates a new workspace
	Create(ctx context.Context, ws *models.Workspace) error

	// FindByID finds a workspace by ID
	FindByID(ctx context.Context, id uint64) (*models.Workspace, error)

	// FindBySlug finds a workspace by its slug
	FindBySlug(ctx context.Context, slug string) (*models.Workspace, error)

	// UpdateJoinCode replaces the stored join code hash
	UpdateJoinCode(ctx context.Context, id uint64, hash *string) error

	// Delete deletes a workspace and everything it owns
	Delete(ctx context.Context, id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// ChannelRepository defines the interface for channel data access
type ChannelRepository interface {
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Channel, error)
	List(ctx context.Context, page utils.PaginationParams) ([]models.Channel, int64, error)
	// Delete removes the channel with its publications and their comments and
	// reactions; media attached to them is detached.
	Delete(ctx context.Context, id uint64) error
}

// PublicationFilter holds filtering options for listing publications
type PublicationFilter struct {
	ChannelID *uint64
	AuthorID  *uint64
	Page      utils.PaginationParams
}

// PublicationRepository defines the interface for publication data access
type PublicationRepository interface {
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Publication, error)
	List(ctx context.Context, filter PublicationFilter) ([]models.Publication, int64, error)
	// Delete removes the publication with its comments and reactions; media
	// attached to it is detached.
	Delete(ctx context.Context, id uint64) error
}

// CommentFilter holds filtering options for listing comments
type CommentFilter struct {
	PublicationID *uint64
	ParentID      *uint64
	Page          utils.PaginationParams
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Comment, error)
	List(ctx context.Context, filter CommentFilter) ([]models.Comment, int64, error)
	// Delete removes the comment and its reactions. Replies are kept and lose
	// their parent; media attached to it is detached.
	Delete(ctx context.Context, id uint64) error
}

// ReactionFilter holds filtering options for listing reactions
type ReactionFilter struct {
	PublicationID *uint64
	CommentID     *uint64
	AuthorID      *uint64
	Page          utils.PaginationParams
}

// ReactionRepository defines the interface for reaction data access
type ReactionRepository interface {
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Reaction, error)
	List(ctx context.Context, filter ReactionFilter) ([]models.Reaction, int64, error)
	Delete(ctx context.Context, id uint64) error
}

// MediaFilter holds filtering options for listing media
type MediaFilter struct {
	PublicationID *uint64
	CommentID     *uint64
	Page          utils.PaginationParams
}

// MediaRepository defines the interface for media data access
type MediaRepository interface {
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Media, error)
	List(ctx context.Context, filter MediaFilter) ([]models.Media, int64, error)
	Delete(ctx context.Context, id uint64) error
}
