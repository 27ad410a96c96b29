package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yukikurage/workspace-api/internal/database"
	"github.com/yukikurage/workspace-api/internal/models"
)

// GormReactionRepository is a GORM implementation of ReactionRepository
type GormReactionRepository struct {
	gormRepository[models.Reaction]
}

// NewReactionRepository creates a new ReactionRepository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &GormReactionRepository{gormRepository[models.Reaction]{db: db}}
}

// List retrieves reactions with filtering and pagination
func (r *GormReactionRepository) List(ctx context.Context, filter ReactionFilter) ([]models.Reaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Reaction{})

	if filter.PublicationID != nil {
		query = query.Where("publication_id = ?", *filter.PublicationID)
	}
	if filter.CommentID != nil {
		query = query.Where("comment_id = ?", *filter.CommentID)
	}
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}

	return r.list(query, filter.Page, database.Oldest)
}

// Delete removes a reaction
func (r *GormReactionRepository) Delete(ctx context.Context, id uint64) error {
	return deleted(r.db.WithContext(ctx).Delete(&models.Reaction{}, id))
}
