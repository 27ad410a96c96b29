package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yukikurage/workspace-api/internal/database"
	"github.com/yukikurage/workspace-api/internal/models"
)

// GormMediaRepository is a GORM implementation of MediaRepository
type GormMediaRepository struct {
	gormRepository[models.Media]
}

// NewMediaRepository creates a new MediaRepository
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &GormMediaRepository{gormRepository[models.Media]{db: db}}
}

// List retrieves media with filtering and pagination, newest first
func (r *GormMediaRepository) List(ctx context.Context, filter MediaFilter) ([]models.Media, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Media{})

	if filter.PublicationID != nil {
		query = query.Where("publication_id = ?", *filter.PublicationID)
	}
	if filter.CommentID != nil {
		query = query.Where("comment_id = ?", *filter.CommentID)
	}

	return r.list(query, filter.Page, database.Newest)
}

// Delete removes a media record. The stored file is the caller's concern.
func (r *GormMediaRepository) Delete(ctx context.Context, id uint64) error {
	return deleted(r.db.WithContext(ctx).Delete(&models.Media{}, id))
}
