package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yukikurage/workspace-api/internal/database"
	"github.com/yukikurage/workspace-api/internal/models"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	gormRepository[models.Comment]
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{gormRepository[models.Comment]{db: db}}
}

// List retrieves comments oldest first, so threads read top to bottom
func (r *GormCommentRepository) List(ctx context.Context, filter CommentFilter) ([]models.Comment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Comment{})

	if filter.PublicationID != nil {
		query = query.Where("publication_id = ?", *filter.PublicationID)
	}
	if filter.ParentID != nil {
		query = query.Where("parent_id = ?", *filter.ParentID)
	}

	return r.list(query, filter.Page, database.Oldest, "Author")
}

// Delete removes a comment and its reactions in a transaction
func (r *GormCommentRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Comment{}).Where("parent_id = ?", id).Update("parent_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Media{}).Where("comment_id = ?", id).Update("comment_id", nil).Error; err != nil {
			return err
		}
		return deleted(tx.Delete(&models.Comment{}, id))
	})
}
