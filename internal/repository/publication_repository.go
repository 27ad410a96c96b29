package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yukikurage/workspace-api/internal/database"
	"github.com/yukikurage/workspace-api/internal/models"
)

// GormPublicationRepository is a GORM implementation of PublicationRepository
type GormPublicationRepository struct {
	gormRepository[models.Publication]
}

// NewPublicationRepository creates a new PublicationRepository
func NewPublicationRepository(db *gorm.DB) PublicationRepository {
	return &GormPublicationRepository{gormRepository[models.Publication]{db: db}}
}

// List retrieves publications with filtering and pagination, newest first
func (r *GormPublicationRepository) List(ctx context.Context, filter PublicationFilter) ([]models.Publication, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Publication{})

	if filter.ChannelID != nil {
		query = query.Where("channel_id = ?", *filter.ChannelID)
	}
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}

	return r.list(query, filter.Page, database.Newest, "Author")
}

// Delete removes a publication with its comments and reactions in a transaction
func (r *GormPublicationRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pubIDs := tx.Model(&models.Publication{}).Select("id").Where("id = ?", id)
		if err := deletePublicationChildren(tx, pubIDs); err != nil {
			return err
		}
		return deleted(tx.Delete(&models.Publication{}, id))
	})
}

// deletePublicationChildren removes the comments and reactions of the
// publications selected by pubIDs and detaches their media.
func deletePublicationChildren(tx *gorm.DB, pubIDs *gorm.DB) error {
	commentIDs := tx.Model(&models.Comment{}).Select("id").Where("publication_id IN (?)", pubIDs)

	if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.Reaction{}).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Media{}).Where("comment_id IN (?)", commentIDs).Update("comment_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Where("publication_id IN (?)", pubIDs).Delete(&models.Reaction{}).Error; err != nil {
		return err
	}
	if err := tx.Where("publication_id IN (?)", pubIDs).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	return tx.Model(&models.Media{}).Where("publication_id IN (?)", pubIDs).Update("publication_id", nil).Error
}
