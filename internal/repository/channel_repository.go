package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yukikurage/workspace-api/internal/database"
	"github.com/yukikurage/workspace-api/internal/models"
	"github.com/yukikurage/workspace-api/internal/utils"
)

// GormChannelRepository is a GORM implementation of ChannelRepository
type GormChannelRepository struct {
	gormRepository[models.Channel]
}

// NewChannelRepository creates a new ChannelRepository
func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &GormChannelRepository{gormRepository[models.Channel]{db: db}}
}

// List retrieves channels ordered by name
func (r *GormChannelRepository) List(ctx context.Context, page utils.PaginationParams) ([]models.Channel, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Channel{})
	return r.list(query, page, database.OrderBy("name ASC, id ASC"))
}

// Delete removes a channel and its publications in a transaction
func (r *GormChannelRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pubIDs := tx.Model(&models.Publication{}).Select("id").Where("channel_id = ?", id)
		if err := deletePublicationChildren(tx, pubIDs); err != nil {
			return err
		}
		if err := tx.Where("channel_id = ?", id).Delete(&models.Publication{}).Error; err != nil {
			return err
		}
		return deleted(tx.Delete(&models.Channel{}, id))
	})
}
