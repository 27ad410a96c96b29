package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yukikurage/workspace-api/internal/database"
	"github.com/yukikurage/workspace-api/internal/utils"
)

// gormRepository holds the lookups every entity repository shares.
type gormRepository[T any] struct {
	db *gorm.DB
}

func (r gormRepository[T]) FindByID(ctx context.Context, id uint64, preload ...string) (*T, error) {
	var entity T
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&entity, id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// list counts the filtered rows, then loads one page of them.
func (r gormRepository[T]) list(query *gorm.DB, page utils.PaginationParams, order func(*gorm.DB) *gorm.DB, preload ...string) ([]T, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Scopes(order, database.Paginate(page))
	for _, p := range preload {
		listQuery = listQuery.Preload(p)
	}

	items := make([]T, 0, page.Limit)
	if err := listQuery.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// deleted turns a delete that matched nothing into gorm.ErrRecordNotFound.
func deleted(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
