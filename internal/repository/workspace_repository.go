package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yukikurage/workspace-api/internal/models"
	"github.com/yukikurage/workspace-api/internal/tenancy"
)

// GormWorkspaceRepository is a GORM implementation of WorkspaceRepository
type GormWorkspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &GormWorkspaceRepository{db: db}
}

// Create creates a new workspace
func (r *GormWorkspaceRepository) Create(ctx context.Context, ws *models.Workspace) error {
	return r.db.WithContext(ctx).Omit("Channels", "Publications", "Comments", "Reactions", "Media", "Users").Create(ws).Error
}

// FindByID finds a workspace by ID
func (r *GormWorkspaceRepository) FindByID(ctx context.Context, id uint64) (*models.Workspace, error) {
	var ws models.Workspace
	if err := r.db.WithContext(ctx).First(&ws, id).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

// FindBySlug finds a workspace by its slug
func (r *GormWorkspaceRepository) FindBySlug(ctx context.Context, slug string) (*models.Workspace, error) {
	var ws models.Workspace
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&ws).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

// UpdateJoinCode replaces the stored join code hash
func (r *GormWorkspaceRepository) UpdateJoinCode(ctx context.Context, id uint64, hash *string) error {
	res := r.db.WithContext(ctx).Model(&models.Workspace{}).Where("id = ?", id).Update("join_code_hash", hash)
	return deleted(res)
}

// Delete deletes a workspace and all related data in a transaction
func (r *GormWorkspaceRepository) Delete(ctx context.Context, id uint64) error {
	ctx = tenancy.WithoutScope(ctx)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Children before parents so foreign keys never dangle mid-way.
		owned := []interface{}{
			&models.Reaction{},
			&models.Media{},
			&models.Comment{},
			&models.Publication{},
			&models.Channel{},
			&models.User{},
		}
		for _, model := range owned {
			if err := tx.Where("workspace_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		return deleted(tx.Delete(&models.Workspace{}, id))
	})
}
