package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yukikurage/workspace-api/internal/models"
)

// Migrate creates or updates every table, then adds the composite lookup
// indexes the model tags do not express.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Workspace{},
		&models.User{},
		&models.Channel{},
		&models.Publication{},
		&models.Comment{},
		&models.Reaction{},
		&models.Media{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	return nil
}

// AddIndexes adds the tenant-prefixed listing indexes.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"publications", "idx_publications_workspace_channel", "workspace_id, channel_id"},
		{"publications", "idx_publications_workspace_created", "workspace_id, created_at"},
		{"comments", "idx_comments_workspace_publication", "workspace_id, publication_id"},
		{"reactions", "idx_reactions_workspace_publication", "workspace_id, publication_id"},
		{"reactions", "idx_reactions_workspace_comment", "workspace_id, comment_id"},
		{"media", "idx_media_workspace_publication", "workspace_id, publication_id"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
