package models

import "time"

// User belongs to exactly one workspace.
type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	WorkspaceID  uint64    `gorm:"not null;index" json:"workspace_id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	DisplayName  string    `gorm:"type:varchar(255);not null" json:"display_name"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	AvatarID     *uint64   `json:"avatar_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Workspace Workspace `gorm:"foreignKey:WorkspaceID" json:"-"`
}
