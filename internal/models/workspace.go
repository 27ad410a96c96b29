package models

import "time"

// Workspace is the tenant root. Everything except the workspace itself and
// its users is filtered by workspace_id at query time.
type Workspace struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	Slug            string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"slug"`
	Name            string    `gorm:"type:varchar(255);not null;default:''" json:"name"`
	AllowSelfSignup bool      `gorm:"not null;default:false" json:"allow_self_signup"`
	JoinCodeHash    *string   `gorm:"type:varchar(255)" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	Channels     []Channel     `gorm:"foreignKey:WorkspaceID" json:"-"`
	Publications []Publication `gorm:"foreignKey:WorkspaceID" json:"-"`
	Comments     []Comment     `gorm:"foreignKey:WorkspaceID" json:"-"`
	Reactions    []Reaction    `gorm:"foreignKey:WorkspaceID" json:"-"`
	Media        []Media       `gorm:"foreignKey:WorkspaceID" json:"-"`
	Users        []User        `gorm:"foreignKey:WorkspaceID" json:"-"`
}
