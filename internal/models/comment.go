package models

import "time"

// Comment belongs to a publication and optionally replies to another comment.
type Comment struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	WorkspaceID   uint64    `gorm:"not null;index" json:"workspace_id"`
	PublicationID uint64    `gorm:"not null;index" json:"publication_id"`
	ParentID      *uint64   `gorm:"index" json:"parent_id"`
	AuthorID      *uint64   `gorm:"index" json:"author_id"`
	Body          string    `gorm:"type:text;not null" json:"body"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Workspace   Workspace    `gorm:"foreignKey:WorkspaceID" json:"-"`
	Publication *Publication `gorm:"foreignKey:PublicationID" json:"-"`
	Parent      *Comment     `gorm:"foreignKey:ParentID" json:"-"`
	Author      *User        `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Reactions   []Reaction   `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
}
