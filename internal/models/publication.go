package models

import "time"

type Publication struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	WorkspaceID uint64    `gorm:"not null;index;uniqueIndex:uq_publications_workspace_slug,priority:1" json:"workspace_id"`
	ChannelID   uint64    `gorm:"not null;index" json:"channel_id"`
	AuthorID    *uint64   `gorm:"index" json:"author_id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Body        string    `gorm:"type:text;not null" json:"body"`
	Slug        *string   `gorm:"type:varchar(255);uniqueIndex:uq_publications_workspace_slug,priority:2" json:"slug,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Workspace Workspace  `gorm:"foreignKey:WorkspaceID" json:"-"`
	Channel   *Channel   `gorm:"foreignKey:ChannelID" json:"channel,omitempty"`
	Author    *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Comments  []Comment  `gorm:"foreignKey:PublicationID;constraint:OnDelete:CASCADE" json:"-"`
	Reactions []Reaction `gorm:"foreignKey:PublicationID;constraint:OnDelete:CASCADE" json:"-"`
	Media     []Media    `gorm:"foreignKey:PublicationID" json:"-"`
}
