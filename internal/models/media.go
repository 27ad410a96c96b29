package models

import (
	"io"
	"time"
)

// Media describes an uploaded file. Path is the storage key generated by the
// server; OriginalName is the client-supplied name and is never used as a path.
type Media struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	WorkspaceID   uint64    `gorm:"not null;index" json:"workspace_id"`
	PublicationID *uint64   `gorm:"index" json:"publication_id"`
	CommentID     *uint64   `gorm:"index" json:"comment_id"`
	AuthorID      *uint64   `gorm:"index" json:"author_id"`
	OriginalName  string    `gorm:"type:varchar(255);not null" json:"original_name"`
	MimeType      string    `gorm:"type:varchar(255);not null" json:"mime_type"`
	Size          int64     `gorm:"not null" json:"size"`
	Path          string    `gorm:"type:varchar(255);not null" json:"path"`
	CreatedAt     time.Time `json:"created_at"`

	// Content is the uploaded byte stream while the record is being created.
	Content io.Reader `gorm:"-" json:"-"`

	// Relations
	Workspace   Workspace    `gorm:"foreignKey:WorkspaceID" json:"-"`
	Publication *Publication `gorm:"foreignKey:PublicationID" json:"-"`
	Comment     *Comment     `gorm:"foreignKey:CommentID" json:"-"`
	Author      *User        `gorm:"foreignKey:AuthorID" json:"-"`
}
