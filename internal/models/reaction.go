package models

import "time"

// Reaction targets exactly one of a publication or a comment. A user reacts to
// a given target with a given type at most once; the two unique indexes below
// enforce that, NULL targets never collide.
type Reaction struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	WorkspaceID   uint64    `gorm:"not null;index" json:"workspace_id"`
	PublicationID *uint64   `gorm:"uniqueIndex:uq_reactions_publication_author_type,priority:1" json:"publication_id"`
	CommentID     *uint64   `gorm:"uniqueIndex:uq_reactions_comment_author_type,priority:1" json:"comment_id"`
	AuthorID      uint64    `gorm:"not null;uniqueIndex:uq_reactions_publication_author_type,priority:2;uniqueIndex:uq_reactions_comment_author_type,priority:2" json:"author_id"`
	Type          string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_reactions_publication_author_type,priority:3;uniqueIndex:uq_reactions_comment_author_type,priority:3" json:"type"`
	CreatedAt     time.Time `json:"created_at"`

	// Relations
	Workspace   Workspace    `gorm:"foreignKey:WorkspaceID" json:"-"`
	Publication *Publication `gorm:"foreignKey:PublicationID" json:"-"`
	Comment     *Comment     `gorm:"foreignKey:CommentID" json:"-"`
	Author      *User        `gorm:"foreignKey:AuthorID" json:"-"`
}
