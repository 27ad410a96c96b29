package dto

import (
	"time"

	"github.com/yukikurage/workspace-api/internal/models"
	"github.com/yukikurage/workspace-api/internal/utils"
)

// ChannelDTO represents a channel in API responses
type ChannelDTO struct {
	ID          uint64 `json:"id"`
	WorkspaceID uint64 `json:"workspace_id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
}

// PublicationDTO represents a publication in API responses
type PublicationDTO struct {
	ID          uint64      `json:"id"`
	WorkspaceID uint64      `json:"workspace_id"`
	ChannelID   uint64      `json:"channel_id"`
	AuthorID    *uint64     `json:"author_id"`
	Title       string      `json:"title"`
	Body        string      `json:"body"`
	Slug        *string     `json:"slug"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Author      *UserDTO    `json:"author,omitempty"`
	Channel     *ChannelDTO `json:"channel,omitempty"`
}

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID            uint64    `json:"id"`
	WorkspaceID   uint64    `json:"workspace_id"`
	PublicationID uint64    `json:"publication_id"`
	ParentID      *uint64   `json:"parent_id"`
	AuthorID      *uint64   `json:"author_id"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Author        *UserDTO  `json:"author,omitempty"`
}

// ReactionDTO represents a reaction in API responses
type ReactionDTO struct {
	ID            uint64    `json:"id"`
	WorkspaceID   uint64    `json:"workspace_id"`
	PublicationID *uint64   `json:"publication_id"`
	CommentID     *uint64   `json:"comment_id"`
	AuthorID      uint64    `json:"author_id"`
	Type          string    `json:"type"`
	CreatedAt     time.Time `json:"created_at"`
}

// MediaDTO represents uploaded media in API responses
type MediaDTO struct {
	ID            uint64    `json:"id"`
	WorkspaceID   uint64    `json:"workspace_id"`
	PublicationID *uint64   `json:"publication_id"`
	CommentID     *uint64   `json:"comment_id"`
	AuthorID      *uint64   `json:"author_id"`
	OriginalName  string    `json:"original_name"`
	MimeType      string    `json:"mime_type"`
	Size          int64     `json:"size"`
	Path          string    `json:"path"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListResponse represents one page of items
type ListResponse[T any] struct {
	Items      []T                      `json:"items"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// Conversion functions

// ToChannelDTO converts a Channel model to ChannelDTO
func ToChannelDTO(ch models.Channel) ChannelDTO {
	return ChannelDTO{
		ID:          ch.ID,
		WorkspaceID: ch.WorkspaceID,
		Name:        ch.Name,
		Slug:        ch.Slug,
	}
}

// ToPublicationDTO converts a Publication model to PublicationDTO
func ToPublicationDTO(pub models.Publication) PublicationDTO {
	dto := PublicationDTO{
		ID:          pub.ID,
		WorkspaceID: pub.WorkspaceID,
		ChannelID:   pub.ChannelID,
		AuthorID:    pub.AuthorID,
		Title:       pub.Title,
		Body:        pub.Body,
		Slug:        pub.Slug,
		CreatedAt:   pub.CreatedAt,
		UpdatedAt:   pub.UpdatedAt,
	}

	// Include relations if preloaded
	if pub.Author != nil {
		author := ToUserDTO(*pub.Author)
		dto.Author = &author
	}
	if pub.Channel != nil {
		channel := ToChannelDTO(*pub.Channel)
		dto.Channel = &channel
	}

	return dto
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(c models.Comment) CommentDTO {
	dto := CommentDTO{
		ID:            c.ID,
		WorkspaceID:   c.WorkspaceID,
		PublicationID: c.PublicationID,
		ParentID:      c.ParentID,
		AuthorID:      c.AuthorID,
		Body:          c.Body,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.Author != nil {
		author := ToUserDTO(*c.Author)
		dto.Author = &author
	}
	return dto
}

// ToReactionDTO converts a Reaction model to ReactionDTO
func ToReactionDTO(r models.Reaction) ReactionDTO {
	return ReactionDTO{
		ID:            r.ID,
		WorkspaceID:   r.WorkspaceID,
		PublicationID: r.PublicationID,
		CommentID:     r.CommentID,
		AuthorID:      r.AuthorID,
		Type:          r.Type,
		CreatedAt:     r.CreatedAt,
	}
}

// ToMediaDTO converts a Media model to MediaDTO
func ToMediaDTO(m models.Media) MediaDTO {
	return MediaDTO{
		ID:            m.ID,
		WorkspaceID:   m.WorkspaceID,
		PublicationID: m.PublicationID,
		CommentID:     m.CommentID,
		AuthorID:      m.AuthorID,
		OriginalName:  m.OriginalName,
		MimeType:      m.MimeType,
		Size:          m.Size,
		Path:          m.Path,
		CreatedAt:     m.CreatedAt,
	}
}

// ToListResponse converts a page of models with the given converter
func ToListResponse[M any, T any](items []M, convert func(M) T, page utils.PaginationParams, total int64) ListResponse[T] {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = convert(item)
	}
	return ListResponse[T]{
		Items:      out,
		Pagination: page.Response(total),
	}
}
