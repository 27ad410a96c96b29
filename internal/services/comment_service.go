package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yukikurage/workspace-api/internal/models"
	"github.com/yukikurage/workspace-api/internal/repository"
)

// CreateCommentInput represents input for creating a comment. ID is whatever
// the client sent and is never used as the row identity.
type CreateCommentInput struct {
	ID            uint64
	PublicationID uint64
	ParentID      *uint64
	Body          string
}

// UpdateCommentInput represents input for updating a comment
type UpdateCommentInput struct {
	Body *string
}

// CommentService handles comment business logic
type CommentService struct {
	commentRepo repository.CommentRepository
	writes      *WritePipeline[models.Comment, *models.Comment, CreateCommentInput, UpdateCommentInput]
}

// NewCommentService creates a new CommentService
func NewCommentService(db *gorm.DB, commentRepo repository.CommentRepository) *CommentService {
	var links LinkValidator

	hooks := WriteHooks[models.Comment, CreateCommentInput, UpdateCommentInput]{
		Build: func(in CreateCommentInput) *models.Comment {
			return &models.Comment{
				PublicationID: in.PublicationID,
				ParentID:      in.ParentID,
				Body:          strings.TrimSpace(in.Body),
			}
		},
		Apply: func(c *models.Comment, in UpdateCommentInput) error {
			if in.Body != nil {
				body := strings.TrimSpace(*in.Body)
				if body == "" {
					return ErrBodyRequired
				}
				c.Body = body
			}
			return nil
		},
		Links: func(ctx context.Context, tx *gorm.DB, ws *models.Workspace, c *models.Comment) error {
			pub, err := loadReference[models.Publication](ctx, tx, "publication_id", &c.PublicationID)
			if err != nil {
				return err
			}
			parent, err := loadReference[models.Comment](ctx, tx, "parent_id", c.ParentID)
			if err != nil {
				return err
			}
			return links.ValidateComment(ws, References{Publication: pub, Parent: parent})
		},
	}

	return &CommentService{
		commentRepo: commentRepo,
		writes:      NewWritePipeline[models.Comment, *models.Comment](db, hooks),
	}
}

// CreateComment creates a comment on a publication of the active workspace
func (s *CommentService) CreateComment(ctx context.Context, input CreateCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(input.Body) == "" {
		return nil, ErrBodyRequired
	}
	return s.writes.Create(ctx, input)
}

// UpdateComment updates a comment of the active workspace
func (s *CommentService) UpdateComment(ctx context.Context, id uint64, input UpdateCommentInput) (*models.Comment, error) {
	return s.writes.Update(ctx, id, input)
}

// GetComment returns a comment with its author
func (s *CommentService) GetComment(ctx context.Context, id uint64) (*models.Comment, error) {
	c, err := s.commentRepo.FindByID(ctx, id, "Author")
	if err != nil {
		return nil, notFound(err, "comment")
	}
	return c, nil
}

// ListComments returns one page of comments, oldest first
func (s *CommentService) ListComments(ctx context.Context, filter repository.CommentFilter) ([]models.Comment, int64, error) {
	comments, total, err := s.commentRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, total, nil
}

// DeleteComment deletes a comment and its reactions
func (s *CommentService) DeleteComment(ctx context.Context, id uint64) error {
	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return notFound(err, "comment")
	}
	return nil
}
