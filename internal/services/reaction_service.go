package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/yukikurage/workspace-api/internal/constants"
	"github.com/yukikurage/workspace-api/internal/database"
	"github.com/yukikurage/workspace-api/internal/models"
	"github.com/yukikurage/workspace-api/internal/repository"
)

// CreateReactionInput represents input for creating a reaction. Exactly one
// of PublicationID and CommentID must be set.
type CreateReactionInput struct {
	ID            uint64
	PublicationID *uint64
	CommentID     *uint64
	Type          string
}

// ReactionService handles reaction business logic. Reactions are never
// updated; a user removes one and adds another.
type ReactionService struct {
	reactionRepo repository.ReactionRepository
	writes       *WritePipeline[models.Reaction, *models.Reaction, CreateReactionInput, struct{}]
}

// NewReactionService creates a new ReactionService
func NewReactionService(db *gorm.DB, reactionRepo repository.ReactionRepository) *ReactionService {
	var links LinkValidator

	hooks := WriteHooks[models.Reaction, CreateReactionInput, struct{}]{
		Build: func(in CreateReactionInput) *models.Reaction {
			return &models.Reaction{
				PublicationID: in.PublicationID,
				CommentID:     in.CommentID,
				Type:          strings.TrimSpace(in.Type),
			}
		},
		Links: func(ctx context.Context, tx *gorm.DB, ws *models.Workspace, r *models.Reaction) error {
			if err := links.ReactionTarget(r); err != nil {
				return err
			}
			pub, err := loadReference[models.Publication](ctx, tx, "publication_id", r.PublicationID)
			if err != nil {
				return err
			}
			comment, err := loadReference[models.Comment](ctx, tx, "comment_id", r.CommentID)
			if err != nil {
				return err
			}
			return links.ValidateReaction(ws, r, References{Publication: pub, Comment: comment})
		},
		Before: func(_ context.Context, _ *gorm.DB, _ Op, r *models.Reaction) error {
			if r.AuthorID == 0 {
				return ErrAuthenticationNeeded
			}
			return nil
		},
		TranslateError: func(err error) error {
			if database.IsDuplicateKeyError(err) {
				return ErrDuplicateReaction
			}
			return err
		},
	}

	return &ReactionService{
		reactionRepo: reactionRepo,
		writes:       NewWritePipeline[models.Reaction, *models.Reaction](db, hooks),
	}
}

// CreateReaction records the caller's reaction to a publication or a comment
func (s *ReactionService) CreateReaction(ctx context.Context, input CreateReactionInput) (*models.Reaction, error) {
	reactionType := strings.TrimSpace(input.Type)
	if reactionType == "" {
		return nil, ErrReactionTypeRequired
	}
	if utf8.RuneCountInString(reactionType) > constants.MaxReactionTypeLen {
		return nil, ErrReactionTypeTooLong
	}
	return s.writes.Create(ctx, input)
}

// GetReaction returns a reaction of the active workspace
func (s *ReactionService) GetReaction(ctx context.Context, id uint64) (*models.Reaction, error) {
	r, err := s.reactionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "reaction")
	}
	return r, nil
}

// ListReactions returns one page of reactions
func (s *ReactionService) ListReactions(ctx context.Context, filter repository.ReactionFilter) ([]models.Reaction, int64, error) {
	reactions, total, err := s.reactionRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reactions: %w", err)
	}
	return reactions, total, nil
}

// DeleteReaction deletes a reaction
func (s *ReactionService) DeleteReaction(ctx context.Context, id uint64) error {
	if err := s.reactionRepo.Delete(ctx, id); err != nil {
		return notFound(err, "reaction")
	}
	return nil
}
