package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yukikurage/workspace-api/internal/constants"
	"github.com/yukikurage/workspace-api/internal/models"
	"github.com/yukikurage/workspace-api/internal/repository"
)

// CreatePublicationInput represents input for creating a publication. ID is
// whatever the client sent and is never used as the row identity.
type CreatePublicationInput struct {
	ID        uint64
	ChannelID uint64
	Title     string
	Body      string
	Slug      string
}

// UpdatePublicationInput represents input for updating a publication
type UpdatePublicationInput struct {
	ChannelID *uint64
	Title     *string
	Body      *string
	Slug      *string
}

// PublicationService handles publication business logic
type PublicationService struct {
	publicationRepo repository.PublicationRepository
	writes          *WritePipeline[models.Publication, *models.Publication, CreatePublicationInput, UpdatePublicationInput]
}

// NewPublicationService creates a new PublicationService
func NewPublicationService(db *gorm.DB, publicationRepo repository.PublicationRepository, slugs *SlugAllocator) *PublicationService {
	var links LinkValidator

	hooks := WriteHooks[models.Publication, CreatePublicationInput, UpdatePublicationInput]{
		Build: func(in CreatePublicationInput) *models.Publication {
			pub := &models.Publication{
				ChannelID: in.ChannelID,
				Title:     strings.TrimSpace(in.Title),
				Body:      in.Body,
			}
			if slug := strings.TrimSpace(in.Slug); slug != "" {
				pub.Slug = &slug
			}
			return pub
		},
		Apply: func(pub *models.Publication, in UpdatePublicationInput) error {
			if in.ChannelID != nil {
				pub.ChannelID = *in.ChannelID
			}
			if in.Title != nil {
				title := strings.TrimSpace(*in.Title)
				if title == "" {
					return ErrTitleRequired
				}
				pub.Title = title
			}
			if in.Body != nil {
				pub.Body = *in.Body
			}
			if in.Slug != nil && (pub.Slug == nil || *pub.Slug == "") {
				if slug := strings.TrimSpace(*in.Slug); slug != "" {
					pub.Slug = &slug
				}
			}
			return nil
		},
		Links: func(ctx context.Context, tx *gorm.DB, ws *models.Workspace, pub *models.Publication) error {
			channel, err := loadReference[models.Channel](ctx, tx, "channel_id", &pub.ChannelID)
			if err != nil {
				return err
			}
			return links.ValidatePublication(ws, References{Channel: channel})
		},
		Slug: func(ctx context.Context, tx *gorm.DB, ws *models.Workspace, pub *models.Publication) error {
			if pub.Slug != nil && *pub.Slug != "" {
				if !UsableSlug(*pub.Slug) {
					return ErrInvalidSlug
				}
				return slugs.Claim(ctx, tx, "publications", ws.ID, *pub.Slug, pub.ID)
			}
			slug, err := slugs.Allocate(ctx, tx, "publications", ws.ID, pub.Title, constants.DefaultPublicationSlug)
			if err != nil {
				return err
			}
			pub.Slug = &slug
			return nil
		},
		TranslateError: slugConflict,
	}

	return &PublicationService{
		publicationRepo: publicationRepo,
		writes:          NewWritePipeline[models.Publication, *models.Publication](db, hooks),
	}
}

// CreatePublication creates a publication in a channel of the active workspace
func (s *PublicationService) CreatePublication(ctx context.Context, input CreatePublicationInput) (*models.Publication, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	return s.writes.Create(ctx, input)
}

// UpdatePublication updates a publication of the active workspace
func (s *PublicationService) UpdatePublication(ctx context.Context, id uint64, input UpdatePublicationInput) (*models.Publication, error) {
	return s.writes.Update(ctx, id, input)
}

// GetPublication returns a publication with its channel and author
func (s *PublicationService) GetPublication(ctx context.Context, id uint64) (*models.Publication, error) {
	pub, err := s.publicationRepo.FindByID(ctx, id, "Channel", "Author")
	if err != nil {
		return nil, notFound(err, "publication")
	}
	return pub, nil
}

// ListPublications returns one page of publications, newest first
func (s *PublicationService) ListPublications(ctx context.Context, filter repository.PublicationFilter) ([]models.Publication, int64, error) {
	pubs, total, err := s.publicationRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list publications: %w", err)
	}
	return pubs, total, nil
}

// DeletePublication deletes a publication with its comments and reactions
func (s *PublicationService) DeletePublication(ctx context.Context, id uint64) error {
	if err := s.publicationRepo.Delete(ctx, id); err != nil {
		return notFound(err, "publication")
	}
	return nil
}
