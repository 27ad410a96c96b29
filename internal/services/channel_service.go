package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yukikurage/workspace-api/internal/constants"
	"github.com/yukikurage/workspace-api/internal/database"
	"github.com/yukikurage/workspace-api/internal/models"
	"github.com/yukikurage/workspace-api/internal/repository"
	"github.com/yukikurage/workspace-api/internal/utils"
)

// CreateChannelInput represents input for creating a channel. ID is whatever
// the client sent and is never used as the row identity.
type CreateChannelInput struct {
	ID   uint64
	Name string
	Slug string
}

// UpdateChannelInput represents input for updating a channel
type UpdateChannelInput struct {
	Name *string
	Slug *string
}

// ChannelService handles channel business logic
type ChannelService struct {
	channelRepo repository.ChannelRepository
	writes      *WritePipeline[models.Channel, *models.Channel, CreateChannelInput, UpdateChannelInput]
}

// NewChannelService creates a new ChannelService
func NewChannelService(db *gorm.DB, channelRepo repository.ChannelRepository, slugs *SlugAllocator) *ChannelService {
	hooks := WriteHooks[models.Channel, CreateChannelInput, UpdateChannelInput]{
		Build: func(in CreateChannelInput) *models.Channel {
			return &models.Channel{
				Name: strings.TrimSpace(in.Name),
				Slug: strings.TrimSpace(in.Slug),
			}
		},
		Apply: func(ch *models.Channel, in UpdateChannelInput) error {
			if in.Name != nil {
				ch.Name = strings.TrimSpace(*in.Name)
			}
			// An accepted slug is never replaced; only a blank one may be set.
			if in.Slug != nil && ch.Slug == "" {
				ch.Slug = strings.TrimSpace(*in.Slug)
			}
			return nil
		},
		Slug: func(ctx context.Context, tx *gorm.DB, ws *models.Workspace, ch *models.Channel) error {
			if ch.Slug != "" {
				if !UsableSlug(ch.Slug) {
					return ErrInvalidSlug
				}
				return slugs.Claim(ctx, tx, "channels", ws.ID, ch.Slug, ch.ID)
			}
			slug, err := slugs.Allocate(ctx, tx, "channels", ws.ID, ch.Name, constants.DefaultChannelSlug)
			if err != nil {
				return err
			}
			ch.Slug = slug
			return nil
		},
		TranslateError: slugConflict,
	}

	return &ChannelService{
		channelRepo: channelRepo,
		writes:      NewWritePipeline[models.Channel, *models.Channel](db, hooks),
	}
}

// CreateChannel creates a channel in the active workspace. A channel without
// a usable name gets the slug "channel".
func (s *ChannelService) CreateChannel(ctx context.Context, input CreateChannelInput) (*models.Channel, error) {
	return s.writes.Create(ctx, input)
}

// UpdateChannel updates a channel of the active workspace
func (s *ChannelService) UpdateChannel(ctx context.Context, id uint64, input UpdateChannelInput) (*models.Channel, error) {
	return s.writes.Update(ctx, id, input)
}

// GetChannel returns a channel of the active workspace
func (s *ChannelService) GetChannel(ctx context.Context, id uint64) (*models.Channel, error) {
	ch, err := s.channelRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "channel")
	}
	return ch, nil
}

// ListChannels returns one page of the active workspace's channels
func (s *ChannelService) ListChannels(ctx context.Context, page utils.PaginationParams) ([]models.Channel, int64, error) {
	channels, total, err := s.channelRepo.List(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list channels: %w", err)
	}
	return channels, total, nil
}

// DeleteChannel deletes a channel and its publications
func (s *ChannelService) DeleteChannel(ctx context.Context, id uint64) error {
	if err := s.channelRepo.Delete(ctx, id); err != nil {
		return notFound(err, "channel")
	}
	return nil
}

// notFound converts gorm's not-found error to ErrNotFound and wraps others.
func notFound(err error, what string) error {
	if database.IsNotFound(err) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

// slugConflict reports a unique violation at insert as ErrSlugConflict. Slugs
// are probed first, so it only happens when a concurrent write won the race.
func slugConflict(err error) error {
	if database.IsDuplicateKeyError(err) {
		return ErrSlugConflict
	}
	return err
}
