package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/workspace-api/internal/models"
	"github.com/yukikurage/workspace-api/internal/repository"
	"github.com/yukikurage/workspace-api/internal/storage"
	"github.com/yukikurage/workspace-api/internal/tenancy"
)

// CreateMediaInput describes an upload. OriginalName is kept as metadata and
// only its extension reaches the storage path.
type CreateMediaInput struct {
	ID            uint64
	PublicationID *uint64
	CommentID     *uint64
	OriginalName  string
	MimeType      string
	Content       io.Reader
}

// MediaService stores uploads in blob storage and records them in the
// database. Media is immutable once created.
type MediaService struct {
	mediaRepo repository.MediaRepository
	blobs     storage.BlobStorage
	maxBytes  int64
	logger    *zap.Logger
	writes    *WritePipeline[models.Media, *models.Media, CreateMediaInput, struct{}]
}

// NewMediaService creates a new MediaService. maxBytes <= 0 disables the size
// limit.
func NewMediaService(db *gorm.DB, mediaRepo repository.MediaRepository, blobs storage.BlobStorage, maxBytes int64, logger *zap.Logger) *MediaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &MediaService{
		mediaRepo: mediaRepo,
		blobs:     blobs,
		maxBytes:  maxBytes,
		logger:    logger,
	}

	var links LinkValidator
	hooks := WriteHooks[models.Media, CreateMediaInput, struct{}]{
		Build: func(in CreateMediaInput) *models.Media {
			mimeType := strings.TrimSpace(in.MimeType)
			if mimeType == "" {
				mimeType = "application/octet-stream"
			}
			return &models.Media{
				PublicationID: in.PublicationID,
				CommentID:     in.CommentID,
				OriginalName:  filepath.Base(strings.TrimSpace(in.OriginalName)),
				MimeType:      mimeType,
				Content:       in.Content,
			}
		},
		Links: func(ctx context.Context, tx *gorm.DB, ws *models.Workspace, m *models.Media) error {
			if err := links.MediaTarget(m); err != nil {
				return err
			}
			pub, err := loadReference[models.Publication](ctx, tx, "publication_id", m.PublicationID)
			if err != nil {
				return err
			}
			comment, err := loadReference[models.Comment](ctx, tx, "comment_id", m.CommentID)
			if err != nil {
				return err
			}
			return links.ValidateMedia(ws, m, References{Publication: pub, Comment: comment})
		},
		Before:    s.store,
		OnFailure: s.discard,
	}
	s.writes = NewWritePipeline[models.Media, *models.Media](db, hooks)

	return s
}

// CreateMedia stores the content under the active workspace and records it.
// The row is inserted only after the bytes are stored; a failed insert removes
// the stored file again.
func (s *MediaService) CreateMedia(ctx context.Context, input CreateMediaInput) (*models.Media, error) {
	if input.Content == nil {
		return nil, ErrFileRequired
	}
	return s.writes.Create(ctx, input)
}

// store writes the upload into the workspace's container.
func (s *MediaService) store(ctx context.Context, _ *gorm.DB, op Op, m *models.Media) error {
	if op != OpCreate {
		return nil
	}
	ws, ok := tenancy.FromContext(ctx)
	if !ok {
		return ErrNoActiveTenant
	}

	if err := s.blobs.EnsureContainer(ctx, ws.Slug); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	content := m.Content
	if s.maxBytes > 0 {
		content = io.LimitReader(content, s.maxBytes+1)
	}
	obj, err := s.blobs.Store(ctx, ws.Slug, content, filepath.Ext(m.OriginalName))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	m.Path = obj.Path
	m.Size = obj.Size

	if s.maxBytes > 0 && obj.Size > s.maxBytes {
		return ErrFileTooLarge
	}
	return nil
}

// discard removes a stored file whose record was never written.
func (s *MediaService) discard(ctx context.Context, m *models.Media) {
	if m.Path == "" {
		return
	}
	if err := s.blobs.Remove(context.WithoutCancel(ctx), m.Path); err != nil {
		s.logger.Warn("failed to remove orphaned media file",
			zap.String("path", m.Path),
			zap.Error(err),
		)
	}
}

// GetMedia returns a media record of the active workspace
func (s *MediaService) GetMedia(ctx context.Context, id uint64) (*models.Media, error) {
	m, err := s.mediaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "media")
	}
	return m, nil
}

// OpenMedia returns the record and a reader over its stored content. The
// caller closes the reader.
func (s *MediaService) OpenMedia(ctx context.Context, id uint64) (*models.Media, io.ReadCloser, error) {
	m, err := s.GetMedia(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Open(ctx, m.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return m, rc, nil
}

// ListMedia returns one page of media, newest first
func (s *MediaService) ListMedia(ctx context.Context, filter repository.MediaFilter) ([]models.Media, int64, error) {
	media, total, err := s.mediaRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list media: %w", err)
	}
	return media, total, nil
}

// DeleteMedia deletes the record, then its stored file. A file that cannot be
// removed is logged and left behind.
func (s *MediaService) DeleteMedia(ctx context.Context, id uint64) error {
	m, err := s.GetMedia(ctx, id)
	if err != nil {
		return err
	}
	if err := s.mediaRepo.Delete(ctx, id); err != nil {
		return notFound(err, "media")
	}
	if err := s.blobs.Remove(ctx, m.Path); err != nil {
		s.logger.Warn("failed to remove media file",
			zap.Uint64("media_id", m.ID),
			zap.String("path", m.Path),
			zap.Error(err),
		)
	}
	return nil
}
