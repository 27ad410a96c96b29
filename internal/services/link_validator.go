package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yukikurage/workspace-api/internal/models"
	"github.com/yukikurage/workspace-api/internal/tenancy"
)

// References holds the entities a write points at, already loaded. A nil
// field means the reference is unset.
type References struct {
	Channel     *models.Channel
	Publication *models.Publication
	Comment     *models.Comment
	Parent      *models.Comment
}

// LinkValidator checks that every reference of a tenant-scoped write stays
// inside the active workspace. It has no side effects and never touches the
// database.
type LinkValidator struct{}

func (LinkValidator) ValidatePublication(ws *models.Workspace, refs References) error {
	if refs.Channel == nil {
		return linkError("channel_id", ErrReferenceNotFound)
	}
	if refs.Channel.WorkspaceID != ws.ID {
		return linkError("channel_id", ErrCrossTenantReference)
	}
	return nil
}

func (LinkValidator) ValidateComment(ws *models.Workspace, refs References) error {
	if refs.Publication == nil {
		return linkError("publication_id", ErrReferenceNotFound)
	}
	if refs.Publication.WorkspaceID != ws.ID {
		return linkError("publication_id", ErrCrossTenantReference)
	}
	if refs.Parent != nil {
		if refs.Parent.WorkspaceID != ws.ID {
			return linkError("parent_id", ErrCrossTenantReference)
		}
		if refs.Parent.PublicationID != refs.Publication.ID {
			return linkError("parent_id", ErrParentMismatch)
		}
	}
	return nil
}

// ReactionTarget checks that exactly one target is set. It only looks at the
// ids, so it runs before anything is loaded.
func (LinkValidator) ReactionTarget(r *models.Reaction) error {
	if (r.PublicationID == nil) == (r.CommentID == nil) {
		return ErrInvalidReactionTarget
	}
	return nil
}

func (v LinkValidator) ValidateReaction(ws *models.Workspace, r *models.Reaction, refs References) error {
	if err := v.ReactionTarget(r); err != nil {
		return err
	}
	if r.PublicationID != nil {
		return sameTenant(ws, "publication_id", refs.Publication)
	}
	return sameTenant(ws, "comment_id", refs.Comment)
}

// MediaTarget checks that at most one attachment target is set.
func (LinkValidator) MediaTarget(m *models.Media) error {
	if m.PublicationID != nil && m.CommentID != nil {
		return ErrInvalidMediaTarget
	}
	return nil
}

func (v LinkValidator) ValidateMedia(ws *models.Workspace, m *models.Media, refs References) error {
	if err := v.MediaTarget(m); err != nil {
		return err
	}
	if m.PublicationID != nil {
		return sameTenant(ws, "publication_id", refs.Publication)
	}
	if m.CommentID != nil {
		return sameTenant(ws, "comment_id", refs.Comment)
	}
	return nil
}

func sameTenant[T models.TenantScoped](ws *models.Workspace, field string, ref *T) error {
	if ref == nil {
		return linkError(field, ErrReferenceNotFound)
	}
	if (*ref).GetWorkspaceID() != ws.ID {
		return linkError(field, ErrCrossTenantReference)
	}
	return nil
}

// loadReference fetches the referenced row with the tenant scope bypassed, so
// a row owned by another workspace is found and reported as a cross-tenant
// reference rather than as missing. A nil id loads nothing.
func loadReference[T any](ctx context.Context, tx *gorm.DB, field string, id *uint64) (*T, error) {
	if id == nil {
		return nil, nil
	}

	var ref T
	err := tx.WithContext(tenancy.WithoutScope(ctx)).First(&ref, *id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, linkError(field, ErrReferenceNotFound)
		}
		return nil, fmt.Errorf("failed to load %s: %w", field, err)
	}
	return &ref, nil
}
