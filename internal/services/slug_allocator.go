package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/yukikurage/workspace-api/internal/tenancy"
	"github.com/yukikurage/workspace-api/internal/utils"
)

// maxStoredSlugLength is the size of the slug columns.
const maxStoredSlugLength = 255

// SlugAllocator derives workspace-unique slugs from human names.
//
// The collision probe and the insert that follows are not atomic: two writers
// allocating the same base name in the same workspace can both see a slug as
// free. The (workspace_id, slug) unique index decides the race and the losing
// insert fails with ErrSlugConflict, which callers may retry. Explicit slugs
// are kept verbatim and only checked with Claim.
type SlugAllocator struct {
	// MaxAttempts bounds the suffix search; 0 means no bound.
	MaxAttempts int
}

func NewSlugAllocator() *SlugAllocator {
	return &SlugAllocator{MaxAttempts: 1000}
}

// Allocate returns the first free slug among base, base-2, base-3, ... in the
// given table for the workspace. base is derived from name and falls back to
// fallback when name yields no usable characters.
func (a *SlugAllocator) Allocate(ctx context.Context, tx *gorm.DB, table string, workspaceID uint64, name, fallback string) (string, error) {
	base := utils.Slugify(name)
	if base == "" {
		base = fallback
	}

	// The probe filters by workspace explicitly and must see rows regardless
	// of which tenant the context holds.
	probe := tx.WithContext(tenancy.WithoutScope(ctx))

	candidate := base
	for i := 2; ; i++ {
		var count int64
		err := probe.Table(table).
			Where("workspace_id = ? AND slug = ?", workspaceID, candidate).
			Count(&count).Error
		if err != nil {
			return "", fmt.Errorf("failed to probe slug: %w", err)
		}
		if count == 0 {
			return candidate, nil
		}
		if a.MaxAttempts > 0 && i > a.MaxAttempts {
			return "", ErrSlugConflict
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// Claim checks that an explicit slug is free in the workspace. excludeID is
// the row being updated, 0 on create. A taken slug is ErrSlugTaken, which a
// retry cannot fix.
func (a *SlugAllocator) Claim(ctx context.Context, tx *gorm.DB, table string, workspaceID uint64, slug string, excludeID uint64) error {
	var count int64
	err := tx.WithContext(tenancy.WithoutScope(ctx)).
		Table(table).
		Where("workspace_id = ? AND slug = ? AND id <> ?", workspaceID, slug, excludeID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to probe slug: %w", err)
	}
	if count > 0 {
		return ErrSlugTaken
	}
	return nil
}

// ValidSlug reports whether slug is already in canonical form.
func ValidSlug(slug string) bool {
	return slug != "" && len(slug) <= utils.MaxSlugLength && utils.Slugify(slug) == slug
}

// UsableSlug reports whether a caller-supplied slug can be stored as is. It
// must fit the column and contain no path separators or control characters.
func UsableSlug(slug string) bool {
	if slug == "" || len(slug) > maxStoredSlugLength || !utf8.ValidString(slug) {
		return false
	}
	return !strings.ContainsFunc(slug, func(r rune) bool {
		return r == '/' || r == '\\' || unicode.IsControl(r)
	})
}
