// Package storage keeps uploaded media bytes outside the database. Objects are
// grouped per workspace under "<workspace-slug>/" and named by the server,
// never by the client.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/yukikurage/workspace-api/internal/utils"
)

// BlobStorage stores and retrieves uploaded files.
type BlobStorage interface {
	// EnsureContainer prepares the per-workspace location for tenantKey.
	EnsureContainer(ctx context.Context, tenantKey string) error
	// Store writes r under tenantKey with a generated name and returns the
	// stable path and the number of bytes written.
	Store(ctx context.Context, tenantKey string, r io.Reader, ext string) (*Object, error)
	// Open returns the content stored at path.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// Remove deletes the object at path. Removing a missing object is not an
	// error.
	Remove(ctx context.Context, path string) error
}

// Object describes a stored blob.
type Object struct {
	Path string
	Size int64
}

// ObjectPath builds "<tenantKey>/<uuid>.<ext>". Names carry no coordination
// state, so concurrent uploads into one workspace never collide.
func ObjectPath(tenantKey, ext string) (string, error) {
	if !validTenantKey(tenantKey) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTenantKey, tenantKey)
	}
	return tenantKey + "/" + uuid.NewString() + "." + SanitizeExtension(ext), nil
}

// SanitizeExtension keeps up to 10 lowercase ASCII letters and digits of ext
// and falls back to "bin".
func SanitizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))

	var b strings.Builder
	for _, r := range ext {
		if b.Len() == 10 {
			break
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "bin"
	}
	return b.String()
}

func validTenantKey(key string) bool {
	return key != "" && utils.Slugify(key) == key
}
