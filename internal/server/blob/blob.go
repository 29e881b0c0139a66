// Package blob stores uploaded resume files, either on the local disk or in
// an S3-compatible bucket.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/thonhub/thonhub/internal/filex"
)

var ErrInvalidKey = errors.New("invalid blob key")

// Store is the minimal object storage contract used by the backend.
type Store interface {
	// Put writes size bytes from r under key.
	Put(ctx context.Context, key string, r io.ReadSeeker, size int64, contentType string) error
	// Open returns a reader over the object stored at key. Missing objects
	// yield common.ErrNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// URL returns a location the object can be fetched from.
	URL(ctx context.Context, key string) (string, error)
}

var now = time.Now

// NewKey returns a fresh object key for an upload named filename, grouped by
// day: resumes/2025/5/1/<uuid>-<safe name>.
func NewKey(filename string) string {
	d := now()
	return fmt.Sprintf("resumes/%d/%d/%d/%s-%s", d.Year(), d.Month(), d.Day(), uuid.New(), filex.SafeName(filename))
}

// cleanKey rejects keys that would escape the store root.
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	c := path.Clean(key)
	if c == "." || c == ".." || strings.HasPrefix(c, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return c, nil
}
