package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"roomly/internal/domain/rooms"
)

// DefaultBucket is the object-store bucket holding room images. Public URLs
// embed it, which is what makes storage keys derivable again.
const DefaultBucket = "room-images"

var ErrUploaderUnavailable = errors.New("assets: uploader is not configured")

// allowed lowercase image extensions; anything else is skipped, not fatal.
var allowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"webp": {},
}

// Uploader stores and removes keyed objects in the external store.
type Uploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (publicURL string, err error)
	Remove(ctx context.Context, key string) error
}

// File is a single image submitted for upload.
type File struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// Manager validates image files, uploads them under owner-scoped keys and
// removes detached objects best-effort.
type Manager struct {
	Uploader Uploader
	Bucket   string
	Logger   *slog.Logger
	// KeyToken produces the collision-avoiding token inside storage keys.
	// Defaults to uuid.NewString.
	KeyToken func() string
}

// ValidExtension reports whether the filename carries an allowed image
// extension (case-insensitive).
func ValidExtension(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	_, ok := allowedExtensions[ext]
	return ok
}

// Upload stores each valid file under {owner}/{token}-{filename} and returns
// the public URLs in submission order. Files with an unsupported extension
// are skipped with a log note. The first storage failure aborts the batch;
// objects uploaded before it are not rolled back.
func (m *Manager) Upload(ctx context.Context, owner rooms.OwnerID, files []File) ([]string, error) {
	if m.Uploader == nil {
		return nil, ErrUploaderUnavailable
	}
	if strings.TrimSpace(string(owner)) == "" {
		return nil, rooms.ErrOwnerRequired
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		if file.Reader == nil {
			continue
		}
		if !ValidExtension(file.Name) {
			if m.Logger != nil {
				m.Logger.Warn("skipping unsupported image file", "file", file.Name)
			}
			continue
		}
		key := fmt.Sprintf("%s/%s-%s", owner, m.keyToken(), path.Base(file.Name))
		contentType := file.ContentType
		if contentType == "" {
			contentType = "image/jpeg"
		}
		url, err := m.Uploader.Upload(ctx, key, file.Reader, contentType)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", file.Name, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// StorageKey derives the object key from a public URL by locating the bucket
// path marker. The second return is false when the marker is absent
// (malformed or foreign URL); callers must treat that as "skip deletion".
func (m *Manager) StorageKey(publicURL string) (string, bool) {
	marker := "/" + m.bucket() + "/"
	idx := strings.Index(publicURL, marker)
	if idx == -1 {
		return "", false
	}
	key := publicURL[idx+len(marker):]
	if key == "" {
		return "", false
	}
	return key, true
}

// Remove deletes the object behind the URL, best-effort. The authoritative
// image set has already been persisted by the time this runs, so failures
// are logged and swallowed.
func (m *Manager) Remove(ctx context.Context, publicURL string) {
	if m.Uploader == nil {
		return
	}
	key, ok := m.StorageKey(publicURL)
	if !ok {
		if m.Logger != nil {
			m.Logger.Debug("storage key not derivable, skipping deletion", "url", publicURL)
		}
		return
	}
	if err := m.Uploader.Remove(ctx, key); err != nil && m.Logger != nil {
		m.Logger.Warn("orphaned object left in store", "key", key, "error", err)
	}
}

func (m *Manager) keyToken() string {
	if m.KeyToken != nil {
		return m.KeyToken()
	}
	return uuid.NewString()
}

func (m *Manager) bucket() string {
	if m.Bucket != "" {
		return m.Bucket
	}
	return DefaultBucket
}
