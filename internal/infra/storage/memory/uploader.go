package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Uploader is an in-memory object store for tests and unconfigured dev runs.
// Public URLs follow the {base}/{bucket}/{key} shape of the real store.
type Uploader struct {
	Bucket  string
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

func NewUploader(bucket, baseURL string) *Uploader {
	return &Uploader{
		Bucket:  bucket,
		BaseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string][]byte),
	}
}

func (u *Uploader) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	if reader == nil {
		return "", errors.New("memory: reader is required")
	}
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return "", errors.New("memory: object key is required")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("memory: read object: %w", err)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if _, exists := u.objects[key]; exists {
		return "", fmt.Errorf("memory: object %q already exists", key)
	}
	u.objects[key] = data
	return fmt.Sprintf("%s/%s/%s", u.BaseURL, u.Bucket, key), nil
}

func (u *Uploader) Remove(ctx context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, strings.Trim(strings.TrimSpace(key), "/"))
	return nil
}

// Has reports whether an object exists under key.
func (u *Uploader) Has(key string) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	_, ok := u.objects[key]
	return ok
}

// Len returns the number of stored objects.
func (u *Uploader) Len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.objects)
}
