package objstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// Store is the object-storage contract the ingestion pipeline hands off to.
type Store interface {
	// Store writes data under key and returns its public URL.
	Store(ctx context.Context, data []byte, key string) (string, error)
	// StoreFile uploads a local file under key and returns its public URL.
	StoreFile(ctx context.Context, fs afero.Fs, path, key string) (string, error)
	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error
	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) bool
	// URL returns the public URL for a key without touching the backend.
	URL(key string) string
}

// cleanKey normalizes an object key and rejects traversal attempts.
func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return key, nil
}
