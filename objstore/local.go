package objstore

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Local implements Store on a directory of an afero filesystem.
// All objects live under the base directory; keys resolving outside it are
// rejected.
type Local struct {
	fs      afero.Fs
	baseDir string
	baseURL string
}

// NewLocal creates a local object store rooted at baseDir.
// baseURL is the public prefix for served objects (e.g. "/files/").
func NewLocal(fs afero.Fs, baseDir, baseURL string) (*Local, error) {
	if baseDir == "" {
		return nil, ErrInvalidConfig
	}

	baseDir = filepath.Clean(baseDir)
	if err := fs.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToWrite, err)
	}

	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &Local{fs: fs, baseDir: baseDir, baseURL: baseURL}, nil
}

func (s *Local) Store(ctx context.Context, data []byte, key string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}

	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToWrite, err)
	}
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToWrite, err)
	}

	return s.URL(key), nil
}

func (s *Local) StoreFile(ctx context.Context, fs afero.Fs, path, key string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToRead, err)
	}
	return s.Store(ctx, data, key)
}

func (s *Local) Delete(ctx context.Context, key string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if exists, _ := afero.Exists(s.fs, path); !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err := s.fs.Remove(path); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToDelete, err)
	}
	return nil
}

func (s *Local) Exists(ctx context.Context, key string) bool {
	select {
	case <-ctx.Done():
		return false
	default:
	}

	path, err := s.resolve(key)
	if err != nil {
		return false
	}
	exists, _ := afero.Exists(s.fs, path)
	return exists
}

func (s *Local) URL(key string) string {
	key = strings.TrimPrefix(filepath.ToSlash(filepath.Clean(key)), "/")
	return s.baseURL + key
}

// resolve maps a key onto the base directory, keeping the result inside it.
func (s *Local) resolve(key string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.baseDir, filepath.Clean(key))
	if !strings.HasPrefix(path, s.baseDir+string(filepath.Separator)) && path != s.baseDir {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return path, nil
}
