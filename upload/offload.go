package upload

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/dmitrymomot/uploadkit/objstore"
)

// Offload copies a recorded entry's files into the object store and returns
// the public URL per label, with the original file under the "original"
// label. Keys are keyPrefix joined with each file's base name. With
// removeLocal set, the local copies are deleted after every upload
// succeeded; a partial offload leaves the local files in place.
func (p *Pipeline) Offload(ctx context.Context, e *Entry, store objstore.Store, keyPrefix string, removeLocal bool) (map[string]string, error) {
	if e == nil || e.Status != StatusRecorded {
		return nil, fmt.Errorf("%w: offload requires a recorded entry", ErrInvalidStatus)
	}

	files := map[string]string{"original": e.Path}
	for label, derived := range e.Derived {
		files[label] = derived
	}

	urls := make(map[string]string, len(files))
	var stored []string
	for label, local := range files {
		key := path.Join(keyPrefix, filepath.Base(local))
		url, err := store.StoreFile(ctx, p.fs, local, key)
		if err != nil {
			// Best effort undo so the remote side holds no partial batch
			for _, k := range stored {
				_ = store.Delete(ctx, k)
			}
			return nil, fmt.Errorf("%w: offload %q: %v", ErrIOFailure, label, err)
		}
		stored = append(stored, key)
		urls[label] = url
	}

	if removeLocal {
		p.cleanupFiles(e)
	}

	p.log.InfoContext(ctx, "entry offloaded",
		slog.String("field", e.Field),
		slog.String("prefix", keyPrefix),
		slog.Int("files", len(urls)),
	)
	return urls, nil
}
