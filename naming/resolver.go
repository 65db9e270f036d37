package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// defaultMaxProbes bounds collision probing so a pathological directory
// cannot spin the resolver forever.
const defaultMaxProbes = 10000

// probeSeparator sits between the base name and the collision counter.
const probeSeparator = "_"

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithMaxProbes overrides the collision probe budget.
func WithMaxProbes(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.maxProbes = n
		}
	}
}

// Resolver resolves collision-free destination paths within directories.
// Probe-and-reserve is serialized per destination directory, so two entries
// resolving the same candidate name concurrently cannot race: the loser of
// the directory lock observes the winner's reservation and probes past it.
type Resolver struct {
	fs        afero.Fs
	maxProbes int

	mu       sync.Mutex
	dirLocks map[string]*sync.Mutex
}

// NewResolver creates a resolver over the given filesystem.
func NewResolver(fs afero.Fs, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		fs:        fs,
		maxProbes: defaultMaxProbes,
		dirLocks:  make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns a collision-free path for candidate within dir and
// reserves it by creating an empty placeholder file, which the caller is
// expected to overwrite (write-to-temp plus rename keeps this atomic).
//
// With overwrite disabled, an occupied candidate probes deterministic
// numeric suffixes inserted before the extension: photo.jpg, photo_1.jpg,
// photo_2.jpg, and so on, in strictly increasing order. The probe budget is
// bounded; exhausting it returns ErrDestinationConflict.
//
// With overwrite enabled, any existing file at the candidate path is
// removed first and the candidate is used directly.
func (r *Resolver) Resolve(dir, candidate string, overwrite bool) (string, error) {
	if err := r.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	lock := r.dirLock(filepath.Clean(dir))
	lock.Lock()
	defer lock.Unlock()

	target := filepath.Join(dir, candidate)

	if overwrite {
		if exists, _ := afero.Exists(r.fs, target); exists {
			if err := r.fs.Remove(target); err != nil {
				return "", fmt.Errorf("%w: %v", ErrFailedToRemoveFile, err)
			}
		}
		if err := r.reserve(target); err != nil {
			return "", err
		}
		return target, nil
	}

	if err := r.reserve(target); err == nil {
		return target, nil
	} else if !os.IsExist(err) && !isExistErr(err) {
		return "", fmt.Errorf("%w: %v", ErrFailedToReserveFile, err)
	}

	ext := filepath.Ext(candidate)
	base := strings.TrimSuffix(candidate, ext)

	for i := 1; i <= r.maxProbes; i++ {
		probed := filepath.Join(dir, base+probeSeparator+strconv.Itoa(i)+ext)
		err := r.reserve(probed)
		if err == nil {
			return probed, nil
		}
		if !os.IsExist(err) && !isExistErr(err) {
			return "", fmt.Errorf("%w: %v", ErrFailedToReserveFile, err)
		}
	}

	return "", fmt.Errorf("%w: %s in %s", ErrDestinationConflict, candidate, dir)
}

// reserve atomically claims a path by creating it with O_EXCL.
func (r *Resolver) reserve(path string) error {
	f, err := r.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

// Release removes a reservation that will not be materialized, so a later
// resolution can reuse the name.
func (r *Resolver) Release(path string) error {
	if err := r.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrFailedToRemoveFile, err)
	}
	return nil
}

func (r *Resolver) dirLock(dir string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.dirLocks[dir]; ok {
		return l
	}
	l := &sync.Mutex{}
	r.dirLocks[dir] = l
	return l
}

// isExistErr recognizes "already exists" failures from afero backends that
// do not wrap syscall errors the way os does.
func isExistErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "exists")
}
