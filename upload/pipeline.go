package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/uploadkit/clamav"
	"github.com/dmitrymomot/uploadkit/filetype"
	"github.com/dmitrymomot/uploadkit/naming"
)

// Pipeline ingests files: validate, resolve a collision-free destination,
// materialize bytes, optionally transform images, record metadata.
// Safe for concurrent use; each entry is processed by a single goroutine.
type Pipeline struct {
	cfg        Config
	fs         afero.Fs
	log        *slog.Logger
	registry   *filetype.Registry
	scanner    clamav.Scanner
	httpClient *http.Client
	resolver   *naming.Resolver
	validator  *Validator
	now        func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithFs substitutes the filesystem, typically afero.NewMemMapFs in tests.
func WithFs(fs afero.Fs) Option {
	return func(p *Pipeline) { p.fs = fs }
}

// WithLogger attaches a structured logger. Silent by default.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// WithRegistry replaces the default type registry.
func WithRegistry(r *filetype.Registry) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.registry = r
		}
	}
}

// WithScanner attaches the malware scanner consulted when scanning is
// enabled in the config.
func WithScanner(s clamav.Scanner) Option {
	return func(p *Pipeline) { p.scanner = s }
}

// WithHTTPClient substitutes the client used for remote imports.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.httpClient = c
		}
	}
}

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a pipeline for the given configuration.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:        cfg,
		fs:         afero.NewOsFs(),
		log:        slog.New(slog.DiscardHandler),
		httpClient: http.DefaultClient,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.registry == nil {
		p.registry = filetype.NewWithDefaults()
	}

	p.resolver = naming.NewResolver(p.fs)
	p.validator = NewValidator(p.registry, p.scanner, cfg.maxBytes(), cfg.ScanEnabled, cfg.ScanFailOpen, p.log)

	for _, dir := range []string{cfg.TempDir, cfg.UploadDir} {
		if err := p.fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIOFailure, err)
		}
	}

	return p, nil
}

// Process ingests a single source through the full lifecycle and applies
// the given transforms to the materialized file. The returned entry is
// always non-nil; on failure its Status is Rejected and Err carries the
// cause, which is also returned.
func (p *Pipeline) Process(ctx context.Context, src Source, ops ...TransformOp) (*Entry, error) {
	e := &Entry{
		Field:        src.Field,
		OriginalName: src.Name,
		Ext:          extOf(src.Name),
		Kind:         src.Kind,
		SourcePath:   src.location(),
		UploadedAt:   p.now(),
		Derived:      make(map[string]string),
		Status:       StatusPending,
	}

	stage, err := p.stage(ctx, src)
	if err != nil {
		return e, e.reject(err)
	}
	defer p.discardStage(stage)

	if info, err := p.fs.Stat(stage); err == nil {
		e.Size = info.Size()
	}

	// Pending -> Validated | Rejected
	if err := p.validator.Validate(ctx, p.fs, e, stage); err != nil {
		p.log.InfoContext(ctx, "upload rejected",
			slog.String("field", e.Field),
			slog.String("name", e.OriginalName),
			slog.Any("error", err),
		)
		return e, e.reject(err)
	}
	_ = e.transition(StatusValidated)

	// Validated -> DestinationResolved
	name := naming.Format(src.Name,
		naming.WithAppend(p.cfg.Append),
		naming.WithPrepend(p.cfg.Prepend),
		naming.WithMaxLength(p.cfg.MaxNameLength),
		naming.WithFallbackExt(e.Ext),
	)
	dest, err := p.resolver.Resolve(p.cfg.UploadDir, name, p.cfg.Overwrite)
	if err != nil {
		return e, e.reject(err)
	}
	_ = e.transition(StatusDestinationResolved)

	// DestinationResolved -> Materialized
	if err := p.materialize(stage, dest); err != nil {
		_ = p.resolver.Release(dest)
		return e, e.reject(err)
	}
	e.Path = dest
	_ = e.transition(StatusMaterialized)

	if e.IsImage() {
		if err := p.probeDimensions(e); err != nil {
			p.cleanupFiles(e)
			return e, e.reject(err)
		}
	}

	// Materialized -> (Transformed)*
	for _, op := range ops {
		if err := p.applyTransform(ctx, e, op); err != nil {
			p.cleanupFiles(e)
			return e, e.reject(err)
		}
		_ = e.transition(StatusTransformed)
	}

	// -> Recorded
	_ = e.transition(StatusRecorded)
	p.log.InfoContext(ctx, "upload recorded",
		slog.String("field", e.Field),
		slog.String("path", e.Path),
		slog.String("group", e.Group),
		slog.String("size", humanize.IBytes(uint64(e.Size))),
	)
	return e, nil
}

// ProcessAll ingests a batch of sources, processing independent entries in
// parallel. All entries reach a terminal state before the rollback
// decision. With rollback enabled (the default), any rejection deletes
// every materialized file from the batch; entries whose files were removed
// are marked rejected with ErrRolledBack. The aggregate error joins the
// individual field failures.
func (p *Pipeline) ProcessAll(ctx context.Context, srcs ...Source) ([]*Entry, error) {
	entries := make([]*Entry, len(srcs))

	g, gctx := errgroup.WithContext(ctx)
	if p.cfg.MaxConcurrent > 0 {
		g.SetLimit(p.cfg.MaxConcurrent)
	}

	for i, src := range srcs {
		g.Go(func() error {
			// Failures stay on the entry so sibling uploads keep running;
			// the batch decision happens after every entry is terminal.
			entries[i], _ = p.Process(gctx, src)
			return nil
		})
	}
	_ = g.Wait()

	var failures []error
	for _, e := range entries {
		if e.Status == StatusRejected {
			failures = append(failures, fmt.Errorf("field %q: %w", e.Field, e.Err))
		}
	}
	if len(failures) == 0 {
		return entries, nil
	}

	if p.cfg.RollbackOnFailure {
		p.Rollback(ctx, entries)
	}

	return entries, errors.Join(failures...)
}

// Rollback deletes the materialized and derived files of every non-rejected
// entry and marks those entries rejected with ErrRolledBack. Exported for
// callers that disable automatic batch rollback.
func (p *Pipeline) Rollback(ctx context.Context, entries []*Entry) {
	for _, e := range entries {
		if e == nil || e.Status == StatusRejected || e.Path == "" {
			continue
		}
		p.cleanupFiles(e)
		_ = e.reject(ErrRolledBack)
		p.log.InfoContext(ctx, "upload rolled back",
			slog.String("field", e.Field),
			slog.String("path", e.Path),
		)
	}
}

// stage copies the source's bytes to a uniquely named file in the temp
// directory, before any validation has happened.
func (p *Pipeline) stage(ctx context.Context, src Source) (string, error) {
	r, err := p.open(ctx, src)
	if err != nil {
		return "", err
	}
	defer func() { _ = r.Close() }()

	stage := filepath.Join(p.cfg.TempDir, uuid.NewString()+".stage")
	f, err := p.fs.OpenFile(stage, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIOFailure, err)
	}

	_, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		_ = p.fs.Remove(stage)
		err := copyErr
		if err == nil {
			err = closeErr
		}
		if src.Kind.isImport() {
			return "", fmt.Errorf("%w: %v", ErrIOFailure, err)
		}
		return "", fmt.Errorf("%w: %v", ErrTransferIncomplete, err)
	}

	return stage, nil
}

// open produces the source's byte stream.
func (p *Pipeline) open(ctx context.Context, src Source) (io.ReadCloser, error) {
	switch src.Kind {
	case SourceForm:
		if src.fh == nil {
			return nil, fmt.Errorf("%w: form field %q", ErrNilSource, src.Field)
		}
		f, err := src.fh.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransferIncomplete, err)
		}
		return f, nil

	case SourceStream:
		if src.reader == nil {
			return nil, fmt.Errorf("%w: stream field %q", ErrNilSource, src.Field)
		}
		return io.NopCloser(src.reader), nil

	case SourceLocalImport:
		f, err := p.fs.Open(src.path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIOFailure, err)
		}
		return f, nil

	case SourceRemoteImport:
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.url, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIOFailure, err)
		}
		resp, err := p.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIOFailure, err)
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("%w: remote returned status %d", ErrIOFailure, resp.StatusCode)
		}
		return resp.Body, nil
	}

	return nil, fmt.Errorf("%w: unknown source kind %q", ErrNilSource, src.Kind)
}

// materialize moves staged bytes into the reserved destination.
func (p *Pipeline) materialize(stage, dest string) error {
	if err := p.replaceFile(stage, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	return nil
}

// replaceFile renames src over dst, tolerating backends that refuse to
// rename onto an existing file (the destination is our own reservation).
func (p *Pipeline) replaceFile(src, dst string) error {
	if err := p.fs.Rename(src, dst); err == nil {
		return nil
	}
	if err := p.fs.Remove(dst); err != nil && !os.IsNotExist(err) {
		return err
	}
	return p.fs.Rename(src, dst)
}

// discardStage removes a leftover staging file, if any.
func (p *Pipeline) discardStage(stage string) {
	if stage == "" {
		return
	}
	if exists, _ := afero.Exists(p.fs, stage); exists {
		_ = p.fs.Remove(stage)
	}
}

// cleanupFiles removes the entry's materialized file and all derived files.
func (p *Pipeline) cleanupFiles(e *Entry) {
	if e.Path != "" {
		_ = p.fs.Remove(e.Path)
	}
	for _, path := range e.Derived {
		_ = p.fs.Remove(path)
	}
}

// probeDimensions reads the materialized image's header.
func (p *Pipeline) probeDimensions(e *Entry) error {
	data, err := afero.ReadFile(p.fs, e.Path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	w, h, err := dimensionsOf(data)
	if err != nil {
		return err
	}
	e.Width, e.Height = w, h
	return nil
}

// extOf returns the lowercase extension of a filename without the dot.
func extOf(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}
