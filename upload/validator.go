package upload

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/dmitrymomot/uploadkit/clamav"
	"github.com/dmitrymomot/uploadkit/filetype"
)

// Validator cross-checks staged content against the type registry and the
// pipeline's constraints. On success it assigns the entry's group.
type Validator struct {
	registry     *filetype.Registry
	scanner      clamav.Scanner
	maxBytes     int64
	scanEnabled  bool
	scanFailOpen bool
	log          *slog.Logger
}

// NewValidator wires a validator. scanner may be nil when scanning is
// disabled.
func NewValidator(registry *filetype.Registry, scanner clamav.Scanner, maxBytes int64, scanEnabled, scanFailOpen bool, log *slog.Logger) *Validator {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Validator{
		registry:     registry,
		scanner:      scanner,
		maxBytes:     maxBytes,
		scanEnabled:  scanEnabled,
		scanFailOpen: scanFailOpen,
		log:          log,
	}
}

// Validate checks the entry's staged content. Import kinds skip the
// completed-transfer rule: local and remote imports are trusted not to be
// partial uploads but still must pass type validation. The entry's Group
// is set only on success.
func (v *Validator) Validate(ctx context.Context, fs afero.Fs, e *Entry, stagedPath string) error {
	// Rule: a non-import transfer must have actually completed. Checked
	// before type detection so an empty upload reports the real problem.
	if !e.Kind.isImport() && e.Size <= 0 {
		return fmt.Errorf("%w: field %q received no data", ErrTransferIncomplete, e.Field)
	}

	// Rule: extension and detected MIME must agree on a registered group
	mimeType, err := v.registry.DetectFile(fs, stagedPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	e.MIMEType = mimeType

	if e.Ext == "" {
		// Name had no extension: fall back to the MIME-derived one
		if ext, ok := v.registry.ExtensionFor(mimeType); ok {
			e.Ext = ext
		}
	}

	group, ok := v.registry.Lookup(e.Ext, mimeType)
	if !ok {
		return fmt.Errorf("%w: ext %q with mime %q", ErrUnsupportedType, e.Ext, mimeType)
	}

	if v.maxBytes > 0 && e.Size > v.maxBytes {
		return fmt.Errorf("%w: %d bytes over limit %d", ErrFileTooLarge, e.Size, v.maxBytes)
	}

	if v.scanEnabled {
		if err := v.scan(ctx, fs, e, stagedPath); err != nil {
			return err
		}
	}

	e.Group = group
	return nil
}

// scan consults the malware scanner. An engine failure passes only when
// fail-open is configured; it is never silently treated as clean.
func (v *Validator) scan(ctx context.Context, fs afero.Fs, e *Entry, stagedPath string) error {
	if v.scanner == nil {
		if v.scanFailOpen {
			return nil
		}
		return fmt.Errorf("%w: no scanner configured", ErrRejectedByScan)
	}

	f, err := fs.Open(stagedPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	defer func() { _ = f.Close() }()

	res, err := v.scanner.Scan(ctx, f)
	if err != nil {
		if v.scanFailOpen {
			v.log.WarnContext(ctx, "scan engine unavailable, failing open",
				slog.String("field", e.Field),
				slog.Any("error", err),
			)
			return nil
		}
		return fmt.Errorf("%w: engine failure: %v", ErrRejectedByScan, err)
	}
	if res.Infected {
		return fmt.Errorf("%w: %s", ErrRejectedByScan, res.Signature)
	}
	return nil
}
