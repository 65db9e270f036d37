package upload

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/dmitrymomot/uploadkit/imageproc"
)

// TransformOp is a named derived rendition of a materialized image. The
// original file is never modified; each op produces one additional file
// whose path is recorded under the op's label in Entry.Derived.
type TransformOp struct {
	Label    string
	describe func(w, h int) (imageproc.Descriptor, error)
}

// ResizeOp derives an aspect-aware scaled-to-fit rendition.
func ResizeOp(label string, opts imageproc.ResizeOptions) TransformOp {
	return TransformOp{
		Label: label,
		describe: func(w, h int) (imageproc.Descriptor, error) {
			return imageproc.Resize(w, h, opts)
		},
	}
}

// CropOp derives a resize-then-crop rendition.
func CropOp(label string, opts imageproc.CropOptions) TransformOp {
	return TransformOp{
		Label: label,
		describe: func(w, h int) (imageproc.Descriptor, error) {
			return imageproc.Crop(w, h, opts)
		},
	}
}

// ScaleOp derives a percentage-scaled rendition.
func ScaleOp(label string, percent float64) TransformOp {
	return TransformOp{
		Label: label,
		describe: func(w, h int) (imageproc.Descriptor, error) {
			return imageproc.Scale(w, h, percent)
		},
	}
}

// FlipOp derives a mirrored rendition.
func FlipOp(label string, axis imageproc.Axis) TransformOp {
	return TransformOp{
		Label: label,
		describe: func(w, h int) (imageproc.Descriptor, error) {
			return imageproc.Flip(w, h, axis)
		},
	}
}

// applyTransform renders one derived file next to the entry's original.
// The derived name inserts the label before the extension and goes through
// the same collision probing as the original, so concurrent batches cannot
// clobber each other's renditions.
func (p *Pipeline) applyTransform(ctx context.Context, e *Entry, op TransformOp) error {
	if !e.IsImage() {
		return fmt.Errorf("%w: %s is %q", ErrNotImage, e.Path, e.Group)
	}
	if op.Label == "" || op.describe == nil {
		return fmt.Errorf("%w: transform needs a label and an operation", ErrInvalidConfig)
	}

	d, err := op.describe(e.Width, e.Height)
	if err != nil {
		return err
	}

	dir := filepath.Dir(e.Path)
	base := filepath.Base(e.Path)
	ext := filepath.Ext(base)
	candidate := strings.TrimSuffix(base, ext) + "_" + op.Label + ext

	dest, err := p.resolver.Resolve(dir, candidate, false)
	if err != nil {
		return err
	}

	if err := p.renderInto(e.Path, dest, d); err != nil {
		_ = p.resolver.Release(dest)
		return err
	}

	e.Derived[op.Label] = dest
	p.log.DebugContext(ctx, "derived rendition written",
		slog.String("label", op.Label),
		slog.String("path", dest),
	)
	return nil
}

// renderInto transforms srcPath into the reserved dest. The output is
// staged under a temporary name and swapped into the reservation, so a
// failed render never leaves a partial file at the destination.
func (p *Pipeline) renderInto(srcPath, dest string, d imageproc.Descriptor) error {
	data, err := afero.ReadFile(p.fs, srcPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	format, err := imageproc.SniffFormat(data)
	if err != nil {
		return err
	}
	out, err := imageproc.Apply(data, format, d)
	if err != nil {
		return err
	}

	tmp := dest + ".tmp"
	if err := afero.WriteFile(p.fs, tmp, out, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	if err := p.replaceFile(tmp, dest); err != nil {
		_ = p.fs.Remove(tmp)
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	return nil
}

// dimensionsOf reads the image header of validated content.
func dimensionsOf(data []byte) (int, int, error) {
	return imageproc.Dimensions(data)
}
