package imageproc

import (
	"fmt"
	"image"
	"math"
)

// DefaultQuality is the JPEG encode quality used when a descriptor does not
// set one.
const DefaultQuality = 90

// Descriptor is a pure-data description of one raster transform: where to
// read from the source, where to write in the output, the output canvas size
// and the encode quality.
type Descriptor struct {
	Src     image.Rectangle // source window in original image coordinates
	Dst     image.Rectangle // destination window in output coordinates
	Width   int             // output canvas width
	Height  int             // output canvas height
	FlipH   bool            // mirror along the vertical axis (invert x)
	FlipV   bool            // mirror along the horizontal axis (invert y)
	Quality int             // JPEG encode quality 1-100; 0 means DefaultQuality
}

// Anchor selects the crop reference edge along the longer axis.
type Anchor string

const (
	AnchorCenter Anchor = "center"
	AnchorTop    Anchor = "top"
	AnchorBottom Anchor = "bottom"
	AnchorLeft   Anchor = "left"
	AnchorRight  Anchor = "right"
)

// Axis selects the flip direction.
type Axis string

const (
	AxisHorizontal Axis = "horizontal"
	AxisVertical   Axis = "vertical"
	AxisBoth       Axis = "both"
)

// ResizeOptions controls Resize. At least one of MaxWidth/MaxHeight must be
// set. With PreserveAspect and both dimensions set, the image is scaled to
// fit within the box. With Expand disabled, a box exceeding the original in
// either dimension leaves the image at its original size.
type ResizeOptions struct {
	MaxWidth       int
	MaxHeight      int
	Expand         bool
	PreserveAspect bool
	Quality        int
}

// CropOptions controls Crop. With neither Width nor Height set the crop
// defaults to a square over the larger original side.
type CropOptions struct {
	Width   int
	Height  int
	Anchor  Anchor
	Expand  bool
	Quality int
}

// Resize computes an aspect-aware scale-to-fit transform.
func Resize(origW, origH int, opts ResizeOptions) (Descriptor, error) {
	if err := checkOriginal(origW, origH); err != nil {
		return Descriptor{}, err
	}

	mw, mh := opts.MaxWidth, opts.MaxHeight
	if mw <= 0 && mh <= 0 {
		return Descriptor{}, fmt.Errorf("%w: resize requires a width or a height", ErrInvalidOptions)
	}
	if mw < 0 || mh < 0 {
		return Descriptor{}, fmt.Errorf("%w: negative resize box %dx%d", ErrInvalidGeometry, mw, mh)
	}

	outW, outH := fitDimensions(origW, origH, mw, mh, opts.Expand, opts.PreserveAspect)
	if outW <= 0 || outH <= 0 {
		return Descriptor{}, fmt.Errorf("%w: resize to %dx%d", ErrInvalidGeometry, outW, outH)
	}

	return Descriptor{
		Src:     image.Rect(0, 0, origW, origH),
		Dst:     image.Rect(0, 0, outW, outH),
		Width:   outW,
		Height:  outH,
		Quality: opts.Quality,
	}, nil
}

// fitDimensions implements the resize dimension math shared with Crop.
func fitDimensions(origW, origH, mw, mh int, expand, preserveAspect bool) (int, int) {
	// Upscaling disabled: a box exceeding the original in either dimension
	// keeps the original size, regardless of aspect handling.
	if !expand && ((mw > 0 && mw > origW) || (mh > 0 && mh > origH)) {
		return origW, origH
	}

	switch {
	case mw > 0 && mh <= 0:
		return mw, roundScale(origH, float64(mw)/float64(origW))
	case mh > 0 && mw <= 0:
		return roundScale(origW, float64(mh)/float64(origH)), mh
	}

	if !preserveAspect {
		return mw, mh
	}

	fw := float64(mw) / float64(origW)
	fh := float64(mh) / float64(origH)
	switch {
	case fw == fh:
		return mw, mh
	case fw < fh:
		return mw, roundScale(origH, fw)
	default:
		return roundScale(origW, fh), mh
	}
}

// Scale multiplies both dimensions by a percentage, rounding each to the
// nearest integer independently.
func Scale(origW, origH int, percent float64) (Descriptor, error) {
	if err := checkOriginal(origW, origH); err != nil {
		return Descriptor{}, err
	}
	if percent <= 0 {
		return Descriptor{}, fmt.Errorf("%w: scale percent %v", ErrInvalidOptions, percent)
	}

	outW := int(math.Round(float64(origW) * percent / 100))
	outH := int(math.Round(float64(origH) * percent / 100))
	if outW <= 0 || outH <= 0 {
		return Descriptor{}, fmt.Errorf("%w: scale to %dx%d", ErrInvalidGeometry, outW, outH)
	}

	return Descriptor{
		Src:    image.Rect(0, 0, origW, origH),
		Dst:    image.Rect(0, 0, outW, outH),
		Width:  outW,
		Height: outH,
	}, nil
}

// Crop computes a resize-then-crop transform. The image is first fitted into
// the target box exactly as Resize would, then a square window with side
// equal to the shorter fitted dimension is positioned according to the
// anchor, mapped back to original-image coordinates and stretched onto the
// full target box.
func Crop(origW, origH int, opts CropOptions) (Descriptor, error) {
	if err := checkOriginal(origW, origH); err != nil {
		return Descriptor{}, err
	}
	if opts.Width < 0 || opts.Height < 0 {
		return Descriptor{}, fmt.Errorf("%w: negative crop box %dx%d", ErrInvalidGeometry, opts.Width, opts.Height)
	}

	boxW, boxH := opts.Width, opts.Height
	if boxW == 0 && boxH == 0 {
		// Square crop default over the larger original side
		side := max(origW, origH)
		boxW, boxH = side, side
	}

	iw, ih := fitDimensions(origW, origH, boxW, boxH, opts.Expand, true)
	if iw <= 0 || ih <= 0 {
		return Descriptor{}, fmt.Errorf("%w: crop intermediate %dx%d", ErrInvalidGeometry, iw, ih)
	}

	side := min(iw, ih)
	offX, offY := 0, 0
	if iw > ih {
		offX = anchorOffset(iw-side, opts.Anchor)
	} else if ih > iw {
		offY = anchorOffset(ih-side, opts.Anchor)
	}

	// Map the window from fitted coordinates back onto the original image
	factor := float64(origW) / float64(iw)
	srcX := int(math.Round(float64(offX) * factor))
	srcY := int(math.Round(float64(offY) * factor))
	srcSide := int(math.Round(float64(side) * factor))
	if srcX+srcSide > origW {
		srcSide = origW - srcX
	}
	if srcY+srcSide > origH {
		srcSide = origH - srcY
	}
	if srcSide <= 0 {
		return Descriptor{}, fmt.Errorf("%w: crop window collapsed", ErrInvalidGeometry)
	}

	outW, outH := opts.Width, opts.Height
	if outW == 0 {
		outW = side
	}
	if outH == 0 {
		outH = side
	}

	return Descriptor{
		Src:     image.Rect(srcX, srcY, srcX+srcSide, srcY+srcSide),
		Dst:     image.Rect(0, 0, outW, outH),
		Width:   outW,
		Height:  outH,
		Quality: opts.Quality,
	}, nil
}

// Flip inverts the image along one or both axes; dimensions are unchanged.
func Flip(origW, origH int, axis Axis) (Descriptor, error) {
	if err := checkOriginal(origW, origH); err != nil {
		return Descriptor{}, err
	}

	d := Descriptor{
		Src:    image.Rect(0, 0, origW, origH),
		Dst:    image.Rect(0, 0, origW, origH),
		Width:  origW,
		Height: origH,
	}

	switch axis {
	case AxisHorizontal:
		d.FlipH = true
	case AxisVertical:
		d.FlipV = true
	case AxisBoth:
		d.FlipH = true
		d.FlipV = true
	default:
		return Descriptor{}, fmt.Errorf("%w: flip axis %q", ErrInvalidOptions, axis)
	}

	return d, nil
}

// anchorOffset positions the crop window along the longer axis.
// Center offsets round up when the slack is odd.
func anchorOffset(slack int, a Anchor) int {
	switch a {
	case AnchorTop, AnchorLeft:
		return 0
	case AnchorBottom, AnchorRight:
		return slack
	default:
		return (slack + 1) / 2
	}
}

func checkOriginal(origW, origH int) error {
	if origW <= 0 || origH <= 0 {
		return fmt.Errorf("%w: original dimensions %dx%d", ErrInvalidGeometry, origW, origH)
	}
	return nil
}

func roundScale(v int, factor float64) int {
	return int(math.Round(float64(v) * factor))
}
