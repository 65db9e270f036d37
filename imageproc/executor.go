package imageproc

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
	xdraw "golang.org/x/image/draw"
)

// Format identifies a supported raster format.
type Format string

const (
	FormatGIF  Format = "gif"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// FormatFromMIME maps a MIME type to a supported Format.
func FormatFromMIME(mimeType string) (Format, bool) {
	switch mimeType {
	case "image/gif":
		return FormatGIF, true
	case "image/png", "image/x-png":
		return FormatPNG, true
	case "image/jpeg", "image/pjpeg", "image/jpg":
		return FormatJPEG, true
	}
	return "", false
}

// Apply decodes src in the given format, resamples the descriptor's source
// window onto its destination window and re-encodes in the same format.
//
// The output canvas starts fully transparent for GIF and PNG so alpha is
// preserved; JPEG has no alpha path. Resampling uses Catmull-Rom
// interpolation, which stays visually clean at arbitrary scale ratios.
func Apply(src []byte, format Format, d Descriptor) ([]byte, error) {
	img, err := decode(bytes.NewReader(src), format)
	if err != nil {
		return nil, err
	}

	out, err := render(img, d)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := encode(&buf, out, format, d.Quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ApplyToFile runs Apply against a file on fs, inferring the format from the
// file content, and writes the result to dstPath. The output is staged under
// a temporary name and renamed into place on success, so a failed transform
// never leaves a partially-written destination.
func ApplyToFile(fs afero.Fs, srcPath, dstPath string, d Descriptor) error {
	data, err := afero.ReadFile(fs, srcPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}

	format, err := SniffFormat(data)
	if err != nil {
		return err
	}

	out, err := Apply(data, format, d)
	if err != nil {
		return err
	}

	tmpPath := dstPath + ".tmp"
	if err := afero.WriteFile(fs, tmpPath, out, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}
	if err := fs.Rename(tmpPath, dstPath); err != nil {
		_ = fs.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}
	return nil
}

// Dimensions reads only the image header and returns width and height.
func Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	return cfg.Width, cfg.Height, nil
}

// SniffFormat identifies the raster format from content, rejecting anything
// outside GIF/PNG/JPEG.
func SniffFormat(data []byte) (Format, error) {
	_, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	switch name {
	case "gif":
		return FormatGIF, nil
	case "png":
		return FormatPNG, nil
	case "jpeg":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}

// render allocates the output canvas and resamples the descriptor windows.
func render(img image.Image, d Descriptor) (image.Image, error) {
	if d.Width <= 0 || d.Height <= 0 {
		return nil, fmt.Errorf("%w: output %dx%d", ErrInvalidGeometry, d.Width, d.Height)
	}
	if !d.Src.In(img.Bounds()) {
		return nil, fmt.Errorf("%w: source window %v outside bounds %v", ErrInvalidGeometry, d.Src, img.Bounds())
	}

	// Axis inversion happens on the source raster so the window coordinates
	// keep their original meaning.
	if d.FlipH {
		img = imaging.FlipH(img)
	}
	if d.FlipV {
		img = imaging.FlipV(img)
	}

	// NewNRGBA starts zeroed, which is the fully transparent canvas GIF and
	// PNG need; JPEG encoding discards alpha anyway.
	out := image.NewNRGBA(image.Rect(0, 0, d.Width, d.Height))
	xdraw.CatmullRom.Scale(out, d.Dst, img, d.Src, xdraw.Over, nil)
	return out, nil
}

func decode(r io.Reader, format Format) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	switch format {
	case FormatGIF:
		img, err = gif.Decode(r)
	case FormatPNG:
		img, err = png.Decode(r)
	case FormatJPEG:
		img, err = jpeg.Decode(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	return img, nil
}

func encode(w io.Writer, img image.Image, format Format, quality int) error {
	var err error
	switch format {
	case FormatGIF:
		err = gif.Encode(w, img, &gif.Options{NumColors: 256})
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: clampQuality(quality)})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}
	return nil
}

func clampQuality(q int) int {
	switch {
	case q <= 0:
		return DefaultQuality
	case q > 100:
		return 100
	}
	return q
}
