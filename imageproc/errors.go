package imageproc

import "errors"

var (
	// ErrInvalidOptions indicates a transform request that cannot be
	// interpreted, such as a resize with neither dimension given.
	ErrInvalidOptions = errors.New("invalid transform options")

	// ErrInvalidGeometry indicates a transform that would produce a
	// non-positive dimension or a source window outside the image bounds.
	ErrInvalidGeometry = errors.New("invalid transform geometry")

	// ErrUnsupportedFormat indicates a raster format outside GIF/PNG/JPEG.
	// Fatal to the transform; never retried.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	ErrDecodeFailed      = errors.New("failed to decode image")
	ErrEncodeFailed      = errors.New("failed to encode image")
	ErrFailedToReadFile  = errors.New("failed to read source file")
	ErrFailedToWriteFile = errors.New("failed to write output file")
)
