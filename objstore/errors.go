package objstore

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid storage configuration")
	ErrInvalidKey    = errors.New("invalid object key") // Prevents path traversal
	ErrNotFound      = errors.New("object not found")

	ErrFailedToRead   = errors.New("failed to read source")
	ErrFailedToWrite  = errors.New("failed to write object")
	ErrFailedToDelete = errors.New("failed to delete object")

	// S3 error classification
	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
	ErrOperationTimeout   = errors.New("operation timed out")
	ErrOperationCanceled  = errors.New("operation canceled")
	ErrFailedToLoadConfig = errors.New("failed to load AWS config")
)
