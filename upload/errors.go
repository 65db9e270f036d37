package upload

import "errors"

var (
	// ErrUnsupportedType indicates the extension/MIME pair resolved to no
	// registered group.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrTransferIncomplete indicates a form or stream upload that did not
	// fully arrive (zero bytes or a transport failure).
	ErrTransferIncomplete = errors.New("transfer incomplete")

	// ErrRejectedByScan indicates the malware scanner flagged the content,
	// or the scan engine failed without fail-open configured.
	ErrRejectedByScan = errors.New("rejected by malware scan")

	// ErrFileTooLarge indicates the content exceeds the configured limit.
	ErrFileTooLarge = errors.New("file size exceeds maximum allowed size")

	// ErrIOFailure indicates a filesystem or network failure while staging
	// or materializing bytes. Never retried by the pipeline.
	ErrIOFailure = errors.New("i/o failure")

	// ErrInvalidStatus indicates an operation applied to an entry in the
	// wrong lifecycle state.
	ErrInvalidStatus = errors.New("invalid entry status")

	// ErrNotImage indicates a transform requested on a non-image entry.
	ErrNotImage = errors.New("entry is not an image")

	// ErrRolledBack marks entries whose materialized files were deleted by
	// a batch rollback.
	ErrRolledBack = errors.New("rolled back after batch failure")

	// ErrNilSource indicates a source constructed without its backing data.
	ErrNilSource = errors.New("source has no data")

	ErrInvalidConfig = errors.New("invalid pipeline configuration")
)
