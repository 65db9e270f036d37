package naming

import "errors"

var (
	// ErrDestinationConflict is returned when collision probing exhausts the
	// bounded probe budget without finding a free name.
	ErrDestinationConflict = errors.New("destination conflict: probe limit exhausted")

	ErrFailedToCreateDirectory = errors.New("failed to create directory")
	ErrFailedToRemoveFile      = errors.New("failed to remove existing file")
	ErrFailedToReserveFile     = errors.New("failed to reserve destination file")
)
