package board

import "errors"

var (
	// ErrPermissionDenied means the viewer may not change incident status.
	// Nothing was mutated and no call was made.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrPersistenceFailed means the status update was rejected or never
	// reached the backend. The incident has been reverted.
	ErrPersistenceFailed = errors.New("persisting status change failed")

	// ErrNotFound means the intent named an incident absent from the store.
	ErrNotFound = errors.New("incident not in board")

	// ErrUnknownStatus means the destination is not a board column.
	ErrUnknownStatus = errors.New("unknown incident status")
)
