package audit

import "errors"

var (
	ErrSnapshotNotFound = errors.New("price snapshot not found")

	// ErrSnapshotWriteFailed marks a failed audit write. It must be surfaced
	// for manual reconciliation but must not unwind the booking state change
	// the snapshot was recording.
	ErrSnapshotWriteFailed = errors.New("price snapshot write failed")

	ErrSnapshotWrongBooking = errors.New("price snapshot belongs to another booking")
)
