package rooms

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomTaken          = errors.New("room already allocated")
	ErrAllocationNotFound = errors.New("allocation not found")
	ErrPoolNotConfigured  = errors.New("room pool not configured")

	// ErrNotEnsuiteCapable rejects an ensuite or study-suite selection on a
	// room outside the shared ensuite pool.
	ErrNotEnsuiteCapable = errors.New("room is not ensuite-capable")

	// ErrPoolExhausted rejects an assignment that would push the shared
	// pool's combined usage past its configured capacity.
	ErrPoolExhausted = errors.New("shared ensuite pool exhausted")
)
