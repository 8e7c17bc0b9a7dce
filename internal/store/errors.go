package store

import "errors"

var (
	// ErrNotFound is returned when a source was queried successfully but holds
	// no value for the key. Expected on first run.
	ErrNotFound = errors.New("preference not found")

	// ErrUnavailable is returned when the backing capability is absent
	// entirely (no database handle, no Redis client).
	ErrUnavailable = errors.New("preference source unavailable")
)
