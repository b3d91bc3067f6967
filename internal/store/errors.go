package store

import "errors"

var (
	// ErrNotFound indicates the requested record doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable indicates the store is rejecting calls (circuit open).
	ErrUnavailable = errors.New("store unavailable")

	// ErrUnknownDriver indicates a store driver name with no adapter.
	ErrUnknownDriver = errors.New("unknown store driver")
)
