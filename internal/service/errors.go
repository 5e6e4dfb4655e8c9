package service

import "errors"

var (
	// ErrInvalidArgument is returned for out-of-range attributes, malformed
	// ids and pixel buffers of the wrong size.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned for unknown ids and for ids owned by another
	// client.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied is returned when a call carries no client identity.
	ErrPermissionDenied = errors.New("permission denied")
)
