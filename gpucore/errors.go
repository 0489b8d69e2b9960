package gpucore

import "errors"

var (
	// ErrPoolExhausted is returned when a descriptor pool has no room left
	// for a bind group of the requested layout.
	ErrPoolExhausted = errors.New("gpucore: descriptor pool exhausted")

	// ErrUnknownResource is returned when a descriptor references an ID the
	// device did not create or has already destroyed.
	ErrUnknownResource = errors.New("gpucore: unknown resource id")
)
