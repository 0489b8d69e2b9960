//go:build !nogpu

package native

import "errors"

// Package errors for the HAL backend.
var (
	// ErrEmptyShader is returned when a shader module descriptor has no code.
	ErrEmptyShader = errors.New("native: empty shader source")

	// ErrInvalidDescriptor is returned for descriptors the HAL cannot accept.
	ErrInvalidDescriptor = errors.New("native: invalid descriptor")

	// ErrNoHALDevice is returned when a device provider does not expose a
	// HAL device.
	ErrNoHALDevice = errors.New("native: provider does not expose a HAL device")
)
