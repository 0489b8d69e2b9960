//go:build !nogpu

package webgpu

import "errors"

// Sentinel errors.
var (
	// ErrEmptyShader is returned when a shader module descriptor has no code.
	ErrEmptyShader = errors.New("webgpu: empty shader source")

	// ErrInvalidDescriptor is returned for descriptors WebGPU cannot accept.
	ErrInvalidDescriptor = errors.New("webgpu: invalid descriptor")
)
