//go:build !nogpu

package vulkan

import "errors"

var (
	// ErrEmptyShader is returned when a shader module descriptor has no code.
	ErrEmptyShader = errors.New("vulkan: empty shader source")

	// ErrInvalidDescriptor is returned for descriptors Vulkan cannot accept.
	ErrInvalidDescriptor = errors.New("vulkan: invalid descriptor")
)
