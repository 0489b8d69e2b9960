package sccl

import "errors"

var (
	// ErrInvalidArgument is returned when CreateShader gets a nil device, a
	// nil config or a config without shader code.
	ErrInvalidArgument = errors.New("sccl: invalid argument")

	// ErrMissingBuffer is returned when ShaderConfig.Buffers is set but has
	// no buffer for a declared binding.
	ErrMissingBuffer = errors.New("sccl: no buffer for declared binding")

	// ErrUndeclaredBuffer is returned when ShaderConfig.Buffers names a
	// binding that no BindingEntry declares.
	ErrUndeclaredBuffer = errors.New("sccl: buffer for undeclared binding")

	// ErrEntryPointNotFound is returned by the reflection check when the
	// shader has no compute entry point with the configured name.
	ErrEntryPointNotFound = errors.New("sccl: compute entry point not found")
)
