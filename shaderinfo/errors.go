package shaderinfo

import (
	"errors"
	"fmt"
)

var (
	// ErrBindingMismatch is returned by Info.Check when host bindings and
	// shader bindings disagree.
	ErrBindingMismatch = errors.New("shaderinfo: host bindings do not match shader")

	// ErrCompile is returned when WGSL fails to parse, lower or compile.
	ErrCompile = errors.New("shaderinfo: shader compilation failed")
)

// MismatchError describes one disagreement between host and shader.
type MismatchError struct {
	Group, Slot uint32

	// Name is the shader variable, empty if the shader has no binding here.
	Name string

	// Reason is a short description, e.g. "not declared by host".
	Reason string
}

func (e *MismatchError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%v: @group(%d) @binding(%d) %s: %s", ErrBindingMismatch, e.Group, e.Slot, e.Name, e.Reason)
	}
	return fmt.Sprintf("%v: @group(%d) @binding(%d): %s", ErrBindingMismatch, e.Group, e.Slot, e.Reason)
}

// Unwrap returns ErrBindingMismatch.
func (e *MismatchError) Unwrap() error {
	return ErrBindingMismatch
}
