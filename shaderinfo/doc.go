// Package shaderinfo reflects the buffer bindings and compute entry points
// of a WGSL shader using gogpu/naga.
//
// Host code declares where each buffer goes with layout.BindingEntry values.
// A shader that reads a different group or slot than the host declared is a
// silent, hard to debug error on the GPU. Reflect lets callers either derive
// the entries from the shader ([Info.Entries]) or verify host-declared
// entries against it ([Info.Check]) before any GPU object is created.
//
// Example:
//
//	info, err := shaderinfo.Reflect(src)
//	if err != nil {
//	    return err
//	}
//	if err := info.Check(bindings); err != nil {
//	    return err // wraps shaderinfo.ErrBindingMismatch
//	}
package shaderinfo
