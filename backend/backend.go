package backend

import (
	"errors"

	"github.com/gogpu/sccl/gpucore"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrUnsupportedHandle is returned by a Factory that does not recognize
	// the native handle it was given.
	ErrUnsupportedHandle = errors.New("backend: unsupported native device handle")
)

// Factory wraps a native device handle (a hal.Device, a vk.Device, a
// *wgpu.Device, a gpucontext.DeviceProvider, ...) in a gpucore.Device.
//
// A factory returns an error wrapping ErrUnsupportedHandle when handle is
// not a type it understands, so that Detect can try the next backend.
type Factory func(handle any) (gpucore.Device, error)
