// Package backend provides a pluggable registry of GPU device backends.
//
// Each backend wraps one kind of native device handle in a [gpucore.Device]
// so that compiled binding layouts can be realized on it.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// Import the backend packages you need for their side effects:
//
//	import (
//		_ "github.com/gogpu/sccl/backend/native"
//		_ "github.com/gogpu/sccl/backend/vulkan"
//	)
//
// # Backend Selection
//
// Use Detect to let the registry pick the backend that understands a native
// handle, or Open to request a specific backend by name:
//
//	dev, err := backend.Detect(provider) // gpucontext.DeviceProvider
//
//	dev, err := backend.Open("vulkan", vkDevice)
//
// # Available Backends
//
//   - "native": gogpu/wgpu HAL devices and gpucontext providers
//   - "vulkan": vk.Device handles via vulkan-go
//   - "webgpu": *wgpu.Device from cogentcore/webgpu
//
// All GPU backends are excluded when building with the nogpu tag.
package backend
