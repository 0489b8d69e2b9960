// Package sccl compiles the binding layout of a compute shader and realizes
// it on a GPU device.
//
// # Overview
//
// A compute shader reads and writes buffers through numbered slots:
// @group(G) @binding(B) in WGSL. The host declares which kind of buffer
// goes where; sccl groups those declarations, validates them and creates
// the matching objects: one bind group layout per group, a descriptor pool
// sized for all of them, the pipeline layout and the compute pipeline.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/sccl"
//	    "github.com/gogpu/sccl/backend"
//	    "github.com/gogpu/sccl/layout"
//
//	    _ "github.com/gogpu/sccl/backend/native"
//	)
//
//	dev, err := backend.Detect(halDevice)
//	if err != nil {
//	    return err
//	}
//
//	sh, err := sccl.CreateShader(dev, &sccl.ShaderConfig{
//	    WGSL: source,
//	    Bindings: []layout.BindingEntry{
//	        {Group: 0, Slot: 0, Kind: layout.HostStorage},
//	        {Group: 0, Slot: 1, Kind: layout.DeviceStorage},
//	        {Group: 1, Slot: 0, Kind: layout.HostUniform},
//	    },
//	}, sccl.WithLabel("scale"), sccl.WithReflectionCheck())
//	if err != nil {
//	    return err
//	}
//	defer sh.Destroy()
//
// # Architecture
//
// The library is organized into:
//   - layout: the pure compiler (Accumulate, SortGroups, Validate, Emit, Size)
//   - gpucore: the Device interface and backend-neutral descriptors
//   - backend: registry of devices; native (gogpu/wgpu HAL), vulkan, webgpu
//   - shaderinfo: WGSL reflection and host/shader binding checks (gogpu/naga)
//   - sccl: CreateShader and the Shader lifecycle
//
// # Errors
//
// Layout errors wrap [layout.ErrNonContiguousGroups] or
// [layout.ErrDuplicateBinding] and can be inspected as *layout.LayoutError.
// Device failures are wrapped with the step that failed. A buffer kind
// outside the declared set is a programming error and panics.
package sccl

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
