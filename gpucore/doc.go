// Package gpucore provides the GPU boundary for compiled binding layouts.
//
// This package defines the [Device] interface, which abstracts over the GPU
// APIs that sccl can target, allowing the same shader construction code to
// work with:
//   - gogpu/wgpu (Pure Go WebGPU via HAL)
//   - Vulkan (vulkan-go bindings)
//   - wgpu-native (cogentcore/webgpu)
//
// # Architecture
//
// Layout compilation happens once in package layout. The result is turned
// into backend-neutral descriptors here, and thin devices translate the
// descriptors into native objects.
//
//	               +-----------------+
//	               |     layout      |
//	               | (Compile)       |
//	               +--------+--------+
//	                        |
//	               +--------v--------+
//	               |     gpucore     |
//	               | (descriptors)   |
//	               +--------+--------+
//	                        |
//	     +------------------+------------------+
//	     |                  |                  |
//	+----v-----+      +-----v----+      +------v-----+
//	|  native  |      |  vulkan  |      |   webgpu   |
//	|  (hal)   |      | (vk.*)   |      | (wgpu.*)   |
//	+----------+      +----------+      +------------+
//
// # Resource Management
//
// GPU objects are managed via opaque IDs ([ShaderModuleID],
// [BindGroupLayoutID], etc.). Devices are responsible for tracking the
// mapping between IDs and actual GPU objects.
//
// # Descriptor Pools
//
// Vulkan allocates descriptor sets from a pool. WebGPU has no pool object,
// so devices for it keep a [PoolBudget] per pool: allocation beyond the
// sizing the layouts declared fails with [ErrPoolExhausted] on every
// backend, and destroying a pool destroys its bind groups.
//
// # Usage Example
//
//	res, err := layout.Compile(bindings)
//	if err != nil {
//	    return err
//	}
//	for _, l := range res.Layouts {
//	    desc := gpucore.LayoutDesc(l, "")
//	    id, err := dev.CreateBindGroupLayout(&desc)
//	    ...
//	}
//	pool := gpucore.PoolDescFor(res.Pool, "")
//	poolID, err := dev.CreateDescriptorPool(&pool)
package gpucore
