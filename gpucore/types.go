package gpucore

import "github.com/gogpu/sccl/layout"

// Resource IDs
//
// These opaque IDs represent GPU objects. Each Device implementation
// maintains a mapping between IDs and actual backend objects.
// IDs are uint64 to accommodate various backend handle sizes.

// BufferID is an opaque handle to a buffer the caller owns.
type BufferID uint64

// ShaderModuleID is an opaque handle to a compiled shader module.
type ShaderModuleID uint64

// BindGroupLayoutID is an opaque handle to a bind group (descriptor set) layout.
type BindGroupLayoutID uint64

// DescriptorPoolID is an opaque handle to a descriptor pool.
type DescriptorPoolID uint64

// BindGroupID is an opaque handle to a bind group (descriptor set).
type BindGroupID uint64

// PipelineLayoutID is an opaque handle to a pipeline layout.
type PipelineLayoutID uint64

// ComputePipelineID is an opaque handle to a compute pipeline.
type ComputePipelineID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// BindingType specifies the descriptor type of a buffer binding.
type BindingType uint32

// Binding types.
const (
	// BindingTypeUniformBuffer is a uniform buffer binding.
	BindingTypeUniformBuffer BindingType = iota + 1

	// BindingTypeStorageBuffer is a storage buffer binding (read-write).
	BindingTypeStorageBuffer
)

// String returns "uniform-buffer" or "storage-buffer".
func (t BindingType) String() string {
	switch t {
	case BindingTypeUniformBuffer:
		return "uniform-buffer"
	case BindingTypeStorageBuffer:
		return "storage-buffer"
	default:
		return "invalid"
	}
}

// BindingTypeFor returns the descriptor type for a layout category.
func BindingTypeFor(c layout.Category) BindingType {
	if c == layout.CategoryUniform {
		return BindingTypeUniformBuffer
	}
	return BindingTypeStorageBuffer
}

// ShaderModuleDesc describes a shader module.
// Exactly one of WGSL and SPIRV should be set.
type ShaderModuleDesc struct {
	// Label is an optional debug label.
	Label string

	// WGSL is the shader source text.
	WGSL string

	// SPIRV is precompiled SPIR-V as uint32 words.
	SPIRV []uint32
}

// Empty reports whether the descriptor carries no shader code.
func (d *ShaderModuleDesc) Empty() bool {
	return d.WGSL == "" && len(d.SPIRV) == 0
}

// BindGroupLayoutDesc describes a bind group layout.
type BindGroupLayoutDesc struct {
	// Label is an optional debug label.
	Label string

	// Entries defines the bindings in this layout, in ascending slot order.
	Entries []BindGroupLayoutEntry
}

// BindGroupLayoutEntry describes a single binding in a bind group layout.
// Every entry is visible to the compute stage and holds one descriptor.
type BindGroupLayoutEntry struct {
	// Binding is the binding index.
	Binding uint32

	// Type is the descriptor type bound at this index.
	Type BindingType
}

// PoolSize is the number of descriptors of one type a pool can hand out.
type PoolSize struct {
	Type  BindingType
	Count uint32
}

// DescriptorPoolDesc describes a descriptor pool.
type DescriptorPoolDesc struct {
	// Label is an optional debug label.
	Label string

	// MaxSets is the number of bind groups the pool can allocate.
	MaxSets uint32

	// Sizes lists per-type capacities. Types with zero count are omitted.
	Sizes []PoolSize
}

// BindGroupEntry describes a single binding in a bind group.
type BindGroupEntry struct {
	// Binding is the binding index.
	Binding uint32

	// Buffer is the buffer to bind.
	Buffer BufferID

	// Offset is the offset into the buffer.
	Offset uint64

	// Size is the size of the buffer range to bind.
	// Use 0 to bind the entire buffer from offset.
	Size uint64
}

// BindGroupDesc describes a bind group allocated from a pool.
type BindGroupDesc struct {
	// Label is an optional debug label.
	Label string

	// Pool is the pool the group is allocated from.
	Pool DescriptorPoolID

	// Layout is the bind group layout.
	Layout BindGroupLayoutID

	// Entries are the resource bindings.
	Entries []BindGroupEntry
}

// ComputePipelineDesc describes a compute pipeline.
type ComputePipelineDesc struct {
	// Label is an optional debug label.
	Label string

	// Layout is the pipeline layout.
	Layout PipelineLayoutID

	// ShaderModule contains the compute shader.
	ShaderModule ShaderModuleID

	// EntryPoint is the name of the shader entry point function.
	EntryPoint string
}
