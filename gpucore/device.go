package gpucore

// Device abstracts over the GPU APIs that can hold compiled binding layouts.
//
// The interface covers only what a compute shader needs before dispatch:
// the shader module, one layout per binding group, a descriptor pool sized
// for those layouts, bind groups, the pipeline layout and the pipeline.
// Implementations must be safe for concurrent use.
//
// Resource lifecycle:
//   - Resources are created via Create* methods
//   - Resources must be explicitly destroyed via Destroy* methods
//   - Destroying a resource while in use is undefined behavior
//   - IDs become invalid after destruction and must not be reused
//   - Destroy* on an unknown or already destroyed ID is a no-op
type Device interface {
	// === Shader Modules ===

	// CreateShaderModule creates a shader module from WGSL or SPIR-V.
	CreateShaderModule(desc *ShaderModuleDesc) (ShaderModuleID, error)

	// DestroyShaderModule releases a shader module.
	DestroyShaderModule(id ShaderModuleID)

	// === Layouts ===

	// CreateBindGroupLayout creates a bind group layout.
	// Bind group layouts describe the structure of resource bindings.
	CreateBindGroupLayout(desc *BindGroupLayoutDesc) (BindGroupLayoutID, error)

	// DestroyBindGroupLayout releases a bind group layout.
	DestroyBindGroupLayout(id BindGroupLayoutID)

	// === Pools and Bind Groups ===

	// CreateDescriptorPool creates a pool able to allocate desc.MaxSets bind
	// groups drawing from the per-type capacities in desc.Sizes.
	CreateDescriptorPool(desc *DescriptorPoolDesc) (DescriptorPoolID, error)

	// DestroyDescriptorPool releases a pool together with every bind group
	// allocated from it.
	DestroyDescriptorPool(id DescriptorPoolID)

	// AllocateBindGroup allocates a bind group from desc.Pool and writes
	// desc.Entries into it. It fails with ErrPoolExhausted when the pool
	// cannot satisfy the layout.
	AllocateBindGroup(desc *BindGroupDesc) (BindGroupID, error)

	// === Pipelines ===

	// CreatePipelineLayout creates a pipeline layout.
	// Pipeline layouts combine bind group layouts in group order.
	CreatePipelineLayout(layouts []BindGroupLayoutID) (PipelineLayoutID, error)

	// DestroyPipelineLayout releases a pipeline layout.
	DestroyPipelineLayout(id PipelineLayoutID)

	// CreateComputePipeline creates a compute pipeline.
	CreateComputePipeline(desc *ComputePipelineDesc) (ComputePipelineID, error)

	// DestroyComputePipeline releases a compute pipeline.
	DestroyComputePipeline(id ComputePipelineID)
}
