//go:build !nogpu

// Package native realizes compiled binding layouts on gogpu/wgpu HAL devices.
package native

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/sccl/gpucore"
	"github.com/gogpu/wgpu/hal"
)

// HALDevice is the part of hal.Device that HALAdapter uses.
// Any hal.Device satisfies it.
type HALDevice interface {
	CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error)
	DestroyShaderModule(module hal.ShaderModule)
	CreateBindGroupLayout(desc *hal.BindGroupLayoutDescriptor) (hal.BindGroupLayout, error)
	DestroyBindGroupLayout(layout hal.BindGroupLayout)
	CreateBindGroup(desc *hal.BindGroupDescriptor) (hal.BindGroup, error)
	DestroyBindGroup(group hal.BindGroup)
	CreatePipelineLayout(desc *hal.PipelineLayoutDescriptor) (hal.PipelineLayout, error)
	DestroyPipelineLayout(layout hal.PipelineLayout)
	CreateComputePipeline(desc *hal.ComputePipelineDescriptor) (hal.ComputePipeline, error)
	DestroyComputePipeline(pipeline hal.ComputePipeline)
}

// HALAdapter implements gpucore.Device using gogpu/wgpu/hal directly.
// The HAL has no descriptor pool object, so pools are gpucore.PoolBudgets
// and own the bind groups allocated from them.
//
// Thread Safety: HALAdapter is safe for concurrent use from multiple goroutines.
// All resource operations are protected by a mutex.
type HALAdapter struct {
	mu     sync.RWMutex
	device HALDevice

	log atomic.Pointer[slog.Logger]

	// ID generation
	nextID atomic.Uint64

	// Resource tracking maps gpucore IDs to hal resources
	buffers          map[gpucore.BufferID]hal.Buffer
	shaderModules    map[gpucore.ShaderModuleID]hal.ShaderModule
	bindGroupLayouts map[gpucore.BindGroupLayoutID]*halLayout
	pools            map[gpucore.DescriptorPoolID]*gpucore.PoolBudget
	bindGroups       map[gpucore.BindGroupID]hal.BindGroup
	pipelineLayouts  map[gpucore.PipelineLayoutID]hal.PipelineLayout
	computePipelines map[gpucore.ComputePipelineID]hal.ComputePipeline

	layoutCache *layoutCache
}

// halLayout keeps the descriptor next to the hal object so that pools can
// charge allocations against it.
type halLayout struct {
	layout hal.BindGroupLayout
	shared *sharedLayout
	desc   gpucore.BindGroupLayoutDesc
}

// NewHALAdapter creates a new HALAdapter wrapping the given device.
func NewHALAdapter(device HALDevice) *HALAdapter {
	adapter := &HALAdapter{
		device:           device,
		buffers:          make(map[gpucore.BufferID]hal.Buffer),
		shaderModules:    make(map[gpucore.ShaderModuleID]hal.ShaderModule),
		bindGroupLayouts: make(map[gpucore.BindGroupLayoutID]*halLayout),
		pools:            make(map[gpucore.DescriptorPoolID]*gpucore.PoolBudget),
		bindGroups:       make(map[gpucore.BindGroupID]hal.BindGroup),
		pipelineLayouts:  make(map[gpucore.PipelineLayoutID]hal.PipelineLayout),
		computePipelines: make(map[gpucore.ComputePipelineID]hal.ComputePipeline),
		layoutCache:      newLayoutCache(),
	}

	// Start ID generation at 1 (0 is invalid)
	adapter.nextID.Store(1)
	adapter.log.Store(slog.New(nopHandler{}))

	return adapter
}

// SetLogger sets the logger used for resource diagnostics.
// Called by sccl.SetLogger to propagate logging configuration.
func (a *HALAdapter) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	a.log.Store(l)
}

// newID generates a unique resource ID.
func (a *HALAdapter) newID() uint64 {
	return a.nextID.Add(1) - 1
}

// === Buffers ===

// ImportBuffer registers a caller-owned buffer so bind groups can reference it.
// The adapter never destroys imported buffers.
func (a *HALAdapter) ImportBuffer(buffer hal.Buffer) gpucore.BufferID {
	id := gpucore.BufferID(a.newID())

	a.mu.Lock()
	a.buffers[id] = buffer
	a.mu.Unlock()

	return id
}

// ForgetBuffer drops an imported buffer from the adapter.
func (a *HALAdapter) ForgetBuffer(id gpucore.BufferID) {
	a.mu.Lock()
	delete(a.buffers, id)
	a.mu.Unlock()
}

// === Shader Modules ===

// CreateShaderModule creates a shader module from WGSL source or SPIR-V.
func (a *HALAdapter) CreateShaderModule(desc *gpucore.ShaderModuleDesc) (gpucore.ShaderModuleID, error) {
	if desc.Empty() {
		return gpucore.InvalidID, ErrEmptyShader
	}

	halDesc := &hal.ShaderModuleDescriptor{
		Label: desc.Label,
		Source: hal.ShaderSource{
			WGSL:  desc.WGSL,
			SPIRV: desc.SPIRV,
		},
	}

	module, err := a.device.CreateShaderModule(halDesc)
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create shader module: %w", err)
	}

	id := gpucore.ShaderModuleID(a.newID())

	a.mu.Lock()
	a.shaderModules[id] = module
	a.mu.Unlock()

	return id, nil
}

// DestroyShaderModule releases a shader module.
func (a *HALAdapter) DestroyShaderModule(id gpucore.ShaderModuleID) {
	a.mu.Lock()
	module, ok := a.shaderModules[id]
	if ok {
		delete(a.shaderModules, id)
	}
	a.mu.Unlock()

	if ok {
		a.device.DestroyShaderModule(module)
	}
}

// === Layouts ===

// CreateBindGroupLayout creates a bind group layout visible to the compute stage.
// Layouts with identical entries share one HAL object.
func (a *HALAdapter) CreateBindGroupLayout(desc *gpucore.BindGroupLayoutDesc) (gpucore.BindGroupLayoutID, error) {
	shared, err := a.layoutCache.acquire(desc.Entries, func() (hal.BindGroupLayout, error) {
		return a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   desc.Label,
			Entries: layoutEntries(desc.Entries),
		})
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create bind group layout: %w", err)
	}

	id := gpucore.BindGroupLayoutID(a.newID())
	kept := *desc
	kept.Entries = append([]gpucore.BindGroupLayoutEntry(nil), desc.Entries...)

	a.mu.Lock()
	a.bindGroupLayouts[id] = &halLayout{layout: shared.layout, shared: shared, desc: kept}
	a.mu.Unlock()

	return id, nil
}

// DestroyBindGroupLayout releases a bind group layout. The HAL object is
// destroyed with the last layout sharing it.
func (a *HALAdapter) DestroyBindGroupLayout(id gpucore.BindGroupLayoutID) {
	a.mu.Lock()
	l, ok := a.bindGroupLayouts[id]
	if ok {
		delete(a.bindGroupLayouts, id)
	}
	a.mu.Unlock()

	if ok && a.layoutCache.release(l.shared) {
		a.device.DestroyBindGroupLayout(l.layout)
	}
}

// LayoutCacheStats returns bind group layout sharing statistics.
func (a *HALAdapter) LayoutCacheStats() LayoutCacheStats {
	return LayoutCacheStats{
		Hits:   a.layoutCache.hits.Load(),
		Misses: a.layoutCache.misses.Load(),
		Live:   a.layoutCache.Len(),
	}
}

// === Pools and Bind Groups ===

// CreateDescriptorPool creates a budget-only pool.
func (a *HALAdapter) CreateDescriptorPool(desc *gpucore.DescriptorPoolDesc) (gpucore.DescriptorPoolID, error) {
	if desc.MaxSets == 0 {
		return gpucore.InvalidID, fmt.Errorf("%w: pool with zero sets", ErrInvalidDescriptor)
	}

	id := gpucore.DescriptorPoolID(a.newID())

	a.mu.Lock()
	a.pools[id] = gpucore.NewPoolBudget(desc)
	a.mu.Unlock()

	return id, nil
}

// DestroyDescriptorPool destroys every bind group allocated from the pool.
func (a *HALAdapter) DestroyDescriptorPool(id gpucore.DescriptorPoolID) {
	a.mu.Lock()
	pool, ok := a.pools[id]
	if !ok {
		a.mu.Unlock()
		return
	}
	delete(a.pools, id)

	ids := pool.Release()
	groups := make([]hal.BindGroup, 0, len(ids))
	for _, gid := range ids {
		if g, ok := a.bindGroups[gid]; ok {
			groups = append(groups, g)
			delete(a.bindGroups, gid)
		}
	}
	a.mu.Unlock()

	for _, g := range groups {
		a.device.DestroyBindGroup(g)
	}
	a.log.Load().Debug("native: descriptor pool destroyed", "pool", uint64(id), "bindGroups", len(groups))
}

// AllocateBindGroup creates a bind group charged against desc.Pool.
func (a *HALAdapter) AllocateBindGroup(desc *gpucore.BindGroupDesc) (gpucore.BindGroupID, error) {
	a.mu.RLock()
	pool, poolOK := a.pools[desc.Pool]
	l, layoutOK := a.bindGroupLayouts[desc.Layout]
	entries := make([]gputypes.BindGroupEntry, len(desc.Entries))
	var missing error
	for i, e := range desc.Entries {
		buf, ok := a.buffers[e.Buffer]
		if !ok {
			missing = fmt.Errorf("%w: buffer %d at binding %d", gpucore.ErrUnknownResource, e.Buffer, e.Binding)
			break
		}
		entries[i] = gputypes.BindGroupEntry{
			Binding: e.Binding,
			Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(),
				Offset: e.Offset,
				Size:   e.Size,
			},
		}
	}
	a.mu.RUnlock()

	switch {
	case !poolOK:
		return gpucore.InvalidID, fmt.Errorf("%w: pool %d", gpucore.ErrUnknownResource, desc.Pool)
	case !layoutOK:
		return gpucore.InvalidID, fmt.Errorf("%w: layout %d", gpucore.ErrUnknownResource, desc.Layout)
	case missing != nil:
		return gpucore.InvalidID, missing
	}

	if err := pool.Reserve(&l.desc); err != nil {
		return gpucore.InvalidID, err
	}

	g, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   desc.Label,
		Layout:  l.layout,
		Entries: entries,
	})
	if err != nil {
		pool.Refund(&l.desc)
		return gpucore.InvalidID, fmt.Errorf("native: create bind group: %w", err)
	}

	id := gpucore.BindGroupID(a.newID())

	a.mu.Lock()
	a.bindGroups[id] = g
	a.mu.Unlock()
	pool.Track(id)

	return id, nil
}

// === Pipelines ===

// CreatePipelineLayout creates a pipeline layout from bind group layouts.
func (a *HALAdapter) CreatePipelineLayout(layouts []gpucore.BindGroupLayoutID) (gpucore.PipelineLayoutID, error) {
	a.mu.RLock()
	halLayouts := make([]hal.BindGroupLayout, len(layouts))
	for i, id := range layouts {
		l, ok := a.bindGroupLayouts[id]
		if !ok {
			a.mu.RUnlock()
			return gpucore.InvalidID, fmt.Errorf("%w: layout %d", gpucore.ErrUnknownResource, id)
		}
		halLayouts[i] = l.layout
	}
	a.mu.RUnlock()

	pl, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		BindGroupLayouts: halLayouts,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create pipeline layout: %w", err)
	}

	id := gpucore.PipelineLayoutID(a.newID())

	a.mu.Lock()
	a.pipelineLayouts[id] = pl
	a.mu.Unlock()

	return id, nil
}

// DestroyPipelineLayout releases a pipeline layout.
func (a *HALAdapter) DestroyPipelineLayout(id gpucore.PipelineLayoutID) {
	a.mu.Lock()
	pl, ok := a.pipelineLayouts[id]
	if ok {
		delete(a.pipelineLayouts, id)
	}
	a.mu.Unlock()

	if ok {
		a.device.DestroyPipelineLayout(pl)
	}
}

// CreateComputePipeline creates a compute pipeline.
func (a *HALAdapter) CreateComputePipeline(desc *gpucore.ComputePipelineDesc) (gpucore.ComputePipelineID, error) {
	a.mu.RLock()
	pl, plOK := a.pipelineLayouts[desc.Layout]
	module, modOK := a.shaderModules[desc.ShaderModule]
	a.mu.RUnlock()

	if !plOK {
		return gpucore.InvalidID, fmt.Errorf("%w: pipeline layout %d", gpucore.ErrUnknownResource, desc.Layout)
	}
	if !modOK {
		return gpucore.InvalidID, fmt.Errorf("%w: shader module %d", gpucore.ErrUnknownResource, desc.ShaderModule)
	}

	pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  desc.Label,
		Layout: pl,
		Compute: hal.ComputeState{
			Module:     module,
			EntryPoint: desc.EntryPoint,
		},
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create compute pipeline: %w", err)
	}

	id := gpucore.ComputePipelineID(a.newID())

	a.mu.Lock()
	a.computePipelines[id] = pipeline
	a.mu.Unlock()

	return id, nil
}

// DestroyComputePipeline releases a compute pipeline.
func (a *HALAdapter) DestroyComputePipeline(id gpucore.ComputePipelineID) {
	a.mu.Lock()
	pipeline, ok := a.computePipelines[id]
	if ok {
		delete(a.computePipelines, id)
	}
	a.mu.Unlock()

	if ok {
		a.device.DestroyComputePipeline(pipeline)
	}
}

// layoutEntries converts gpucore layout entries to HAL entries.
func layoutEntries(entries []gpucore.BindGroupLayoutEntry) []gputypes.BindGroupLayoutEntry {
	out := make([]gputypes.BindGroupLayoutEntry, len(entries))
	for i, e := range entries {
		out[i] = gputypes.BindGroupLayoutEntry{
			Binding:    e.Binding,
			Visibility: gputypes.ShaderStageCompute,
			Buffer:     &gputypes.BufferBindingLayout{Type: bufferBindingType(e.Type)},
		}
	}
	return out
}

// bufferBindingType converts a gpucore binding type to gputypes.
func bufferBindingType(t gpucore.BindingType) gputypes.BufferBindingType {
	if t == gpucore.BindingTypeUniformBuffer {
		return gputypes.BufferBindingTypeUniform
	}
	return gputypes.BufferBindingTypeStorage
}

var _ gpucore.Device = (*HALAdapter)(nil)
