//go:build !nogpu

// Package vulkan realizes compiled binding layouts on Vulkan devices through
// vulkan-go. The caller owns the vk.Device and must have initialized the
// loader (vk.Init or vk.SetGetInstanceProcAddr) before use.
package vulkan

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	vk "github.com/vulkan-go/vulkan"

	"github.com/gogpu/sccl/gpucore"
	"github.com/gogpu/sccl/shaderinfo"
)

// Device implements gpucore.Device over a vk.Device.
//
// Descriptor pools are real VkDescriptorPools. Each pool also keeps a
// gpucore.PoolBudget so that over-allocation is reported as
// gpucore.ErrPoolExhausted even on drivers that do not fail it.
//
// Device is safe for concurrent use.
type Device struct {
	mu     sync.RWMutex
	device vk.Device

	log    atomic.Pointer[slog.Logger]
	nextID atomic.Uint64

	buffers   map[gpucore.BufferID]vk.Buffer
	modules   map[gpucore.ShaderModuleID]vk.ShaderModule
	layouts   map[gpucore.BindGroupLayoutID]*setLayout
	pools     map[gpucore.DescriptorPoolID]*descriptorPool
	sets      map[gpucore.BindGroupID]vk.DescriptorSet
	pipeLays  map[gpucore.PipelineLayoutID]vk.PipelineLayout
	pipelines map[gpucore.ComputePipelineID]vk.Pipeline
}

type setLayout struct {
	handle vk.DescriptorSetLayout
	desc   gpucore.BindGroupLayoutDesc
}

type descriptorPool struct {
	handle vk.DescriptorPool
	budget *gpucore.PoolBudget
}

// New wraps a logical device.
func New(device vk.Device) *Device {
	d := &Device{
		device:    device,
		buffers:   make(map[gpucore.BufferID]vk.Buffer),
		modules:   make(map[gpucore.ShaderModuleID]vk.ShaderModule),
		layouts:   make(map[gpucore.BindGroupLayoutID]*setLayout),
		pools:     make(map[gpucore.DescriptorPoolID]*descriptorPool),
		sets:      make(map[gpucore.BindGroupID]vk.DescriptorSet),
		pipeLays:  make(map[gpucore.PipelineLayoutID]vk.PipelineLayout),
		pipelines: make(map[gpucore.ComputePipelineID]vk.Pipeline),
	}
	d.nextID.Store(1)
	d.log.Store(slog.New(nopHandler{}))
	return d
}

// SetLogger sets the logger used for resource diagnostics.
func (d *Device) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	d.log.Store(l)
}

func (d *Device) newID() uint64 {
	return d.nextID.Add(1) - 1
}

// ImportBuffer registers a caller-owned buffer. The device never destroys
// imported buffers.
func (d *Device) ImportBuffer(buffer vk.Buffer) gpucore.BufferID {
	id := gpucore.BufferID(d.newID())
	d.mu.Lock()
	d.buffers[id] = buffer
	d.mu.Unlock()
	return id
}

// ForgetBuffer drops an imported buffer.
func (d *Device) ForgetBuffer(id gpucore.BufferID) {
	d.mu.Lock()
	delete(d.buffers, id)
	d.mu.Unlock()
}

// CreateShaderModule creates a shader module. WGSL is compiled to SPIR-V
// with naga first.
func (d *Device) CreateShaderModule(desc *gpucore.ShaderModuleDesc) (gpucore.ShaderModuleID, error) {
	code := desc.SPIRV
	if len(code) == 0 {
		if desc.WGSL == "" {
			return gpucore.InvalidID, ErrEmptyShader
		}
		var err error
		if code, err = shaderinfo.CompileSPIRV(desc.WGSL); err != nil {
			return gpucore.InvalidID, err
		}
	}

	info := shaderModuleInfo(code)
	var module vk.ShaderModule
	if err := vk.Error(vk.CreateShaderModule(d.device, &info, nil, &module)); err != nil {
		return gpucore.InvalidID, fmt.Errorf("vulkan: create shader module: %w", err)
	}

	id := gpucore.ShaderModuleID(d.newID())
	d.mu.Lock()
	d.modules[id] = module
	d.mu.Unlock()
	return id, nil
}

// DestroyShaderModule releases a shader module.
func (d *Device) DestroyShaderModule(id gpucore.ShaderModuleID) {
	d.mu.Lock()
	module, ok := d.modules[id]
	delete(d.modules, id)
	d.mu.Unlock()
	if ok {
		vk.DestroyShaderModule(d.device, module, nil)
	}
}

// CreateBindGroupLayout creates a descriptor set layout.
func (d *Device) CreateBindGroupLayout(desc *gpucore.BindGroupLayoutDesc) (gpucore.BindGroupLayoutID, error) {
	info := setLayoutInfo(desc.Entries)
	var handle vk.DescriptorSetLayout
	if err := vk.Error(vk.CreateDescriptorSetLayout(d.device, &info, nil, &handle)); err != nil {
		return gpucore.InvalidID, fmt.Errorf("vulkan: create descriptor set layout: %w", err)
	}

	kept := *desc
	kept.Entries = append([]gpucore.BindGroupLayoutEntry(nil), desc.Entries...)

	id := gpucore.BindGroupLayoutID(d.newID())
	d.mu.Lock()
	d.layouts[id] = &setLayout{handle: handle, desc: kept}
	d.mu.Unlock()
	return id, nil
}

// DestroyBindGroupLayout releases a descriptor set layout.
func (d *Device) DestroyBindGroupLayout(id gpucore.BindGroupLayoutID) {
	d.mu.Lock()
	l, ok := d.layouts[id]
	delete(d.layouts, id)
	d.mu.Unlock()
	if ok {
		vk.DestroyDescriptorSetLayout(d.device, l.handle, nil)
	}
}

// CreateDescriptorPool creates a VkDescriptorPool.
func (d *Device) CreateDescriptorPool(desc *gpucore.DescriptorPoolDesc) (gpucore.DescriptorPoolID, error) {
	if desc.MaxSets == 0 {
		return gpucore.InvalidID, fmt.Errorf("%w: pool with zero sets", ErrInvalidDescriptor)
	}

	info := poolInfo(desc)
	var handle vk.DescriptorPool
	if err := vk.Error(vk.CreateDescriptorPool(d.device, &info, nil, &handle)); err != nil {
		return gpucore.InvalidID, fmt.Errorf("vulkan: create descriptor pool: %w", err)
	}

	id := gpucore.DescriptorPoolID(d.newID())
	d.mu.Lock()
	d.pools[id] = &descriptorPool{handle: handle, budget: gpucore.NewPoolBudget(desc)}
	d.mu.Unlock()
	return id, nil
}

// DestroyDescriptorPool destroys the pool, which frees its descriptor sets.
func (d *Device) DestroyDescriptorPool(id gpucore.DescriptorPoolID) {
	d.mu.Lock()
	p, ok := d.pools[id]
	if ok {
		delete(d.pools, id)
		for _, set := range p.budget.Release() {
			delete(d.sets, set)
		}
	}
	d.mu.Unlock()
	if ok {
		vk.DestroyDescriptorPool(d.device, p.handle, nil)
	}
}

// AllocateBindGroup allocates a descriptor set and writes the buffer entries.
func (d *Device) AllocateBindGroup(desc *gpucore.BindGroupDesc) (gpucore.BindGroupID, error) {
	d.mu.RLock()
	p, poolOK := d.pools[desc.Pool]
	l, layoutOK := d.layouts[desc.Layout]
	buffers := make([]vk.Buffer, len(desc.Entries))
	var missing error
	for i, e := range desc.Entries {
		b, ok := d.buffers[e.Buffer]
		if !ok {
			missing = fmt.Errorf("%w: buffer %d at binding %d", gpucore.ErrUnknownResource, e.Buffer, e.Binding)
			break
		}
		buffers[i] = b
	}
	d.mu.RUnlock()

	switch {
	case !poolOK:
		return gpucore.InvalidID, fmt.Errorf("%w: pool %d", gpucore.ErrUnknownResource, desc.Pool)
	case !layoutOK:
		return gpucore.InvalidID, fmt.Errorf("%w: layout %d", gpucore.ErrUnknownResource, desc.Layout)
	case missing != nil:
		return gpucore.InvalidID, missing
	}

	if err := p.budget.Reserve(&l.desc); err != nil {
		return gpucore.InvalidID, err
	}

	alloc := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     p.handle,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{l.handle},
	}
	sets := make([]vk.DescriptorSet, 1)
	if res := vk.AllocateDescriptorSets(d.device, &alloc, &sets[0]); res != vk.Success {
		p.budget.Refund(&l.desc)
		return gpucore.InvalidID, allocError(res)
	}

	writes := descriptorWrites(sets[0], l.desc.Entries, desc.Entries, buffers)
	if len(writes) > 0 {
		vk.UpdateDescriptorSets(d.device, uint32(len(writes)), writes, 0, nil)
	}

	id := gpucore.BindGroupID(d.newID())
	d.mu.Lock()
	d.sets[id] = sets[0]
	d.mu.Unlock()
	p.budget.Track(id)
	return id, nil
}

// CreatePipelineLayout creates a pipeline layout over set layouts in group order.
func (d *Device) CreatePipelineLayout(layouts []gpucore.BindGroupLayoutID) (gpucore.PipelineLayoutID, error) {
	d.mu.RLock()
	handles := make([]vk.DescriptorSetLayout, len(layouts))
	for i, id := range layouts {
		l, ok := d.layouts[id]
		if !ok {
			d.mu.RUnlock()
			return gpucore.InvalidID, fmt.Errorf("%w: layout %d", gpucore.ErrUnknownResource, id)
		}
		handles[i] = l.handle
	}
	d.mu.RUnlock()

	info := vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: uint32(len(handles)),
		PSetLayouts:    handles,
	}
	var handle vk.PipelineLayout
	if err := vk.Error(vk.CreatePipelineLayout(d.device, &info, nil, &handle)); err != nil {
		return gpucore.InvalidID, fmt.Errorf("vulkan: create pipeline layout: %w", err)
	}

	id := gpucore.PipelineLayoutID(d.newID())
	d.mu.Lock()
	d.pipeLays[id] = handle
	d.mu.Unlock()
	return id, nil
}

// DestroyPipelineLayout releases a pipeline layout.
func (d *Device) DestroyPipelineLayout(id gpucore.PipelineLayoutID) {
	d.mu.Lock()
	handle, ok := d.pipeLays[id]
	delete(d.pipeLays, id)
	d.mu.Unlock()
	if ok {
		vk.DestroyPipelineLayout(d.device, handle, nil)
	}
}

// CreateComputePipeline creates a compute pipeline without a pipeline cache.
func (d *Device) CreateComputePipeline(desc *gpucore.ComputePipelineDesc) (gpucore.ComputePipelineID, error) {
	d.mu.RLock()
	layout, layoutOK := d.pipeLays[desc.Layout]
	module, moduleOK := d.modules[desc.ShaderModule]
	d.mu.RUnlock()

	if !layoutOK {
		return gpucore.InvalidID, fmt.Errorf("%w: pipeline layout %d", gpucore.ErrUnknownResource, desc.Layout)
	}
	if !moduleOK {
		return gpucore.InvalidID, fmt.Errorf("%w: shader module %d", gpucore.ErrUnknownResource, desc.ShaderModule)
	}

	infos := []vk.ComputePipelineCreateInfo{computePipelineInfo(layout, module, desc.EntryPoint)}
	pipelines := make([]vk.Pipeline, 1)
	if err := vk.Error(vk.CreateComputePipelines(d.device, vk.PipelineCache(vk.NullHandle), 1, infos, nil, pipelines)); err != nil {
		return gpucore.InvalidID, fmt.Errorf("vulkan: create compute pipeline: %w", err)
	}

	id := gpucore.ComputePipelineID(d.newID())
	d.mu.Lock()
	d.pipelines[id] = pipelines[0]
	d.mu.Unlock()
	d.log.Load().Debug("vulkan: compute pipeline created", "label", desc.Label, "entryPoint", desc.EntryPoint)
	return id, nil
}

// DestroyComputePipeline releases a compute pipeline.
func (d *Device) DestroyComputePipeline(id gpucore.ComputePipelineID) {
	d.mu.Lock()
	handle, ok := d.pipelines[id]
	delete(d.pipelines, id)
	d.mu.Unlock()
	if ok {
		vk.DestroyPipeline(d.device, handle, nil)
	}
}

var _ gpucore.Device = (*Device)(nil)
