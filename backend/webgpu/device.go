//go:build !nogpu

// Package webgpu realizes compiled binding layouts on wgpu-native devices
// through cogentcore/webgpu.
package webgpu

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gogpu/sccl/backend"
	"github.com/gogpu/sccl/gpucore"
)

func init() {
	backend.Register(backend.BackendWebGPU, func(handle any) (gpucore.Device, error) {
		dev, ok := handle.(*wgpu.Device)
		if !ok || dev == nil {
			return nil, fmt.Errorf("%w: %T", backend.ErrUnsupportedHandle, handle)
		}
		return New(dev), nil
	})
}

// Device implements gpucore.Device over a *wgpu.Device. WebGPU has no
// descriptor pools; pools are gpucore.PoolBudgets owning their bind groups.
//
// Device is safe for concurrent use.
type Device struct {
	mu     sync.RWMutex
	device *wgpu.Device

	log    atomic.Pointer[slog.Logger]
	nextID atomic.Uint64

	buffers   map[gpucore.BufferID]*wgpu.Buffer
	modules   map[gpucore.ShaderModuleID]*wgpu.ShaderModule
	layouts   map[gpucore.BindGroupLayoutID]*groupLayout
	pools     map[gpucore.DescriptorPoolID]*gpucore.PoolBudget
	groups    map[gpucore.BindGroupID]*wgpu.BindGroup
	pipeLays  map[gpucore.PipelineLayoutID]*wgpu.PipelineLayout
	pipelines map[gpucore.ComputePipelineID]*wgpu.ComputePipeline
}

type groupLayout struct {
	layout *wgpu.BindGroupLayout
	desc   gpucore.BindGroupLayoutDesc
}

// New wraps a device. The caller keeps ownership of device.
func New(device *wgpu.Device) *Device {
	d := &Device{
		device:    device,
		buffers:   make(map[gpucore.BufferID]*wgpu.Buffer),
		modules:   make(map[gpucore.ShaderModuleID]*wgpu.ShaderModule),
		layouts:   make(map[gpucore.BindGroupLayoutID]*groupLayout),
		pools:     make(map[gpucore.DescriptorPoolID]*gpucore.PoolBudget),
		groups:    make(map[gpucore.BindGroupID]*wgpu.BindGroup),
		pipeLays:  make(map[gpucore.PipelineLayoutID]*wgpu.PipelineLayout),
		pipelines: make(map[gpucore.ComputePipelineID]*wgpu.ComputePipeline),
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

// ImportBuffer registers a caller-owned buffer. The device never releases it.
func (d *Device) ImportBuffer(buffer *wgpu.Buffer) gpucore.BufferID {
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

// CreateShaderModule creates a shader module from WGSL or SPIR-V.
func (d *Device) CreateShaderModule(desc *gpucore.ShaderModuleDesc) (gpucore.ShaderModuleID, error) {
	wdesc, err := shaderModuleDescriptor(desc)
	if err != nil {
		return gpucore.InvalidID, err
	}
	module, err := d.device.CreateShaderModule(wdesc)
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("webgpu: create shader module: %w", err)
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
		module.Release()
	}
}

// CreateBindGroupLayout creates a bind group layout visible to compute.
func (d *Device) CreateBindGroupLayout(desc *gpucore.BindGroupLayoutDesc) (gpucore.BindGroupLayoutID, error) {
	l, err := d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: layoutEntries(desc.Entries),
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("webgpu: create bind group layout: %w", err)
	}

	kept := *desc
	kept.Entries = append([]gpucore.BindGroupLayoutEntry(nil), desc.Entries...)

	id := gpucore.BindGroupLayoutID(d.newID())
	d.mu.Lock()
	d.layouts[id] = &groupLayout{layout: l, desc: kept}
	d.mu.Unlock()
	return id, nil
}

// DestroyBindGroupLayout releases a bind group layout.
func (d *Device) DestroyBindGroupLayout(id gpucore.BindGroupLayoutID) {
	d.mu.Lock()
	l, ok := d.layouts[id]
	delete(d.layouts, id)
	d.mu.Unlock()
	if ok {
		l.layout.Release()
	}
}

// CreateDescriptorPool creates a budget-only pool.
func (d *Device) CreateDescriptorPool(desc *gpucore.DescriptorPoolDesc) (gpucore.DescriptorPoolID, error) {
	if desc.MaxSets == 0 {
		return gpucore.InvalidID, fmt.Errorf("%w: pool with zero sets", ErrInvalidDescriptor)
	}
	id := gpucore.DescriptorPoolID(d.newID())
	d.mu.Lock()
	d.pools[id] = gpucore.NewPoolBudget(desc)
	d.mu.Unlock()
	return id, nil
}

// DestroyDescriptorPool releases every bind group allocated from the pool.
func (d *Device) DestroyDescriptorPool(id gpucore.DescriptorPoolID) {
	d.mu.Lock()
	pool, ok := d.pools[id]
	var released []*wgpu.BindGroup
	if ok {
		delete(d.pools, id)
		for _, gid := range pool.Release() {
			if g, ok := d.groups[gid]; ok {
				released = append(released, g)
				delete(d.groups, gid)
			}
		}
	}
	d.mu.Unlock()

	for _, g := range released {
		g.Release()
	}
}

// AllocateBindGroup creates a bind group charged against desc.Pool.
func (d *Device) AllocateBindGroup(desc *gpucore.BindGroupDesc) (gpucore.BindGroupID, error) {
	d.mu.RLock()
	pool, poolOK := d.pools[desc.Pool]
	l, layoutOK := d.layouts[desc.Layout]
	buffers := make([]*wgpu.Buffer, len(desc.Entries))
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

	if err := pool.Reserve(&l.desc); err != nil {
		return gpucore.InvalidID, err
	}

	g, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   desc.Label,
		Layout:  l.layout,
		Entries: bindGroupEntries(desc.Entries, buffers),
	})
	if err != nil {
		pool.Refund(&l.desc)
		return gpucore.InvalidID, fmt.Errorf("webgpu: create bind group: %w", err)
	}

	id := gpucore.BindGroupID(d.newID())
	d.mu.Lock()
	d.groups[id] = g
	d.mu.Unlock()
	pool.Track(id)
	return id, nil
}

// CreatePipelineLayout creates a pipeline layout over layouts in group order.
func (d *Device) CreatePipelineLayout(layouts []gpucore.BindGroupLayoutID) (gpucore.PipelineLayoutID, error) {
	d.mu.RLock()
	wl := make([]*wgpu.BindGroupLayout, len(layouts))
	for i, id := range layouts {
		l, ok := d.layouts[id]
		if !ok {
			d.mu.RUnlock()
			return gpucore.InvalidID, fmt.Errorf("%w: layout %d", gpucore.ErrUnknownResource, id)
		}
		wl[i] = l.layout
	}
	d.mu.RUnlock()

	pl, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: wl,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("webgpu: create pipeline layout: %w", err)
	}

	id := gpucore.PipelineLayoutID(d.newID())
	d.mu.Lock()
	d.pipeLays[id] = pl
	d.mu.Unlock()
	return id, nil
}

// DestroyPipelineLayout releases a pipeline layout.
func (d *Device) DestroyPipelineLayout(id gpucore.PipelineLayoutID) {
	d.mu.Lock()
	pl, ok := d.pipeLays[id]
	delete(d.pipeLays, id)
	d.mu.Unlock()
	if ok {
		pl.Release()
	}
}

// CreateComputePipeline creates a compute pipeline.
func (d *Device) CreateComputePipeline(desc *gpucore.ComputePipelineDesc) (gpucore.ComputePipelineID, error) {
	d.mu.RLock()
	pl, plOK := d.pipeLays[desc.Layout]
	module, modOK := d.modules[desc.ShaderModule]
	d.mu.RUnlock()

	if !plOK {
		return gpucore.InvalidID, fmt.Errorf("%w: pipeline layout %d", gpucore.ErrUnknownResource, desc.Layout)
	}
	if !modOK {
		return gpucore.InvalidID, fmt.Errorf("%w: shader module %d", gpucore.ErrUnknownResource, desc.ShaderModule)
	}

	pipeline, err := d.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  desc.Label,
		Layout: pl,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: desc.EntryPoint,
		},
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("webgpu: create compute pipeline: %w", err)
	}

	id := gpucore.ComputePipelineID(d.newID())
	d.mu.Lock()
	d.pipelines[id] = pipeline
	d.mu.Unlock()
	return id, nil
}

// DestroyComputePipeline releases a compute pipeline.
func (d *Device) DestroyComputePipeline(id gpucore.ComputePipelineID) {
	d.mu.Lock()
	p, ok := d.pipelines[id]
	delete(d.pipelines, id)
	d.mu.Unlock()
	if ok {
		p.Release()
	}
}

var _ gpucore.Device = (*Device)(nil)
