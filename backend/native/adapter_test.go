package native

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/sccl/backend"
	"github.com/gogpu/sccl/gpucore"
	"github.com/gogpu/sccl/layout"
	"github.com/gogpu/wgpu/hal"
)

// =============================================================================
// Mock Types for Testing
// =============================================================================

// mockResource is a test double for every hal resource type.
type mockResource struct {
	kind   string
	handle uintptr
}

// Destroy implements hal.Resource.
func (r *mockResource) Destroy() {}

// NativeHandle implements hal.NativeHandle.
func (r *mockResource) NativeHandle() uintptr { return r.handle }

// mockHALDevice is a test double for HALDevice.
type mockHALDevice struct {
	createBindGroupFunc func(*hal.BindGroupDescriptor) (hal.BindGroup, error)

	// Last descriptors seen, for verification
	lastLayout    *hal.BindGroupLayoutDescriptor
	lastBindGroup *hal.BindGroupDescriptor
	lastPipeline  *hal.ComputePipelineDescriptor
	lastModule    *hal.ShaderModuleDescriptor

	// Track calls for verification
	created             int32
	destroyed           int32
	destroyedBindGroups int32
}

func (d *mockHALDevice) newResource(kind string) *mockResource {
	atomic.AddInt32(&d.created, 1)
	return &mockResource{kind: kind}
}

func (d *mockHALDevice) release() { atomic.AddInt32(&d.destroyed, 1) }

func (d *mockHALDevice) CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error) {
	d.lastModule = desc
	return d.newResource("module"), nil
}
func (d *mockHALDevice) DestroyShaderModule(_ hal.ShaderModule) { d.release() }

func (d *mockHALDevice) CreateBindGroupLayout(desc *hal.BindGroupLayoutDescriptor) (hal.BindGroupLayout, error) {
	d.lastLayout = desc
	return d.newResource("layout"), nil
}
func (d *mockHALDevice) DestroyBindGroupLayout(_ hal.BindGroupLayout) { d.release() }

func (d *mockHALDevice) CreateBindGroup(desc *hal.BindGroupDescriptor) (hal.BindGroup, error) {
	d.lastBindGroup = desc
	if d.createBindGroupFunc != nil {
		return d.createBindGroupFunc(desc)
	}
	return d.newResource("bindgroup"), nil
}
func (d *mockHALDevice) DestroyBindGroup(_ hal.BindGroup) {
	d.release()
	atomic.AddInt32(&d.destroyedBindGroups, 1)
}

func (d *mockHALDevice) CreatePipelineLayout(_ *hal.PipelineLayoutDescriptor) (hal.PipelineLayout, error) {
	return d.newResource("pipelinelayout"), nil
}
func (d *mockHALDevice) DestroyPipelineLayout(_ hal.PipelineLayout) { d.release() }

func (d *mockHALDevice) CreateComputePipeline(desc *hal.ComputePipelineDescriptor) (hal.ComputePipeline, error) {
	d.lastPipeline = desc
	return d.newResource("pipeline"), nil
}
func (d *mockHALDevice) DestroyComputePipeline(_ hal.ComputePipeline) { d.release() }

// mockGPUDevice implements gpucontext.Device for testing.
type mockGPUDevice struct{}

func (m *mockGPUDevice) Poll(wait bool) {}
func (m *mockGPUDevice) Destroy()       {}

// mockQueue implements gpucontext.Queue for testing.
type mockQueue struct{}

// mockAdapter implements gpucontext.Adapter for testing.
type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider for testing.
type mockProvider struct{}

func (m *mockProvider) Device() gpucontext.Device   { return &mockGPUDevice{} }
func (m *mockProvider) Queue() gpucontext.Queue     { return &mockQueue{} }
func (m *mockProvider) Adapter() gpucontext.Adapter { return &mockAdapter{} }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatBGRA8Unorm
}
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{}
}

var (
	_ gpucontext.DeviceProvider = (*mockProvider)(nil)
	_ gpucontext.DeviceProvider = (*mockHALProvider)(nil)
)

// mockHALProvider additionally shares a HAL device, like gogpu does.
type mockHALProvider struct {
	mockProvider
	device any
}

func (m *mockHALProvider) HalDevice() any { return m.device }
func (m *mockHALProvider) HalQueue() any  { return nil }

// compileLayouts is a helper that creates one layout per compiled group.
func compileLayouts(t *testing.T, a *HALAdapter, in []layout.BindingEntry) (*layout.Result, []gpucore.BindGroupLayoutID) {
	t.Helper()
	res, err := layout.Compile(in)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	ids := make([]gpucore.BindGroupLayoutID, len(res.Layouts))
	for i, l := range res.Layouts {
		desc := gpucore.LayoutDesc(l, "")
		id, err := a.CreateBindGroupLayout(&desc)
		if err != nil {
			t.Fatalf("CreateBindGroupLayout(group %d) error = %v", l.Group, err)
		}
		ids[i] = id
	}
	return res, ids
}

// =============================================================================
// HALAdapter Tests
// =============================================================================

func TestHALAdapter_CreateBindGroupLayout(t *testing.T) {
	dev := &mockHALDevice{}
	a := NewHALAdapter(dev)

	id, err := a.CreateBindGroupLayout(&gpucore.BindGroupLayoutDesc{
		Label: "blur/group0",
		Entries: []gpucore.BindGroupLayoutEntry{
			{Binding: 0, Type: gpucore.BindingTypeStorageBuffer},
			{Binding: 2, Type: gpucore.BindingTypeUniformBuffer},
		},
	})
	if err != nil {
		t.Fatalf("CreateBindGroupLayout() error = %v", err)
	}
	if id == gpucore.InvalidID {
		t.Fatal("CreateBindGroupLayout() returned InvalidID")
	}

	got := dev.lastLayout
	if got.Label != "blur/group0" || len(got.Entries) != 2 {
		t.Fatalf("hal descriptor = %+v", got)
	}
	e := got.Entries[1]
	if e.Binding != 2 || e.Visibility != gputypes.ShaderStageCompute {
		t.Errorf("Entries[1] = %+v", e)
	}
	if e.Buffer == nil || e.Buffer.Type != gputypes.BufferBindingTypeUniform {
		t.Errorf("Entries[1].Buffer = %+v, want uniform", e.Buffer)
	}
	if got.Entries[0].Buffer.Type != gputypes.BufferBindingTypeStorage {
		t.Errorf("Entries[0].Buffer.Type = %v, want storage", got.Entries[0].Buffer.Type)
	}

	a.DestroyBindGroupLayout(id)
	a.DestroyBindGroupLayout(id) // unknown IDs are ignored
	if dev.destroyed != 1 {
		t.Errorf("destroyed = %d, want 1", dev.destroyed)
	}
}

func TestHALAdapter_ShaderModule(t *testing.T) {
	dev := &mockHALDevice{}
	a := NewHALAdapter(dev)

	if _, err := a.CreateShaderModule(&gpucore.ShaderModuleDesc{}); !errors.Is(err, ErrEmptyShader) {
		t.Errorf("CreateShaderModule(empty) error = %v, want ErrEmptyShader", err)
	}

	id, err := a.CreateShaderModule(&gpucore.ShaderModuleDesc{Label: "k", WGSL: "@compute @workgroup_size(1) fn main() {}"})
	if err != nil {
		t.Fatalf("CreateShaderModule() error = %v", err)
	}
	if dev.lastModule.Source.WGSL == "" {
		t.Error("WGSL source not forwarded")
	}
	a.DestroyShaderModule(id)
	if dev.destroyed != 1 {
		t.Errorf("destroyed = %d, want 1", dev.destroyed)
	}
}

func TestHALAdapter_PoolAndBindGroups(t *testing.T) {
	dev := &mockHALDevice{}
	a := NewHALAdapter(dev)

	res, layouts := compileLayouts(t, a, []layout.BindingEntry{
		{Group: 0, Slot: 0, Kind: layout.DeviceStorage},
		{Group: 0, Slot: 1, Kind: layout.HostUniform},
		{Group: 1, Slot: 0, Kind: layout.SharedStorage},
	})

	poolDesc := gpucore.PoolDescFor(res.Pool, "")
	pool, err := a.CreateDescriptorPool(&poolDesc)
	if err != nil {
		t.Fatalf("CreateDescriptorPool() error = %v", err)
	}

	bufA := a.ImportBuffer(&mockResource{kind: "buffer", handle: 0xA})
	bufB := a.ImportBuffer(&mockResource{kind: "buffer", handle: 0xB})
	bufC := a.ImportBuffer(&mockResource{kind: "buffer", handle: 0xC})

	g0, err := a.AllocateBindGroup(&gpucore.BindGroupDesc{
		Pool:   pool,
		Layout: layouts[0],
		Entries: []gpucore.BindGroupEntry{
			{Binding: 0, Buffer: bufA},
			{Binding: 1, Buffer: bufB, Offset: 256, Size: 64},
		},
	})
	if err != nil {
		t.Fatalf("AllocateBindGroup(group 0) error = %v", err)
	}
	if g0 == gpucore.InvalidID {
		t.Fatal("AllocateBindGroup() returned InvalidID")
	}

	entry := dev.lastBindGroup.Entries[1]
	binding, ok := entry.Resource.(gputypes.BufferBinding)
	if !ok {
		t.Fatalf("Resource = %T, want gputypes.BufferBinding", entry.Resource)
	}
	if binding.Buffer != 0xB || binding.Offset != 256 || binding.Size != 64 {
		t.Errorf("BufferBinding = %+v", binding)
	}

	if _, err := a.AllocateBindGroup(&gpucore.BindGroupDesc{
		Pool:    pool,
		Layout:  layouts[1],
		Entries: []gpucore.BindGroupEntry{{Binding: 0, Buffer: bufC}},
	}); err != nil {
		t.Fatalf("AllocateBindGroup(group 1) error = %v", err)
	}

	// The pool was sized for exactly two groups.
	_, err = a.AllocateBindGroup(&gpucore.BindGroupDesc{
		Pool:    pool,
		Layout:  layouts[1],
		Entries: []gpucore.BindGroupEntry{{Binding: 0, Buffer: bufC}},
	})
	if !errors.Is(err, gpucore.ErrPoolExhausted) {
		t.Errorf("third AllocateBindGroup() error = %v, want ErrPoolExhausted", err)
	}

	a.DestroyDescriptorPool(pool)
	if dev.destroyedBindGroups != 2 {
		t.Errorf("bind groups destroyed with pool = %d, want 2", dev.destroyedBindGroups)
	}
	a.DestroyDescriptorPool(pool)
	if dev.destroyedBindGroups != 2 {
		t.Errorf("second DestroyDescriptorPool destroyed more bind groups: %d", dev.destroyedBindGroups)
	}
}

func TestHALAdapter_AllocateBindGroupErrors(t *testing.T) {
	dev := &mockHALDevice{}
	a := NewHALAdapter(dev)

	res, layouts := compileLayouts(t, a, []layout.BindingEntry{
		{Group: 0, Slot: 0, Kind: layout.DeviceUniform},
	})
	poolDesc := gpucore.PoolDescFor(res.Pool, "")
	pool, err := a.CreateDescriptorPool(&poolDesc)
	if err != nil {
		t.Fatalf("CreateDescriptorPool() error = %v", err)
	}

	if _, err := a.AllocateBindGroup(&gpucore.BindGroupDesc{
		Pool:    pool,
		Layout:  layouts[0],
		Entries: []gpucore.BindGroupEntry{{Binding: 0, Buffer: 999}},
	}); !errors.Is(err, gpucore.ErrUnknownResource) {
		t.Errorf("unknown buffer error = %v, want ErrUnknownResource", err)
	}

	buf := a.ImportBuffer(&mockResource{handle: 1})
	if _, err := a.AllocateBindGroup(&gpucore.BindGroupDesc{
		Pool:    999,
		Layout:  layouts[0],
		Entries: []gpucore.BindGroupEntry{{Binding: 0, Buffer: buf}},
	}); !errors.Is(err, gpucore.ErrUnknownResource) {
		t.Errorf("unknown pool error = %v, want ErrUnknownResource", err)
	}

	// A failed HAL call must not consume pool capacity.
	boom := errors.New("out of memory")
	dev.createBindGroupFunc = func(*hal.BindGroupDescriptor) (hal.BindGroup, error) { return nil, boom }
	desc := &gpucore.BindGroupDesc{
		Pool:    pool,
		Layout:  layouts[0],
		Entries: []gpucore.BindGroupEntry{{Binding: 0, Buffer: buf}},
	}
	if _, err := a.AllocateBindGroup(desc); !errors.Is(err, boom) {
		t.Fatalf("AllocateBindGroup() error = %v, want %v", err, boom)
	}
	dev.createBindGroupFunc = nil
	if _, err := a.AllocateBindGroup(desc); err != nil {
		t.Errorf("AllocateBindGroup() after failed attempt error = %v", err)
	}

	if _, err := a.CreateDescriptorPool(&gpucore.DescriptorPoolDesc{}); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("zero-set pool error = %v, want ErrInvalidDescriptor", err)
	}
}

func TestHALAdapter_ComputePipeline(t *testing.T) {
	dev := &mockHALDevice{}
	a := NewHALAdapter(dev)

	_, layouts := compileLayouts(t, a, []layout.BindingEntry{
		{Group: 0, Slot: 0, Kind: layout.DeviceStorage},
	})
	module, err := a.CreateShaderModule(&gpucore.ShaderModuleDesc{SPIRV: []uint32{0x07230203}})
	if err != nil {
		t.Fatalf("CreateShaderModule() error = %v", err)
	}
	pl, err := a.CreatePipelineLayout(layouts)
	if err != nil {
		t.Fatalf("CreatePipelineLayout() error = %v", err)
	}
	pipeline, err := a.CreateComputePipeline(&gpucore.ComputePipelineDesc{
		Label:        "k",
		Layout:       pl,
		ShaderModule: module,
		EntryPoint:   "main",
	})
	if err != nil {
		t.Fatalf("CreateComputePipeline() error = %v", err)
	}
	if dev.lastPipeline.Compute.EntryPoint != "main" {
		t.Errorf("EntryPoint = %q, want main", dev.lastPipeline.Compute.EntryPoint)
	}

	if _, err := a.CreatePipelineLayout([]gpucore.BindGroupLayoutID{12345}); !errors.Is(err, gpucore.ErrUnknownResource) {
		t.Errorf("CreatePipelineLayout(unknown) error = %v, want ErrUnknownResource", err)
	}
	if _, err := a.CreateComputePipeline(&gpucore.ComputePipelineDesc{Layout: pl, ShaderModule: 777}); !errors.Is(err, gpucore.ErrUnknownResource) {
		t.Errorf("CreateComputePipeline(unknown module) error = %v, want ErrUnknownResource", err)
	}

	a.DestroyComputePipeline(pipeline)
	a.DestroyPipelineLayout(pl)
	a.DestroyShaderModule(module)
	a.DestroyBindGroupLayout(layouts[0])
	if dev.created != dev.destroyed {
		t.Errorf("created %d, destroyed %d", dev.created, dev.destroyed)
	}
}

func TestNewFromProvider(t *testing.T) {
	dev := &mockHALDevice{}

	a, err := NewFromProvider(&mockHALProvider{device: dev})
	if err != nil {
		t.Fatalf("NewFromProvider() error = %v", err)
	}
	if a.device != dev {
		t.Error("adapter does not wrap the provider's HAL device")
	}

	if _, err := NewFromProvider(&mockProvider{}); !errors.Is(err, ErrNoHALDevice) {
		t.Errorf("NewFromProvider(no hal) error = %v, want ErrNoHALDevice", err)
	}
	if _, err := NewFromProvider(&mockHALProvider{device: "nope"}); !errors.Is(err, ErrNoHALDevice) {
		t.Errorf("NewFromProvider(wrong type) error = %v, want ErrNoHALDevice", err)
	}
}

func TestBackendRegistration(t *testing.T) {
	if !backend.IsRegistered(backend.BackendNative) {
		t.Fatal("native backend not registered")
	}

	d, err := backend.Open(backend.BackendNative, &mockHALDevice{})
	if err != nil {
		t.Fatalf("Open(hal device) error = %v", err)
	}
	if _, ok := d.(*HALAdapter); !ok {
		t.Errorf("Open() = %T, want *HALAdapter", d)
	}

	if _, err := backend.Open(backend.BackendNative, &mockProvider{}); !errors.Is(err, backend.ErrUnsupportedHandle) {
		t.Errorf("Open(plain provider) error = %v, want ErrUnsupportedHandle", err)
	}
	if _, err := backend.Open(backend.BackendNative, &mockHALProvider{device: &mockHALDevice{}}); err != nil {
		t.Errorf("Open(hal provider) error = %v", err)
	}
}
