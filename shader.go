package sccl

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/gogpu/sccl/gpucore"
	"github.com/gogpu/sccl/layout"
	"github.com/gogpu/sccl/shaderinfo"
)

// Shader is a compute shader with its binding layouts realized on a device:
// the shader module, one bind group layout per group, the descriptor pool
// sized for those layouts, optional bind groups, the pipeline layout and
// the compute pipeline.
//
// Shader owns every object it created. Destroy releases them in reverse
// creation order.
type Shader struct {
	mu sync.Mutex

	dev        gpucore.Device
	log        *slog.Logger
	label      string
	entryPoint string
	compiled   *layout.Result

	module         gpucore.ShaderModuleID
	layouts        []gpucore.BindGroupLayoutID
	pool           gpucore.DescriptorPoolID
	bindGroups     []gpucore.BindGroupID
	pipelineLayout gpucore.PipelineLayoutID
	pipeline       gpucore.ComputePipelineID

	destroyed bool
}

// CreateShader compiles cfg.Bindings and creates the objects of a compute
// shader on dev, in this order: shader module, bind group layouts (group
// order), descriptor pool, bind groups, pipeline layout, compute pipeline.
//
// The pool is created only when the layouts declare at least one binding.
// Bind groups are allocated only when cfg.Buffers is not nil.
//
// On any failure every object created so far is destroyed in reverse order
// and the error is returned. Layout errors wrap layout.ErrNonContiguousGroups
// or layout.ErrDuplicateBinding.
func CreateShader(dev gpucore.Device, cfg *ShaderConfig, opts ...ShaderOption) (*Shader, error) {
	if dev == nil {
		return nil, fmt.Errorf("%w: nil device", ErrInvalidArgument)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultShaderOptions()
	for _, opt := range opts {
		opt(&o)
	}
	// Devices follow the package logger; WithLogger is scoped to this shader.
	propagateLogger(dev, Logger())
	log := o.logger
	if log == nil {
		log = Logger()
	}

	bindings, err := resolveBindings(cfg, &o)
	if err != nil {
		return nil, err
	}

	s := &Shader{
		dev:        dev,
		log:        log,
		label:      o.label,
		entryPoint: o.entryPoint,
	}

	if err := s.build(cfg, bindings); err != nil {
		log.Warn("sccl: shader construction failed, releasing partial objects",
			"label", s.label, "err", err)
		s.release()
		return nil, err
	}

	log.Info("sccl: shader created",
		"label", s.label,
		"entry_point", s.entryPoint,
		"groups", len(s.layouts),
		"bind_groups", len(s.bindGroups))
	return s, nil
}

// reflectCache holds reflected sources for the reflection options.
var reflectCache = shaderinfo.NewCache(shaderinfo.DefaultCacheCapacity)

// ReflectionCacheStats reports reuse of reflected WGSL sources across
// CreateShader calls.
func ReflectionCacheStats() shaderinfo.CacheStats { return reflectCache.Stats() }

// resolveBindings applies the reflection options. It runs before any GPU
// object exists.
func resolveBindings(cfg *ShaderConfig, o *shaderOptions) ([]layout.BindingEntry, error) {
	bindings := cfg.Bindings
	if !o.reflect && !o.reflectCheck {
		return bindings, nil
	}
	if cfg.WGSL == "" {
		return nil, fmt.Errorf("%w: reflection requires WGSL source", ErrInvalidArgument)
	}

	info, err := reflectCache.Reflect(cfg.WGSL)
	if err != nil {
		return nil, err
	}
	if _, ok := info.EntryPoint(o.entryPoint); !ok {
		return nil, fmt.Errorf("%w: %q", ErrEntryPointNotFound, o.entryPoint)
	}

	if o.reflect && len(bindings) == 0 {
		bindings = info.Entries(o.defaults)
	}
	if o.reflectCheck {
		if err := info.Check(bindings); err != nil {
			return nil, err
		}
	}
	return bindings, nil
}

func (s *Shader) build(cfg *ShaderConfig, bindings []layout.BindingEntry) error {
	var err error

	s.module, err = s.dev.CreateShaderModule(&gpucore.ShaderModuleDesc{
		Label: s.label,
		WGSL:  cfg.WGSL,
		SPIRV: cfg.SPIRV,
	})
	if err != nil {
		return fmt.Errorf("sccl: create shader module: %w", err)
	}

	s.compiled, err = layout.Compile(bindings)
	if err != nil {
		return err
	}

	debug := s.log.Enabled(context.Background(), slog.LevelDebug)
	s.layouts = make([]gpucore.BindGroupLayoutID, 0, len(s.compiled.Layouts))
	for _, l := range s.compiled.Layouts {
		desc := gpucore.LayoutDesc(l, gpucore.Label(s.label, "group", l.Group))
		id, err := s.dev.CreateBindGroupLayout(&desc)
		if err != nil {
			return fmt.Errorf("sccl: create bind group layout %d: %w", l.Group, err)
		}
		s.layouts = append(s.layouts, id)
		if debug {
			s.log.Debug("sccl: bind group layout",
				"label", s.label, "group", l.Group, "bindings", len(l.Bindings), "id", id)
		}
	}

	if !s.compiled.Pool.Empty() {
		var poolLabel string
		if s.label != "" {
			poolLabel = s.label + "/pool"
		}
		desc := gpucore.PoolDescFor(s.compiled.Pool, poolLabel)
		s.pool, err = s.dev.CreateDescriptorPool(&desc)
		if err != nil {
			return fmt.Errorf("sccl: create descriptor pool: %w", err)
		}
		if debug {
			s.log.Debug("sccl: descriptor pool",
				"label", s.label,
				"storage", s.compiled.Pool.StorageCount,
				"uniform", s.compiled.Pool.UniformCount,
				"max_sets", desc.MaxSets)
		}
	}

	if cfg.Buffers != nil {
		if err := s.allocateBindGroups(cfg.Buffers); err != nil {
			return err
		}
	}

	s.pipelineLayout, err = s.dev.CreatePipelineLayout(slices.Clone(s.layouts))
	if err != nil {
		return fmt.Errorf("sccl: create pipeline layout: %w", err)
	}

	s.pipeline, err = s.dev.CreateComputePipeline(&gpucore.ComputePipelineDesc{
		Label:        s.label,
		Layout:       s.pipelineLayout,
		ShaderModule: s.module,
		EntryPoint:   s.entryPoint,
	})
	if err != nil {
		return fmt.Errorf("sccl: create compute pipeline: %w", err)
	}
	return nil
}

// allocateBindGroups allocates one bind group per layout from the pool and
// binds buffers to it.
func (s *Shader) allocateBindGroups(buffers map[BindingPoint]BufferBinding) error {
	declared := 0
	for i, l := range s.compiled.Layouts {
		entries := make([]gpucore.BindGroupEntry, len(l.Bindings))
		for j, b := range l.Bindings {
			bb, ok := buffers[BindingPoint{Group: l.Group, Slot: b.Slot}]
			if !ok {
				return fmt.Errorf("%w: @group(%d) @binding(%d)", ErrMissingBuffer, l.Group, b.Slot)
			}
			entries[j] = gpucore.BindGroupEntry{
				Binding: b.Slot,
				Buffer:  bb.Buffer,
				Offset:  bb.Offset,
				Size:    bb.Size,
			}
		}
		declared += len(entries)

		id, err := s.dev.AllocateBindGroup(&gpucore.BindGroupDesc{
			Label:   gpucore.Label(s.label, "bindgroup", l.Group),
			Pool:    s.pool,
			Layout:  s.layouts[i],
			Entries: entries,
		})
		if err != nil {
			return fmt.Errorf("sccl: allocate bind group %d: %w", l.Group, err)
		}
		s.bindGroups = append(s.bindGroups, id)
	}

	if len(buffers) > declared {
		var errs []error
		for p := range buffers {
			if !s.declares(p) {
				errs = append(errs, fmt.Errorf("%w: @group(%d) @binding(%d)", ErrUndeclaredBuffer, p.Group, p.Slot))
			}
		}
		return errors.Join(errs...)
	}
	return nil
}

func (s *Shader) declares(p BindingPoint) bool {
	if int(p.Group) >= len(s.compiled.Layouts) {
		return false
	}
	_, ok := slices.BinarySearchFunc(s.compiled.Layouts[p.Group].Bindings, p.Slot,
		func(b layout.SlotBinding, slot uint32) int { return cmp.Compare(b.Slot, slot) })
	return ok
}

// release destroys every created object in reverse creation order.
// Bind groups go with their pool.
func (s *Shader) release() {
	if s.pipeline != gpucore.InvalidID {
		s.dev.DestroyComputePipeline(s.pipeline)
		s.pipeline = gpucore.InvalidID
	}
	if s.pipelineLayout != gpucore.InvalidID {
		s.dev.DestroyPipelineLayout(s.pipelineLayout)
		s.pipelineLayout = gpucore.InvalidID
	}
	if s.pool != gpucore.InvalidID {
		s.dev.DestroyDescriptorPool(s.pool)
		s.pool = gpucore.InvalidID
	}
	s.bindGroups = nil
	for i := len(s.layouts) - 1; i >= 0; i-- {
		s.dev.DestroyBindGroupLayout(s.layouts[i])
	}
	s.layouts = nil
	if s.module != gpucore.InvalidID {
		s.dev.DestroyShaderModule(s.module)
		s.module = gpucore.InvalidID
	}
}

// Destroy releases all objects owned by the shader. It is safe to call
// more than once.
func (s *Shader) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return
	}
	s.destroyed = true
	s.release()
	s.log.Info("sccl: shader destroyed", "label", s.label)
}

// Label returns the debug label given with WithLabel.
func (s *Shader) Label() string { return s.label }

// EntryPoint returns the compute entry point name.
func (s *Shader) EntryPoint() string { return s.entryPoint }

// Compiled returns the compiled layouts and pool sizing.
func (s *Shader) Compiled() *layout.Result { return s.compiled }

// Module returns the shader module, or InvalidID after Destroy.
func (s *Shader) Module() gpucore.ShaderModuleID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.module
}

// Layouts returns the bind group layouts in group order.
func (s *Shader) Layouts() []gpucore.BindGroupLayoutID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.layouts)
}

// Pool returns the descriptor pool. It is InvalidID when no binding was
// declared or after Destroy.
func (s *Shader) Pool() gpucore.DescriptorPoolID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool
}

// BindGroups returns the bind groups in group order. It is empty unless
// ShaderConfig.Buffers was set.
func (s *Shader) BindGroups() []gpucore.BindGroupID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.bindGroups)
}

// PipelineLayout returns the pipeline layout.
func (s *Shader) PipelineLayout() gpucore.PipelineLayoutID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pipelineLayout
}

// Pipeline returns the compute pipeline.
func (s *Shader) Pipeline() gpucore.ComputePipelineID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pipeline
}
