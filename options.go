package sccl

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/sccl/gpucore"
	"github.com/gogpu/sccl/layout"
	"github.com/gogpu/sccl/shaderinfo"
)

// DefaultEntryPoint is the compute entry point used unless WithEntryPoint
// says otherwise.
const DefaultEntryPoint = "main"

// BindingPoint addresses one binding: @group(Group) @binding(Slot).
type BindingPoint struct {
	Group uint32
	Slot  uint32
}

// BufferBinding is the buffer range bound at a BindingPoint.
type BufferBinding struct {
	// Buffer is an ID from the device's ImportBuffer.
	Buffer gpucore.BufferID

	// Offset is the offset into the buffer.
	Offset uint64

	// Size is the size of the range; 0 binds the rest of the buffer.
	Size uint64
}

// ShaderConfig holds the required inputs of CreateShader.
type ShaderConfig struct {
	// WGSL is the shader source. Either WGSL or SPIRV must be set; WGSL
	// wins when both are.
	WGSL string

	// SPIRV is precompiled shader code.
	SPIRV []uint32

	// Bindings declares where each buffer goes.
	Bindings []layout.BindingEntry

	// Buffers, when not nil, makes CreateShader allocate one bind group per
	// layout and bind these buffers. Every declared binding needs a buffer.
	Buffers map[BindingPoint]BufferBinding
}

// Validate checks that the config carries shader code.
func (c *ShaderConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidArgument)
	}
	if c.WGSL == "" && len(c.SPIRV) == 0 {
		return fmt.Errorf("%w: no shader source (WGSL or SPIRV)", ErrInvalidArgument)
	}
	return nil
}

// ShaderOption configures CreateShader.
//
// Example:
//
//	sh, err := sccl.CreateShader(dev, cfg,
//	    sccl.WithLabel("blur"),
//	    sccl.WithEntryPoint("blur_main"),
//	    sccl.WithReflectionCheck(),
//	)
type ShaderOption func(*shaderOptions)

// shaderOptions holds optional configuration for shader creation.
type shaderOptions struct {
	label      string
	entryPoint string
	logger     *slog.Logger

	reflectCheck bool
	reflect      bool
	defaults     shaderinfo.Defaults
}

// defaultShaderOptions returns the default shader options.
func defaultShaderOptions() shaderOptions {
	return shaderOptions{
		entryPoint: DefaultEntryPoint,
	}
}

// WithLabel sets the debug label. Per-group objects are labeled
// "<label>/group<N>".
func WithLabel(label string) ShaderOption {
	return func(o *shaderOptions) {
		o.label = label
	}
}

// WithEntryPoint sets the compute entry point. An empty name keeps the
// default "main".
func WithEntryPoint(name string) ShaderOption {
	return func(o *shaderOptions) {
		if name != "" {
			o.entryPoint = name
		}
	}
}

// WithLogger sets the logger for this shader instead of sccl.Logger().
// It covers only the shader's own diagnostics; devices keep the logger
// installed with SetLogger.
func WithLogger(l *slog.Logger) ShaderOption {
	return func(o *shaderOptions) {
		o.logger = l
	}
}

// WithReflectionCheck verifies ShaderConfig.Bindings against the WGSL
// source before any GPU object is created. Mismatches fail CreateShader
// with an error wrapping shaderinfo.ErrBindingMismatch. Requires WGSL.
func WithReflectionCheck() ShaderOption {
	return func(o *shaderOptions) {
		o.reflectCheck = true
	}
}

// WithReflectedBindings derives the bindings from the WGSL source when
// ShaderConfig.Bindings is empty, using d to pick buffer kinds.
// Requires WGSL.
func WithReflectedBindings(d shaderinfo.Defaults) ShaderOption {
	return func(o *shaderOptions) {
		o.reflect = true
		o.defaults = d
	}
}
