//go:build !nogpu

package webgpu

import (
	"encoding/binary"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gogpu/sccl/gpucore"
)

// shaderModuleDescriptor builds a WGSL descriptor, or SPIR-V when no
// WGSL is given.
func shaderModuleDescriptor(desc *gpucore.ShaderModuleDesc) (*wgpu.ShaderModuleDescriptor, error) {
	switch {
	case desc.WGSL != "":
		return &wgpu.ShaderModuleDescriptor{
			Label:          desc.Label,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: desc.WGSL},
		}, nil
	case len(desc.SPIRV) > 0:
		return &wgpu.ShaderModuleDescriptor{
			Label:           desc.Label,
			SPIRVDescriptor: &wgpu.ShaderModuleSPIRVDescriptor{Code: spirvBytes(desc.SPIRV)},
		}, nil
	default:
		return nil, ErrEmptyShader
	}
}

// spirvBytes packs SPIR-V words little-endian, the byte order of a .spv file.
func spirvBytes(words []uint32) []byte {
	out := make([]byte, 0, len(words)*4)
	for _, w := range words {
		out = binary.LittleEndian.AppendUint32(out, w)
	}
	return out
}

// layoutEntries converts gpucore layout entries to compute-visible buffer entries.
func layoutEntries(entries []gpucore.BindGroupLayoutEntry) []wgpu.BindGroupLayoutEntry {
	out := make([]wgpu.BindGroupLayoutEntry, len(entries))
	for i, e := range entries {
		out[i] = wgpu.BindGroupLayoutEntry{
			Binding:    e.Binding,
			Visibility: wgpu.ShaderStageCompute,
		}
		if e.Type == gpucore.BindingTypeUniformBuffer {
			out[i].Buffer.Type = wgpu.BufferBindingTypeUniform
		} else {
			out[i].Buffer.Type = wgpu.BufferBindingTypeStorage
		}
	}
	return out
}

// bindGroupEntries pairs entries with resolved buffers. Size 0 binds the
// whole buffer from Offset.
func bindGroupEntries(entries []gpucore.BindGroupEntry, buffers []*wgpu.Buffer) []wgpu.BindGroupEntry {
	out := make([]wgpu.BindGroupEntry, len(entries))
	for i, e := range entries {
		size := e.Size
		if size == 0 {
			size = wgpu.WholeSize
		}
		out[i] = wgpu.BindGroupEntry{
			Binding: e.Binding,
			Buffer:  buffers[i],
			Offset:  e.Offset,
			Size:    size,
		}
	}
	return out
}
