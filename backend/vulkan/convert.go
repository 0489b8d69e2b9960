//go:build !nogpu

package vulkan

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"github.com/gogpu/sccl/gpucore"
)

// descriptorType maps a gpucore binding type to a Vulkan descriptor type.
func descriptorType(t gpucore.BindingType) vk.DescriptorType {
	if t == gpucore.BindingTypeUniformBuffer {
		return vk.DescriptorTypeUniformBuffer
	}
	return vk.DescriptorTypeStorageBuffer
}

// setLayoutInfo builds one compute-visible, single-descriptor binding per entry.
func setLayoutInfo(entries []gpucore.BindGroupLayoutEntry) vk.DescriptorSetLayoutCreateInfo {
	bindings := make([]vk.DescriptorSetLayoutBinding, len(entries))
	for i, e := range entries {
		bindings[i] = vk.DescriptorSetLayoutBinding{
			Binding:         e.Binding,
			DescriptorType:  descriptorType(e.Type),
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageComputeBit),
		}
	}
	return vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}
}

// poolInfo sizes a pool from desc. desc.Sizes already omits zero counts.
func poolInfo(desc *gpucore.DescriptorPoolDesc) vk.DescriptorPoolCreateInfo {
	sizes := make([]vk.DescriptorPoolSize, len(desc.Sizes))
	for i, s := range desc.Sizes {
		sizes[i] = vk.DescriptorPoolSize{
			Type:            descriptorType(s.Type),
			DescriptorCount: s.Count,
		}
	}
	return vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       desc.MaxSets,
		PoolSizeCount: uint32(len(sizes)),
		PPoolSizes:    sizes,
	}
}

// descriptorWrites builds one write per bind group entry. The descriptor
// type of each write comes from the layout entry with the same binding.
func descriptorWrites(set vk.DescriptorSet, layout []gpucore.BindGroupLayoutEntry, entries []gpucore.BindGroupEntry, buffers []vk.Buffer) []vk.WriteDescriptorSet {
	types := make(map[uint32]gpucore.BindingType, len(layout))
	for _, l := range layout {
		types[l.Binding] = l.Type
	}

	writes := make([]vk.WriteDescriptorSet, 0, len(entries))
	for i, e := range entries {
		t, ok := types[e.Binding]
		if !ok {
			continue
		}
		size := vk.DeviceSize(vk.WholeSize)
		if e.Size != 0 {
			size = vk.DeviceSize(e.Size)
		}
		writes = append(writes, vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          set,
			DstBinding:      e.Binding,
			DstArrayElement: 0,
			DescriptorType:  descriptorType(t),
			DescriptorCount: 1,
			PBufferInfo: []vk.DescriptorBufferInfo{{
				Buffer: buffers[i],
				Offset: vk.DeviceSize(e.Offset),
				Range:  size,
			}},
		})
	}
	return writes
}

// shaderModuleInfo wraps SPIR-V words. CodeSize is in bytes.
func shaderModuleInfo(code []uint32) vk.ShaderModuleCreateInfo {
	return vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code) * 4),
		PCode:    code,
	}
}

// computePipelineInfo describes a single-stage compute pipeline.
func computePipelineInfo(layout vk.PipelineLayout, module vk.ShaderModule, entryPoint string) vk.ComputePipelineCreateInfo {
	return vk.ComputePipelineCreateInfo{
		SType: vk.StructureTypeComputePipelineCreateInfo,
		Stage: vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageComputeBit,
			Module: module,
			PName:  safeString(entryPoint),
		},
		Layout: layout,
	}
}

// safeString NUL-terminates s for the C side.
func safeString(s string) string {
	if s == "" || s[len(s)-1] != 0 {
		return s + "\x00"
	}
	return s
}

// allocError maps a failed vkAllocateDescriptorSets result.
func allocError(res vk.Result) error {
	switch res {
	case vk.ErrorOutOfPoolMemory, vk.ErrorFragmentedPool:
		return fmt.Errorf("%w: %w", gpucore.ErrPoolExhausted, vk.Error(res))
	default:
		return fmt.Errorf("vulkan: allocate descriptor set: %w", vk.Error(res))
	}
}
