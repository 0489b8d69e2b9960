package gpucore

import (
	"fmt"

	"github.com/gogpu/sccl/layout"
)

// LayoutDesc converts a compiled layout into a bind group layout descriptor.
func LayoutDesc(l layout.CompiledLayout, label string) BindGroupLayoutDesc {
	entries := make([]BindGroupLayoutEntry, len(l.Bindings))
	for i, b := range l.Bindings {
		entries[i] = BindGroupLayoutEntry{
			Binding: b.Slot,
			Type:    BindingTypeFor(b.Category),
		}
	}
	return BindGroupLayoutDesc{Label: label, Entries: entries}
}

// PoolDescFor converts pool sizing into a descriptor pool descriptor.
// Only categories with a non-zero count get a PoolSize, and MaxSets equals
// the number of groups.
func PoolDescFor(p layout.PoolSizing, label string) DescriptorPoolDesc {
	desc := DescriptorPoolDesc{
		Label:   label,
		MaxSets: uint32(p.GroupCount), //nolint:gosec // group count fits uint32 (group indices are uint32)
	}
	if p.StorageCount > 0 {
		desc.Sizes = append(desc.Sizes, PoolSize{Type: BindingTypeStorageBuffer, Count: uint32(p.StorageCount)}) //nolint:gosec // bounded by entry count
	}
	if p.UniformCount > 0 {
		desc.Sizes = append(desc.Sizes, PoolSize{Type: BindingTypeUniformBuffer, Count: uint32(p.UniformCount)}) //nolint:gosec // bounded by entry count
	}
	return desc
}

// Label formats the debug label of a per-group object, e.g. "blur/group0".
// An empty base yields an empty label.
func Label(base, kind string, group uint32) string {
	if base == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%d", base, kind, group)
}
