// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layout

// BindingEntry is one buffer's declared position in the shader's binding
// space. It mirrors a WGSL `@group(Group) @binding(Slot)` declaration.
type BindingEntry struct {
	// Group is the binding group (descriptor set) index.
	Group uint32

	// Slot is the binding index within the group.
	Slot uint32

	// Kind is the buffer role.
	Kind BufferKind
}

// GroupRecord collects the entries that share one group index.
// Records are scratch state of a single compilation.
type GroupRecord struct {
	Group   uint32
	Entries []BindingEntry
}

// SlotBinding is one binding of a compiled layout.
type SlotBinding struct {
	Slot     uint32
	Category Category
}

// CompiledLayout is the validated description of one binding-group layout.
// Bindings are sorted ascending by Slot.
type CompiledLayout struct {
	Group    uint32
	Bindings []SlotBinding
}

// PoolSizing is the capacity of a pool able to back one allocation of every
// compiled layout.
type PoolSizing struct {
	// StorageCount is the number of storage buffer descriptors.
	StorageCount int

	// UniformCount is the number of uniform buffer descriptors.
	UniformCount int

	// GroupCount is the number of binding groups that will be allocated.
	GroupCount int
}

// Count returns the number of descriptors of category c.
func (p PoolSizing) Count(c Category) int {
	switch c {
	case CategoryStorage:
		return p.StorageCount
	case CategoryUniform:
		return p.UniformCount
	default:
		return 0
	}
}

// Empty reports whether the pool would hold no descriptors at all.
func (p PoolSizing) Empty() bool {
	return p.StorageCount == 0 && p.UniformCount == 0
}

// Result is the output of Compile.
type Result struct {
	// Layouts holds one layout per group, ascending by group.
	Layouts []CompiledLayout

	// Pool is the sizing of the pool backing Layouts.
	Pool PoolSizing
}
