// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layout

// Emit produces one CompiledLayout per validated group, preserving the
// order of groups and of the entries inside them.
func Emit(groups []GroupRecord) []CompiledLayout {
	layouts := make([]CompiledLayout, len(groups))
	for i := range groups {
		g := &groups[i]
		bindings := make([]SlotBinding, len(g.Entries))
		for j, e := range g.Entries {
			bindings[j] = SlotBinding{
				Slot:     e.Slot,
				Category: e.Kind.Category(),
			}
		}
		layouts[i] = CompiledLayout{
			Group:    g.Group,
			Bindings: bindings,
		}
	}
	return layouts
}
