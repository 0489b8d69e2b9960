// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layout

// Size tallies the descriptors of every group by category.
//
// The GPU APIs fix a pool's capacity at creation: an undersized pool fails
// allocation at run time and an oversized one wastes a fixed resource, so
// the counts are exact.
func Size(groups []GroupRecord) PoolSizing {
	var p PoolSizing
	for i := range groups {
		for _, e := range groups[i].Entries {
			switch e.Kind.Category() {
			case CategoryStorage:
				p.StorageCount++
			case CategoryUniform:
				p.UniformCount++
			}
		}
	}
	p.GroupCount = len(groups)
	return p
}
