// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layout

// Validate checks that group indices form the range 0..N-1 and that no slot
// repeats within a group. It expects the ordering established by SortGroups
// and stops at the first violation.
//
// The returned error is a *LayoutError wrapping ErrNonContiguousGroups or
// ErrDuplicateBinding.
func Validate(groups []GroupRecord) error {
	for i := range groups {
		g := &groups[i]

		if g.Group != uint32(i) { //nolint:gosec // group count is bounded by entry count
			return &LayoutError{
				Kind:     ErrNonContiguousGroups,
				Group:    g.Group,
				Expected: uint32(i), //nolint:gosec // see above
			}
		}

		// Sorted entries put duplicates next to each other.
		for j := 1; j < len(g.Entries); j++ {
			if g.Entries[j-1].Slot == g.Entries[j].Slot {
				return &LayoutError{
					Kind:  ErrDuplicateBinding,
					Group: g.Group,
					Slot:  g.Entries[j].Slot,
				}
			}
		}
	}
	return nil
}
