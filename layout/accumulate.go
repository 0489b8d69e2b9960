// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layout

import (
	"cmp"
	"slices"
)

// Accumulate buckets entries by group index. A record is created the first
// time a group is seen; records come back in first-seen order and the entries
// inside each record keep their input order.
//
// Accumulate never fails. Gaps and duplicate slots are left for Validate.
// The input slice is not modified.
func Accumulate(entries []BindingEntry) []GroupRecord {
	if len(entries) == 0 {
		return nil
	}

	groups := make([]GroupRecord, 0, 4)
	index := make(map[uint32]int, 4)

	for _, e := range entries {
		pos, ok := index[e.Group]
		if !ok {
			pos = len(groups)
			index[e.Group] = pos
			groups = append(groups, GroupRecord{Group: e.Group})
		}
		groups[pos].Entries = append(groups[pos].Entries, e)
	}

	return groups
}

// SortGroups orders records ascending by group and the entries of every
// record ascending by slot. Both sorts are stable so that equal slots keep
// their input order.
func SortGroups(groups []GroupRecord) {
	slices.SortStableFunc(groups, func(a, b GroupRecord) int {
		return cmp.Compare(a.Group, b.Group)
	})
	for i := range groups {
		slices.SortStableFunc(groups[i].Entries, func(a, b BindingEntry) int {
			return cmp.Compare(a.Slot, b.Slot)
		})
	}
}
