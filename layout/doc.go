// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package layout compiles a flat list of compute shader buffer bindings into
// binding-group layouts and the sizing of the pool that backs them.
//
// A caller declares each buffer with the binding group it belongs to, its
// slot inside that group and its [BufferKind]. [Compile] groups the entries,
// sorts them, validates the result and produces:
//
//   - one [CompiledLayout] per group, in ascending group order, whose
//     bindings are sorted by slot;
//   - a [PoolSizing] with the exact number of storage and uniform
//     descriptors and the number of groups, enough to draw one allocation of
//     every emitted layout from a single pool.
//
// # Validation
//
// The GPU APIs index binding groups positionally, starting at 0, with no
// gaps. Groups {0, 2} fail with [ErrNonContiguousGroups]. Two
// entries sharing a slot within one group fail with [ErrDuplicateBinding];
// the driver would otherwise overwrite one of them silently.
//
// # Determinism
//
// The output depends only on the set of entries, never on their order.
// Compiling a permutation of the same input yields an identical [Result].
//
// # Usage Example
//
//	res, err := layout.Compile([]layout.BindingEntry{
//	    {Group: 0, Slot: 0, Kind: layout.DeviceStorage},
//	    {Group: 0, Slot: 1, Kind: layout.HostUniform},
//	})
//	if err != nil {
//	    return err
//	}
//	for _, l := range res.Layouts {
//	    // create one bind group layout per l, in order
//	}
//	// create one pool from res.Pool
package layout
