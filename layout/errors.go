// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layout

import (
	"errors"
	"fmt"
)

// Package errors.
var (
	// ErrNonContiguousGroups is returned when group indices do not form the
	// range 0..N-1.
	ErrNonContiguousGroups = errors.New("layout: binding groups are not contiguous from 0")

	// ErrDuplicateBinding is returned when two entries of one group share a slot.
	ErrDuplicateBinding = errors.New("layout: duplicate binding slot")

	// ErrUnreachableBufferKind is the panic value (wrapped) for a BufferKind
	// outside the declared set. It is never returned.
	ErrUnreachableBufferKind = errors.New("layout: unreachable buffer kind")
)

// LayoutError identifies the group (and slot) that failed validation.
type LayoutError struct {
	// Kind is ErrNonContiguousGroups or ErrDuplicateBinding.
	Kind error

	// Group is the offending group index.
	Group uint32

	// Expected is the group index that should have been present.
	// Only meaningful for ErrNonContiguousGroups.
	Expected uint32

	// Slot is the duplicated slot. Only meaningful for ErrDuplicateBinding.
	Slot uint32
}

func (e *LayoutError) Error() string {
	if errors.Is(e.Kind, ErrDuplicateBinding) {
		return fmt.Sprintf("%v: group %d, slot %d", e.Kind, e.Group, e.Slot)
	}
	return fmt.Sprintf("%v: found group %d, expected %d", e.Kind, e.Group, e.Expected)
}

// Unwrap returns Kind so that errors.Is matches the sentinel.
func (e *LayoutError) Unwrap() error {
	return e.Kind
}
