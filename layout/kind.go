// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layout

import "fmt"

// BufferKind describes the role and memory placement of a buffer bound to a
// compute shader. The set of kinds is closed.
type BufferKind uint8

// Buffer kinds. The zero value is not a valid kind.
const (
	// HostStorage is a read/write storage buffer in host-visible memory.
	HostStorage BufferKind = iota + 1

	// DeviceStorage is a read/write storage buffer in device-local memory.
	DeviceStorage

	// SharedStorage is a read/write storage buffer in memory that is both
	// device-local and host-visible.
	SharedStorage

	// HostUniform is a read-only uniform buffer in host-visible memory.
	HostUniform

	// DeviceUniform is a read-only uniform buffer in device-local memory.
	DeviceUniform

	// SharedUniform is a read-only uniform buffer in memory that is both
	// device-local and host-visible.
	SharedUniform
)

// kindNames is indexed by BufferKind.
var kindNames = [...]string{
	HostStorage:   "host-storage",
	DeviceStorage: "device-storage",
	SharedStorage: "shared-storage",
	HostUniform:   "host-uniform",
	DeviceUniform: "device-uniform",
	SharedUniform: "shared-uniform",
}

// kindCategories is indexed by BufferKind.
var kindCategories = [...]Category{
	HostStorage:   CategoryStorage,
	DeviceStorage: CategoryStorage,
	SharedStorage: CategoryStorage,
	HostUniform:   CategoryUniform,
	DeviceUniform: CategoryUniform,
	SharedUniform: CategoryUniform,
}

// Valid reports whether k is one of the declared kinds.
func (k BufferKind) Valid() bool {
	return k >= HostStorage && k <= SharedUniform
}

// String returns the kind name, e.g. "device-storage".
func (k BufferKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("BufferKind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Category returns the descriptor category k resolves to.
//
// Kinds are constrained when a BindingEntry is built, so an undeclared kind
// means a caller broke that contract. Category logs the fault and panics
// with an error wrapping ErrUnreachableBufferKind.
func (k BufferKind) Category() Category {
	if !k.Valid() {
		unreachableKind(k)
	}
	return kindCategories[k]
}

// ParseBufferKind returns the kind named s, as produced by String.
func ParseBufferKind(s string) (BufferKind, error) {
	for k := HostStorage; k <= SharedUniform; k++ {
		if kindNames[k] == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("layout: unknown buffer kind %q", s)
}

// Category is the descriptor category a buffer is bound as.
type Category uint8

// Descriptor categories.
const (
	// CategoryStorage is a read/write storage buffer binding.
	CategoryStorage Category = iota + 1

	// CategoryUniform is a read-only uniform buffer binding.
	CategoryUniform
)

// String returns "storage" or "uniform".
func (c Category) String() string {
	switch c {
	case CategoryStorage:
		return "storage"
	case CategoryUniform:
		return "uniform"
	default:
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
}

// unreachableKind reports a BufferKind outside the closed set and panics.
func unreachableKind(k BufferKind) {
	err := fmt.Errorf("%w: %d", ErrUnreachableBufferKind, uint8(k))
	slogger().Error("layout: buffer kind contract violated", "kind", uint8(k))
	panic(err)
}
