// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layout

import "testing"

func TestBufferKind_Category(t *testing.T) {
	tests := []struct {
		kind BufferKind
		name string
		want Category
	}{
		{HostStorage, "host-storage", CategoryStorage},
		{DeviceStorage, "device-storage", CategoryStorage},
		{SharedStorage, "shared-storage", CategoryStorage},
		{HostUniform, "host-uniform", CategoryUniform},
		{DeviceUniform, "device-uniform", CategoryUniform},
		{SharedUniform, "shared-uniform", CategoryUniform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.kind.Valid() {
				t.Fatalf("%v.Valid() = false", tt.kind)
			}
			if got := tt.kind.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.kind.Category(); got != tt.want {
				t.Errorf("Category() = %v, want %v", got, tt.want)
			}
			parsed, err := ParseBufferKind(tt.name)
			if err != nil || parsed != tt.kind {
				t.Errorf("ParseBufferKind(%q) = %v, %v", tt.name, parsed, err)
			}
		})
	}
}

func TestBufferKind_Invalid(t *testing.T) {
	for _, k := range []BufferKind{0, SharedUniform + 1, 255} {
		if k.Valid() {
			t.Errorf("BufferKind(%d).Valid() = true", k)
		}
	}
	if got := BufferKind(0).String(); got != "BufferKind(0)" {
		t.Errorf("String() = %q", got)
	}
	if _, err := ParseBufferKind("texture"); err == nil {
		t.Error("ParseBufferKind(texture) succeeded")
	}
}

func TestBufferKind_CategoryPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Category() on invalid kind did not panic")
		}
	}()
	_ = BufferKind(0).Category()
}

func TestCategory_String(t *testing.T) {
	if CategoryStorage.String() != "storage" || CategoryUniform.String() != "uniform" {
		t.Errorf("got %q, %q", CategoryStorage, CategoryUniform)
	}
	if got := Category(9).String(); got != "Category(9)" {
		t.Errorf("String() = %q", got)
	}
}
