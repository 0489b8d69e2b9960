package gpucore

import (
	"errors"
	"testing"

	"github.com/gogpu/sccl/layout"
)

func TestBindingTypeFor(t *testing.T) {
	if got := BindingTypeFor(layout.CategoryStorage); got != BindingTypeStorageBuffer {
		t.Errorf("BindingTypeFor(storage) = %v, want storage-buffer", got)
	}
	if got := BindingTypeFor(layout.CategoryUniform); got != BindingTypeUniformBuffer {
		t.Errorf("BindingTypeFor(uniform) = %v, want uniform-buffer", got)
	}
}

func TestLayoutDesc(t *testing.T) {
	l := layout.CompiledLayout{
		Group: 1,
		Bindings: []layout.SlotBinding{
			{Slot: 0, Category: layout.CategoryStorage},
			{Slot: 4, Category: layout.CategoryUniform},
		},
	}

	desc := LayoutDesc(l, "blur")
	if desc.Label != "blur" {
		t.Errorf("Label = %q, want blur", desc.Label)
	}
	if len(desc.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(desc.Entries))
	}
	if desc.Entries[0] != (BindGroupLayoutEntry{Binding: 0, Type: BindingTypeStorageBuffer}) {
		t.Errorf("Entries[0] = %+v", desc.Entries[0])
	}
	if desc.Entries[1] != (BindGroupLayoutEntry{Binding: 4, Type: BindingTypeUniformBuffer}) {
		t.Errorf("Entries[1] = %+v", desc.Entries[1])
	}
}

func TestPoolDescFor(t *testing.T) {
	tests := []struct {
		name      string
		sizing    layout.PoolSizing
		wantSizes []PoolSize
	}{
		{
			name:      "both",
			sizing:    layout.PoolSizing{StorageCount: 3, UniformCount: 1, GroupCount: 2},
			wantSizes: []PoolSize{{BindingTypeStorageBuffer, 3}, {BindingTypeUniformBuffer, 1}},
		},
		{
			name:      "storage only",
			sizing:    layout.PoolSizing{StorageCount: 2, GroupCount: 1},
			wantSizes: []PoolSize{{BindingTypeStorageBuffer, 2}},
		},
		{
			name:      "uniform only",
			sizing:    layout.PoolSizing{UniformCount: 5, GroupCount: 3},
			wantSizes: []PoolSize{{BindingTypeUniformBuffer, 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := PoolDescFor(tt.sizing, "")
			if desc.MaxSets != uint32(tt.sizing.GroupCount) {
				t.Errorf("MaxSets = %d, want %d", desc.MaxSets, tt.sizing.GroupCount)
			}
			if len(desc.Sizes) != len(tt.wantSizes) {
				t.Fatalf("Sizes = %+v, want %+v", desc.Sizes, tt.wantSizes)
			}
			for i := range desc.Sizes {
				if desc.Sizes[i] != tt.wantSizes[i] {
					t.Errorf("Sizes[%d] = %+v, want %+v", i, desc.Sizes[i], tt.wantSizes[i])
				}
			}
		})
	}
}

func TestLabel(t *testing.T) {
	if got := Label("blur", "group", 2); got != "blur/group2" {
		t.Errorf("Label() = %q, want blur/group2", got)
	}
	if got := Label("", "group", 2); got != "" {
		t.Errorf("Label(\"\") = %q, want empty", got)
	}
}

func TestPoolBudget_Reserve(t *testing.T) {
	res, err := layout.Compile([]layout.BindingEntry{
		{Group: 0, Slot: 0, Kind: layout.DeviceStorage},
		{Group: 0, Slot: 1, Kind: layout.HostUniform},
		{Group: 1, Slot: 0, Kind: layout.DeviceStorage},
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	pool := PoolDescFor(res.Pool, "")
	b := NewPoolBudget(&pool)

	for _, l := range res.Layouts {
		desc := LayoutDesc(l, "")
		if err := b.Reserve(&desc); err != nil {
			t.Fatalf("Reserve(group %d) error = %v", l.Group, err)
		}
	}

	if b.Sets() != 0 {
		t.Errorf("Sets() = %d, want 0", b.Sets())
	}
	if b.Remaining(BindingTypeStorageBuffer) != 0 || b.Remaining(BindingTypeUniformBuffer) != 0 {
		t.Errorf("descriptors left: storage=%d uniform=%d",
			b.Remaining(BindingTypeStorageBuffer), b.Remaining(BindingTypeUniformBuffer))
	}

	extra := LayoutDesc(res.Layouts[1], "")
	if err := b.Reserve(&extra); !errors.Is(err, ErrPoolExhausted) {
		t.Errorf("Reserve() past capacity error = %v, want ErrPoolExhausted", err)
	}
}

func TestPoolBudget_ReserveIsAtomic(t *testing.T) {
	b := NewPoolBudget(&DescriptorPoolDesc{
		MaxSets: 2,
		Sizes:   []PoolSize{{BindingTypeStorageBuffer, 1}},
	})

	wide := &BindGroupLayoutDesc{Entries: []BindGroupLayoutEntry{
		{Binding: 0, Type: BindingTypeStorageBuffer},
		{Binding: 1, Type: BindingTypeStorageBuffer},
	}}
	if err := b.Reserve(wide); !errors.Is(err, ErrPoolExhausted) {
		t.Fatalf("Reserve(wide) error = %v, want ErrPoolExhausted", err)
	}
	if b.Sets() != 2 || b.Remaining(BindingTypeStorageBuffer) != 1 {
		t.Errorf("failed Reserve consumed budget: sets=%d storage=%d",
			b.Sets(), b.Remaining(BindingTypeStorageBuffer))
	}

	uniform := &BindGroupLayoutDesc{Entries: []BindGroupLayoutEntry{{Binding: 0, Type: BindingTypeUniformBuffer}}}
	if err := b.Reserve(uniform); !errors.Is(err, ErrPoolExhausted) {
		t.Errorf("Reserve(uniform) from storage-only pool error = %v, want ErrPoolExhausted", err)
	}
}

func TestPoolBudget_Release(t *testing.T) {
	b := NewPoolBudget(&DescriptorPoolDesc{MaxSets: 3})
	b.Track(1)
	b.Track(2)
	b.Track(3)

	got := b.Release()
	want := []BindGroupID{3, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("Release() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Release()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if again := b.Release(); len(again) != 0 {
		t.Errorf("second Release() = %v, want empty", again)
	}
}

func TestPoolBudget_Refund(t *testing.T) {
	b := NewPoolBudget(&DescriptorPoolDesc{
		MaxSets: 1,
		Sizes:   []PoolSize{{BindingTypeUniformBuffer, 1}},
	})
	l := &BindGroupLayoutDesc{Entries: []BindGroupLayoutEntry{{Binding: 0, Type: BindingTypeUniformBuffer}}}

	if err := b.Reserve(l); err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	b.Refund(l)
	if err := b.Reserve(l); err != nil {
		t.Errorf("Reserve() after Refund error = %v", err)
	}
}
