package shaderinfo

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/sccl/layout"
)

// Binding is one buffer variable the shader declares.
type Binding struct {
	Name     string
	Group    uint32
	Slot     uint32
	Category layout.Category

	// ReadOnly is set for var<storage, read>. Uniforms are always read-only
	// and do not set it.
	ReadOnly bool
}

// EntryPoint is a compute entry point.
type EntryPoint struct {
	Name      string
	Workgroup [3]uint32
}

// Info is the reflected binding interface of a shader.
type Info struct {
	// Bindings are sorted by group, then slot.
	Bindings []Binding

	// EntryPoints lists compute entry points in declaration order.
	EntryPoints []EntryPoint

	// Ignored names bound variables that are not buffers (textures,
	// samplers). They take no part in layout compilation.
	Ignored []string
}

// Reflect parses WGSL source and returns its buffer bindings and compute
// entry points.
func Reflect(source string) (*Info, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: parse: %w", ErrCompile, err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("%w: lower: %w", ErrCompile, err)
	}

	info := &Info{}
	for _, gv := range module.GlobalVariables {
		if gv.Binding == nil {
			continue
		}
		b := Binding{
			Name:  gv.Name,
			Group: gv.Binding.Group,
			Slot:  gv.Binding.Binding,
		}
		switch gv.Space {
		case ir.SpaceUniform:
			b.Category = layout.CategoryUniform
		case ir.SpaceStorage:
			b.Category = layout.CategoryStorage
			b.ReadOnly = gv.Access == ir.StorageRead
		default:
			info.Ignored = append(info.Ignored, gv.Name)
			continue
		}
		info.Bindings = append(info.Bindings, b)
	}
	slices.SortStableFunc(info.Bindings, func(a, b Binding) int {
		if c := cmp.Compare(a.Group, b.Group); c != 0 {
			return c
		}
		return cmp.Compare(a.Slot, b.Slot)
	})

	for _, ep := range module.EntryPoints {
		if ep.Stage != ir.StageCompute {
			continue
		}
		info.EntryPoints = append(info.EntryPoints, EntryPoint{Name: ep.Name, Workgroup: ep.Workgroup})
	}

	return info, nil
}

// EntryPoint returns the compute entry point with the given name.
func (i *Info) EntryPoint(name string) (EntryPoint, bool) {
	for _, ep := range i.EntryPoints {
		if ep.Name == name {
			return ep, true
		}
	}
	return EntryPoint{}, false
}

// Defaults picks the BufferKind used for each category by Entries.
// Zero fields select DeviceStorage and DeviceUniform.
type Defaults struct {
	Storage layout.BufferKind
	Uniform layout.BufferKind
}

// Entries returns one layout.BindingEntry per reflected binding.
func (i *Info) Entries(d Defaults) []layout.BindingEntry {
	if d.Storage == 0 {
		d.Storage = layout.DeviceStorage
	}
	if d.Uniform == 0 {
		d.Uniform = layout.DeviceUniform
	}

	out := make([]layout.BindingEntry, len(i.Bindings))
	for j, b := range i.Bindings {
		kind := d.Storage
		if b.Category == layout.CategoryUniform {
			kind = d.Uniform
		}
		out[j] = layout.BindingEntry{Group: b.Group, Slot: b.Slot, Kind: kind}
	}
	return out
}
