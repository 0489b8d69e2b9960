package shaderinfo

import (
	"errors"
	"fmt"

	"github.com/gogpu/sccl/layout"
)

type bindingKey struct{ group, slot uint32 }

// Check reports every disagreement between host entries and the shader's
// bindings: slots the shader uses but the host did not declare, slots the
// host declared but the shader does not use, and category differences.
// The result joins one *MismatchError per problem, or is nil.
//
// Invalid kinds in entries are a caller bug and panic like layout.Compile.
func (i *Info) Check(entries []layout.BindingEntry) error {
	shader := make(map[bindingKey]Binding, len(i.Bindings))
	for _, b := range i.Bindings {
		shader[bindingKey{b.Group, b.Slot}] = b
	}

	var errs []error
	seen := make(map[bindingKey]bool, len(entries))
	for _, e := range entries {
		k := bindingKey{e.Group, e.Slot}
		if seen[k] {
			continue // duplicates are layout.Compile's to report
		}
		seen[k] = true

		b, ok := shader[k]
		if !ok {
			errs = append(errs, &MismatchError{Group: e.Group, Slot: e.Slot, Reason: "not used by shader"})
			continue
		}
		if c := e.Kind.Category(); c != b.Category {
			errs = append(errs, &MismatchError{
				Group:  e.Group,
				Slot:   e.Slot,
				Name:   b.Name,
				Reason: fmt.Sprintf("host declares %v (%v), shader declares %v", e.Kind, c, b.Category),
			})
		}
	}

	for _, b := range i.Bindings {
		if !seen[bindingKey{b.Group, b.Slot}] {
			errs = append(errs, &MismatchError{Group: b.Group, Slot: b.Slot, Name: b.Name, Reason: "not declared by host"})
		}
	}

	return errors.Join(errs...)
}
