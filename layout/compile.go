// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layout

import (
	"context"
	"log/slog"
)

// Compile groups, sorts and validates bindings, then emits the layouts and
// the pool sizing. A nil or empty slice compiles to zero layouts and an
// empty PoolSizing.
//
// Compile only reads bindings. It keeps no state between calls and is safe
// to call from several goroutines on independent inputs.
//
// Compile returns a *LayoutError for gaps in the group range or duplicate
// slots. It panics if an entry carries an undeclared BufferKind.
func Compile(bindings []BindingEntry) (*Result, error) {
	for _, b := range bindings {
		if !b.Kind.Valid() {
			unreachableKind(b.Kind)
		}
	}

	groups := Accumulate(bindings)
	SortGroups(groups)

	if err := Validate(groups); err != nil {
		return nil, err
	}

	res := &Result{
		Layouts: Emit(groups),
		Pool:    Size(groups),
	}

	if log := slogger(); log.Enabled(context.Background(), slog.LevelDebug) {
		for _, l := range res.Layouts {
			log.Debug("layout: compiled group", "group", l.Group, "bindings", len(l.Bindings))
		}
		log.Debug("layout: pool sizing",
			"storage", res.Pool.StorageCount,
			"uniform", res.Pool.UniformCount,
			"groups", res.Pool.GroupCount)
	}

	return res, nil
}
