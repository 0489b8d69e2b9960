package gpucore

import (
	"fmt"
	"sync"
)

// PoolBudget does descriptor pool accounting for APIs that have no native
// pool object (WebGPU, the gogpu HAL). It tracks how many sets and
// descriptors of each type remain and which bind groups were handed out,
// so that destroying the pool can destroy them too.
//
// PoolBudget is safe for concurrent use.
type PoolBudget struct {
	mu        sync.Mutex
	sets      uint32
	remaining map[BindingType]uint32
	groups    []BindGroupID
}

// NewPoolBudget returns a budget holding the capacities in desc.
func NewPoolBudget(desc *DescriptorPoolDesc) *PoolBudget {
	b := &PoolBudget{
		sets:      desc.MaxSets,
		remaining: make(map[BindingType]uint32, len(desc.Sizes)),
	}
	for _, s := range desc.Sizes {
		b.remaining[s.Type] += s.Count
	}
	return b
}

// Reserve takes one set plus one descriptor per entry of l from the budget.
// Nothing is taken if the budget cannot cover the whole layout.
func (b *PoolBudget) Reserve(l *BindGroupLayoutDesc) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sets == 0 {
		return fmt.Errorf("%w: no sets left", ErrPoolExhausted)
	}

	need := make(map[BindingType]uint32, 2)
	for _, e := range l.Entries {
		need[e.Type]++
	}
	for t, n := range need {
		if b.remaining[t] < n {
			return fmt.Errorf("%w: need %d %v descriptors, %d left", ErrPoolExhausted, n, t, b.remaining[t])
		}
	}

	b.sets--
	for t, n := range need {
		b.remaining[t] -= n
	}
	return nil
}

// Refund returns a reservation taken by Reserve for l, for use when the
// allocation it was taken for failed.
func (b *PoolBudget) Refund(l *BindGroupLayoutDesc) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sets++
	for _, e := range l.Entries {
		b.remaining[e.Type]++
	}
}

// Track records a bind group allocated against the budget.
func (b *PoolBudget) Track(id BindGroupID) {
	b.mu.Lock()
	b.groups = append(b.groups, id)
	b.mu.Unlock()
}

// Release returns the tracked bind groups, most recent first, and forgets them.
func (b *PoolBudget) Release() []BindGroupID {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]BindGroupID, len(b.groups))
	for i, id := range b.groups {
		out[len(b.groups)-1-i] = id
	}
	b.groups = nil
	return out
}

// Sets returns the number of bind groups still allocatable.
func (b *PoolBudget) Sets() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sets
}

// Remaining returns the descriptors of type t still available.
func (b *PoolBudget) Remaining(t BindingType) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remaining[t]
}
