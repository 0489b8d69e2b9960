package shaderinfo

import (
	"fmt"
	"sync"
	"testing"
)

func TestCache_Reflect(t *testing.T) {
	c := NewCache(4)

	first, err := c.Reflect(scaleShader)
	if err != nil {
		t.Fatalf("Reflect() error = %v", err)
	}
	second, err := c.Reflect(scaleShader)
	if err != nil {
		t.Fatalf("Reflect() error = %v", err)
	}
	if first != second {
		t.Error("second Reflect() did not return the cached Info")
	}

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Len != 1 || s.Capacity != 4 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestCache_ErrorsNotCached(t *testing.T) {
	c := NewCache(4)
	for range 2 {
		if _, err := c.Reflect("@compute fn main( {"); err == nil {
			t.Fatal("Reflect(invalid) succeeded")
		}
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
	if s := c.Stats(); s.Misses != 2 {
		t.Errorf("Misses = %d, want 2", s.Misses)
	}
}

func shaderWithGroup(g int) string {
	return fmt.Sprintf(`
@group(%d) @binding(0) var<storage, read_write> data: array<f32>;

@compute @workgroup_size(1)
fn main() {
    data[0] = 1.0;
}
`, g)
}

func TestCache_Eviction(t *testing.T) {
	c := NewCache(2)

	for g := range 3 {
		if _, err := c.Reflect(shaderWithGroup(g)); err != nil {
			t.Fatalf("Reflect(group %d) error = %v", g, err)
		}
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if s := c.Stats(); s.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", s.Evictions)
	}

	// Group 0 was least recently used and is gone.
	if _, err := c.Reflect(shaderWithGroup(0)); err != nil {
		t.Fatal(err)
	}
	if s := c.Stats(); s.Hits != 0 || s.Misses != 4 {
		t.Errorf("Stats() = %+v, want 0 hits, 4 misses", s)
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear() = %d", c.Len())
	}
}

func TestCache_DefaultCapacity(t *testing.T) {
	if got := NewCache(0).Stats().Capacity; got != DefaultCacheCapacity {
		t.Errorf("Capacity = %d, want %d", got, DefaultCacheCapacity)
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := NewCache(8)
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Reflect(shaderWithGroup(i % 4)); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if c.Len() != 4 {
		t.Errorf("Len() = %d, want 4", c.Len())
	}
	if s := c.Stats(); s.Hits+s.Misses != 16 {
		t.Errorf("hits+misses = %d, want 16", s.Hits+s.Misses)
	}
}

func BenchmarkCache_ReflectHit(b *testing.B) {
	c := NewCache(4)
	if _, err := c.Reflect(scaleShader); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for b.Loop() {
		if _, err := c.Reflect(scaleShader); err != nil {
			b.Fatal(err)
		}
	}
}
