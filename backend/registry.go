package backend

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/sccl/gpucore"
)

// Backend names.
const (
	BackendNative = "native"
	BackendVulkan = "vulkan"
	BackendWebGPU = "webgpu"
)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for Detect (first backend accepting the handle wins).
	backendPriority = []string{BackendNative, BackendVulkan, BackendWebGPU}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Open wraps handle using the named backend.
func Open(name string, handle any) (gpucore.Device, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	return factory(handle)
}

// Detect wraps handle using the first registered backend that accepts it.
// Backends are tried in priority order (native, vulkan, webgpu), then any
// other registered backend in name order.
func Detect(handle any) (gpucore.Device, error) {
	registryMu.RLock()
	order := make([]string, 0, len(backends))
	for _, name := range backendPriority {
		if _, ok := backends[name]; ok {
			order = append(order, name)
		}
	}
	var rest []string
	for name := range backends {
		if !slices.Contains(backendPriority, name) {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	order = append(order, rest...)
	factories := make([]Factory, len(order))
	for i, name := range order {
		factories[i] = backends[name]
	}
	registryMu.RUnlock()

	for _, factory := range factories {
		dev, err := factory(handle)
		if err == nil {
			return dev, nil
		}
		if !errors.Is(err, ErrUnsupportedHandle) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedHandle, handle)
}
