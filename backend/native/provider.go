//go:build !nogpu

package native

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/sccl/backend"
	"github.com/gogpu/sccl/gpucore"
)

func init() {
	backend.Register(backend.BackendNative, open)
}

// halProvider is implemented by device providers (e.g. gogpu) that share
// their HAL device.
type halProvider interface {
	HalDevice() any
}

// NewFromProvider creates a HALAdapter on the shared device of a
// gpucontext provider. The provider must implement HalDevice() any
// returning a hal.Device.
func NewFromProvider(provider gpucontext.DeviceProvider) (*HALAdapter, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALDevice
	}
	device, ok := hp.HalDevice().(HALDevice)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice returned %T", ErrNoHALDevice, hp.HalDevice())
	}
	return NewHALAdapter(device), nil
}

// open is the backend.Factory for HAL devices and gpucontext providers.
func open(handle any) (gpucore.Device, error) {
	switch h := handle.(type) {
	case HALDevice:
		return NewHALAdapter(h), nil
	case gpucontext.DeviceProvider:
		if _, ok := h.(halProvider); !ok {
			return nil, fmt.Errorf("%w: %T has no HAL device", backend.ErrUnsupportedHandle, handle)
		}
		return NewFromProvider(h)
	default:
		return nil, fmt.Errorf("%w: %T", backend.ErrUnsupportedHandle, handle)
	}
}
