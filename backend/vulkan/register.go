//go:build !nogpu

package vulkan

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"github.com/gogpu/sccl/backend"
	"github.com/gogpu/sccl/gpucore"
)

func init() {
	backend.Register(backend.BackendVulkan, func(handle any) (gpucore.Device, error) {
		dev, ok := handle.(vk.Device)
		if !ok || dev == nil {
			return nil, fmt.Errorf("%w: %T", backend.ErrUnsupportedHandle, handle)
		}
		return New(dev), nil
	})
}
