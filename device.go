package blit

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// This interface is the integration point between blit and GPU frameworks:
// the host application implements DeviceHandle (or any gpucontext
// DeviceProvider) and passes it to Presenter.SetDeviceProvider, allowing
// blit to use the shared GPU device.
//
// Key principle: blit RECEIVES the device from the host, it does NOT create
// one. This enables shared GPU resources between blit and the host
// application and consistent resource management across the stack.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, providing a
// blit-specific name for the interface while maintaining full compatibility
// with the gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle satisfies DeviceHandle with no GPU behind it. Hosts
// pass it when presentation should stay on the software path.
type NullDeviceHandle struct{}

// Device reports that no GPU device exists.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue reports that no GPU queue exists.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter reports that no GPU adapter exists.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat reports that no surface format is preferred.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

var _ DeviceHandle = NullDeviceHandle{}
