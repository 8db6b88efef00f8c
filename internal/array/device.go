package array

import "fmt"

// DeviceKind identifies a class of compute device.
type DeviceKind int

// Supported compute device kinds.
const (
	CPU DeviceKind = iota
	CUDA
	Vulkan
	Metal
	WebGPU
)

// String returns a human-readable device kind name.
func (k DeviceKind) String() string {
	switch k {
	case CPU:
		return "CPU"
	case CUDA:
		return "CUDA"
	case Vulkan:
		return "Vulkan"
	case Metal:
		return "Metal"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// Device identifies the compute device an array resides on.
// It is a value: two arrays are co-resident iff their Devices are equal.
type Device struct {
	Kind  DeviceKind
	Index int
}

// String returns a human-readable device name, e.g. "WebGPU:0".
func (d Device) String() string {
	return fmt.Sprintf("%s:%d", d.Kind, d.Index)
}

// CheckDevicesCompatible panics if the given arrays do not all reside on
// the same device. Cross-device operands are a caller bug, not a
// recoverable condition.
func CheckDevicesCompatible(arrays ...*Array) {
	if len(arrays) == 0 {
		return
	}
	dev := arrays[0].Device()
	for _, a := range arrays[1:] {
		if a.Device() != dev {
			panic(fmt.Sprintf("arrays are not on the same device: %s vs %s", dev, a.Device()))
		}
	}
}
