package alpaca

import (
	"fmt"
	"sync"
)

// Handle is one registered device together with its category tag, its
// device number and its request lock.
type Handle struct {
	Type   DeviceType
	Number int
	Device Device

	mu sync.RWMutex
}

// lockFor acquires the handle's lock in the mode implied by the declared
// method and returns the release func.
func (h *Handle) lockFor(m Method) func() {
	if m == MethodPut {
		h.mu.Lock()
		return h.mu.Unlock
	}
	h.mu.RLock()
	return h.mu.RUnlock
}

// Equal reports whether two handles refer to the same physical device,
// which is defined by unique ID alone. Clients use this to collapse a
// device seen through several discovered addresses.
func (h *Handle) Equal(other *Handle) bool {
	return h != nil && other != nil && h.Device.UniqueID() == other.Device.UniqueID()
}

// UnknownDeviceError reports a device number with no registered device.
type UnknownDeviceError struct {
	Type   DeviceType
	Number int
}

func (e *UnknownDeviceError) Error() string {
	return fmt.Sprintf("no %s device with number %d", e.Type.Path(), e.Number)
}

// Registry is the set of served devices, grouped by category. Build it up
// front with Register; it is immutable while serving, so request goroutines
// share it without a registry-level lock.
type Registry struct {
	devices [numDeviceTypes][]*Handle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a device, inferring its category from which contract the
// concrete type satisfies. The returned handle carries the device number:
// the insertion index within the category, stable for the registry's
// lifetime.
func (r *Registry) Register(dev Device) (*Handle, error) {
	t, ok := InferDeviceType(dev)
	if !ok {
		return nil, fmt.Errorf("device %q implements no Alpaca category contract", dev.StaticName())
	}
	h := &Handle{Type: t, Number: len(r.devices[t]), Device: dev}
	r.devices[t] = append(r.devices[t], h)
	return h, nil
}

// InferDeviceType reports which category contract dev satisfies. A type
// that satisfies several gets the first match in DeviceType order.
func InferDeviceType(dev Device) (DeviceType, bool) {
	switch dev.(type) {
	case Camera:
		return DeviceTypeCamera, true
	case CoverCalibrator:
		return DeviceTypeCoverCalibrator, true
	case Dome:
		return DeviceTypeDome, true
	case FilterWheel:
		return DeviceTypeFilterWheel, true
	case Focuser:
		return DeviceTypeFocuser, true
	case ObservingConditions:
		return DeviceTypeObservingConditions, true
	case Rotator:
		return DeviceTypeRotator, true
	case SafetyMonitor:
		return DeviceTypeSafetyMonitor, true
	case Switch:
		return DeviceTypeSwitch, true
	case Telescope:
		return DeviceTypeTelescope, true
	}
	return 0, false
}

// Get returns the handle for (t, number).
func (r *Registry) Get(t DeviceType, number int) (*Handle, error) {
	if t < 0 || t >= numDeviceTypes {
		return nil, &UnknownDeviceError{Type: t, Number: number}
	}
	devs := r.devices[t]
	if number < 0 || number >= len(devs) {
		return nil, &UnknownDeviceError{Type: t, Number: number}
	}
	return devs[number], nil
}

// All returns every handle in category order then registration order,
// which is the order the management API lists devices in.
func (r *Registry) All() []*Handle {
	var out []*Handle
	for t := DeviceType(0); t < numDeviceTypes; t++ {
		out = append(out, r.devices[t]...)
	}
	return out
}

// Len returns the number of registered devices.
func (r *Registry) Len() int {
	n := 0
	for t := DeviceType(0); t < numDeviceTypes; t++ {
		n += len(r.devices[t])
	}
	return n
}

// ConfiguredDevice is one entry of the management configureddevices list.
type ConfiguredDevice struct {
	DeviceName   string     `json:"DeviceName"`
	DeviceType   DeviceType `json:"DeviceType"`
	DeviceNumber int        `json:"DeviceNumber"`
	UniqueID     string     `json:"UniqueID"`
}

// ConfiguredDevices renders the registry in the management API's shape.
func (r *Registry) ConfiguredDevices() []ConfiguredDevice {
	handles := r.All()
	out := make([]ConfiguredDevice, 0, len(handles))
	for _, h := range handles {
		out = append(out, ConfiguredDevice{
			DeviceName:   h.Device.StaticName(),
			DeviceType:   h.Type,
			DeviceNumber: h.Number,
			UniqueID:     h.Device.UniqueID(),
		})
	}
	return out
}
