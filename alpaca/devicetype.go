package alpaca

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DeviceType identifies one of the Alpaca device categories.
type DeviceType int

const (
	DeviceTypeCamera DeviceType = iota
	DeviceTypeCoverCalibrator
	DeviceTypeDome
	DeviceTypeFilterWheel
	DeviceTypeFocuser
	DeviceTypeObservingConditions
	DeviceTypeRotator
	DeviceTypeSafetyMonitor
	DeviceTypeSwitch
	DeviceTypeTelescope

	numDeviceTypes // keep last
)

var deviceTypeNames = [numDeviceTypes]string{
	DeviceTypeCamera:              "Camera",
	DeviceTypeCoverCalibrator:     "CoverCalibrator",
	DeviceTypeDome:                "Dome",
	DeviceTypeFilterWheel:         "FilterWheel",
	DeviceTypeFocuser:             "Focuser",
	DeviceTypeObservingConditions: "ObservingConditions",
	DeviceTypeRotator:             "Rotator",
	DeviceTypeSafetyMonitor:       "SafetyMonitor",
	DeviceTypeSwitch:              "Switch",
	DeviceTypeTelescope:           "Telescope",
}

var deviceTypePaths = [numDeviceTypes]string{
	DeviceTypeCamera:              "camera",
	DeviceTypeCoverCalibrator:     "covercalibrator",
	DeviceTypeDome:                "dome",
	DeviceTypeFilterWheel:         "filterwheel",
	DeviceTypeFocuser:             "focuser",
	DeviceTypeObservingConditions: "observingconditions",
	DeviceTypeRotator:             "rotator",
	DeviceTypeSafetyMonitor:       "safetymonitor",
	DeviceTypeSwitch:              "switch",
	DeviceTypeTelescope:           "telescope",
}

// String returns the PascalCase form used in management JSON.
func (t DeviceType) String() string {
	if t < 0 || t >= numDeviceTypes {
		return fmt.Sprintf("DeviceType(%d)", int(t))
	}
	return deviceTypeNames[t]
}

// Path returns the lowercase form used in API URLs.
func (t DeviceType) Path() string {
	if t < 0 || t >= numDeviceTypes {
		return ""
	}
	return deviceTypePaths[t]
}

// ParseDeviceTypePath maps a URL path segment to its DeviceType. The wire
// form is strictly lowercase; anything else is unknown.
func ParseDeviceTypePath(s string) (DeviceType, bool) {
	for t, p := range deviceTypePaths {
		if p == s {
			return DeviceType(t), true
		}
	}
	return 0, false
}

func (t DeviceType) MarshalJSON() ([]byte, error) {
	if t < 0 || t >= numDeviceTypes {
		return nil, fmt.Errorf("invalid device type %d", int(t))
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts the management wire form in any casing, so clients
// remain compatible with servers that report lowercase type names.
func (t *DeviceType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, ok := ParseDeviceTypePath(strings.ToLower(s))
	if !ok {
		return fmt.Errorf("unknown device type %q", s)
	}
	*t = parsed
	return nil
}
