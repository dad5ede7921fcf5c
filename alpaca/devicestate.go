package alpaca

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DeviceState is a devicestate aggregation: one capture timestamp plus
// whichever state fields the device produced. It marshals as a single JSON
// object, so its members flatten into the response envelope alongside the
// transaction fields.
type DeviceState struct {
	timestamp time.Time
	fields    []stateValue
}

type stateValue struct {
	name  string
	value any
}

// NewDeviceState starts an aggregation captured at ts.
func NewDeviceState(ts time.Time) *DeviceState {
	return &DeviceState{timestamp: ts}
}

// Add appends one field. Order is preserved on the wire.
func (s *DeviceState) Add(name string, value any) {
	s.fields = append(s.fields, stateValue{name: name, value: value})
}

// TimeStamp returns the capture time.
func (s *DeviceState) TimeStamp() time.Time { return s.timestamp }

// Value returns a named field and whether it is present.
func (s *DeviceState) Value(name string) (any, bool) {
	for _, f := range s.fields {
		if f.name == name {
			return f.value, true
		}
	}
	return nil, false
}

func (s *DeviceState) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"TimeStamp":`)
	ts, err := json.Marshal(s.timestamp.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	buf.Write(ts)
	for _, f := range s.fields {
		v, err := json.Marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("state field %s: %w", f.name, err)
		}
		buf.WriteByte(',')
		name, err := json.Marshal(f.name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
