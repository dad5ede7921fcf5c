package alpaca

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Method is the HTTP verb an action is declared with. The verb doubles as
// the lock mode: MethodGet takes the device's read lock, MethodPut the
// write lock.
type Method int

const (
	MethodGet Method = iota
	MethodPut
)

func (m Method) String() string {
	if m == MethodPut {
		return "PUT"
	}
	return "GET"
}

// ActionFunc executes one decoded action against a device.
type ActionFunc func(ctx context.Context, dev Device, p *Params) (any, error)

// typed adapts a category-specific handler to an ActionFunc. The dispatcher
// only routes a device to the table of its own category, so the assertion
// holds for every registered device.
func typed[T Device](fn func(ctx context.Context, dev T, p *Params) (any, error)) ActionFunc {
	return func(ctx context.Context, dev Device, p *Params) (any, error) {
		return fn(ctx, dev.(T), p)
	}
}

// StateField is one member of a category's devicestate aggregation.
type StateField struct {
	Name string
	get  func(ctx context.Context, dev Device) (any, error)
}

type actionKey struct {
	action string
	method Method
}

// ActionTable maps (action, method) pairs to handlers for one category.
// Tables are built once at package init and read-only afterwards.
type ActionTable struct {
	handlers map[actionKey]ActionFunc
	state    []StateField
}

// NewActionTable returns an empty table.
func NewActionTable() *ActionTable {
	return &ActionTable{handlers: make(map[actionKey]ActionFunc)}
}

// Get registers a read action.
func (t *ActionTable) Get(action string, fn ActionFunc) {
	t.register(actionKey{action: action, method: MethodGet}, fn)
}

// Put registers a mutating action.
func (t *ActionTable) Put(action string, fn ActionFunc) {
	t.register(actionKey{action: action, method: MethodPut}, fn)
}

// GetState registers a read action that also contributes to the category's
// devicestate aggregation under field. The handler must not consume
// parameters: aggregation invokes it with an empty set.
func (t *ActionTable) GetState(action, field string, fn ActionFunc) {
	t.Get(action, fn)
	t.state = append(t.state, StateField{Name: field, get: func(ctx context.Context, dev Device) (any, error) {
		return fn(ctx, dev, &Params{})
	}})
}

func (t *ActionTable) register(k actionKey, fn ActionFunc) {
	if _, dup := t.handlers[k]; dup {
		panic(fmt.Sprintf("alpaca: duplicate action %s %s", k.method, k.action))
	}
	t.handlers[k] = fn
}

// Lookup returns the handler registered for (action, method).
func (t *ActionTable) Lookup(action string, m Method) (ActionFunc, bool) {
	fn, ok := t.handlers[actionKey{action: action, method: m}]
	return fn, ok
}

// tableFor returns the category's action table.
func tableFor(t DeviceType) *ActionTable {
	switch t {
	case DeviceTypeCamera:
		return cameraTable
	case DeviceTypeCoverCalibrator:
		return coverCalibratorTable
	case DeviceTypeDome:
		return domeTable
	case DeviceTypeFilterWheel:
		return filterWheelTable
	case DeviceTypeFocuser:
		return focuserTable
	case DeviceTypeObservingConditions:
		return observingConditionsTable
	case DeviceTypeRotator:
		return rotatorTable
	case DeviceTypeSafetyMonitor:
		return safetyMonitorTable
	case DeviceTypeSwitch:
		return switchTable
	case DeviceTypeTelescope:
		return telescopeTable
	}
	return commonTable
}

// UnknownActionError reports an action absent from both the category table
// and the common device table for the method used.
type UnknownActionError struct {
	Type   DeviceType
	Action string
	Method Method
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %s %s/%s", e.Method, e.Type.Path(), e.Action)
}

// Dispatcher routes decoded requests to registered devices, holding each
// device's lock for the duration of the call.
type Dispatcher struct {
	registry *Registry
	log      zerolog.Logger
}

// NewDispatcher builds a Dispatcher over a finished registry.
func NewDispatcher(reg *Registry, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{registry: reg, log: log}
}

// Dispatch executes one action against device (t, number). The returned
// value is nil for PUT-style actions; the returned error is either a
// device-reported *Error or one of the routing error types
// (UnknownDeviceError, UnknownActionError, MissingParamError,
// BadParamError).
func (d *Dispatcher) Dispatch(ctx context.Context, t DeviceType, number int, action string, m Method, p *Params) (any, error) {
	h, err := d.registry.Get(t, number)
	if err != nil {
		return nil, err
	}
	if action == "devicestate" && m == MethodGet {
		defer p.FinishExtraction(d.log)
		return d.deviceState(ctx, h)
	}
	fn, ok := tableFor(t).Lookup(action, m)
	if !ok {
		fn, ok = commonTable.Lookup(action, m)
	}
	if !ok {
		return nil, &UnknownActionError{Type: t, Action: action, Method: m}
	}
	defer p.FinishExtraction(d.log)
	unlock := h.lockFor(m)
	defer unlock()
	return fn(ctx, h.Device, p)
}

// deviceState aggregates the category's state getters under a single
// timestamp and read lock. A getter that fails drops its field from the
// aggregate rather than failing the whole call.
func (d *Dispatcher) deviceState(ctx context.Context, h *Handle) (any, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	st := NewDeviceState(time.Now())
	for _, f := range tableFor(h.Type).state {
		v, err := f.get(ctx, h.Device)
		if err != nil {
			var devErr *Error
			if !errors.As(err, &devErr) {
				d.log.Warn().Str("field", f.Name).Err(err).Msg("devicestate getter failed")
			}
			continue
		}
		st.Add(f.Name, v)
	}
	return st, nil
}
