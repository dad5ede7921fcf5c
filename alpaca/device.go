// Package alpaca implements the ASCOM Alpaca protocol: request parameter
// decoding, transaction tracking, response envelopes, the ImageBytes binary
// codec, the device registry and the per-category action dispatcher. The
// HTTP and UDP surfaces live in the server and discovery packages; this
// package is transport-agnostic.
package alpaca

import (
	"context"
	"errors"
)

// Device is the contract shared by every Alpaca device category.
//
// StaticName and UniqueID are static metadata served without touching the
// hardware; everything else may block on a device and therefore takes a
// Context.
type Device interface {
	// StaticName reports the device name for management listings, available
	// whether or not the device is connected.
	StaticName() string
	// UniqueID reports a stable identifier for the physical device. Two
	// handles refer to the same device exactly when their unique IDs are
	// equal.
	UniqueID() string

	Connected(ctx context.Context) (bool, error)
	SetConnected(ctx context.Context, connected bool) error
	Connecting(ctx context.Context) (bool, error)
	Description(ctx context.Context) (string, error)
	DriverInfo(ctx context.Context) (string, error)
	DriverVersion(ctx context.Context) (string, error)
	InterfaceVersion(ctx context.Context) (int32, error)
	Name(ctx context.Context) (string, error)
	SupportedActions(ctx context.Context) ([]string, error)
	Action(ctx context.Context, action, parameters string) (string, error)
	CommandBlind(ctx context.Context, command string, raw bool) error
	CommandBool(ctx context.Context, command string, raw bool) (bool, error)
	CommandString(ctx context.Context, command string, raw bool) (string, error)
}

// UnimplementedDevice returns NotImplemented for every optional common
// member. Device types embed it (via their category's Unimplemented struct)
// and override only what the hardware supports. StaticName and UniqueID
// stay required: the registry cannot index a device without them.
type UnimplementedDevice struct{}

func (UnimplementedDevice) Connected(context.Context) (bool, error) { return false, ErrNotImplemented }
func (UnimplementedDevice) SetConnected(context.Context, bool) error {
	return ErrNotImplemented
}
func (UnimplementedDevice) Connecting(context.Context) (bool, error) { return false, ErrNotImplemented }
func (UnimplementedDevice) Description(context.Context) (string, error) {
	return "", ErrNotImplemented
}
func (UnimplementedDevice) DriverInfo(context.Context) (string, error) {
	return "", ErrNotImplemented
}
func (UnimplementedDevice) DriverVersion(context.Context) (string, error) {
	return "", ErrNotImplemented
}
func (UnimplementedDevice) InterfaceVersion(context.Context) (int32, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedDevice) Name(context.Context) (string, error) { return "", ErrNotImplemented }

// SupportedActions reports no bespoke actions rather than an error, as the
// protocol requires of devices with no Action support.
func (UnimplementedDevice) SupportedActions(context.Context) ([]string, error) {
	return []string{}, nil
}
func (UnimplementedDevice) Action(context.Context, string, string) (string, error) {
	return "", ErrActionNotImplemented
}
func (UnimplementedDevice) CommandBlind(context.Context, string, bool) error {
	return ErrNotImplemented
}
func (UnimplementedDevice) CommandBool(context.Context, string, bool) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedDevice) CommandString(context.Context, string, bool) (string, error) {
	return "", ErrNotImplemented
}

// commonTable serves the actions every category shares. Category tables are
// consulted first, so a category can shadow a common action.
var commonTable = newCommonTable()

func newCommonTable() *ActionTable {
	t := NewActionTable()
	t.Put("action", func(ctx context.Context, d Device, p *Params) (any, error) {
		name, err := p.ExtractString("Action")
		if err != nil {
			return nil, err
		}
		parameters, err := p.ExtractString("Parameters")
		if err != nil {
			return nil, err
		}
		return d.Action(ctx, name, parameters)
	})
	t.Put("commandblind", func(ctx context.Context, d Device, p *Params) (any, error) {
		command, raw, err := commandParams(p)
		if err != nil {
			return nil, err
		}
		return nil, d.CommandBlind(ctx, command, raw)
	})
	t.Put("commandbool", func(ctx context.Context, d Device, p *Params) (any, error) {
		command, raw, err := commandParams(p)
		if err != nil {
			return nil, err
		}
		return d.CommandBool(ctx, command, raw)
	})
	t.Put("commandstring", func(ctx context.Context, d Device, p *Params) (any, error) {
		command, raw, err := commandParams(p)
		if err != nil {
			return nil, err
		}
		return d.CommandString(ctx, command, raw)
	})
	// connect and disconnect are the parameterless Platform 7 forms of
	// PUT connected; devices that connect asynchronously report progress
	// through connecting.
	t.Put("connect", func(ctx context.Context, d Device, _ *Params) (any, error) {
		return nil, d.SetConnected(ctx, true)
	})
	t.Get("connected", func(ctx context.Context, d Device, _ *Params) (any, error) {
		return d.Connected(ctx)
	})
	t.Put("connected", func(ctx context.Context, d Device, p *Params) (any, error) {
		connected, err := p.ExtractBool("Connected")
		if err != nil {
			return nil, err
		}
		return nil, d.SetConnected(ctx, connected)
	})
	t.Get("connecting", func(ctx context.Context, d Device, _ *Params) (any, error) {
		return d.Connecting(ctx)
	})
	t.Put("disconnect", func(ctx context.Context, d Device, _ *Params) (any, error) {
		return nil, d.SetConnected(ctx, false)
	})
	t.Get("description", func(ctx context.Context, d Device, _ *Params) (any, error) {
		return d.Description(ctx)
	})
	t.Get("driverinfo", func(ctx context.Context, d Device, _ *Params) (any, error) {
		return d.DriverInfo(ctx)
	})
	t.Get("driverversion", func(ctx context.Context, d Device, _ *Params) (any, error) {
		return d.DriverVersion(ctx)
	})
	t.Get("interfaceversion", func(ctx context.Context, d Device, _ *Params) (any, error) {
		return d.InterfaceVersion(ctx)
	})
	t.Get("name", func(ctx context.Context, d Device, _ *Params) (any, error) {
		name, err := d.Name(ctx)
		if errors.Is(err, ErrNotImplemented) {
			return d.StaticName(), nil
		}
		return name, err
	})
	t.Get("supportedactions", func(ctx context.Context, d Device, _ *Params) (any, error) {
		return d.SupportedActions(ctx)
	})
	return t
}

func commandParams(p *Params) (command string, raw bool, err error) {
	command, err = p.ExtractString("Command")
	if err != nil {
		return "", false, err
	}
	raw, err = p.ExtractBool("Raw")
	if err != nil {
		return "", false, err
	}
	return command, raw, nil
}
