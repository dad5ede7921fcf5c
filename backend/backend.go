// Package backend hosts the device implementations the hub serves and the
// identity plumbing they share. Each backend satisfies one alpaca category
// contract by embedding the category's Unimplemented base next to Base,
// which supplies the generic device members.
package backend

import (
	"context"

	"github.com/google/uuid"

	"alpaca-hub/alpaca"
)

// Info identifies one configured device. Blank fields get defaults when the
// backend is constructed: a backend-specific name and description, and a
// generated UniqueID.
type Info struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	UniqueID    string `toml:"uniqueid"`
}

// Base implements the device members every backend shares: identity,
// driver strings and a plain connected flag. Its methods sit one embedding
// level above the category's Unimplemented base, so they take precedence.
// The dispatcher serializes calls per device; the flag needs no lock.
type Base struct {
	info             Info
	driverInfo       string
	driverVersion    string
	interfaceVersion int32

	connected bool
}

// NewBase fills the blank Info fields and builds the shared device core.
func NewBase(info Info, driverInfo, driverVersion string, interfaceVersion int32) Base {
	if info.Description == "" {
		info.Description = info.Name
	}
	if info.UniqueID == "" {
		info.UniqueID = uuid.NewString()
	}
	return Base{
		info:             info,
		driverInfo:       driverInfo,
		driverVersion:    driverVersion,
		interfaceVersion: interfaceVersion,
	}
}

func (b *Base) StaticName() string { return b.info.Name }
func (b *Base) UniqueID() string   { return b.info.UniqueID }

func (b *Base) Connected(context.Context) (bool, error) { return b.connected, nil }

func (b *Base) SetConnected(_ context.Context, connected bool) error {
	b.connected = connected
	return nil
}

func (b *Base) Connecting(context.Context) (bool, error) { return false, nil }

func (b *Base) Description(context.Context) (string, error)     { return b.info.Description, nil }
func (b *Base) DriverInfo(context.Context) (string, error)      { return b.driverInfo, nil }
func (b *Base) DriverVersion(context.Context) (string, error)   { return b.driverVersion, nil }
func (b *Base) InterfaceVersion(context.Context) (int32, error) { return b.interfaceVersion, nil }

// IsConnected reports the connected flag to the embedding device.
func (b *Base) IsConnected() bool { return b.connected }

// NeedsConnection returns NotConnected unless the device is connected.
// Backends call it at the top of members that require hardware access.
func (b *Base) NeedsConnection() error {
	if !b.connected {
		return alpaca.ErrNotConnected
	}
	return nil
}
