package alpaca

import "context"

// ShutterState is the dome shutter's position.
type ShutterState int32

const (
	ShutterOpen    ShutterState = 0
	ShutterClosed  ShutterState = 1
	ShutterOpening ShutterState = 2
	ShutterClosing ShutterState = 3
	ShutterError   ShutterState = 4
)

// Dome is the contract for dome and roll-off-roof devices.
type Dome interface {
	Device

	Altitude(ctx context.Context) (float64, error)
	AtHome(ctx context.Context) (bool, error)
	AtPark(ctx context.Context) (bool, error)
	Azimuth(ctx context.Context) (float64, error)
	CanFindHome(ctx context.Context) (bool, error)
	CanPark(ctx context.Context) (bool, error)
	CanSetAltitude(ctx context.Context) (bool, error)
	CanSetAzimuth(ctx context.Context) (bool, error)
	CanSetShutter(ctx context.Context) (bool, error)
	CanSlave(ctx context.Context) (bool, error)
	CanSyncAzimuth(ctx context.Context) (bool, error)
	ShutterStatus(ctx context.Context) (ShutterState, error)
	Slaved(ctx context.Context) (bool, error)
	SetSlaved(ctx context.Context, slaved bool) error
	Slewing(ctx context.Context) (bool, error)

	AbortSlew(ctx context.Context) error
	CloseShutter(ctx context.Context) error
	FindHome(ctx context.Context) error
	OpenShutter(ctx context.Context) error
	Park(ctx context.Context) error
	SetPark(ctx context.Context) error
	SlewToAltitude(ctx context.Context, degrees float64) error
	SlewToAzimuth(ctx context.Context, degrees float64) error
	SyncToAzimuth(ctx context.Context, degrees float64) error
}

// UnimplementedDome returns NotImplemented for every Dome member.
type UnimplementedDome struct{ UnimplementedDevice }

func (UnimplementedDome) Altitude(context.Context) (float64, error) { return 0, ErrNotImplemented }
func (UnimplementedDome) AtHome(context.Context) (bool, error)      { return false, ErrNotImplemented }
func (UnimplementedDome) AtPark(context.Context) (bool, error)      { return false, ErrNotImplemented }
func (UnimplementedDome) Azimuth(context.Context) (float64, error)  { return 0, ErrNotImplemented }
func (UnimplementedDome) CanFindHome(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedDome) CanPark(context.Context) (bool, error) { return false, ErrNotImplemented }
func (UnimplementedDome) CanSetAltitude(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedDome) CanSetAzimuth(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedDome) CanSetShutter(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedDome) CanSlave(context.Context) (bool, error) { return false, ErrNotImplemented }
func (UnimplementedDome) CanSyncAzimuth(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedDome) ShutterStatus(context.Context) (ShutterState, error) {
	return ShutterError, ErrNotImplemented
}
func (UnimplementedDome) Slaved(context.Context) (bool, error)       { return false, ErrNotImplemented }
func (UnimplementedDome) SetSlaved(context.Context, bool) error      { return ErrNotImplemented }
func (UnimplementedDome) Slewing(context.Context) (bool, error)      { return false, ErrNotImplemented }
func (UnimplementedDome) AbortSlew(context.Context) error            { return ErrNotImplemented }
func (UnimplementedDome) CloseShutter(context.Context) error         { return ErrNotImplemented }
func (UnimplementedDome) FindHome(context.Context) error             { return ErrNotImplemented }
func (UnimplementedDome) OpenShutter(context.Context) error          { return ErrNotImplemented }
func (UnimplementedDome) Park(context.Context) error                 { return ErrNotImplemented }
func (UnimplementedDome) SetPark(context.Context) error              { return ErrNotImplemented }
func (UnimplementedDome) SlewToAltitude(context.Context, float64) error {
	return ErrNotImplemented
}
func (UnimplementedDome) SlewToAzimuth(context.Context, float64) error { return ErrNotImplemented }
func (UnimplementedDome) SyncToAzimuth(context.Context, float64) error { return ErrNotImplemented }

var domeTable = newDomeTable()

func newDomeTable() *ActionTable {
	t := NewActionTable()
	t.GetState("altitude", "Altitude", typed(func(ctx context.Context, d Dome, _ *Params) (any, error) { return d.Altitude(ctx) }))
	t.GetState("athome", "AtHome", typed(func(ctx context.Context, d Dome, _ *Params) (any, error) { return d.AtHome(ctx) }))
	t.GetState("atpark", "AtPark", typed(func(ctx context.Context, d Dome, _ *Params) (any, error) { return d.AtPark(ctx) }))
	t.GetState("azimuth", "Azimuth", typed(func(ctx context.Context, d Dome, _ *Params) (any, error) { return d.Azimuth(ctx) }))
	t.Get("canfindhome", typed(func(ctx context.Context, d Dome, _ *Params) (any, error) { return d.CanFindHome(ctx) }))
	t.Get("canpark", typed(func(ctx context.Context, d Dome, _ *Params) (any, error) { return d.CanPark(ctx) }))
	t.Get("cansetaltitude", typed(func(ctx context.Context, d Dome, _ *Params) (any, error) { return d.CanSetAltitude(ctx) }))
	t.Get("cansetazimuth", typed(func(ctx context.Context, d Dome, _ *Params) (any, error) { return d.CanSetAzimuth(ctx) }))
	t.Get("cansetshutter", typed(func(ctx context.Context, d Dome, _ *Params) (any, error) { return d.CanSetShutter(ctx) }))
	t.Get("canslave", typed(func(ctx context.Context, d Dome, _ *Params) (any, error) { return d.CanSlave(ctx) }))
	t.Get("cansyncazimuth", typed(func(ctx context.Context, d Dome, _ *Params) (any, error) { return d.CanSyncAzimuth(ctx) }))
	t.GetState("shutterstatus", "ShutterStatus", typed(func(ctx context.Context, d Dome, _ *Params) (any, error) { return d.ShutterStatus(ctx) }))
	t.Get("slaved", typed(func(ctx context.Context, d Dome, _ *Params) (any, error) { return d.Slaved(ctx) }))
	t.Put("slaved", typed(func(ctx context.Context, d Dome, p *Params) (any, error) {
		slaved, err := p.ExtractBool("Slaved")
		if err != nil {
			return nil, err
		}
		return nil, d.SetSlaved(ctx, slaved)
	}))
	t.GetState("slewing", "Slewing", typed(func(ctx context.Context, d Dome, _ *Params) (any, error) { return d.Slewing(ctx) }))
	t.Put("abortslew", typed(func(ctx context.Context, d Dome, _ *Params) (any, error) { return nil, d.AbortSlew(ctx) }))
	t.Put("closeshutter", typed(func(ctx context.Context, d Dome, _ *Params) (any, error) { return nil, d.CloseShutter(ctx) }))
	t.Put("findhome", typed(func(ctx context.Context, d Dome, _ *Params) (any, error) { return nil, d.FindHome(ctx) }))
	t.Put("openshutter", typed(func(ctx context.Context, d Dome, _ *Params) (any, error) { return nil, d.OpenShutter(ctx) }))
	t.Put("park", typed(func(ctx context.Context, d Dome, _ *Params) (any, error) { return nil, d.Park(ctx) }))
	t.Put("setpark", typed(func(ctx context.Context, d Dome, _ *Params) (any, error) { return nil, d.SetPark(ctx) }))
	t.Put("slewtoaltitude", typed(func(ctx context.Context, d Dome, p *Params) (any, error) {
		v, err := p.ExtractFloat64("Altitude")
		if err != nil {
			return nil, err
		}
		return nil, d.SlewToAltitude(ctx, v)
	}))
	t.Put("slewtoazimuth", typed(func(ctx context.Context, d Dome, p *Params) (any, error) {
		v, err := p.ExtractFloat64("Azimuth")
		if err != nil {
			return nil, err
		}
		return nil, d.SlewToAzimuth(ctx, v)
	}))
	t.Put("synctoazimuth", typed(func(ctx context.Context, d Dome, p *Params) (any, error) {
		v, err := p.ExtractFloat64("Azimuth")
		if err != nil {
			return nil, err
		}
		return nil, d.SyncToAzimuth(ctx, v)
	}))
	return t
}
