package alpaca

import "context"

// Switch is the contract for switch devices: a bank of numbered on/off or
// analogue controls addressed by id in [0, MaxSwitch).
type Switch interface {
	Device

	MaxSwitch(ctx context.Context) (int32, error)
	CanWrite(ctx context.Context, id int32) (bool, error)
	GetSwitch(ctx context.Context, id int32) (bool, error)
	GetSwitchDescription(ctx context.Context, id int32) (string, error)
	GetSwitchName(ctx context.Context, id int32) (string, error)
	GetSwitchValue(ctx context.Context, id int32) (float64, error)
	MinSwitchValue(ctx context.Context, id int32) (float64, error)
	MaxSwitchValue(ctx context.Context, id int32) (float64, error)
	SwitchStep(ctx context.Context, id int32) (float64, error)
	SetSwitch(ctx context.Context, id int32, state bool) error
	SetSwitchName(ctx context.Context, id int32, name string) error
	SetSwitchValue(ctx context.Context, id int32, value float64) error
}

// UnimplementedSwitch returns NotImplemented for every Switch member.
type UnimplementedSwitch struct{ UnimplementedDevice }

func (UnimplementedSwitch) MaxSwitch(context.Context) (int32, error) { return 0, ErrNotImplemented }
func (UnimplementedSwitch) CanWrite(context.Context, int32) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedSwitch) GetSwitch(context.Context, int32) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedSwitch) GetSwitchDescription(context.Context, int32) (string, error) {
	return "", ErrNotImplemented
}
func (UnimplementedSwitch) GetSwitchName(context.Context, int32) (string, error) {
	return "", ErrNotImplemented
}
func (UnimplementedSwitch) GetSwitchValue(context.Context, int32) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedSwitch) MinSwitchValue(context.Context, int32) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedSwitch) MaxSwitchValue(context.Context, int32) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedSwitch) SwitchStep(context.Context, int32) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedSwitch) SetSwitch(context.Context, int32, bool) error {
	return ErrNotImplemented
}
func (UnimplementedSwitch) SetSwitchName(context.Context, int32, string) error {
	return ErrNotImplemented
}
func (UnimplementedSwitch) SetSwitchValue(context.Context, int32, float64) error {
	return ErrNotImplemented
}

var switchTable = newSwitchTable()

func newSwitchTable() *ActionTable {
	t := NewActionTable()
	t.Get("maxswitch", typed(func(ctx context.Context, d Switch, _ *Params) (any, error) { return d.MaxSwitch(ctx) }))
	t.Get("canwrite", switchIDGet(Switch.CanWrite))
	t.Get("getswitch", switchIDGet(Switch.GetSwitch))
	t.Get("getswitchdescription", switchIDGet(Switch.GetSwitchDescription))
	t.Get("getswitchname", switchIDGet(Switch.GetSwitchName))
	t.Get("getswitchvalue", switchIDGet(Switch.GetSwitchValue))
	t.Get("minswitchvalue", switchIDGet(Switch.MinSwitchValue))
	t.Get("maxswitchvalue", switchIDGet(Switch.MaxSwitchValue))
	t.Get("switchstep", switchIDGet(Switch.SwitchStep))
	t.Put("setswitch", typed(func(ctx context.Context, d Switch, p *Params) (any, error) {
		id, err := p.ExtractInt32("Id")
		if err != nil {
			return nil, err
		}
		state, err := p.ExtractBool("State")
		if err != nil {
			return nil, err
		}
		return nil, d.SetSwitch(ctx, id, state)
	}))
	t.Put("setswitchname", typed(func(ctx context.Context, d Switch, p *Params) (any, error) {
		id, err := p.ExtractInt32("Id")
		if err != nil {
			return nil, err
		}
		name, err := p.ExtractString("Name")
		if err != nil {
			return nil, err
		}
		return nil, d.SetSwitchName(ctx, id, name)
	}))
	t.Put("setswitchvalue", typed(func(ctx context.Context, d Switch, p *Params) (any, error) {
		id, err := p.ExtractInt32("Id")
		if err != nil {
			return nil, err
		}
		value, err := p.ExtractFloat64("Value")
		if err != nil {
			return nil, err
		}
		return nil, d.SetSwitchValue(ctx, id, value)
	}))
	return t
}

// switchIDGet adapts the per-switch getters, which all take the Id
// parameter and differ only in result type.
func switchIDGet[V any](fn func(Switch, context.Context, int32) (V, error)) ActionFunc {
	return typed(func(ctx context.Context, d Switch, p *Params) (any, error) {
		id, err := p.ExtractInt32("Id")
		if err != nil {
			return nil, err
		}
		return fn(d, ctx, id)
	})
}
