package alpaca

import "context"

// Focuser is the contract for focuser devices. Positions are steps;
// temperatures are degrees Celsius.
type Focuser interface {
	Device

	Absolute(ctx context.Context) (bool, error)
	IsMoving(ctx context.Context) (bool, error)
	MaxIncrement(ctx context.Context) (int32, error)
	MaxStep(ctx context.Context) (int32, error)
	Position(ctx context.Context) (int32, error)
	StepSize(ctx context.Context) (float64, error)
	TempComp(ctx context.Context) (bool, error)
	SetTempComp(ctx context.Context, on bool) error
	TempCompAvailable(ctx context.Context) (bool, error)
	Temperature(ctx context.Context) (float64, error)

	Halt(ctx context.Context) error
	Move(ctx context.Context, position int32) error
}

// UnimplementedFocuser returns NotImplemented for every Focuser member.
type UnimplementedFocuser struct{ UnimplementedDevice }

func (UnimplementedFocuser) Absolute(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedFocuser) IsMoving(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedFocuser) MaxIncrement(context.Context) (int32, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedFocuser) MaxStep(context.Context) (int32, error)  { return 0, ErrNotImplemented }
func (UnimplementedFocuser) Position(context.Context) (int32, error) { return 0, ErrNotImplemented }
func (UnimplementedFocuser) StepSize(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedFocuser) TempComp(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedFocuser) SetTempComp(context.Context, bool) error { return ErrNotImplemented }
func (UnimplementedFocuser) TempCompAvailable(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedFocuser) Temperature(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedFocuser) Halt(context.Context) error        { return ErrNotImplemented }
func (UnimplementedFocuser) Move(context.Context, int32) error { return ErrNotImplemented }

var focuserTable = newFocuserTable()

func newFocuserTable() *ActionTable {
	t := NewActionTable()
	t.Get("absolute", typed(func(ctx context.Context, d Focuser, _ *Params) (any, error) { return d.Absolute(ctx) }))
	t.GetState("ismoving", "IsMoving", typed(func(ctx context.Context, d Focuser, _ *Params) (any, error) { return d.IsMoving(ctx) }))
	t.Get("maxincrement", typed(func(ctx context.Context, d Focuser, _ *Params) (any, error) { return d.MaxIncrement(ctx) }))
	t.Get("maxstep", typed(func(ctx context.Context, d Focuser, _ *Params) (any, error) { return d.MaxStep(ctx) }))
	t.GetState("position", "Position", typed(func(ctx context.Context, d Focuser, _ *Params) (any, error) { return d.Position(ctx) }))
	t.Get("stepsize", typed(func(ctx context.Context, d Focuser, _ *Params) (any, error) { return d.StepSize(ctx) }))
	t.Get("tempcomp", typed(func(ctx context.Context, d Focuser, _ *Params) (any, error) { return d.TempComp(ctx) }))
	t.Put("tempcomp", typed(func(ctx context.Context, d Focuser, p *Params) (any, error) {
		on, err := p.ExtractBool("TempComp")
		if err != nil {
			return nil, err
		}
		return nil, d.SetTempComp(ctx, on)
	}))
	t.Get("tempcompavailable", typed(func(ctx context.Context, d Focuser, _ *Params) (any, error) { return d.TempCompAvailable(ctx) }))
	t.GetState("temperature", "Temperature", typed(func(ctx context.Context, d Focuser, _ *Params) (any, error) { return d.Temperature(ctx) }))
	t.Put("halt", typed(func(ctx context.Context, d Focuser, _ *Params) (any, error) { return nil, d.Halt(ctx) }))
	t.Put("move", typed(func(ctx context.Context, d Focuser, p *Params) (any, error) {
		position, err := p.ExtractInt32("Position")
		if err != nil {
			return nil, err
		}
		return nil, d.Move(ctx, position)
	}))
	return t
}
