package alpaca

import "context"

// Rotator is the contract for field rotator devices. Angles are degrees.
type Rotator interface {
	Device

	CanReverse(ctx context.Context) (bool, error)
	IsMoving(ctx context.Context) (bool, error)
	MechanicalPosition(ctx context.Context) (float64, error)
	Position(ctx context.Context) (float64, error)
	Reverse(ctx context.Context) (bool, error)
	SetReverse(ctx context.Context, reversed bool) error
	StepSize(ctx context.Context) (float64, error)
	TargetPosition(ctx context.Context) (float64, error)

	Halt(ctx context.Context) error
	Move(ctx context.Context, degrees float64) error
	MoveAbsolute(ctx context.Context, degrees float64) error
	MoveMechanical(ctx context.Context, degrees float64) error
	Sync(ctx context.Context, degrees float64) error
}

// UnimplementedRotator returns NotImplemented for every Rotator member.
type UnimplementedRotator struct{ UnimplementedDevice }

func (UnimplementedRotator) CanReverse(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedRotator) IsMoving(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedRotator) MechanicalPosition(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedRotator) Position(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedRotator) Reverse(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedRotator) SetReverse(context.Context, bool) error { return ErrNotImplemented }
func (UnimplementedRotator) StepSize(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedRotator) TargetPosition(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedRotator) Halt(context.Context) error                   { return ErrNotImplemented }
func (UnimplementedRotator) Move(context.Context, float64) error          { return ErrNotImplemented }
func (UnimplementedRotator) MoveAbsolute(context.Context, float64) error  { return ErrNotImplemented }
func (UnimplementedRotator) MoveMechanical(context.Context, float64) error {
	return ErrNotImplemented
}
func (UnimplementedRotator) Sync(context.Context, float64) error { return ErrNotImplemented }

var rotatorTable = newRotatorTable()

func newRotatorTable() *ActionTable {
	t := NewActionTable()
	t.Get("canreverse", typed(func(ctx context.Context, d Rotator, _ *Params) (any, error) { return d.CanReverse(ctx) }))
	t.GetState("ismoving", "IsMoving", typed(func(ctx context.Context, d Rotator, _ *Params) (any, error) { return d.IsMoving(ctx) }))
	t.GetState("mechanicalposition", "MechanicalPosition", typed(func(ctx context.Context, d Rotator, _ *Params) (any, error) { return d.MechanicalPosition(ctx) }))
	t.GetState("position", "Position", typed(func(ctx context.Context, d Rotator, _ *Params) (any, error) { return d.Position(ctx) }))
	t.Get("reverse", typed(func(ctx context.Context, d Rotator, _ *Params) (any, error) { return d.Reverse(ctx) }))
	t.Put("reverse", typed(func(ctx context.Context, d Rotator, p *Params) (any, error) {
		reversed, err := p.ExtractBool("Reverse")
		if err != nil {
			return nil, err
		}
		return nil, d.SetReverse(ctx, reversed)
	}))
	t.Get("stepsize", typed(func(ctx context.Context, d Rotator, _ *Params) (any, error) { return d.StepSize(ctx) }))
	t.Get("targetposition", typed(func(ctx context.Context, d Rotator, _ *Params) (any, error) { return d.TargetPosition(ctx) }))
	t.Put("halt", typed(func(ctx context.Context, d Rotator, _ *Params) (any, error) { return nil, d.Halt(ctx) }))
	t.Put("move", typed(func(ctx context.Context, d Rotator, p *Params) (any, error) {
		degrees, err := p.ExtractFloat64("Position")
		if err != nil {
			return nil, err
		}
		return nil, d.Move(ctx, degrees)
	}))
	t.Put("moveabsolute", typed(func(ctx context.Context, d Rotator, p *Params) (any, error) {
		degrees, err := p.ExtractFloat64("Position")
		if err != nil {
			return nil, err
		}
		return nil, d.MoveAbsolute(ctx, degrees)
	}))
	t.Put("movemechanical", typed(func(ctx context.Context, d Rotator, p *Params) (any, error) {
		degrees, err := p.ExtractFloat64("Position")
		if err != nil {
			return nil, err
		}
		return nil, d.MoveMechanical(ctx, degrees)
	}))
	t.Put("sync", typed(func(ctx context.Context, d Rotator, p *Params) (any, error) {
		degrees, err := p.ExtractFloat64("Position")
		if err != nil {
			return nil, err
		}
		return nil, d.Sync(ctx, degrees)
	}))
	return t
}
