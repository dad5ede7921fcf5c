package alpaca

import "context"

// FilterWheel is the contract for filter wheel devices. Position -1 means
// the wheel is moving.
type FilterWheel interface {
	Device

	FocusOffsets(ctx context.Context) ([]int32, error)
	Names(ctx context.Context) ([]string, error)
	Position(ctx context.Context) (int32, error)
	SetPosition(ctx context.Context, position int32) error
}

// UnimplementedFilterWheel returns NotImplemented for every FilterWheel
// member.
type UnimplementedFilterWheel struct{ UnimplementedDevice }

func (UnimplementedFilterWheel) FocusOffsets(context.Context) ([]int32, error) {
	return nil, ErrNotImplemented
}
func (UnimplementedFilterWheel) Names(context.Context) ([]string, error) {
	return nil, ErrNotImplemented
}
func (UnimplementedFilterWheel) Position(context.Context) (int32, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedFilterWheel) SetPosition(context.Context, int32) error {
	return ErrNotImplemented
}

var filterWheelTable = newFilterWheelTable()

func newFilterWheelTable() *ActionTable {
	t := NewActionTable()
	t.Get("focusoffsets", typed(func(ctx context.Context, d FilterWheel, _ *Params) (any, error) { return d.FocusOffsets(ctx) }))
	t.Get("names", typed(func(ctx context.Context, d FilterWheel, _ *Params) (any, error) { return d.Names(ctx) }))
	t.GetState("position", "Position", typed(func(ctx context.Context, d FilterWheel, _ *Params) (any, error) { return d.Position(ctx) }))
	t.Put("position", typed(func(ctx context.Context, d FilterWheel, p *Params) (any, error) {
		position, err := p.ExtractInt32("Position")
		if err != nil {
			return nil, err
		}
		return nil, d.SetPosition(ctx, position)
	}))
	return t
}
