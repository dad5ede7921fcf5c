package alpaca

import "context"

// CalibratorState is the state of a calibrator lamp.
type CalibratorState int32

const (
	CalibratorNotPresent CalibratorState = 0
	CalibratorOff        CalibratorState = 1
	CalibratorNotReady   CalibratorState = 2
	CalibratorReady      CalibratorState = 3
	CalibratorUnknown    CalibratorState = 4
	CalibratorError      CalibratorState = 5
)

// CoverState is the state of a dust cover.
type CoverState int32

const (
	CoverNotPresent CoverState = 0
	CoverClosed     CoverState = 1
	CoverMoving     CoverState = 2
	CoverOpen       CoverState = 3
	CoverUnknown    CoverState = 4
	CoverError      CoverState = 5
)

// CoverCalibrator is the contract for flat-field calibrator and dust
// cover devices. Either half may be absent; its state getter then
// reports NotPresent.
type CoverCalibrator interface {
	Device

	Brightness(ctx context.Context) (int32, error)
	CalibratorChanging(ctx context.Context) (bool, error)
	CalibratorState(ctx context.Context) (CalibratorState, error)
	CoverMoving(ctx context.Context) (bool, error)
	CoverState(ctx context.Context) (CoverState, error)
	MaxBrightness(ctx context.Context) (int32, error)
	CalibratorOff(ctx context.Context) error
	CalibratorOn(ctx context.Context, brightness int32) error
	CloseCover(ctx context.Context) error
	HaltCover(ctx context.Context) error
	OpenCover(ctx context.Context) error
}

// UnimplementedCoverCalibrator returns NotImplemented for every
// CoverCalibrator member.
type UnimplementedCoverCalibrator struct{ UnimplementedDevice }

func (UnimplementedCoverCalibrator) Brightness(context.Context) (int32, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedCoverCalibrator) CalibratorChanging(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedCoverCalibrator) CalibratorState(context.Context) (CalibratorState, error) {
	return CalibratorUnknown, ErrNotImplemented
}
func (UnimplementedCoverCalibrator) CoverMoving(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedCoverCalibrator) CoverState(context.Context) (CoverState, error) {
	return CoverUnknown, ErrNotImplemented
}
func (UnimplementedCoverCalibrator) MaxBrightness(context.Context) (int32, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedCoverCalibrator) CalibratorOff(context.Context) error { return ErrNotImplemented }
func (UnimplementedCoverCalibrator) CalibratorOn(context.Context, int32) error {
	return ErrNotImplemented
}
func (UnimplementedCoverCalibrator) CloseCover(context.Context) error { return ErrNotImplemented }
func (UnimplementedCoverCalibrator) HaltCover(context.Context) error  { return ErrNotImplemented }
func (UnimplementedCoverCalibrator) OpenCover(context.Context) error  { return ErrNotImplemented }

var coverCalibratorTable = newCoverCalibratorTable()

func newCoverCalibratorTable() *ActionTable {
	t := NewActionTable()
	t.GetState("brightness", "Brightness", typed(func(ctx context.Context, d CoverCalibrator, _ *Params) (any, error) {
		return d.Brightness(ctx)
	}))
	t.GetState("calibratorchanging", "CalibratorChanging", typed(func(ctx context.Context, d CoverCalibrator, _ *Params) (any, error) {
		return d.CalibratorChanging(ctx)
	}))
	t.GetState("calibratorstate", "CalibratorState", typed(func(ctx context.Context, d CoverCalibrator, _ *Params) (any, error) {
		return d.CalibratorState(ctx)
	}))
	t.GetState("covermoving", "CoverMoving", typed(func(ctx context.Context, d CoverCalibrator, _ *Params) (any, error) {
		return d.CoverMoving(ctx)
	}))
	t.GetState("coverstate", "CoverState", typed(func(ctx context.Context, d CoverCalibrator, _ *Params) (any, error) {
		return d.CoverState(ctx)
	}))
	t.Get("maxbrightness", typed(func(ctx context.Context, d CoverCalibrator, _ *Params) (any, error) {
		return d.MaxBrightness(ctx)
	}))
	t.Put("calibratoroff", typed(func(ctx context.Context, d CoverCalibrator, _ *Params) (any, error) {
		return nil, d.CalibratorOff(ctx)
	}))
	t.Put("calibratoron", typed(func(ctx context.Context, d CoverCalibrator, p *Params) (any, error) {
		brightness, err := p.ExtractInt32("Brightness")
		if err != nil {
			return nil, err
		}
		return nil, d.CalibratorOn(ctx, brightness)
	}))
	t.Put("closecover", typed(func(ctx context.Context, d CoverCalibrator, _ *Params) (any, error) {
		return nil, d.CloseCover(ctx)
	}))
	t.Put("haltcover", typed(func(ctx context.Context, d CoverCalibrator, _ *Params) (any, error) {
		return nil, d.HaltCover(ctx)
	}))
	t.Put("opencover", typed(func(ctx context.Context, d CoverCalibrator, _ *Params) (any, error) {
		return nil, d.OpenCover(ctx)
	}))
	return t
}
