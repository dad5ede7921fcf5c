package alpaca

import "context"

// SafetyMonitor is the contract for safety monitor devices. IsSafe must
// report false whenever the state cannot be determined.
type SafetyMonitor interface {
	Device

	IsSafe(ctx context.Context) (bool, error)
}

// UnimplementedSafetyMonitor returns NotImplemented for every SafetyMonitor
// member.
type UnimplementedSafetyMonitor struct{ UnimplementedDevice }

func (UnimplementedSafetyMonitor) IsSafe(context.Context) (bool, error) {
	return false, ErrNotImplemented
}

var safetyMonitorTable = newSafetyMonitorTable()

func newSafetyMonitorTable() *ActionTable {
	t := NewActionTable()
	t.GetState("issafe", "IsSafe", typed(func(ctx context.Context, d SafetyMonitor, _ *Params) (any, error) { return d.IsSafe(ctx) }))
	return t
}
