package alpaca

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// fakeFocuser implements the focuser contract over in-memory state. The
// non-nil tempErr makes Temperature fail, for partial devicestate tests.
type fakeFocuser struct {
	UnimplementedFocuser
	name     string
	id       string
	position int32
	moving   bool
	tempErr  error
	moved    []int32
}

func (f *fakeFocuser) StaticName() string { return f.name }
func (f *fakeFocuser) UniqueID() string   { return f.id }

func (f *fakeFocuser) Position(context.Context) (int32, error) { return f.position, nil }
func (f *fakeFocuser) IsMoving(context.Context) (bool, error)  { return f.moving, nil }

func (f *fakeFocuser) Temperature(context.Context) (float64, error) {
	if f.tempErr != nil {
		return 0, f.tempErr
	}
	return 4.5, nil
}

func (f *fakeFocuser) Move(_ context.Context, position int32) error {
	f.moved = append(f.moved, position)
	f.position = position
	return nil
}

type fakeSafetyMonitor struct {
	UnimplementedSafetyMonitor
	id   string
	safe bool
}

func (m *fakeSafetyMonitor) StaticName() string                   { return "monitor" }
func (m *fakeSafetyMonitor) UniqueID() string                     { return m.id }
func (m *fakeSafetyMonitor) IsSafe(context.Context) (bool, error) { return m.safe, nil }
func (m *fakeSafetyMonitor) Name(context.Context) (string, error) { return "roof monitor", nil }

func testDispatcher(t *testing.T, devs ...Device) *Dispatcher {
	t.Helper()
	reg := NewRegistry()
	for _, d := range devs {
		if _, err := reg.Register(d); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	return NewDispatcher(reg, zerolog.New(io.Discard))
}

func TestDispatchCategoryAction(t *testing.T) {
	d := testDispatcher(t, &fakeFocuser{name: "foc", id: "f-1", position: 1200})
	v, err := d.Dispatch(context.Background(), DeviceTypeFocuser, 0, "position", MethodGet, &Params{})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if v != int32(1200) {
		t.Fatalf("got %v (%T)", v, v)
	}
}

func TestDispatchPutExtractsParams(t *testing.T) {
	foc := &fakeFocuser{name: "foc", id: "f-1"}
	d := testDispatcher(t, foc)
	p, err := ParseParams("Position=3000&ClientID=5")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	v, err := d.Dispatch(context.Background(), DeviceTypeFocuser, 0, "move", MethodPut, p)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if v != nil {
		t.Fatalf("put returned a value: %v", v)
	}
	if len(foc.moved) != 1 || foc.moved[0] != 3000 {
		t.Fatalf("moves got=%v", foc.moved)
	}
}

func TestDispatchMissingParam(t *testing.T) {
	d := testDispatcher(t, &fakeFocuser{name: "foc", id: "f-1"})
	_, err := d.Dispatch(context.Background(), DeviceTypeFocuser, 0, "move", MethodPut, &Params{})
	var missing *MissingParamError
	if !errors.As(err, &missing) || missing.Name != "Position" {
		t.Fatalf("got %v", err)
	}
}

func TestDispatchCommonFallback(t *testing.T) {
	d := testDispatcher(t, &fakeFocuser{name: "foc", id: "f-1"})
	v, err := d.Dispatch(context.Background(), DeviceTypeFocuser, 0, "connecting", MethodGet, &Params{})
	if !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("got v=%v err=%v", v, err)
	}
}

func TestDispatchNameFallsBackToStaticName(t *testing.T) {
	d := testDispatcher(t, &fakeFocuser{name: "foc", id: "f-1"})
	v, err := d.Dispatch(context.Background(), DeviceTypeFocuser, 0, "name", MethodGet, &Params{})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if v != "foc" {
		t.Fatalf("got %v", v)
	}
}

func TestDispatchNameOverride(t *testing.T) {
	d := testDispatcher(t, &fakeSafetyMonitor{id: "m-1"})
	v, err := d.Dispatch(context.Background(), DeviceTypeSafetyMonitor, 0, "name", MethodGet, &Params{})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if v != "roof monitor" {
		t.Fatalf("got %v", v)
	}
}

func TestDispatchUnknownAction(t *testing.T) {
	d := testDispatcher(t, &fakeFocuser{name: "foc", id: "f-1"})
	_, err := d.Dispatch(context.Background(), DeviceTypeFocuser, 0, "warpdrive", MethodGet, &Params{})
	var unknown *UnknownActionError
	if !errors.As(err, &unknown) {
		t.Fatalf("got %v", err)
	}
	if unknown.Action != "warpdrive" || unknown.Type != DeviceTypeFocuser {
		t.Fatalf("got %+v", unknown)
	}
}

func TestDispatchMethodMismatchIsUnknown(t *testing.T) {
	d := testDispatcher(t, &fakeFocuser{name: "foc", id: "f-1"})
	_, err := d.Dispatch(context.Background(), DeviceTypeFocuser, 0, "halt", MethodGet, &Params{})
	var unknown *UnknownActionError
	if !errors.As(err, &unknown) {
		t.Fatalf("got %v", err)
	}
}

func TestDispatchUnknownDevice(t *testing.T) {
	d := testDispatcher(t, &fakeFocuser{name: "foc", id: "f-1"})
	_, err := d.Dispatch(context.Background(), DeviceTypeFocuser, 1, "position", MethodGet, &Params{})
	var unknown *UnknownDeviceError
	if !errors.As(err, &unknown) || unknown.Number != 1 {
		t.Fatalf("got %v", err)
	}
	_, err = d.Dispatch(context.Background(), DeviceTypeCamera, 0, "binx", MethodGet, &Params{})
	if !errors.As(err, &unknown) {
		t.Fatalf("got %v", err)
	}
}

func TestDispatchDeviceState(t *testing.T) {
	d := testDispatcher(t, &fakeFocuser{name: "foc", id: "f-1", position: 800, moving: true})
	v, err := d.Dispatch(context.Background(), DeviceTypeFocuser, 0, "devicestate", MethodGet, &Params{})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	st, ok := v.(*DeviceState)
	if !ok {
		t.Fatalf("got %T", v)
	}
	if pos, ok := st.Value("Position"); !ok || pos != int32(800) {
		t.Fatalf("Position got=%v ok=%v", pos, ok)
	}
	if mv, ok := st.Value("IsMoving"); !ok || mv != true {
		t.Fatalf("IsMoving got=%v ok=%v", mv, ok)
	}
	if temp, ok := st.Value("Temperature"); !ok || temp != 4.5 {
		t.Fatalf("Temperature got=%v ok=%v", temp, ok)
	}
	if st.TimeStamp().IsZero() {
		t.Fatalf("zero timestamp")
	}
}

func TestDispatchDeviceStateSkipsFailingGetters(t *testing.T) {
	d := testDispatcher(t, &fakeFocuser{name: "foc", id: "f-1", position: 800, tempErr: ErrNotImplemented})
	v, err := d.Dispatch(context.Background(), DeviceTypeFocuser, 0, "devicestate", MethodGet, &Params{})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	st := v.(*DeviceState)
	if _, ok := st.Value("Temperature"); ok {
		t.Fatalf("failing getter still produced a field")
	}
	if _, ok := st.Value("Position"); !ok {
		t.Fatalf("healthy getter dropped")
	}
}

func TestDispatchDeviceStateWarnsOnUnexpectedErrors(t *testing.T) {
	var buf logBuffer
	reg := NewRegistry()
	if _, err := reg.Register(&fakeFocuser{name: "foc", id: "f-1", tempErr: errors.New("sensor wedged")}); err != nil {
		t.Fatalf("register: %v", err)
	}
	d := NewDispatcher(reg, zerolog.New(&buf))
	if _, err := d.Dispatch(context.Background(), DeviceTypeFocuser, 0, "devicestate", MethodGet, &Params{}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !buf.contains("sensor wedged") {
		t.Fatalf("unexpected error not logged: %s", buf.String())
	}
}

func TestDispatchPropagatesDeviceErrors(t *testing.T) {
	d := testDispatcher(t, &fakeFocuser{name: "foc", id: "f-1"})
	_, err := d.Dispatch(context.Background(), DeviceTypeFocuser, 0, "absolute", MethodGet, &Params{})
	if !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("got %v", err)
	}
}

type logBuffer struct {
	data []byte
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *logBuffer) String() string { return string(b.data) }

func (b *logBuffer) contains(s string) bool { return strings.Contains(b.String(), s) }
