package simcamera

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"alpaca-hub/alpaca"
	"alpaca-hub/backend"
)

func connected(t *testing.T, cfg Config) *Camera {
	t.Helper()
	c := New(cfg)
	if err := c.SetConnected(context.Background(), true); err != nil {
		t.Fatalf("connect: %v", err)
	}
	return c
}

func smallConfig() Config {
	return Config{Width: 8, Height: 6, ExposureMin: 0.001}
}

func TestExposureLifecycle(t *testing.T) {
	ctx := context.Background()
	c := connected(t, smallConfig())

	if err := c.StartExposure(ctx, 0.02, true); err != nil {
		t.Fatalf("start exposure: %v", err)
	}
	if state, _ := c.CameraState(ctx); state != alpaca.CameraExposing {
		t.Fatalf("state during exposure = %v", state)
	}
	if ready, _ := c.ImageReady(ctx); ready {
		t.Fatal("image ready during exposure")
	}

	time.Sleep(40 * time.Millisecond)

	if state, _ := c.CameraState(ctx); state != alpaca.CameraIdle {
		t.Fatalf("state after exposure = %v", state)
	}
	ready, err := c.ImageReady(ctx)
	if err != nil || !ready {
		t.Fatalf("image ready = %v, %v", ready, err)
	}
	img, err := c.ImageArray(ctx)
	if err != nil {
		t.Fatalf("image array: %v", err)
	}
	dim1, dim2, _ := img.Dims()
	if dim1 != 8 || dim2 != 6 {
		t.Fatalf("frame dims = %dx%d, want 8x6", dim1, dim2)
	}

	dur, err := c.LastExposureDuration(ctx)
	if err != nil || dur < 0.015 || dur > 0.1 {
		t.Fatalf("last duration = %g, %v", dur, err)
	}
	start, err := c.LastExposureStartTime(ctx)
	if err != nil {
		t.Fatalf("last start time: %v", err)
	}
	if _, err := time.Parse("2006-01-02T15:04:05", start); err != nil {
		t.Fatalf("start time %q: %v", start, err)
	}
}

func TestImageBeforeExposure(t *testing.T) {
	c := connected(t, smallConfig())

	_, err := c.ImageArray(context.Background())
	if !errors.Is(err, alpaca.ErrInvalidOperation) {
		t.Fatalf("err = %v, want InvalidOperation", err)
	}
	if _, err := c.LastExposureDuration(context.Background()); !errors.Is(err, alpaca.ErrInvalidOperation) {
		t.Fatalf("last duration err = %v, want InvalidOperation", err)
	}
}

func TestOperationsRequireConnection(t *testing.T) {
	ctx := context.Background()
	c := New(smallConfig())

	if err := c.StartExposure(ctx, 0.01, true); !errors.Is(err, alpaca.ErrNotConnected) {
		t.Fatalf("start exposure err = %v, want NotConnected", err)
	}
	if _, err := c.CameraState(ctx); !errors.Is(err, alpaca.ErrNotConnected) {
		t.Fatalf("camera state err = %v, want NotConnected", err)
	}
	if _, err := c.CCDTemperature(ctx); !errors.Is(err, alpaca.ErrNotConnected) {
		t.Fatalf("temperature err = %v, want NotConnected", err)
	}
}

func TestBinAndGainValidation(t *testing.T) {
	ctx := context.Background()
	c := connected(t, Config{Width: 100, Height: 100, MaxBin: 4, GainMax: 50})

	if err := c.SetBinX(ctx, 0); !errors.Is(err, alpaca.ErrInvalidValue) {
		t.Fatalf("bin 0 err = %v", err)
	}
	if err := c.SetBinX(ctx, 5); !errors.Is(err, alpaca.ErrInvalidValue) {
		t.Fatalf("bin 5 err = %v", err)
	}
	if err := c.SetBinX(ctx, 2); err != nil {
		t.Fatalf("bin 2: %v", err)
	}
	if bin, _ := c.BinX(ctx); bin != 2 {
		t.Fatalf("binx = %d, want 2", bin)
	}

	if err := c.SetGain(ctx, 51); !errors.Is(err, alpaca.ErrInvalidValue) {
		t.Fatalf("gain 51 err = %v", err)
	}
	if err := c.SetGain(ctx, 25); err != nil {
		t.Fatalf("gain 25: %v", err)
	}
}

func TestSubframeValidatedAtStart(t *testing.T) {
	ctx := context.Background()
	c := connected(t, Config{Width: 100, Height: 100, MaxBin: 4})

	if err := c.SetBinX(ctx, 2); err != nil {
		t.Fatalf("set bin: %v", err)
	}
	if err := c.SetStartX(ctx, 30); err != nil {
		t.Fatalf("set startx: %v", err)
	}
	if err := c.SetNumX(ctx, 30); err != nil {
		t.Fatalf("set numx: %v", err)
	}

	// 30+30 exceeds the 50 binned columns available at bin 2.
	err := c.StartExposure(ctx, 0.01, true)
	if !errors.Is(err, alpaca.ErrInvalidValue) {
		t.Fatalf("err = %v, want InvalidValue", err)
	}

	if err := c.SetNumX(ctx, 20); err != nil {
		t.Fatalf("set numx: %v", err)
	}
	if err := c.StartExposure(ctx, 0.01, true); err != nil {
		t.Fatalf("valid subframe rejected: %v", err)
	}
}

func TestSubframeSettersRejectNegatives(t *testing.T) {
	c := connected(t, smallConfig())
	if err := c.SetStartX(context.Background(), -1); !errors.Is(err, alpaca.ErrInvalidValue) {
		t.Fatalf("err = %v, want InvalidValue", err)
	}
}

func TestAbortDiscardsImage(t *testing.T) {
	ctx := context.Background()
	c := connected(t, smallConfig())

	if err := c.StartExposure(ctx, 0.01, true); err != nil {
		t.Fatalf("start: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if err := c.AbortExposure(ctx); err != nil {
		t.Fatalf("abort: %v", err)
	}
	if ready, _ := c.ImageReady(ctx); ready {
		t.Fatal("image survived abort")
	}
	if _, err := c.ImageArray(ctx); !errors.Is(err, alpaca.ErrInvalidOperation) {
		t.Fatalf("image after abort err = %v", err)
	}
}

func TestStopCutsExposureShort(t *testing.T) {
	ctx := context.Background()
	c := connected(t, smallConfig())

	if err := c.StartExposure(ctx, 5, true); err != nil {
		t.Fatalf("start: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if err := c.StopExposure(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	ready, err := c.ImageReady(ctx)
	if err != nil || !ready {
		t.Fatalf("image ready after stop = %v, %v", ready, err)
	}
	if dur, _ := c.LastExposureDuration(ctx); dur >= 1 {
		t.Fatalf("stopped exposure reports %gs", dur)
	}
}

func TestFramesAreDeterministic(t *testing.T) {
	ctx := context.Background()

	grab := func() []int32 {
		c := connected(t, smallConfig())
		if err := c.StartExposure(ctx, 0.005, true); err != nil {
			t.Fatalf("start: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
		img, err := c.ImageArray(ctx)
		if err != nil {
			t.Fatalf("image: %v", err)
		}
		return img.Data()
	}

	if !slices.Equal(grab(), grab()) {
		t.Fatal("identical exposures produced different frames")
	}
}

func TestDarkFramesAreDimmer(t *testing.T) {
	ctx := context.Background()
	sum := func(light bool) int64 {
		c := connected(t, smallConfig())
		if err := c.StartExposure(ctx, 0.005, light); err != nil {
			t.Fatalf("start: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
		img, err := c.ImageArray(ctx)
		if err != nil {
			t.Fatalf("image: %v", err)
		}
		var total int64
		for _, v := range img.Data() {
			total += int64(v)
		}
		return total
	}

	if light, dark := sum(true), sum(false); light <= dark {
		t.Fatalf("light frame sum %d not above dark frame sum %d", light, dark)
	}
}

func TestCooler(t *testing.T) {
	ctx := context.Background()
	c := connected(t, smallConfig())

	if err := c.SetSetCCDTemperature(ctx, -60); !errors.Is(err, alpaca.ErrInvalidValue) {
		t.Fatalf("setpoint -60 err = %v", err)
	}
	if err := c.SetSetCCDTemperature(ctx, -15); err != nil {
		t.Fatalf("setpoint: %v", err)
	}
	if err := c.SetCoolerOn(ctx, true); err != nil {
		t.Fatalf("cooler on: %v", err)
	}
	if temp, _ := c.CCDTemperature(ctx); temp != -15 {
		t.Fatalf("ccd temperature = %g, want setpoint", temp)
	}
	if power, _ := c.CoolerPower(ctx); power <= 0 {
		t.Fatalf("cooler power = %g", power)
	}
	if err := c.SetCoolerOn(ctx, false); err != nil {
		t.Fatalf("cooler off: %v", err)
	}
	if power, _ := c.CoolerPower(ctx); power != 0 {
		t.Fatalf("cooler power off = %g", power)
	}
}

func TestIdentityDefaults(t *testing.T) {
	a := New(Config{})
	b := New(Config{Info: backend.Info{Name: "Main Imager", UniqueID: "cam-main"}})

	if a.StaticName() != "Simulated Camera" {
		t.Fatalf("default name = %q", a.StaticName())
	}
	if a.UniqueID() == "" || a.UniqueID() == New(Config{}).UniqueID() {
		t.Fatalf("unique id not generated: %q", a.UniqueID())
	}
	if b.StaticName() != "Main Imager" || b.UniqueID() != "cam-main" {
		t.Fatalf("configured identity = %q/%q", b.StaticName(), b.UniqueID())
	}
}
