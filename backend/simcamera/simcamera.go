// Package simcamera provides a purely synthetic camera: deterministic
// gradient frames, a clock-driven exposure state machine, binning and
// subframe handling, and a trivial cooler. It exists so a hub can be
// exercised end to end, image transport included, without hardware.
package simcamera

import (
	"context"
	"math"
	"time"

	"alpaca-hub/alpaca"
	"alpaca-hub/backend"
)

const (
	driverInfo       = "alpaca-hub simulated camera"
	driverVersion    = "1.0"
	interfaceVersion = 4

	maxADU          = 65535
	ambientCelsius  = 20.0
	electronsPerADU = 1.5
	fullWell        = 30000.0
)

// Config describes one simulated camera. Zero fields get defaults.
type Config struct {
	backend.Info

	Width     int32   `toml:"width"`
	Height    int32   `toml:"height"`
	PixelSize float64 `toml:"pixel_size"`
	MaxBin    int32   `toml:"max_bin"`

	GainMin int32 `toml:"gain_min"`
	GainMax int32 `toml:"gain_max"`

	ExposureMin float64 `toml:"exposure_min"`
	ExposureMax float64 `toml:"exposure_max"`
}

// exposure is the state of the current or last exposure. The frame is
// rendered when the exposure starts and published once the clock passes
// end, so readers never mutate anything.
type exposure struct {
	active bool
	start  time.Time
	end    time.Time
	frame  *alpaca.ImageArray
}

// Camera is a simulated camera device.
type Camera struct {
	alpaca.UnimplementedCamera
	backend.Base

	cfg Config

	binX, binY     int32
	startX, startY int32
	numX, numY     int32
	gain           int32
	readoutMode    int32

	coolerOn bool
	setpoint float64

	exp exposure
}

// New builds a simulated camera from cfg.
func New(cfg Config) *Camera {
	if cfg.Name == "" {
		cfg.Name = "Simulated Camera"
	}
	if cfg.Width <= 0 {
		cfg.Width = 1024
	}
	if cfg.Height <= 0 {
		cfg.Height = 768
	}
	if cfg.PixelSize <= 0 {
		cfg.PixelSize = 5.4
	}
	if cfg.MaxBin <= 0 {
		cfg.MaxBin = 4
	}
	if cfg.GainMax <= 0 {
		cfg.GainMax = 100
	}
	if cfg.ExposureMin <= 0 {
		cfg.ExposureMin = 0.001
	}
	if cfg.ExposureMax <= 0 {
		cfg.ExposureMax = 3600
	}
	return &Camera{
		Base:     backend.NewBase(cfg.Info, driverInfo, driverVersion, interfaceVersion),
		cfg:      cfg,
		binX:     1,
		binY:     1,
		numX:     cfg.Width,
		numY:     cfg.Height,
		gain:     cfg.GainMin,
		setpoint: -10,
	}
}

func (c *Camera) exposing() bool {
	return c.exp.active && time.Now().Before(c.exp.end)
}

func (c *Camera) imageReady() bool {
	return c.exp.active && !time.Now().Before(c.exp.end)
}

// Geometry and capabilities.

func (c *Camera) BinX(context.Context) (int32, error) { return c.binX, nil }

func (c *Camera) SetBinX(_ context.Context, v int32) error {
	if v < 1 || v > c.cfg.MaxBin {
		return alpaca.NewErrorf(alpaca.CodeInvalidValue, "BinX %d outside 1..%d", v, c.cfg.MaxBin)
	}
	c.binX = v
	return nil
}

func (c *Camera) BinY(context.Context) (int32, error) { return c.binY, nil }

func (c *Camera) SetBinY(_ context.Context, v int32) error {
	if v < 1 || v > c.cfg.MaxBin {
		return alpaca.NewErrorf(alpaca.CodeInvalidValue, "BinY %d outside 1..%d", v, c.cfg.MaxBin)
	}
	c.binY = v
	return nil
}

func (c *Camera) CameraXSize(context.Context) (int32, error) { return c.cfg.Width, nil }
func (c *Camera) CameraYSize(context.Context) (int32, error) { return c.cfg.Height, nil }

func (c *Camera) MaxBinX(context.Context) (int32, error) { return c.cfg.MaxBin, nil }
func (c *Camera) MaxBinY(context.Context) (int32, error) { return c.cfg.MaxBin, nil }

func (c *Camera) CanAbortExposure(context.Context) (bool, error)     { return true, nil }
func (c *Camera) CanAsymmetricBin(context.Context) (bool, error)     { return true, nil }
func (c *Camera) CanFastReadout(context.Context) (bool, error)       { return false, nil }
func (c *Camera) CanGetCoolerPower(context.Context) (bool, error)    { return true, nil }
func (c *Camera) CanPulseGuide(context.Context) (bool, error)        { return false, nil }
func (c *Camera) CanSetCCDTemperature(context.Context) (bool, error) { return true, nil }
func (c *Camera) CanStopExposure(context.Context) (bool, error)      { return true, nil }

func (c *Camera) ElectronsPerADU(context.Context) (float64, error)  { return electronsPerADU, nil }
func (c *Camera) ExposureMax(context.Context) (float64, error)      { return c.cfg.ExposureMax, nil }
func (c *Camera) ExposureMin(context.Context) (float64, error)      { return c.cfg.ExposureMin, nil }
func (c *Camera) ExposureResolution(context.Context) (float64, error) { return 0.001, nil }
func (c *Camera) FullWellCapacity(context.Context) (float64, error) { return fullWell, nil }
func (c *Camera) HasShutter(context.Context) (bool, error)          { return true, nil }
func (c *Camera) MaxADU(context.Context) (int32, error)             { return maxADU, nil }
func (c *Camera) PixelSizeX(context.Context) (float64, error)       { return c.cfg.PixelSize, nil }
func (c *Camera) PixelSizeY(context.Context) (float64, error)       { return c.cfg.PixelSize, nil }
func (c *Camera) SensorName(context.Context) (string, error)        { return "SimChip", nil }
func (c *Camera) SensorType(context.Context) (alpaca.SensorType, error) {
	return alpaca.SensorMonochrome, nil
}

func (c *Camera) Gain(context.Context) (int32, error) { return c.gain, nil }

func (c *Camera) SetGain(_ context.Context, v int32) error {
	if v < c.cfg.GainMin || v > c.cfg.GainMax {
		return alpaca.NewErrorf(alpaca.CodeInvalidValue, "Gain %d outside %d..%d", v, c.cfg.GainMin, c.cfg.GainMax)
	}
	c.gain = v
	return nil
}

func (c *Camera) GainMax(context.Context) (int32, error) { return c.cfg.GainMax, nil }
func (c *Camera) GainMin(context.Context) (int32, error) { return c.cfg.GainMin, nil }

func (c *Camera) ReadoutMode(context.Context) (int32, error) { return c.readoutMode, nil }

func (c *Camera) SetReadoutMode(_ context.Context, v int32) error {
	if v < 0 || v > 1 {
		return alpaca.NewErrorf(alpaca.CodeInvalidValue, "ReadoutMode %d outside 0..1", v)
	}
	c.readoutMode = v
	return nil
}

func (c *Camera) ReadoutModes(context.Context) ([]string, error) {
	return []string{"Normal", "Fast"}, nil
}

// Subframe. Values are in binned pixels; the combination with the current
// binning is validated when the exposure starts, as the protocol expects.

func (c *Camera) StartX(context.Context) (int32, error)        { return c.startX, nil }
func (c *Camera) SetStartX(_ context.Context, v int32) error   { return setSubframe(&c.startX, "StartX", v) }
func (c *Camera) StartY(context.Context) (int32, error)        { return c.startY, nil }
func (c *Camera) SetStartY(_ context.Context, v int32) error   { return setSubframe(&c.startY, "StartY", v) }
func (c *Camera) NumX(context.Context) (int32, error)          { return c.numX, nil }
func (c *Camera) SetNumX(_ context.Context, v int32) error     { return setSubframe(&c.numX, "NumX", v) }
func (c *Camera) NumY(context.Context) (int32, error)          { return c.numY, nil }
func (c *Camera) SetNumY(_ context.Context, v int32) error     { return setSubframe(&c.numY, "NumY", v) }

func setSubframe(field *int32, name string, v int32) error {
	if v < 0 {
		return alpaca.NewErrorf(alpaca.CodeInvalidValue, "%s must not be negative, got %d", name, v)
	}
	*field = v
	return nil
}

// Cooler.

func (c *Camera) CCDTemperature(context.Context) (float64, error) {
	if err := c.NeedsConnection(); err != nil {
		return 0, err
	}
	if c.coolerOn {
		return c.setpoint, nil
	}
	return ambientCelsius, nil
}

func (c *Camera) CoolerOn(context.Context) (bool, error) {
	if err := c.NeedsConnection(); err != nil {
		return false, err
	}
	return c.coolerOn, nil
}

func (c *Camera) SetCoolerOn(_ context.Context, on bool) error {
	if err := c.NeedsConnection(); err != nil {
		return err
	}
	c.coolerOn = on
	return nil
}

func (c *Camera) CoolerPower(context.Context) (float64, error) {
	if err := c.NeedsConnection(); err != nil {
		return 0, err
	}
	if !c.coolerOn {
		return 0, nil
	}
	power := (ambientCelsius - c.setpoint) * 2
	return math.Min(100, math.Max(0, power)), nil
}

func (c *Camera) HeatSinkTemperature(context.Context) (float64, error) {
	if err := c.NeedsConnection(); err != nil {
		return 0, err
	}
	return ambientCelsius, nil
}

func (c *Camera) SetCCDTemperature(context.Context) (float64, error) { return c.setpoint, nil }

func (c *Camera) SetSetCCDTemperature(_ context.Context, v float64) error {
	if v < -50 || v > 50 {
		return alpaca.NewErrorf(alpaca.CodeInvalidValue, "setpoint %g outside -50..50", v)
	}
	c.setpoint = v
	return nil
}

// Exposure lifecycle.

func (c *Camera) CameraState(context.Context) (alpaca.CameraState, error) {
	if err := c.NeedsConnection(); err != nil {
		return 0, err
	}
	if c.exposing() {
		return alpaca.CameraExposing, nil
	}
	return alpaca.CameraIdle, nil
}

func (c *Camera) ImageReady(context.Context) (bool, error) {
	if err := c.NeedsConnection(); err != nil {
		return false, err
	}
	return c.imageReady(), nil
}

func (c *Camera) IsPulseGuiding(context.Context) (bool, error) { return false, nil }

func (c *Camera) PercentCompleted(context.Context) (int32, error) {
	if err := c.NeedsConnection(); err != nil {
		return 0, err
	}
	if !c.exp.active {
		return 0, alpaca.NewError(alpaca.CodeInvalidOperation, "no exposure in progress")
	}
	total := c.exp.end.Sub(c.exp.start)
	if total <= 0 {
		return 100, nil
	}
	elapsed := time.Since(c.exp.start)
	if elapsed >= total {
		return 100, nil
	}
	return int32(elapsed * 100 / total), nil
}

func (c *Camera) StartExposure(_ context.Context, duration float64, light bool) error {
	if err := c.NeedsConnection(); err != nil {
		return err
	}
	if c.exposing() {
		return alpaca.NewError(alpaca.CodeInvalidOperation, "exposure already in progress")
	}
	if duration < c.cfg.ExposureMin || duration > c.cfg.ExposureMax {
		return alpaca.NewErrorf(alpaca.CodeInvalidValue, "Duration %g outside %g..%g",
			duration, c.cfg.ExposureMin, c.cfg.ExposureMax)
	}
	if c.numX < 1 || c.startX+c.numX > c.cfg.Width/c.binX {
		return alpaca.NewErrorf(alpaca.CodeInvalidValue, "subframe NumX %d at StartX %d exceeds %d binned columns",
			c.numX, c.startX, c.cfg.Width/c.binX)
	}
	if c.numY < 1 || c.startY+c.numY > c.cfg.Height/c.binY {
		return alpaca.NewErrorf(alpaca.CodeInvalidValue, "subframe NumY %d at StartY %d exceeds %d binned rows",
			c.numY, c.startY, c.cfg.Height/c.binY)
	}

	frame, err := c.renderFrame(duration, light)
	if err != nil {
		return err
	}
	now := time.Now()
	c.exp = exposure{
		active: true,
		start:  now,
		end:    now.Add(time.Duration(duration * float64(time.Second))),
		frame:  frame,
	}
	return nil
}

func (c *Camera) StopExposure(context.Context) error {
	if err := c.NeedsConnection(); err != nil {
		return err
	}
	if c.exposing() {
		// Cut the exposure short; the frame counts as complete.
		c.exp.end = time.Now()
	}
	return nil
}

func (c *Camera) AbortExposure(context.Context) error {
	if err := c.NeedsConnection(); err != nil {
		return err
	}
	c.exp = exposure{}
	return nil
}

func (c *Camera) ImageArray(context.Context) (*alpaca.ImageArray, error) {
	if err := c.NeedsConnection(); err != nil {
		return nil, err
	}
	if !c.imageReady() {
		return nil, alpaca.NewError(alpaca.CodeInvalidOperation, "no image is ready")
	}
	return c.exp.frame, nil
}

func (c *Camera) LastExposureDuration(context.Context) (float64, error) {
	if err := c.NeedsConnection(); err != nil {
		return 0, err
	}
	if !c.imageReady() {
		return 0, alpaca.NewError(alpaca.CodeInvalidOperation, "no exposure has completed")
	}
	return c.exp.end.Sub(c.exp.start).Seconds(), nil
}

func (c *Camera) LastExposureStartTime(context.Context) (string, error) {
	if err := c.NeedsConnection(); err != nil {
		return "", err
	}
	if !c.imageReady() {
		return "", alpaca.NewError(alpaca.CodeInvalidOperation, "no exposure has completed")
	}
	return c.exp.start.UTC().Format("2006-01-02T15:04:05"), nil
}

// renderFrame builds the synthetic image for the current subframe: a
// diagonal gradient scaled by exposure and gain, plus position-derived
// noise, clamped to maxADU. Dark frames drop the gradient and keep the
// noise floor. Identical settings produce identical frames.
func (c *Camera) renderFrame(duration float64, light bool) (*alpaca.ImageArray, error) {
	img, err := alpaca.NewImageArray(int(c.numX), int(c.numY), 1)
	if err != nil {
		return nil, err
	}
	scale := 1 + int32(math.Min(duration, 10)*100)*(1+c.gain/10)
	for x := int32(0); x < c.numX; x++ {
		for y := int32(0); y < c.numY; y++ {
			noise := (x*31 + y*17) % 23
			v := noise
			if light {
				gx := c.startX + x
				gy := c.startY + y
				v += (gx + gy) % 256 * (16 + scale) / 16
			}
			if v > maxADU {
				v = maxADU
			}
			img.Set(int(x), int(y), 0, v)
		}
	}
	return img, nil
}
