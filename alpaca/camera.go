package alpaca

import "context"

// CameraState is the camera's exposure state machine position.
type CameraState int32

const (
	CameraIdle     CameraState = 0
	CameraWaiting  CameraState = 1
	CameraExposing CameraState = 2
	CameraReading  CameraState = 3
	CameraDownload CameraState = 4
	CameraError    CameraState = 5
)

// SensorType describes the sensor's colour layout.
type SensorType int32

const (
	SensorMonochrome SensorType = 0
	SensorColor      SensorType = 1
	SensorRGGB       SensorType = 2
	SensorCMYG       SensorType = 3
	SensorCMYG2      SensorType = 4
	SensorLRGB       SensorType = 5
)

// GuideDirection is a pulse-guide axis direction.
type GuideDirection int32

const (
	GuideNorth GuideDirection = 0
	GuideSouth GuideDirection = 1
	GuideEast  GuideDirection = 2
	GuideWest  GuideDirection = 3
)

// Camera is the contract for camera devices. Members mirror the Alpaca
// camera endpoints; a device only implements what its hardware supports and
// leaves the rest to UnimplementedCamera.
type Camera interface {
	Device

	BayerOffsetX(ctx context.Context) (int32, error)
	BayerOffsetY(ctx context.Context) (int32, error)
	BinX(ctx context.Context) (int32, error)
	SetBinX(ctx context.Context, v int32) error
	BinY(ctx context.Context) (int32, error)
	SetBinY(ctx context.Context, v int32) error
	CameraState(ctx context.Context) (CameraState, error)
	CameraXSize(ctx context.Context) (int32, error)
	CameraYSize(ctx context.Context) (int32, error)
	CanAbortExposure(ctx context.Context) (bool, error)
	CanAsymmetricBin(ctx context.Context) (bool, error)
	CanFastReadout(ctx context.Context) (bool, error)
	CanGetCoolerPower(ctx context.Context) (bool, error)
	CanPulseGuide(ctx context.Context) (bool, error)
	CanSetCCDTemperature(ctx context.Context) (bool, error)
	CanStopExposure(ctx context.Context) (bool, error)
	CCDTemperature(ctx context.Context) (float64, error)
	CoolerOn(ctx context.Context) (bool, error)
	SetCoolerOn(ctx context.Context, on bool) error
	CoolerPower(ctx context.Context) (float64, error)
	ElectronsPerADU(ctx context.Context) (float64, error)
	ExposureMax(ctx context.Context) (float64, error)
	ExposureMin(ctx context.Context) (float64, error)
	ExposureResolution(ctx context.Context) (float64, error)
	FastReadout(ctx context.Context) (bool, error)
	SetFastReadout(ctx context.Context, fast bool) error
	FullWellCapacity(ctx context.Context) (float64, error)
	Gain(ctx context.Context) (int32, error)
	SetGain(ctx context.Context, v int32) error
	GainMax(ctx context.Context) (int32, error)
	GainMin(ctx context.Context) (int32, error)
	Gains(ctx context.Context) ([]string, error)
	HasShutter(ctx context.Context) (bool, error)
	HeatSinkTemperature(ctx context.Context) (float64, error)
	// ImageArray returns the most recent exposure. Serving it binary or as
	// JSON is the transport's concern, not the device's.
	ImageArray(ctx context.Context) (*ImageArray, error)
	ImageReady(ctx context.Context) (bool, error)
	IsPulseGuiding(ctx context.Context) (bool, error)
	LastExposureDuration(ctx context.Context) (float64, error)
	LastExposureStartTime(ctx context.Context) (string, error)
	MaxADU(ctx context.Context) (int32, error)
	MaxBinX(ctx context.Context) (int32, error)
	MaxBinY(ctx context.Context) (int32, error)
	NumX(ctx context.Context) (int32, error)
	SetNumX(ctx context.Context, v int32) error
	NumY(ctx context.Context) (int32, error)
	SetNumY(ctx context.Context, v int32) error
	Offset(ctx context.Context) (int32, error)
	SetOffset(ctx context.Context, v int32) error
	OffsetMax(ctx context.Context) (int32, error)
	OffsetMin(ctx context.Context) (int32, error)
	Offsets(ctx context.Context) ([]string, error)
	PercentCompleted(ctx context.Context) (int32, error)
	PixelSizeX(ctx context.Context) (float64, error)
	PixelSizeY(ctx context.Context) (float64, error)
	ReadoutMode(ctx context.Context) (int32, error)
	SetReadoutMode(ctx context.Context, v int32) error
	ReadoutModes(ctx context.Context) ([]string, error)
	SensorName(ctx context.Context) (string, error)
	SensorType(ctx context.Context) (SensorType, error)
	// SetCCDTemperature is the cooler setpoint property; the awkward name
	// is ASCOM's, so the setter gains a second Set.
	SetCCDTemperature(ctx context.Context) (float64, error)
	SetSetCCDTemperature(ctx context.Context, v float64) error
	StartX(ctx context.Context) (int32, error)
	SetStartX(ctx context.Context, v int32) error
	StartY(ctx context.Context) (int32, error)
	SetStartY(ctx context.Context, v int32) error
	SubExposureDuration(ctx context.Context) (float64, error)
	SetSubExposureDuration(ctx context.Context, v float64) error

	AbortExposure(ctx context.Context) error
	PulseGuide(ctx context.Context, direction GuideDirection, durationMs int32) error
	// StartExposure begins an exposure of the given duration in seconds;
	// light selects a light frame over a dark frame.
	StartExposure(ctx context.Context, duration float64, light bool) error
	StopExposure(ctx context.Context) error
}

// UnimplementedCamera returns NotImplemented for every Camera member.
// Embed it in camera implementations and override what the hardware
// supports.
type UnimplementedCamera struct{ UnimplementedDevice }

func (UnimplementedCamera) BayerOffsetX(context.Context) (int32, error) { return 0, ErrNotImplemented }
func (UnimplementedCamera) BayerOffsetY(context.Context) (int32, error) { return 0, ErrNotImplemented }
func (UnimplementedCamera) BinX(context.Context) (int32, error)         { return 0, ErrNotImplemented }
func (UnimplementedCamera) SetBinX(context.Context, int32) error        { return ErrNotImplemented }
func (UnimplementedCamera) BinY(context.Context) (int32, error)         { return 0, ErrNotImplemented }
func (UnimplementedCamera) SetBinY(context.Context, int32) error        { return ErrNotImplemented }
func (UnimplementedCamera) CameraState(context.Context) (CameraState, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedCamera) CameraXSize(context.Context) (int32, error) { return 0, ErrNotImplemented }
func (UnimplementedCamera) CameraYSize(context.Context) (int32, error) { return 0, ErrNotImplemented }
func (UnimplementedCamera) CanAbortExposure(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedCamera) CanAsymmetricBin(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedCamera) CanFastReadout(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedCamera) CanGetCoolerPower(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedCamera) CanPulseGuide(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedCamera) CanSetCCDTemperature(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedCamera) CanStopExposure(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedCamera) CCDTemperature(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedCamera) CoolerOn(context.Context) (bool, error)  { return false, ErrNotImplemented }
func (UnimplementedCamera) SetCoolerOn(context.Context, bool) error { return ErrNotImplemented }
func (UnimplementedCamera) CoolerPower(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedCamera) ElectronsPerADU(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedCamera) ExposureMax(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedCamera) ExposureMin(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedCamera) ExposureResolution(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedCamera) FastReadout(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedCamera) SetFastReadout(context.Context, bool) error { return ErrNotImplemented }
func (UnimplementedCamera) FullWellCapacity(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedCamera) Gain(context.Context) (int32, error)    { return 0, ErrNotImplemented }
func (UnimplementedCamera) SetGain(context.Context, int32) error   { return ErrNotImplemented }
func (UnimplementedCamera) GainMax(context.Context) (int32, error) { return 0, ErrNotImplemented }
func (UnimplementedCamera) GainMin(context.Context) (int32, error) { return 0, ErrNotImplemented }
func (UnimplementedCamera) Gains(context.Context) ([]string, error) {
	return nil, ErrNotImplemented
}
func (UnimplementedCamera) HasShutter(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedCamera) HeatSinkTemperature(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedCamera) ImageArray(context.Context) (*ImageArray, error) {
	return nil, ErrNotImplemented
}
func (UnimplementedCamera) ImageReady(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedCamera) IsPulseGuiding(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedCamera) LastExposureDuration(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedCamera) LastExposureStartTime(context.Context) (string, error) {
	return "", ErrNotImplemented
}
func (UnimplementedCamera) MaxADU(context.Context) (int32, error)    { return 0, ErrNotImplemented }
func (UnimplementedCamera) MaxBinX(context.Context) (int32, error)   { return 0, ErrNotImplemented }
func (UnimplementedCamera) MaxBinY(context.Context) (int32, error)   { return 0, ErrNotImplemented }
func (UnimplementedCamera) NumX(context.Context) (int32, error)      { return 0, ErrNotImplemented }
func (UnimplementedCamera) SetNumX(context.Context, int32) error     { return ErrNotImplemented }
func (UnimplementedCamera) NumY(context.Context) (int32, error)      { return 0, ErrNotImplemented }
func (UnimplementedCamera) SetNumY(context.Context, int32) error     { return ErrNotImplemented }
func (UnimplementedCamera) Offset(context.Context) (int32, error)    { return 0, ErrNotImplemented }
func (UnimplementedCamera) SetOffset(context.Context, int32) error   { return ErrNotImplemented }
func (UnimplementedCamera) OffsetMax(context.Context) (int32, error) { return 0, ErrNotImplemented }
func (UnimplementedCamera) OffsetMin(context.Context) (int32, error) { return 0, ErrNotImplemented }
func (UnimplementedCamera) Offsets(context.Context) ([]string, error) {
	return nil, ErrNotImplemented
}
func (UnimplementedCamera) PercentCompleted(context.Context) (int32, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedCamera) PixelSizeX(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedCamera) PixelSizeY(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedCamera) ReadoutMode(context.Context) (int32, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedCamera) SetReadoutMode(context.Context, int32) error { return ErrNotImplemented }
func (UnimplementedCamera) ReadoutModes(context.Context) ([]string, error) {
	return nil, ErrNotImplemented
}
func (UnimplementedCamera) SensorName(context.Context) (string, error) {
	return "", ErrNotImplemented
}
func (UnimplementedCamera) SensorType(context.Context) (SensorType, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedCamera) SetCCDTemperature(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedCamera) SetSetCCDTemperature(context.Context, float64) error {
	return ErrNotImplemented
}
func (UnimplementedCamera) StartX(context.Context) (int32, error)  { return 0, ErrNotImplemented }
func (UnimplementedCamera) SetStartX(context.Context, int32) error { return ErrNotImplemented }
func (UnimplementedCamera) StartY(context.Context) (int32, error)  { return 0, ErrNotImplemented }
func (UnimplementedCamera) SetStartY(context.Context, int32) error { return ErrNotImplemented }
func (UnimplementedCamera) SubExposureDuration(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedCamera) SetSubExposureDuration(context.Context, float64) error {
	return ErrNotImplemented
}
func (UnimplementedCamera) AbortExposure(context.Context) error { return ErrNotImplemented }
func (UnimplementedCamera) PulseGuide(context.Context, GuideDirection, int32) error {
	return ErrNotImplemented
}
func (UnimplementedCamera) StartExposure(context.Context, float64, bool) error {
	return ErrNotImplemented
}
func (UnimplementedCamera) StopExposure(context.Context) error { return ErrNotImplemented }

var cameraTable = newCameraTable()

func newCameraTable() *ActionTable {
	t := NewActionTable()
	t.Get("bayeroffsetx", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.BayerOffsetX(ctx) }))
	t.Get("bayeroffsety", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.BayerOffsetY(ctx) }))
	t.Get("binx", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.BinX(ctx) }))
	t.Put("binx", typed(func(ctx context.Context, c Camera, p *Params) (any, error) {
		v, err := p.ExtractInt32("BinX")
		if err != nil {
			return nil, err
		}
		return nil, c.SetBinX(ctx, v)
	}))
	t.Get("biny", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.BinY(ctx) }))
	t.Put("biny", typed(func(ctx context.Context, c Camera, p *Params) (any, error) {
		v, err := p.ExtractInt32("BinY")
		if err != nil {
			return nil, err
		}
		return nil, c.SetBinY(ctx, v)
	}))
	t.GetState("camerastate", "CameraState", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.CameraState(ctx) }))
	t.Get("cameraxsize", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.CameraXSize(ctx) }))
	t.Get("cameraysize", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.CameraYSize(ctx) }))
	t.Get("canabortexposure", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.CanAbortExposure(ctx) }))
	t.Get("canasymmetricbin", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.CanAsymmetricBin(ctx) }))
	t.Get("canfastreadout", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.CanFastReadout(ctx) }))
	t.Get("cangetcoolerpower", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.CanGetCoolerPower(ctx) }))
	t.Get("canpulseguide", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.CanPulseGuide(ctx) }))
	t.Get("cansetccdtemperature", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.CanSetCCDTemperature(ctx) }))
	t.Get("canstopexposure", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.CanStopExposure(ctx) }))
	t.GetState("ccdtemperature", "CCDTemperature", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.CCDTemperature(ctx) }))
	t.Get("cooleron", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.CoolerOn(ctx) }))
	t.Put("cooleron", typed(func(ctx context.Context, c Camera, p *Params) (any, error) {
		on, err := p.ExtractBool("CoolerOn")
		if err != nil {
			return nil, err
		}
		return nil, c.SetCoolerOn(ctx, on)
	}))
	t.GetState("coolerpower", "CoolerPower", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.CoolerPower(ctx) }))
	t.Get("electronsperadu", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.ElectronsPerADU(ctx) }))
	t.Get("exposuremax", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.ExposureMax(ctx) }))
	t.Get("exposuremin", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.ExposureMin(ctx) }))
	t.Get("exposureresolution", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.ExposureResolution(ctx) }))
	t.Get("fastreadout", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.FastReadout(ctx) }))
	t.Put("fastreadout", typed(func(ctx context.Context, c Camera, p *Params) (any, error) {
		fast, err := p.ExtractBool("FastReadout")
		if err != nil {
			return nil, err
		}
		return nil, c.SetFastReadout(ctx, fast)
	}))
	t.Get("fullwellcapacity", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.FullWellCapacity(ctx) }))
	t.Get("gain", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.Gain(ctx) }))
	t.Put("gain", typed(func(ctx context.Context, c Camera, p *Params) (any, error) {
		v, err := p.ExtractInt32("Gain")
		if err != nil {
			return nil, err
		}
		return nil, c.SetGain(ctx, v)
	}))
	t.Get("gainmax", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.GainMax(ctx) }))
	t.Get("gainmin", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.GainMin(ctx) }))
	t.Get("gains", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.Gains(ctx) }))
	t.Get("hasshutter", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.HasShutter(ctx) }))
	t.GetState("heatsinktemperature", "HeatSinkTemperature", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.HeatSinkTemperature(ctx) }))
	t.Get("imagearray", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.ImageArray(ctx) }))
	t.Get("imagearrayvariant", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.ImageArray(ctx) }))
	t.GetState("imageready", "ImageReady", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.ImageReady(ctx) }))
	t.GetState("ispulseguiding", "IsPulseGuiding", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.IsPulseGuiding(ctx) }))
	t.Get("lastexposureduration", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.LastExposureDuration(ctx) }))
	t.Get("lastexposurestarttime", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.LastExposureStartTime(ctx) }))
	t.Get("maxadu", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.MaxADU(ctx) }))
	t.Get("maxbinx", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.MaxBinX(ctx) }))
	t.Get("maxbiny", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.MaxBinY(ctx) }))
	t.Get("numx", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.NumX(ctx) }))
	t.Put("numx", typed(func(ctx context.Context, c Camera, p *Params) (any, error) {
		v, err := p.ExtractInt32("NumX")
		if err != nil {
			return nil, err
		}
		return nil, c.SetNumX(ctx, v)
	}))
	t.Get("numy", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.NumY(ctx) }))
	t.Put("numy", typed(func(ctx context.Context, c Camera, p *Params) (any, error) {
		v, err := p.ExtractInt32("NumY")
		if err != nil {
			return nil, err
		}
		return nil, c.SetNumY(ctx, v)
	}))
	t.Get("offset", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.Offset(ctx) }))
	t.Put("offset", typed(func(ctx context.Context, c Camera, p *Params) (any, error) {
		v, err := p.ExtractInt32("Offset")
		if err != nil {
			return nil, err
		}
		return nil, c.SetOffset(ctx, v)
	}))
	t.Get("offsetmax", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.OffsetMax(ctx) }))
	t.Get("offsetmin", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.OffsetMin(ctx) }))
	t.Get("offsets", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.Offsets(ctx) }))
	t.GetState("percentcompleted", "PercentCompleted", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.PercentCompleted(ctx) }))
	t.Get("pixelsizex", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.PixelSizeX(ctx) }))
	t.Get("pixelsizey", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.PixelSizeY(ctx) }))
	t.Get("readoutmode", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.ReadoutMode(ctx) }))
	t.Put("readoutmode", typed(func(ctx context.Context, c Camera, p *Params) (any, error) {
		v, err := p.ExtractInt32("ReadoutMode")
		if err != nil {
			return nil, err
		}
		return nil, c.SetReadoutMode(ctx, v)
	}))
	t.Get("readoutmodes", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.ReadoutModes(ctx) }))
	t.Get("sensorname", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.SensorName(ctx) }))
	t.Get("sensortype", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.SensorType(ctx) }))
	t.Get("setccdtemperature", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.SetCCDTemperature(ctx) }))
	t.Put("setccdtemperature", typed(func(ctx context.Context, c Camera, p *Params) (any, error) {
		v, err := p.ExtractFloat64("SetCCDTemperature")
		if err != nil {
			return nil, err
		}
		return nil, c.SetSetCCDTemperature(ctx, v)
	}))
	t.Get("startx", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.StartX(ctx) }))
	t.Put("startx", typed(func(ctx context.Context, c Camera, p *Params) (any, error) {
		v, err := p.ExtractInt32("StartX")
		if err != nil {
			return nil, err
		}
		return nil, c.SetStartX(ctx, v)
	}))
	t.Get("starty", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.StartY(ctx) }))
	t.Put("starty", typed(func(ctx context.Context, c Camera, p *Params) (any, error) {
		v, err := p.ExtractInt32("StartY")
		if err != nil {
			return nil, err
		}
		return nil, c.SetStartY(ctx, v)
	}))
	t.Get("subexposureduration", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return c.SubExposureDuration(ctx) }))
	t.Put("subexposureduration", typed(func(ctx context.Context, c Camera, p *Params) (any, error) {
		v, err := p.ExtractFloat64("SubExposureDuration")
		if err != nil {
			return nil, err
		}
		return nil, c.SetSubExposureDuration(ctx, v)
	}))
	t.Put("abortexposure", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return nil, c.AbortExposure(ctx) }))
	t.Put("pulseguide", typed(func(ctx context.Context, c Camera, p *Params) (any, error) {
		direction, err := p.ExtractInt32("Direction")
		if err != nil {
			return nil, err
		}
		duration, err := p.ExtractInt32("Duration")
		if err != nil {
			return nil, err
		}
		return nil, c.PulseGuide(ctx, GuideDirection(direction), duration)
	}))
	t.Put("startexposure", typed(func(ctx context.Context, c Camera, p *Params) (any, error) {
		duration, err := p.ExtractFloat64("Duration")
		if err != nil {
			return nil, err
		}
		light, err := p.ExtractBool("Light")
		if err != nil {
			return nil, err
		}
		return nil, c.StartExposure(ctx, duration, light)
	}))
	t.Put("stopexposure", typed(func(ctx context.Context, c Camera, _ *Params) (any, error) { return nil, c.StopExposure(ctx) }))
	return t
}
