package alpaca

import "context"

// ObservingConditions is the contract for weather and sky sensor
// devices. All measurements are averaged over AveragePeriod hours; a
// period of zero selects the most recent instantaneous reading.
//
// SensorDescription and TimeSinceLastUpdate address a single sensor by
// the property name of its getter ("CloudCover", "WindSpeed", and so
// on).
type ObservingConditions interface {
	Device

	AveragePeriod(ctx context.Context) (float64, error)
	SetAveragePeriod(ctx context.Context, period float64) error
	CloudCover(ctx context.Context) (float64, error)
	DewPoint(ctx context.Context) (float64, error)
	Humidity(ctx context.Context) (float64, error)
	Pressure(ctx context.Context) (float64, error)
	RainRate(ctx context.Context) (float64, error)
	SkyBrightness(ctx context.Context) (float64, error)
	SkyQuality(ctx context.Context) (float64, error)
	SkyTemperature(ctx context.Context) (float64, error)
	StarFWHM(ctx context.Context) (float64, error)
	Temperature(ctx context.Context) (float64, error)
	WindDirection(ctx context.Context) (float64, error)
	WindGust(ctx context.Context) (float64, error)
	WindSpeed(ctx context.Context) (float64, error)
	SensorDescription(ctx context.Context, sensorName string) (string, error)
	TimeSinceLastUpdate(ctx context.Context, sensorName string) (float64, error)
	Refresh(ctx context.Context) error
}

// UnimplementedObservingConditions returns NotImplemented for every
// ObservingConditions member.
type UnimplementedObservingConditions struct{ UnimplementedDevice }

func (UnimplementedObservingConditions) AveragePeriod(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedObservingConditions) SetAveragePeriod(context.Context, float64) error {
	return ErrNotImplemented
}
func (UnimplementedObservingConditions) CloudCover(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedObservingConditions) DewPoint(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedObservingConditions) Humidity(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedObservingConditions) Pressure(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedObservingConditions) RainRate(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedObservingConditions) SkyBrightness(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedObservingConditions) SkyQuality(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedObservingConditions) SkyTemperature(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedObservingConditions) StarFWHM(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedObservingConditions) Temperature(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedObservingConditions) WindDirection(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedObservingConditions) WindGust(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedObservingConditions) WindSpeed(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedObservingConditions) SensorDescription(context.Context, string) (string, error) {
	return "", ErrNotImplemented
}
func (UnimplementedObservingConditions) TimeSinceLastUpdate(context.Context, string) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedObservingConditions) Refresh(context.Context) error { return ErrNotImplemented }

var observingConditionsTable = newObservingConditionsTable()

func newObservingConditionsTable() *ActionTable {
	t := NewActionTable()
	t.Get("averageperiod", typed(func(ctx context.Context, d ObservingConditions, _ *Params) (any, error) {
		return d.AveragePeriod(ctx)
	}))
	t.Put("averageperiod", typed(func(ctx context.Context, d ObservingConditions, p *Params) (any, error) {
		period, err := p.ExtractFloat64("AveragePeriod")
		if err != nil {
			return nil, err
		}
		return nil, d.SetAveragePeriod(ctx, period)
	}))
	t.GetState("cloudcover", "CloudCover", obsSensor(ObservingConditions.CloudCover))
	t.GetState("dewpoint", "DewPoint", obsSensor(ObservingConditions.DewPoint))
	t.GetState("humidity", "Humidity", obsSensor(ObservingConditions.Humidity))
	t.GetState("pressure", "Pressure", obsSensor(ObservingConditions.Pressure))
	t.GetState("rainrate", "RainRate", obsSensor(ObservingConditions.RainRate))
	t.GetState("skybrightness", "SkyBrightness", obsSensor(ObservingConditions.SkyBrightness))
	t.GetState("skyquality", "SkyQuality", obsSensor(ObservingConditions.SkyQuality))
	t.GetState("skytemperature", "SkyTemperature", obsSensor(ObservingConditions.SkyTemperature))
	t.Get("starfwhm", obsSensor(ObservingConditions.StarFWHM))
	t.GetState("temperature", "Temperature", obsSensor(ObservingConditions.Temperature))
	t.GetState("winddirection", "WindDirection", obsSensor(ObservingConditions.WindDirection))
	t.GetState("windgust", "WindGust", obsSensor(ObservingConditions.WindGust))
	t.GetState("windspeed", "WindSpeed", obsSensor(ObservingConditions.WindSpeed))
	t.Get("sensordescription", typed(func(ctx context.Context, d ObservingConditions, p *Params) (any, error) {
		name, err := p.ExtractString("SensorName")
		if err != nil {
			return nil, err
		}
		return d.SensorDescription(ctx, name)
	}))
	t.Get("timesincelastupdate", typed(func(ctx context.Context, d ObservingConditions, p *Params) (any, error) {
		name, err := p.ExtractString("SensorName")
		if err != nil {
			return nil, err
		}
		return d.TimeSinceLastUpdate(ctx, name)
	}))
	t.Put("refresh", typed(func(ctx context.Context, d ObservingConditions, _ *Params) (any, error) {
		return nil, d.Refresh(ctx)
	}))
	return t
}

func obsSensor(fn func(ObservingConditions, context.Context) (float64, error)) ActionFunc {
	return typed(func(ctx context.Context, d ObservingConditions, _ *Params) (any, error) {
		return fn(d, ctx)
	})
}
