package alpaca

import (
	"context"
	"time"
)

// PierSide reports which side of the pier a German equatorial mount is on.
type PierSide int32

const (
	PierUnknown PierSide = -1
	PierEast    PierSide = 0
	PierWest    PierSide = 1
)

// utcDateLayout is the fixed seven-digit fraction form ASCOM uses for the
// utcdate property.
const utcDateLayout = "2006-01-02T15:04:05.0000000Z"

// Telescope is the contract for mount devices. Coordinates are hours of
// right ascension and degrees of declination; site positions are degrees
// and metres.
type Telescope interface {
	Device

	Altitude(ctx context.Context) (float64, error)
	AtHome(ctx context.Context) (bool, error)
	AtPark(ctx context.Context) (bool, error)
	Azimuth(ctx context.Context) (float64, error)
	CanFindHome(ctx context.Context) (bool, error)
	CanPark(ctx context.Context) (bool, error)
	CanPulseGuide(ctx context.Context) (bool, error)
	CanSetTracking(ctx context.Context) (bool, error)
	CanSlew(ctx context.Context) (bool, error)
	CanSlewAsync(ctx context.Context) (bool, error)
	CanSync(ctx context.Context) (bool, error)
	Declination(ctx context.Context) (float64, error)
	IsPulseGuiding(ctx context.Context) (bool, error)
	RightAscension(ctx context.Context) (float64, error)
	SideOfPier(ctx context.Context) (PierSide, error)
	SiteElevation(ctx context.Context) (float64, error)
	SetSiteElevation(ctx context.Context, metres float64) error
	SiteLatitude(ctx context.Context) (float64, error)
	SetSiteLatitude(ctx context.Context, degrees float64) error
	SiteLongitude(ctx context.Context) (float64, error)
	SetSiteLongitude(ctx context.Context, degrees float64) error
	Slewing(ctx context.Context) (bool, error)
	Tracking(ctx context.Context) (bool, error)
	SetTracking(ctx context.Context, tracking bool) error
	UTCDate(ctx context.Context) (time.Time, error)
	SetUTCDate(ctx context.Context, t time.Time) error

	AbortSlew(ctx context.Context) error
	FindHome(ctx context.Context) error
	Park(ctx context.Context) error
	PulseGuide(ctx context.Context, direction GuideDirection, durationMs int32) error
	SlewToCoordinatesAsync(ctx context.Context, rightAscension, declination float64) error
	SyncToCoordinates(ctx context.Context, rightAscension, declination float64) error
	Unpark(ctx context.Context) error
}

// UnimplementedTelescope returns NotImplemented for every Telescope member.
type UnimplementedTelescope struct{ UnimplementedDevice }

func (UnimplementedTelescope) Altitude(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedTelescope) AtHome(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedTelescope) AtPark(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedTelescope) Azimuth(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedTelescope) CanFindHome(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedTelescope) CanPark(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedTelescope) CanPulseGuide(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedTelescope) CanSetTracking(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedTelescope) CanSlew(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedTelescope) CanSlewAsync(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedTelescope) CanSync(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedTelescope) Declination(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedTelescope) IsPulseGuiding(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedTelescope) RightAscension(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedTelescope) SideOfPier(context.Context) (PierSide, error) {
	return PierUnknown, ErrNotImplemented
}
func (UnimplementedTelescope) SiteElevation(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedTelescope) SetSiteElevation(context.Context, float64) error {
	return ErrNotImplemented
}
func (UnimplementedTelescope) SiteLatitude(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedTelescope) SetSiteLatitude(context.Context, float64) error {
	return ErrNotImplemented
}
func (UnimplementedTelescope) SiteLongitude(context.Context) (float64, error) {
	return 0, ErrNotImplemented
}
func (UnimplementedTelescope) SetSiteLongitude(context.Context, float64) error {
	return ErrNotImplemented
}
func (UnimplementedTelescope) Slewing(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedTelescope) Tracking(context.Context) (bool, error) {
	return false, ErrNotImplemented
}
func (UnimplementedTelescope) SetTracking(context.Context, bool) error { return ErrNotImplemented }
func (UnimplementedTelescope) UTCDate(context.Context) (time.Time, error) {
	return time.Time{}, ErrNotImplemented
}
func (UnimplementedTelescope) SetUTCDate(context.Context, time.Time) error {
	return ErrNotImplemented
}
func (UnimplementedTelescope) AbortSlew(context.Context) error { return ErrNotImplemented }
func (UnimplementedTelescope) FindHome(context.Context) error  { return ErrNotImplemented }
func (UnimplementedTelescope) Park(context.Context) error      { return ErrNotImplemented }
func (UnimplementedTelescope) PulseGuide(context.Context, GuideDirection, int32) error {
	return ErrNotImplemented
}
func (UnimplementedTelescope) SlewToCoordinatesAsync(context.Context, float64, float64) error {
	return ErrNotImplemented
}
func (UnimplementedTelescope) SyncToCoordinates(context.Context, float64, float64) error {
	return ErrNotImplemented
}
func (UnimplementedTelescope) Unpark(context.Context) error { return ErrNotImplemented }

var telescopeTable = newTelescopeTable()

func newTelescopeTable() *ActionTable {
	t := NewActionTable()
	t.GetState("altitude", "Altitude", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return d.Altitude(ctx) }))
	t.GetState("athome", "AtHome", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return d.AtHome(ctx) }))
	t.GetState("atpark", "AtPark", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return d.AtPark(ctx) }))
	t.GetState("azimuth", "Azimuth", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return d.Azimuth(ctx) }))
	t.Get("canfindhome", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return d.CanFindHome(ctx) }))
	t.Get("canpark", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return d.CanPark(ctx) }))
	t.Get("canpulseguide", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return d.CanPulseGuide(ctx) }))
	t.Get("cansettracking", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return d.CanSetTracking(ctx) }))
	t.Get("canslew", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return d.CanSlew(ctx) }))
	t.Get("canslewasync", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return d.CanSlewAsync(ctx) }))
	t.Get("cansync", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return d.CanSync(ctx) }))
	t.GetState("declination", "Declination", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return d.Declination(ctx) }))
	t.GetState("ispulseguiding", "IsPulseGuiding", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return d.IsPulseGuiding(ctx) }))
	t.GetState("rightascension", "RightAscension", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return d.RightAscension(ctx) }))
	t.GetState("sideofpier", "SideOfPier", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return d.SideOfPier(ctx) }))
	t.Get("siteelevation", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return d.SiteElevation(ctx) }))
	t.Put("siteelevation", typed(func(ctx context.Context, d Telescope, p *Params) (any, error) {
		v, err := p.ExtractFloat64("SiteElevation")
		if err != nil {
			return nil, err
		}
		return nil, d.SetSiteElevation(ctx, v)
	}))
	t.Get("sitelatitude", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return d.SiteLatitude(ctx) }))
	t.Put("sitelatitude", typed(func(ctx context.Context, d Telescope, p *Params) (any, error) {
		v, err := p.ExtractFloat64("SiteLatitude")
		if err != nil {
			return nil, err
		}
		return nil, d.SetSiteLatitude(ctx, v)
	}))
	t.Get("sitelongitude", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return d.SiteLongitude(ctx) }))
	t.Put("sitelongitude", typed(func(ctx context.Context, d Telescope, p *Params) (any, error) {
		v, err := p.ExtractFloat64("SiteLongitude")
		if err != nil {
			return nil, err
		}
		return nil, d.SetSiteLongitude(ctx, v)
	}))
	t.GetState("slewing", "Slewing", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return d.Slewing(ctx) }))
	t.GetState("tracking", "Tracking", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return d.Tracking(ctx) }))
	t.Put("tracking", typed(func(ctx context.Context, d Telescope, p *Params) (any, error) {
		tracking, err := p.ExtractBool("Tracking")
		if err != nil {
			return nil, err
		}
		return nil, d.SetTracking(ctx, tracking)
	}))
	t.Get("utcdate", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) {
		utc, err := d.UTCDate(ctx)
		if err != nil {
			return nil, err
		}
		return utc.UTC().Format(utcDateLayout), nil
	}))
	t.Put("utcdate", typed(func(ctx context.Context, d Telescope, p *Params) (any, error) {
		raw, err := p.ExtractString("UTCDate")
		if err != nil {
			return nil, err
		}
		utc, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, &BadParamError{Name: "UTCDate", Value: raw, Err: err}
		}
		return nil, d.SetUTCDate(ctx, utc)
	}))
	t.Put("abortslew", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return nil, d.AbortSlew(ctx) }))
	t.Put("findhome", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return nil, d.FindHome(ctx) }))
	t.Put("park", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return nil, d.Park(ctx) }))
	t.Put("pulseguide", typed(func(ctx context.Context, d Telescope, p *Params) (any, error) {
		direction, err := p.ExtractInt32("Direction")
		if err != nil {
			return nil, err
		}
		duration, err := p.ExtractInt32("Duration")
		if err != nil {
			return nil, err
		}
		return nil, d.PulseGuide(ctx, GuideDirection(direction), duration)
	}))
	t.Put("slewtocoordinatesasync", typed(func(ctx context.Context, d Telescope, p *Params) (any, error) {
		ra, dec, err := coordinateParams(p)
		if err != nil {
			return nil, err
		}
		return nil, d.SlewToCoordinatesAsync(ctx, ra, dec)
	}))
	t.Put("synctocoordinates", typed(func(ctx context.Context, d Telescope, p *Params) (any, error) {
		ra, dec, err := coordinateParams(p)
		if err != nil {
			return nil, err
		}
		return nil, d.SyncToCoordinates(ctx, ra, dec)
	}))
	t.Put("unpark", typed(func(ctx context.Context, d Telescope, _ *Params) (any, error) { return nil, d.Unpark(ctx) }))
	return t
}

func coordinateParams(p *Params) (ra, dec float64, err error) {
	ra, err = p.ExtractFloat64("RightAscension")
	if err != nil {
		return 0, 0, err
	}
	dec, err = p.ExtractFloat64("Declination")
	if err != nil {
		return 0, 0, err
	}
	return ra, dec, nil
}
