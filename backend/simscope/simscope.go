// Package simscope provides a simulated equatorial mount. Slews move the
// reported position along a clock-interpolated path between start and
// target, so state reads are pure and need no background goroutine. Park,
// homing, pulse guiding, syncing and a tracking flag round out the surface
// that devicestate aggregates.
package simscope

import (
	"context"
	"math"
	"time"

	"alpaca-hub/alpaca"
	"alpaca-hub/backend"
)

const (
	driverInfo       = "alpaca-hub simulated mount"
	driverVersion    = "1.0"
	interfaceVersion = 4

	// Sidereal guide rate, degrees per second of pulse.
	guideRate = 15.0 / 3600
)

// Config describes one simulated mount. Zero fields get defaults.
type Config struct {
	backend.Info

	SiteLatitude  float64 `toml:"site_latitude"`
	SiteLongitude float64 `toml:"site_longitude"`
	SiteElevation float64 `toml:"site_elevation"`

	// SlewRate is the slew speed in degrees per second.
	SlewRate float64 `toml:"slew_rate"`
}

// slew is one in-flight movement. Position reads interpolate along it and
// report the target once the clock passes end; mutating operations settle
// it back into the plain coordinates first.
type slew struct {
	fromRA, fromDec float64
	toRA, toDec     float64
	start, end      time.Time
}

// Telescope is a simulated mount device.
type Telescope struct {
	alpaca.UnimplementedTelescope
	backend.Base

	cfg Config

	ra, dec  float64
	parked   bool
	atHome   bool
	tracking bool

	slew     *slew
	guideEnd time.Time

	siteLat, siteLon, siteElev float64

	// utcOffset shifts the reported UTC date from the wall clock.
	utcOffset time.Duration
}

// New builds a simulated mount from cfg.
func New(cfg Config) *Telescope {
	if cfg.Name == "" {
		cfg.Name = "Simulated Telescope"
	}
	if cfg.SlewRate <= 0 {
		cfg.SlewRate = 30
	}
	return &Telescope{
		Base:     backend.NewBase(cfg.Info, driverInfo, driverVersion, interfaceVersion),
		cfg:      cfg,
		siteLat:  cfg.SiteLatitude,
		siteLon:  cfg.SiteLongitude,
		siteElev: cfg.SiteElevation,
	}
}

// position reports the current coordinates without mutating anything.
func (t *Telescope) position() (ra, dec float64) {
	s := t.slew
	if s == nil {
		return t.ra, t.dec
	}
	now := time.Now()
	if !now.Before(s.end) {
		return s.toRA, s.toDec
	}
	frac := float64(now.Sub(s.start)) / float64(s.end.Sub(s.start))
	return s.fromRA + (s.toRA-s.fromRA)*frac, s.fromDec + (s.toDec-s.fromDec)*frac
}

// settle folds a finished or in-flight slew into the stored coordinates.
// Every mutating operation calls it before changing state.
func (t *Telescope) settle() {
	t.ra, t.dec = t.position()
	t.slew = nil
}

func (t *Telescope) slewing() bool {
	return t.slew != nil && time.Now().Before(t.slew.end)
}

// Capabilities. CanSlew refers to the blocking slew call, which this mount
// does not offer; movement goes through the async variant.

func (t *Telescope) CanFindHome(context.Context) (bool, error)    { return true, nil }
func (t *Telescope) CanPark(context.Context) (bool, error)        { return true, nil }
func (t *Telescope) CanPulseGuide(context.Context) (bool, error)  { return true, nil }
func (t *Telescope) CanSetTracking(context.Context) (bool, error) { return true, nil }
func (t *Telescope) CanSlew(context.Context) (bool, error)        { return false, nil }
func (t *Telescope) CanSlewAsync(context.Context) (bool, error)   { return true, nil }
func (t *Telescope) CanSync(context.Context) (bool, error)        { return true, nil }

// Position and state.

func (t *Telescope) RightAscension(context.Context) (float64, error) {
	if err := t.NeedsConnection(); err != nil {
		return 0, err
	}
	ra, _ := t.position()
	return ra, nil
}

func (t *Telescope) Declination(context.Context) (float64, error) {
	if err := t.NeedsConnection(); err != nil {
		return 0, err
	}
	_, dec := t.position()
	return dec, nil
}

// Azimuth maps right ascension onto the horizon circle; Altitude falls off
// with the pointing's distance from the site latitude. Crude, but smooth
// and deterministic, which is all a simulator needs.

func (t *Telescope) Azimuth(context.Context) (float64, error) {
	if err := t.NeedsConnection(); err != nil {
		return 0, err
	}
	ra, _ := t.position()
	return math.Mod(ra*15, 360), nil
}

func (t *Telescope) Altitude(context.Context) (float64, error) {
	if err := t.NeedsConnection(); err != nil {
		return 0, err
	}
	_, dec := t.position()
	alt := 90 - math.Abs(dec-t.siteLat)
	return math.Max(0, alt), nil
}

func (t *Telescope) SideOfPier(context.Context) (alpaca.PierSide, error) {
	if err := t.NeedsConnection(); err != nil {
		return alpaca.PierUnknown, err
	}
	ra, _ := t.position()
	if ra < 12 {
		return alpaca.PierEast, nil
	}
	return alpaca.PierWest, nil
}

func (t *Telescope) Slewing(context.Context) (bool, error) {
	if err := t.NeedsConnection(); err != nil {
		return false, err
	}
	return t.slewing(), nil
}

func (t *Telescope) AtHome(context.Context) (bool, error) {
	if err := t.NeedsConnection(); err != nil {
		return false, err
	}
	return t.atHome, nil
}

func (t *Telescope) AtPark(context.Context) (bool, error) {
	if err := t.NeedsConnection(); err != nil {
		return false, err
	}
	return t.parked, nil
}

func (t *Telescope) Tracking(context.Context) (bool, error) {
	if err := t.NeedsConnection(); err != nil {
		return false, err
	}
	return t.tracking, nil
}

func (t *Telescope) SetTracking(_ context.Context, tracking bool) error {
	if err := t.NeedsConnection(); err != nil {
		return err
	}
	if t.parked {
		return alpaca.NewError(alpaca.CodeInvalidWhileParked, "cannot change tracking while parked")
	}
	t.tracking = tracking
	return nil
}

func (t *Telescope) IsPulseGuiding(context.Context) (bool, error) {
	if err := t.NeedsConnection(); err != nil {
		return false, err
	}
	return time.Now().Before(t.guideEnd), nil
}

// Site properties.

func (t *Telescope) SiteElevation(context.Context) (float64, error) { return t.siteElev, nil }

func (t *Telescope) SetSiteElevation(_ context.Context, metres float64) error {
	if metres < -300 || metres > 10000 {
		return alpaca.NewErrorf(alpaca.CodeInvalidValue, "SiteElevation %g outside -300..10000", metres)
	}
	t.siteElev = metres
	return nil
}

func (t *Telescope) SiteLatitude(context.Context) (float64, error) { return t.siteLat, nil }

func (t *Telescope) SetSiteLatitude(_ context.Context, degrees float64) error {
	if degrees < -90 || degrees > 90 {
		return alpaca.NewErrorf(alpaca.CodeInvalidValue, "SiteLatitude %g outside -90..90", degrees)
	}
	t.siteLat = degrees
	return nil
}

func (t *Telescope) SiteLongitude(context.Context) (float64, error) { return t.siteLon, nil }

func (t *Telescope) SetSiteLongitude(_ context.Context, degrees float64) error {
	if degrees < -180 || degrees > 180 {
		return alpaca.NewErrorf(alpaca.CodeInvalidValue, "SiteLongitude %g outside -180..180", degrees)
	}
	t.siteLon = degrees
	return nil
}

func (t *Telescope) UTCDate(context.Context) (time.Time, error) {
	return time.Now().Add(t.utcOffset).UTC(), nil
}

func (t *Telescope) SetUTCDate(_ context.Context, utc time.Time) error {
	t.utcOffset = time.Until(utc)
	return nil
}

// Movement.

func (t *Telescope) SlewToCoordinatesAsync(_ context.Context, rightAscension, declination float64) error {
	if err := t.movePrecondition(rightAscension, declination); err != nil {
		return err
	}
	t.settle()
	t.atHome = false
	now := time.Now()
	distance := math.Max(math.Abs(rightAscension-t.ra)*15, math.Abs(declination-t.dec))
	t.slew = &slew{
		fromRA: t.ra, fromDec: t.dec,
		toRA: rightAscension, toDec: declination,
		start: now,
		end:   now.Add(time.Duration(distance / t.cfg.SlewRate * float64(time.Second))),
	}
	return nil
}

func (t *Telescope) SyncToCoordinates(_ context.Context, rightAscension, declination float64) error {
	if err := t.movePrecondition(rightAscension, declination); err != nil {
		return err
	}
	t.settle()
	t.atHome = false
	t.ra, t.dec = rightAscension, declination
	return nil
}

func (t *Telescope) movePrecondition(ra, dec float64) error {
	if err := t.NeedsConnection(); err != nil {
		return err
	}
	if t.parked {
		return alpaca.NewError(alpaca.CodeInvalidWhileParked, "mount is parked")
	}
	if ra < 0 || ra >= 24 {
		return alpaca.NewErrorf(alpaca.CodeInvalidValue, "RightAscension %g outside 0..24", ra)
	}
	if dec < -90 || dec > 90 {
		return alpaca.NewErrorf(alpaca.CodeInvalidValue, "Declination %g outside -90..90", dec)
	}
	return nil
}

func (t *Telescope) AbortSlew(context.Context) error {
	if err := t.NeedsConnection(); err != nil {
		return err
	}
	if t.parked {
		return alpaca.NewError(alpaca.CodeInvalidWhileParked, "mount is parked")
	}
	// Freeze wherever the interpolation got to.
	t.settle()
	return nil
}

func (t *Telescope) Park(context.Context) error {
	if err := t.NeedsConnection(); err != nil {
		return err
	}
	t.settle()
	t.parked = true
	t.atHome = false
	t.tracking = false
	t.ra, t.dec = 0, 90
	return nil
}

func (t *Telescope) Unpark(context.Context) error {
	if err := t.NeedsConnection(); err != nil {
		return err
	}
	t.parked = false
	return nil
}

func (t *Telescope) FindHome(context.Context) error {
	if err := t.NeedsConnection(); err != nil {
		return err
	}
	if t.parked {
		return alpaca.NewError(alpaca.CodeInvalidWhileParked, "mount is parked")
	}
	t.settle()
	t.ra, t.dec = 0, t.siteLat
	t.atHome = true
	return nil
}

func (t *Telescope) PulseGuide(_ context.Context, direction alpaca.GuideDirection, durationMs int32) error {
	if err := t.NeedsConnection(); err != nil {
		return err
	}
	if t.parked {
		return alpaca.NewError(alpaca.CodeInvalidWhileParked, "mount is parked")
	}
	if t.slewing() {
		return alpaca.NewError(alpaca.CodeInvalidOperation, "cannot pulse guide while slewing")
	}
	if durationMs < 0 {
		return alpaca.NewErrorf(alpaca.CodeInvalidValue, "Duration %d must not be negative", durationMs)
	}
	if direction < alpaca.GuideNorth || direction > alpaca.GuideWest {
		return alpaca.NewErrorf(alpaca.CodeInvalidValue, "Direction %d unknown", direction)
	}
	t.settle()
	t.atHome = false
	delta := guideRate * float64(durationMs) / 1000
	switch direction {
	case alpaca.GuideNorth:
		t.dec = math.Min(90, t.dec+delta)
	case alpaca.GuideSouth:
		t.dec = math.Max(-90, t.dec-delta)
	case alpaca.GuideEast:
		t.ra = math.Mod(t.ra+delta/15+24, 24)
	case alpaca.GuideWest:
		t.ra = math.Mod(t.ra-delta/15+24, 24)
	}
	t.guideEnd = time.Now().Add(time.Duration(durationMs) * time.Millisecond)
	return nil
}
