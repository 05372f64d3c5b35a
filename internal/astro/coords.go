// Package astro provides celestial coordinate types, the time base and the
// conversions that carry a position from the ecliptic down to the plane of a
// stereographic projection.
package astro

import (
	"fmt"
	"math"

	"github.com/litescript/ls-sky/internal/skymath"
)

var (
	lonInterval = skymath.MustRightOpen(0, skymath.Tau)
	latInterval = skymath.MustClosedSymmetric(math.Pi)

	azDegInterval     = skymath.MustRightOpen(0, 360)
	altDegInterval    = skymath.MustClosedSymmetric(180)
	geoLonDegInterval = skymath.MustRightOpenSymmetric(360)
	geoLatDegInterval = skymath.MustClosedSymmetric(180)
)

// spherical is the (lon, lat) radian pair shared by every coordinate system.
type spherical struct {
	lon, lat float64
}

func (s spherical) lonDeg() float64 { return skymath.ToDeg(s.lon) }
func (s spherical) latDeg() float64 { return skymath.ToDeg(s.lat) }

func checkLonLat(lonIv skymath.RightOpenInterval, latIv skymath.ClosedInterval, lon, lat float64) (spherical, error) {
	if _, err := lonIv.Check(lon); err != nil {
		return spherical{}, fmt.Errorf("longitude: %w", err)
	}
	if _, err := latIv.Check(lat); err != nil {
		return spherical{}, fmt.Errorf("latitude: %w", err)
	}
	return spherical{lon: lon, lat: lat}, nil
}

// Equatorial holds right ascension in [0, 2π) and declination in [-π/2, π/2].
type Equatorial struct {
	spherical
}

// NewEquatorial validates ra and dec (radians).
func NewEquatorial(ra, dec float64) (Equatorial, error) {
	s, err := checkLonLat(lonInterval, latInterval, ra, dec)
	if err != nil {
		return Equatorial{}, fmt.Errorf("equatorial: %w", err)
	}
	return Equatorial{s}, nil
}

func (e Equatorial) RA() float64     { return e.lon }
func (e Equatorial) RADeg() float64  { return e.lonDeg() }
func (e Equatorial) RAHr() float64   { return skymath.ToHr(e.lon) }
func (e Equatorial) Dec() float64    { return e.lat }
func (e Equatorial) DecDeg() float64 { return e.latDeg() }

func (e Equatorial) String() string {
	return fmt.Sprintf("(ra=%.4fh, dec=%.4f°)", e.RAHr(), e.DecDeg())
}

// Ecliptic holds ecliptic longitude in [0, 2π) and latitude in [-π/2, π/2].
type Ecliptic struct {
	spherical
}

// NewEcliptic validates lon and lat (radians).
func NewEcliptic(lon, lat float64) (Ecliptic, error) {
	s, err := checkLonLat(lonInterval, latInterval, lon, lat)
	if err != nil {
		return Ecliptic{}, fmt.Errorf("ecliptic: %w", err)
	}
	return Ecliptic{s}, nil
}

func (e Ecliptic) Lon() float64    { return e.lon }
func (e Ecliptic) LonDeg() float64 { return e.lonDeg() }
func (e Ecliptic) Lat() float64    { return e.lat }
func (e Ecliptic) LatDeg() float64 { return e.latDeg() }

func (e Ecliptic) String() string {
	return fmt.Sprintf("(λ=%.4f°, β=%.4f°)", e.LonDeg(), e.LatDeg())
}

// Horizontal holds azimuth in [0, 2π) (0 = north, π/2 = east) and altitude
// in [-π/2, π/2].
type Horizontal struct {
	spherical
}

// NewHorizontal validates az and alt (radians).
func NewHorizontal(az, alt float64) (Horizontal, error) {
	s, err := checkLonLat(lonInterval, latInterval, az, alt)
	if err != nil {
		return Horizontal{}, fmt.Errorf("horizontal: %w", err)
	}
	return Horizontal{s}, nil
}

// NewHorizontalDeg validates azDeg in [0, 360) and altDeg in [-90, 90].
func NewHorizontalDeg(azDeg, altDeg float64) (Horizontal, error) {
	if _, err := checkLonLat(azDegInterval, altDegInterval, azDeg, altDeg); err != nil {
		return Horizontal{}, fmt.Errorf("horizontal: %w", err)
	}
	return Horizontal{spherical{lon: skymath.OfDeg(azDeg), lat: skymath.OfDeg(altDeg)}}, nil
}

// MustHorizontalDeg is NewHorizontalDeg for literal directions.
func MustHorizontalDeg(azDeg, altDeg float64) Horizontal {
	h, err := NewHorizontalDeg(azDeg, altDeg)
	if err != nil {
		panic(err)
	}
	return h
}

func (h Horizontal) Az() float64     { return h.lon }
func (h Horizontal) AzDeg() float64  { return h.lonDeg() }
func (h Horizontal) Alt() float64    { return h.lat }
func (h Horizontal) AltDeg() float64 { return h.latDeg() }

// AzOctantName returns the compass point nearest to the azimuth, built from
// the four cardinal names (e.g. n+e for north-east).
func (h Horizontal) AzOctantName(n, e, s, w string) string {
	octant := int(math.Round(8 * (h.lon - lonInterval.Low()) / lonInterval.Size()))
	switch octant {
	case 1:
		return n + e
	case 2:
		return e
	case 3:
		return s + e
	case 4:
		return s
	case 5:
		return s + w
	case 6:
		return w
	case 7:
		return n + w
	default: // 0 and 8
		return n
	}
}

// AngularDistanceTo returns the great-circle distance to that, in radians.
func (h Horizontal) AngularDistanceTo(that Horizontal) float64 {
	cosD := math.Sin(h.lat)*math.Sin(that.lat) + math.Cos(h.lat)*math.Cos(that.lat)*math.Cos(that.lon-h.lon)
	return math.Acos(clampUnit(cosD))
}

func (h Horizontal) String() string {
	return fmt.Sprintf("(az=%.4f°, alt=%.4f°)", h.AzDeg(), h.AltDeg())
}

// Geographic is an observer location: longitude in [-180°, 180°) (east
// positive) and latitude in [-90°, 90°], stored in radians.
type Geographic struct {
	spherical
}

// IsValidLonDeg reports whether lonDeg is a legal geographic longitude.
func IsValidLonDeg(lonDeg float64) bool { return geoLonDegInterval.Contains(lonDeg) }

// IsValidLatDeg reports whether latDeg is a legal geographic latitude.
func IsValidLatDeg(latDeg float64) bool { return geoLatDegInterval.Contains(latDeg) }

// NewGeographicDeg validates the location given in degrees.
func NewGeographicDeg(lonDeg, latDeg float64) (Geographic, error) {
	if _, err := checkLonLat(geoLonDegInterval, geoLatDegInterval, lonDeg, latDeg); err != nil {
		return Geographic{}, fmt.Errorf("geographic: %w", err)
	}
	return Geographic{spherical{lon: skymath.OfDeg(lonDeg), lat: skymath.OfDeg(latDeg)}}, nil
}

// MustGeographicDeg is NewGeographicDeg for literal locations.
func MustGeographicDeg(lonDeg, latDeg float64) Geographic {
	g, err := NewGeographicDeg(lonDeg, latDeg)
	if err != nil {
		panic(err)
	}
	return g
}

func (g Geographic) Lon() float64    { return g.lon }
func (g Geographic) LonDeg() float64 { return g.lonDeg() }
func (g Geographic) Lat() float64    { return g.lat }
func (g Geographic) LatDeg() float64 { return g.latDeg() }

func (g Geographic) String() string {
	return fmt.Sprintf("(lon=%.4f°, lat=%.4f°)", g.LonDeg(), g.LatDeg())
}

// Cartesian is a point of the projection plane.
type Cartesian struct {
	X, Y float64
}

// DistanceTo returns the Euclidean distance to that.
func (c Cartesian) DistanceTo(that Cartesian) float64 {
	return math.Hypot(that.X-c.X, that.Y-c.Y)
}

func (c Cartesian) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", c.X, c.Y)
}

// clampUnit clamps v to [-1, 1] to absorb rounding before asin/acos.
func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
