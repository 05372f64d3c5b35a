package astro

import (
	"math"
	"time"

	"github.com/litescript/ls-sky/internal/skymath"
)

// Obliquity of the ecliptic as a function of Julian centuries since J2000.
var obliquityPolynomial = skymath.MustPolynomial(
	skymath.OfArcsec(0.00181),
	-skymath.OfArcsec(0.0006),
	-skymath.OfArcsec(46.815),
	skymath.MustDMS(23, 26, 21.45))

// ObliquityOfEcliptic returns the angle between the equator and the ecliptic at t.
func ObliquityOfEcliptic(t time.Time) float64 {
	return obliquityPolynomial.At(J2000.JulianCenturies(t))
}

// EclipticToEquatorial rotates ecliptic coordinates into equatorial ones for
// one instant. Build it once per instant and apply it to every body.
type EclipticToEquatorial struct {
	cosObl, sinObl float64
}

// NewEclipticToEquatorial precomputes the obliquity terms for t.
func NewEclipticToEquatorial(t time.Time) EclipticToEquatorial {
	sin, cos := math.Sincos(ObliquityOfEcliptic(t))
	return EclipticToEquatorial{cosObl: cos, sinObl: sin}
}

// Apply converts ecl to equatorial coordinates.
func (c EclipticToEquatorial) Apply(ecl Ecliptic) Equatorial {
	sinLon, cosLon := math.Sincos(ecl.Lon())
	sinLat, cosLat := math.Sincos(ecl.Lat())

	ra := math.Atan2(sinLon*c.cosObl-math.Tan(ecl.Lat())*c.sinObl, cosLon)
	dec := math.Asin(clampUnit(sinLat*c.cosObl + cosLat*c.sinObl*sinLon))

	return Equatorial{spherical{lon: skymath.NormalizePositive(ra), lat: dec}}
}

// EquatorialToHorizontal converts equatorial coordinates into the horizontal
// frame of one observer at one instant.
type EquatorialToHorizontal struct {
	localSidereal  float64
	sinLat, cosLat float64
}

// NewEquatorialToHorizontal precomputes local sidereal time and the observer
// latitude terms.
func NewEquatorialToHorizontal(t time.Time, where Geographic) EquatorialToHorizontal {
	sin, cos := math.Sincos(where.Lat())
	return EquatorialToHorizontal{
		localSidereal: LocalSidereal(t, where),
		sinLat:        sin,
		cosLat:        cos,
	}
}

// LocalSidereal returns the precomputed local sidereal time.
func (c EquatorialToHorizontal) LocalSidereal() float64 { return c.localSidereal }

// Apply converts eq to horizontal coordinates.
func (c EquatorialToHorizontal) Apply(eq Equatorial) Horizontal {
	hourAngle := c.localSidereal - eq.RA()
	sinDec, cosDec := math.Sincos(eq.Dec())
	sinHA, cosHA := math.Sincos(hourAngle)

	sinAlt := clampUnit(sinDec*c.sinLat + cosDec*c.cosLat*cosHA)
	az := math.Atan2(-cosDec*c.cosLat*sinHA, sinDec-c.sinLat*sinAlt)

	return Horizontal{spherical{lon: skymath.NormalizePositive(az), lat: math.Asin(sinAlt)}}
}
