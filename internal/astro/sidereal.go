package astro

import (
	"time"

	"github.com/litescript/ls-sky/internal/skymath"
)

var (
	// Sidereal time at 0h UT as a function of Julian centuries since J2000.
	gstPolynomial = skymath.MustPolynomial(
		skymath.OfHr(0.000025862),
		skymath.OfHr(2400.051336),
		skymath.OfHr(6.697374558))

	// Sidereal hours elapsed per solar hour.
	siderealRate = skymath.OfHr(1.002737909)
)

// GreenwichSidereal returns the Greenwich sidereal time at t, in [0, 2π).
func GreenwichSidereal(t time.Time) float64 {
	utc := t.UTC()
	midnight := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)

	s0 := gstPolynomial.At(J2000.JulianCenturies(midnight))
	s1 := siderealRate * (float64(utc.Sub(midnight).Milliseconds()) / msPerHour)

	return skymath.NormalizePositive(s0 + s1)
}

// LocalSidereal returns the local sidereal time at t for an observer at where.
func LocalSidereal(t time.Time, where Geographic) float64 {
	return skymath.NormalizePositive(GreenwichSidereal(t) + where.Lon())
}
