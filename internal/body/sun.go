package body

import (
	"fmt"
	"math"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/skymath"
)

// Solar orbital elements at epoch J2010.
var (
	earthMeanAngularSpeed = skymath.Tau / 365.242191 // rad per day
	sunMeanLon            = skymath.OfDeg(279.557208)
	sunPerigeeLon         = skymath.OfDeg(283.112438)
	sunAngularSize0       = skymath.OfDeg(0.533128)
)

const sunEccentricity = 0.016705

// SunAt returns the Sun for the instant daysSinceJ2010 days after J2010.
// conv must be the ecliptic-to-equatorial conversion of the same instant.
//
// The orbit is a Keplerian ellipse with a first-order equation of center;
// accuracy is a few hundredths of a degree over 1900-2100.
func SunAt(daysSinceJ2010 float64, conv astro.EclipticToEquatorial) Sun {
	meanAnomaly := sunMeanAnomaly(daysSinceJ2010)
	trueAnomaly := meanAnomaly + 2*sunEccentricity*math.Sin(meanAnomaly)

	ecl := mustEcliptic(skymath.NormalizePositive(sunPerigeeLon+trueAnomaly), 0)
	size := sunAngularSize0 * (1 + sunEccentricity*math.Cos(trueAnomaly)) / (1 - sunEccentricity*sunEccentricity)

	sun, err := NewSun(ecl, conv.Apply(ecl), size, meanAnomaly)
	if err != nil {
		panic(err)
	}
	return sun
}

func sunMeanAnomaly(daysSinceJ2010 float64) float64 {
	return skymath.NormalizePositive(earthMeanAngularSpeed*daysSinceJ2010 + sunMeanLon - sunPerigeeLon)
}

// mustEcliptic builds ecliptic coordinates the models produce. lon is already
// normalized and lat comes from asin/atan, so a failure is a bug.
func mustEcliptic(lon, lat float64) astro.Ecliptic {
	ecl, err := astro.NewEcliptic(lon, lat)
	if err != nil {
		panic(fmt.Sprintf("body: model produced invalid ecliptic position: %v", err))
	}
	return ecl
}
