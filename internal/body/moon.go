package body

import (
	"math"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/skymath"
)

// Lunar orbital elements at epoch J2010.
var (
	moonMeanLon        = skymath.OfDeg(91.929336)
	moonPerigeeLon     = skymath.OfDeg(130.143076)
	moonNodeLon        = skymath.OfDeg(291.682547)
	moonAngularSize0   = skymath.OfDeg(0.5181)
	moonMeanLonRate    = skymath.OfDeg(13.1763966) // per day
	moonAnomalyRate    = skymath.OfDeg(0.1114041)
	moonNodeRate       = skymath.OfDeg(0.0529539)
	sinMoonInclination = math.Sin(skymath.OfDeg(5.145396))
	cosMoonInclination = math.Cos(skymath.OfDeg(5.145396))
)

const moonEccentricity = 0.0549

// MoonAt returns the Moon for the instant daysSinceJ2010 days after J2010.
// It evaluates the Sun first since the lunar corrections depend on it.
func MoonAt(daysSinceJ2010 float64, conv astro.EclipticToEquatorial) Moon {
	sun := SunAt(daysSinceJ2010, conv)
	sunLon := sun.Ecliptic().Lon()
	sinSunAnomaly := math.Sin(sun.MeanAnomaly())

	meanLon := moonMeanLonRate*daysSinceJ2010 + moonMeanLon
	meanAnomaly := meanLon - moonAnomalyRate*daysSinceJ2010 - moonPerigeeLon

	evection := skymath.OfDeg(1.2739) * math.Sin(2*(meanLon-sunLon)-meanAnomaly)
	annualEquation := skymath.OfDeg(0.1858) * sinSunAnomaly
	a3 := skymath.OfDeg(0.37) * sinSunAnomaly
	correctedAnomaly := meanAnomaly + evection - annualEquation - a3

	centerEquation := skymath.OfDeg(6.2886) * math.Sin(correctedAnomaly)
	a4 := skymath.OfDeg(0.214) * math.Sin(2*correctedAnomaly)
	correctedLon := meanLon + evection + centerEquation - annualEquation + a4

	variation := skymath.OfDeg(0.6583) * math.Sin(2*(correctedLon-sunLon))
	orbitalLon := correctedLon + variation

	nodeLon := moonNodeLon - moonNodeRate*daysSinceJ2010 - skymath.OfDeg(0.16)*sinSunAnomaly
	sinFromNode, cosFromNode := math.Sincos(orbitalLon - nodeLon)
	ecl := mustEcliptic(
		skymath.NormalizePositive(math.Atan2(sinFromNode*cosMoonInclination, cosFromNode)+nodeLon),
		math.Asin(sinFromNode*sinMoonInclination))

	phase := (1 - math.Cos(orbitalLon-sunLon)) / 2
	distance := (1 - moonEccentricity*moonEccentricity) / (1 + moonEccentricity*math.Cos(correctedAnomaly+centerEquation))

	moon, err := NewMoon(conv.Apply(ecl), moonAngularSize0/distance, 0, phase)
	if err != nil {
		panic(err)
	}
	return moon
}
