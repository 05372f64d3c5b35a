package body

import (
	"fmt"
	"math"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/skymath"
)

// PlanetID selects one of the eight planets, in order from the Sun.
type PlanetID int

const (
	Mercury PlanetID = iota
	Venus
	Earth
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
)

// PlanetModel holds a planet's orbital elements at epoch J2010. Angles are
// in radians.
type PlanetModel struct {
	Name          string
	PeriodYears   float64 // tropical years
	EpochLon      float64
	PerihelionLon float64
	Eccentricity  float64
	SemiMajorAxis float64 // AU
	Inclination   float64
	NodeLon       float64
	AngularSize   float64 // at 1 AU
	Magnitude     float64 // at 1 AU
}

func planetElements(name string, period, lonDeg, perihelionDeg, e, a, inclDeg, nodeDeg, sizeArcsec, mag float64) PlanetModel {
	return PlanetModel{
		Name:          name,
		PeriodYears:   period,
		EpochLon:      skymath.OfDeg(lonDeg),
		PerihelionLon: skymath.OfDeg(perihelionDeg),
		Eccentricity:  e,
		SemiMajorAxis: a,
		Inclination:   skymath.OfDeg(inclDeg),
		NodeLon:       skymath.OfDeg(nodeDeg),
		AngularSize:   skymath.OfArcsec(sizeArcsec),
		Magnitude:     mag,
	}
}

var planetModels = [...]PlanetModel{
	Mercury: planetElements("Mercury", 0.24085, 75.5671, 77.612, 0.205627, 0.387098, 7.0051, 48.449, 6.74, -0.42),
	Venus:   planetElements("Venus", 0.615207, 272.30044, 131.54, 0.006812, 0.723329, 3.3947, 76.769, 16.92, -4.40),
	Earth:   planetElements("Earth", 0.999996, 99.556772, 103.2055, 0.016671, 0.999985, 0, 0, 0, 0),
	Mars:    planetElements("Mars", 1.880765, 109.09646, 336.217, 0.093348, 1.523689, 1.8497, 49.632, 9.36, -1.52),
	Jupiter: planetElements("Jupiter", 11.857911, 337.917132, 14.6633, 0.048907, 5.20278, 1.3035, 100.595, 196.74, -9.40),
	Saturn:  planetElements("Saturn", 29.310579, 172.398316, 89.567, 0.053853, 9.51134, 2.4873, 113.752, 165.60, -8.88),
	Uranus:  planetElements("Uranus", 84.039492, 271.063148, 172.884833, 0.046321, 19.21814, 0.773059, 73.926961, 65.80, -7.19),
	Neptune: planetElements("Neptune", 165.84539, 326.895127, 23.07, 0.010483, 30.1985, 1.7673, 131.879, 62.20, -6.87),
}

// VisiblePlanets lists every planet but Earth, in order from the Sun.
var VisiblePlanets = []PlanetID{Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune}

// Model returns the orbital elements of id.
func (id PlanetID) Model() PlanetModel {
	if id < Mercury || id > Neptune {
		panic(fmt.Sprintf("body: unknown planet %d", int(id)))
	}
	return planetModels[id]
}

func (id PlanetID) String() string {
	if id < Mercury || id > Neptune {
		return fmt.Sprintf("PlanetID(%d)", int(id))
	}
	return planetModels[id].Name
}

// heliocentric is a planet's position relative to the Sun in its own orbit.
type heliocentric struct {
	radius float64 // AU
	lon    float64
}

func (m PlanetModel) heliocentricAt(daysSinceJ2010 float64) heliocentric {
	speed := earthMeanAngularSpeed / m.PeriodYears
	meanAnomaly := speed*daysSinceJ2010 + m.EpochLon - m.PerihelionLon
	trueAnomaly := meanAnomaly + 2*m.Eccentricity*math.Sin(meanAnomaly)

	e := m.Eccentricity
	return heliocentric{
		radius: m.SemiMajorAxis * (1 - e*e) / (1 + e*math.Cos(trueAnomaly)),
		lon:    trueAnomaly + m.PerihelionLon,
	}
}

// PlanetAt returns planet id for the instant daysSinceJ2010 days after J2010.
// Earth's own elements give the observer's heliocentric position.
func PlanetAt(id PlanetID, daysSinceJ2010 float64, conv astro.EclipticToEquatorial) Planet {
	m := id.Model()
	p := m.heliocentricAt(daysSinceJ2010)
	earth := planetModels[Earth].heliocentricAt(daysSinceJ2010)

	sinIncl, cosIncl := math.Sincos(m.Inclination)
	sinFromNode, cosFromNode := math.Sincos(p.lon - m.NodeLon)
	hLat := math.Asin(sinFromNode * sinIncl)

	// Position projected on the ecliptic plane.
	projLon := math.Atan2(sinFromNode*cosIncl, cosFromNode) + m.NodeLon
	projRadius := p.radius * math.Cos(hLat)

	var lon float64
	if m.SemiMajorAxis < 1 {
		lon = math.Pi + earth.lon + math.Atan2(
			projRadius*math.Sin(earth.lon-projLon),
			earth.radius-projRadius*math.Cos(earth.lon-projLon))
	} else {
		lon = projLon + math.Atan2(
			earth.radius*math.Sin(projLon-earth.lon),
			projRadius-earth.radius*math.Cos(projLon-earth.lon))
	}
	lat := math.Atan(projRadius * math.Tan(hLat) * math.Sin(lon-projLon) /
		(earth.radius * math.Sin(projLon-earth.lon)))
	ecl := mustEcliptic(skymath.NormalizePositive(lon), lat)

	distance := math.Sqrt(p.radius*p.radius + earth.radius*earth.radius -
		2*p.radius*earth.radius*math.Cos(p.lon-earth.lon)*math.Cos(hLat))
	phase := (1 + math.Cos(lon-p.lon)) / 2
	magnitude := m.Magnitude + 5*math.Log10(p.radius*distance/math.Sqrt(phase))

	planet, err := NewPlanet(m.Name, conv.Apply(ecl), m.AngularSize/distance, magnitude)
	if err != nil {
		panic(err)
	}
	return planet
}

// PlanetsAt evaluates every visible planet, in VisiblePlanets order.
func PlanetsAt(daysSinceJ2010 float64, conv astro.EclipticToEquatorial) []Planet {
	planets := make([]Planet, 0, len(VisiblePlanets))
	for _, id := range VisiblePlanets {
		planets = append(planets, PlanetAt(id, daysSinceJ2010, conv))
	}
	return planets
}
