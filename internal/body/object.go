// Package body models the objects drawn on the sky: stars, the Sun, the Moon
// and the planets, plus the asterisms that connect stars.
package body

import (
	"fmt"
	"math"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/skymath"
)

// Kind identifies the concrete type behind an Object.
type Kind int

const (
	KindSun Kind = iota
	KindMoon
	KindPlanet
	KindStar
)

func (k Kind) String() string {
	switch k {
	case KindSun:
		return "sun"
	case KindMoon:
		return "moon"
	case KindPlanet:
		return "planet"
	case KindStar:
		return "star"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Object is a celestial body as seen from Earth. The concrete types are
// Star, Sun, Moon and Planet; callers type-switch on them when they need
// the per-kind fields.
type Object interface {
	Kind() Kind
	Name() string
	Equatorial() astro.Equatorial
	// AngularSize is the apparent diameter in radians.
	AngularSize() float64
	Magnitude() float64
	// Info is a one-line human description.
	Info() string
}

var nonNegative = skymath.MustRightOpen(0, math.Inf(1))

// base holds the fields every object shares. It is comparable so that
// Star values can be used as map keys.
type base struct {
	name        string
	eq          astro.Equatorial
	angularSize float64
	magnitude   float64
}

func newBase(name string, eq astro.Equatorial, angularSize, magnitude float64) (base, error) {
	if _, err := nonNegative.Check(angularSize); err != nil {
		return base{}, fmt.Errorf("angular size of %s: %w", name, err)
	}
	return base{name: name, eq: eq, angularSize: angularSize, magnitude: magnitude}, nil
}

func (b base) Name() string                 { return b.name }
func (b base) Equatorial() astro.Equatorial { return b.eq }
func (b base) AngularSize() float64         { return b.angularSize }
func (b base) Magnitude() float64           { return b.magnitude }
func (b base) Info() string                 { return b.name }
func (b base) String() string               { return b.name }

var (
	colorIndexInterval = skymath.MustClosed(-0.5, 5.5)
	phaseInterval      = skymath.MustClosed(0, 1)
)

// Star is a catalogued fixed star. Stars have no measurable angular size.
type Star struct {
	base
	hip              int
	colorIndex       float64
	colorTemperature int
}

// NewStar validates and builds a star. hip is the Hipparcos number (0 when
// unknown) and colorIndex the B-V index.
func NewStar(hip int, name string, eq astro.Equatorial, magnitude, colorIndex float64) (Star, error) {
	if hip < 0 {
		return Star{}, fmt.Errorf("hipparcos id %d: %w", hip, skymath.ErrInvalidRange)
	}
	if _, err := colorIndexInterval.Check(colorIndex); err != nil {
		return Star{}, fmt.Errorf("color index of %s: %w", name, err)
	}
	b, err := newBase(name, eq, 0, magnitude)
	if err != nil {
		return Star{}, err
	}
	return Star{
		base:             b,
		hip:              hip,
		colorIndex:       colorIndex,
		colorTemperature: colorTemperature(colorIndex),
	}, nil
}

// colorTemperature approximates the black-body temperature in kelvin for a
// B-V color index (Ballesteros' formula).
func colorTemperature(ci float64) int {
	x := 0.92 * ci
	return int(4600 * (1/(x+1.7) + 1/(x+0.62)))
}

func (Star) Kind() Kind { return KindStar }

// HipparcosID returns the Hipparcos number, 0 when unknown.
func (s Star) HipparcosID() int      { return s.hip }
func (s Star) ColorIndex() float64   { return s.colorIndex }
func (s Star) ColorTemperature() int { return s.colorTemperature }

// SunMagnitude is the Sun's apparent magnitude.
const SunMagnitude = -26.7

// Sun also carries its ecliptic position and mean anomaly, which the Moon
// model depends on.
type Sun struct {
	base
	ecl         astro.Ecliptic
	meanAnomaly float64
}

func NewSun(ecl astro.Ecliptic, eq astro.Equatorial, angularSize, meanAnomaly float64) (Sun, error) {
	b, err := newBase("Sun", eq, angularSize, SunMagnitude)
	if err != nil {
		return Sun{}, err
	}
	return Sun{base: b, ecl: ecl, meanAnomaly: meanAnomaly}, nil
}

func (Sun) Kind() Kind                 { return KindSun }
func (s Sun) Ecliptic() astro.Ecliptic { return s.ecl }
func (s Sun) MeanAnomaly() float64     { return s.meanAnomaly }

// Moon carries its illuminated fraction.
type Moon struct {
	base
	phase float64
}

// NewMoon fails if phase is outside [0, 1].
func NewMoon(eq astro.Equatorial, angularSize, magnitude, phase float64) (Moon, error) {
	if _, err := phaseInterval.Check(phase); err != nil {
		return Moon{}, fmt.Errorf("moon phase: %w", err)
	}
	b, err := newBase("Moon", eq, angularSize, magnitude)
	if err != nil {
		return Moon{}, err
	}
	return Moon{base: b, phase: phase}, nil
}

func (Moon) Kind() Kind       { return KindMoon }
func (m Moon) Phase() float64 { return m.phase }
func (m Moon) Info() string   { return fmt.Sprintf("%s (%.1f%%)", m.name, m.phase*100) }
func (m Moon) String() string { return m.Info() }

// Planet has no fields beyond the shared ones.
type Planet struct {
	base
}

func NewPlanet(name string, eq astro.Equatorial, angularSize, magnitude float64) (Planet, error) {
	b, err := newBase(name, eq, angularSize, magnitude)
	if err != nil {
		return Planet{}, err
	}
	return Planet{base: b}, nil
}

func (Planet) Kind() Kind { return KindPlanet }
