package astro

import (
	"fmt"
	"math"

	"github.com/litescript/ls-sky/internal/skymath"
)

// Stereographic projects horizontal coordinates onto the plane tangent to the
// sphere at a center direction. The center maps to the origin; x grows with
// azimuth and y with altitude.
type Stereographic struct {
	center                     Horizontal
	sinCenterAlt, cosCenterAlt float64
}

// NewStereographic builds the projection centered on center.
func NewStereographic(center Horizontal) Stereographic {
	sin, cos := math.Sincos(center.Alt())
	return Stereographic{center: center, sinCenterAlt: sin, cosCenterAlt: cos}
}

// Center returns the projection center.
func (p Stereographic) Center() Horizontal { return p.center }

// Apply projects h. It is singular only at the point antipodal to the center.
func (p Stereographic) Apply(h Horizontal) Cartesian {
	sinAlt, cosAlt := math.Sincos(h.Alt())
	sinAzDiff, cosAzDiff := math.Sincos(h.Az() - p.center.Az())

	d := 1 / (sinAlt*p.sinCenterAlt + cosAlt*p.cosCenterAlt*cosAzDiff + 1)
	return Cartesian{
		X: d * (cosAlt * sinAzDiff),
		Y: d * (sinAlt*p.cosCenterAlt - cosAlt*p.sinCenterAlt*cosAzDiff),
	}
}

// InverseApply recovers the horizontal coordinates of a plane point.
func (p Stereographic) InverseApply(xy Cartesian) Horizontal {
	if xy.X == 0 && xy.Y == 0 {
		return p.center
	}

	rhoSq := xy.X*xy.X + xy.Y*xy.Y
	rho := math.Sqrt(rhoSq)
	sinC := 2 * rho / (rhoSq + 1)
	cosC := (1 - rhoSq) / (rhoSq + 1)

	az := p.center.Az() + math.Atan2(xy.X*sinC, rho*p.cosCenterAlt*cosC-xy.Y*p.sinCenterAlt*sinC)
	alt := math.Asin(clampUnit(cosC*p.sinCenterAlt + xy.Y*sinC*p.cosCenterAlt/rho))

	return Horizontal{spherical{lon: skymath.NormalizePositive(az), lat: alt}}
}

// ApplyToAngle returns the plane size of an object of angular size rad seen
// at the projection center.
func (p Stereographic) ApplyToAngle(rad float64) float64 {
	return 2 * math.Tan(rad/4)
}

// CircleCenterForParallel returns the plane center of the image of the
// parallel (circle of constant altitude) through hor.
func (p Stereographic) CircleCenterForParallel(hor Horizontal) Cartesian {
	return Cartesian{X: 0, Y: p.cosCenterAlt / (math.Sin(hor.Alt()) + p.sinCenterAlt)}
}

// CircleRadiusForParallel returns the plane radius of the image of the
// parallel through hor.
func (p Stereographic) CircleRadiusForParallel(hor Horizontal) float64 {
	return math.Cos(hor.Alt()) / (math.Sin(hor.Alt()) + p.sinCenterAlt)
}

func (p Stereographic) String() string {
	return fmt.Sprintf("Stereographic(%s)", p.center)
}
