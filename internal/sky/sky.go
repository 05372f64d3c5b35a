// Package sky builds ObservedSky snapshots: every body of the solar system
// and the catalogue projected onto the plane for one instant, place and
// viewing direction.
package sky

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/body"
	"github.com/litescript/ls-sky/internal/catalog"
)

// ErrUnsupportedInstant is returned for instants outside [SupportedFrom,
// SupportedUntil). The orbital models lose accuracy beyond that range.
var ErrUnsupportedInstant = errors.New("instant outside supported range")

// ErrNilCatalogue is returned by New when no catalogue is given.
var ErrNilCatalogue = errors.New("nil catalogue")

var (
	SupportedFrom  = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	SupportedUntil = time.Date(2100, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// CheckInstant reports whether t lies in the supported range.
func CheckInstant(t time.Time) error {
	if t.Before(SupportedFrom) || !t.Before(SupportedUntil) {
		return fmt.Errorf("%s: %w", t.Format(time.RFC3339), ErrUnsupportedInstant)
	}
	return nil
}

// ObservedSky is an immutable snapshot of the sky. Plane positions are
// stored as flat x,y buffers in the order of their source lists. It is safe
// for concurrent use.
type ObservedSky struct {
	when    time.Time
	where   astro.Geographic
	proj    astro.Stereographic
	cat     *catalog.Catalogue
	eqToHor astro.EquatorialToHorizontal

	sun       body.Sun
	sunPos    [2]float64
	moon      body.Moon
	moonPos   [2]float64
	planets   []body.Planet
	planetPos []float64
	starPos   []float64
}

// New computes the sky seen from where at when, projected with proj.
func New(when time.Time, where astro.Geographic, proj astro.Stereographic, cat *catalog.Catalogue) (*ObservedSky, error) {
	if err := CheckInstant(when); err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("sky: %w", ErrNilCatalogue)
	}

	days := astro.J2010.Days(when)
	eclToEq := astro.NewEclipticToEquatorial(when)
	s := &ObservedSky{
		when:    when,
		where:   where,
		proj:    proj,
		cat:     cat,
		eqToHor: astro.NewEquatorialToHorizontal(when, where),
		sun:     body.SunAt(days, eclToEq),
		moon:    body.MoonAt(days, eclToEq),
		planets: body.PlanetsAt(days, eclToEq),
	}

	s.sunPos = s.project(s.sun.Equatorial())
	s.moonPos = s.project(s.moon.Equatorial())

	s.planetPos = make([]float64, 0, 2*len(s.planets))
	for _, p := range s.planets {
		xy := s.project(p.Equatorial())
		s.planetPos = append(s.planetPos, xy[0], xy[1])
	}

	s.starPos = make([]float64, 0, 2*cat.Len())
	for i := 0; i < cat.Len(); i++ {
		xy := s.project(cat.Star(i).Equatorial())
		s.starPos = append(s.starPos, xy[0], xy[1])
	}
	return s, nil
}

func (s *ObservedSky) project(eq astro.Equatorial) [2]float64 {
	c := s.proj.Apply(s.eqToHor.Apply(eq))
	return [2]float64{c.X, c.Y}
}

func (s *ObservedSky) When() time.Time                 { return s.when }
func (s *ObservedSky) Where() astro.Geographic         { return s.where }
func (s *ObservedSky) Projection() astro.Stereographic { return s.proj }
func (s *ObservedSky) Catalogue() *catalog.Catalogue   { return s.cat }
func (s *ObservedSky) Sun() body.Sun                   { return s.sun }
func (s *ObservedSky) Moon() body.Moon                 { return s.moon }
func (s *ObservedSky) SunPosition() astro.Cartesian    { return astro.Cartesian{X: s.sunPos[0], Y: s.sunPos[1]} }
func (s *ObservedSky) MoonPosition() astro.Cartesian   { return astro.Cartesian{X: s.moonPos[0], Y: s.moonPos[1]} }

// Planets returns the planets other than Earth, in order from the Sun.
func (s *ObservedSky) Planets() []body.Planet { return append([]body.Planet(nil), s.planets...) }

// PlanetPositions returns a copy of the planets' flat x,y buffer.
func (s *ObservedSky) PlanetPositions() []float64 { return append([]float64(nil), s.planetPos...) }

// Stars returns the catalogue stars, in catalogue order.
func (s *ObservedSky) Stars() []body.Star { return s.cat.Stars() }

// StarPositions returns a copy of the stars' flat x,y buffer.
func (s *ObservedSky) StarPositions() []float64 { return append([]float64(nil), s.starPos...) }

// StarPosition returns the plane position of the i-th catalogue star.
func (s *ObservedSky) StarPosition(i int) astro.Cartesian {
	return astro.Cartesian{X: s.starPos[2*i], Y: s.starPos[2*i+1]}
}

// PlanetPosition returns the plane position of the i-th planet.
func (s *ObservedSky) PlanetPosition(i int) astro.Cartesian {
	return astro.Cartesian{X: s.planetPos[2*i], Y: s.planetPos[2*i+1]}
}

// Horizontal returns the local horizontal position of o.
func (s *ObservedSky) Horizontal(o body.Object) astro.Horizontal {
	return s.eqToHor.Apply(o.Equatorial())
}

// SolarSystem returns the Sun, the Moon and the planets, in the order
// ObjectClosestTo visits them.
func (s *ObservedSky) SolarSystem() []body.Object {
	objs := make([]body.Object, 0, 2+len(s.planets))
	objs = append(objs, s.sun, s.moon)
	for _, p := range s.planets {
		objs = append(objs, p)
	}
	return objs
}

// BrightestStars returns the catalogue indices of at most n stars above the
// horizon, brightest first. Equal magnitudes keep catalogue order.
func (s *ObservedSky) BrightestStars(n int) []int {
	if n <= 0 {
		return nil
	}
	var idx []int
	for i := 0; i < s.cat.Len(); i++ {
		if s.eqToHor.Apply(s.cat.Star(i).Equatorial()).Alt() >= 0 {
			idx = append(idx, i)
		}
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(s.cat.Star(a).Magnitude(), s.cat.Star(b).Magnitude())
	})
	if len(idx) > n {
		idx = idx[:n]
	}
	return idx
}

// ObjectClosestTo returns the object whose plane position is nearest to p,
// provided it is strictly closer than maxDistance. Categories are visited
// Sun, Moon, planets, then stars; on exact ties the first one wins.
func (s *ObservedSky) ObjectClosestTo(p astro.Cartesian, maxDistance float64) (body.Object, bool) {
	best := maxDistance
	var found body.Object

	if nearest(s.sunPos[:], p, &best) >= 0 {
		found = s.sun
	}
	if nearest(s.moonPos[:], p, &best) >= 0 {
		found = s.moon
	}
	if i := nearest(s.planetPos, p, &best); i >= 0 {
		found = s.planets[i]
	}
	if i := nearest(s.starPos, p, &best); i >= 0 {
		found = s.cat.Star(i)
	}
	return found, found != nil
}

// nearest scans a flat x,y buffer for the point closest to p that beats
// *best, updating *best. It returns the point index, or -1.
func nearest(xy []float64, p astro.Cartesian, best *float64) int {
	idx := -1
	for i := 0; i+1 < len(xy); i += 2 {
		dx := xy[i] - p.X
		if math.Abs(dx) >= *best {
			continue
		}
		dy := xy[i+1] - p.Y
		if math.Abs(dy) >= *best {
			continue
		}
		if d := math.Hypot(dx, dy); d < *best {
			*best = d
			idx = i / 2
		}
	}
	return idx
}
