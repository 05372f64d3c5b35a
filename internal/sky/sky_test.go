package sky

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	sunrise "github.com/nathan-osman/go-sunrise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/body"
	"github.com/litescript/ls-sky/internal/catalog"
)

var epfl = astro.MustGeographicDeg(6.57, 46.52)

func builtin(t *testing.T) *catalog.Catalogue {
	t.Helper()
	cat, err := catalog.Builtin()
	require.NoError(t, err)
	return cat
}

func newSky(t *testing.T, when time.Time, center astro.Horizontal) *ObservedSky {
	t.Helper()
	s, err := New(when, epfl, astro.NewStereographic(center), builtin(t))
	require.NoError(t, err)
	return s
}

func TestNew_UnsupportedInstant(t *testing.T) {
	cat := builtin(t)
	proj := astro.NewStereographic(astro.MustHorizontalDeg(180, 15))

	for _, when := range []time.Time{
		time.Date(1899, 12, 31, 23, 59, 59, 0, time.UTC),
		SupportedUntil,
		time.Date(2500, 1, 1, 0, 0, 0, 0, time.UTC),
	} {
		_, err := New(when, epfl, proj, cat)
		assert.ErrorIs(t, err, ErrUnsupportedInstant, "instant %v", when)
	}

	_, err := New(SupportedFrom, epfl, proj, cat)
	assert.NoError(t, err)
}

func TestNew_NilCatalogue(t *testing.T) {
	when := time.Date(2020, 2, 17, 20, 15, 0, 0, time.UTC)
	_, err := New(when, epfl, astro.NewStereographic(astro.MustHorizontalDeg(180, 15)), nil)
	assert.ErrorIs(t, err, ErrNilCatalogue)
}

func TestNew_Buffers(t *testing.T) {
	s := newSky(t, time.Date(2020, 2, 17, 20, 15, 0, 0, time.UTC), astro.MustHorizontalDeg(180, 45))
	cat := s.Catalogue()

	assert.Len(t, s.Planets(), 7)
	assert.Len(t, s.PlanetPositions(), 14)
	assert.Len(t, s.StarPositions(), 2*cat.Len())
	assert.Equal(t, cat.Stars(), s.Stars())

	for i := 0; i < cat.Len(); i++ {
		want := s.Projection().Apply(s.Horizontal(cat.Star(i)))
		assert.Equal(t, want, s.StarPosition(i))
	}
	for i, p := range s.Planets() {
		assert.Equal(t, s.Projection().Apply(s.Horizontal(p)), s.PlanetPosition(i))
	}

	buf := s.StarPositions()
	buf[0] = 1e9
	assert.NotEqual(t, 1e9, s.StarPositions()[0], "StarPositions must return a copy")
}

type candidate struct {
	obj body.Object
	pos astro.Cartesian
}

func candidates(s *ObservedSky) []candidate {
	out := []candidate{
		{s.Sun(), s.SunPosition()},
		{s.Moon(), s.MoonPosition()},
	}
	for i, p := range s.Planets() {
		out = append(out, candidate{p, s.PlanetPosition(i)})
	}
	for i, st := range s.Stars() {
		out = append(out, candidate{st, s.StarPosition(i)})
	}
	return out
}

func bruteForce(cs []candidate, p astro.Cartesian, maxDistance float64) (body.Object, bool) {
	best := maxDistance
	var found body.Object
	for _, c := range cs {
		if d := c.pos.DistanceTo(p); d < best {
			best, found = d, c.obj
		}
	}
	return found, found != nil
}

func TestObjectClosestTo_MatchesBruteForce(t *testing.T) {
	s := newSky(t, time.Date(2020, 2, 17, 20, 15, 0, 0, time.UTC), astro.MustHorizontalDeg(200, 30))
	cs := candidates(s)
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 2000; i++ {
		p := astro.Cartesian{X: rng.Float64()*4 - 2, Y: rng.Float64()*4 - 2}
		maxDistance := rng.Float64() * 0.5

		want, wantOK := bruteForce(cs, p, maxDistance)
		got, ok := s.ObjectClosestTo(p, maxDistance)
		require.Equal(t, wantOK, ok, "point %v max %v", p, maxDistance)
		if ok {
			require.Equal(t, want, got, "point %v max %v", p, maxDistance)
		}
	}
}

func TestObjectClosestTo_ExactHit(t *testing.T) {
	s := newSky(t, time.Date(2021, 8, 1, 22, 0, 0, 0, time.UTC), astro.MustHorizontalDeg(0, 40))

	for i, st := range s.Stars() {
		got, ok := s.ObjectClosestTo(s.StarPosition(i), 1e-12)
		if assert.True(t, ok, st.Name()) {
			assert.Equal(t, st.Name(), got.Name())
		}
	}

	got, ok := s.ObjectClosestTo(s.SunPosition(), 1e-12)
	require.True(t, ok)
	assert.Equal(t, body.KindSun, got.Kind())
}

func TestObjectClosestTo_NothingInRange(t *testing.T) {
	s := newSky(t, time.Date(2021, 8, 1, 22, 0, 0, 0, time.UTC), astro.MustHorizontalDeg(0, 40))

	_, ok := s.ObjectClosestTo(astro.Cartesian{X: 1e6, Y: 1e6}, 1)
	assert.False(t, ok)

	_, ok = s.ObjectClosestTo(s.SunPosition(), 0)
	assert.False(t, ok, "distance 0 is not strictly below a maximum of 0")
}

func TestObjectClosestTo_TieGoesToEarlierCategory(t *testing.T) {
	cat, err := catalog.New(nil, nil)
	require.NoError(t, err)
	eq, err := astro.NewEquatorial(0, 0)
	require.NoError(t, err)
	moon, err := body.NewMoon(eq, 0.01, 0, 0.5)
	require.NoError(t, err)
	planet, err := body.NewPlanet("Mars", eq, 0.001, 1)
	require.NoError(t, err)

	s := &ObservedSky{
		cat:       cat,
		moon:      moon,
		moonPos:   [2]float64{1, 0},
		sunPos:    [2]float64{100, 100},
		planets:   []body.Planet{planet},
		planetPos: []float64{-1, 0},
	}

	got, ok := s.ObjectClosestTo(astro.Cartesian{}, 2)
	require.True(t, ok)
	assert.Equal(t, body.KindMoon, got.Kind())
}

func TestSunAltitudeMatchesSunriseSunset(t *testing.T) {
	days := []time.Time{
		time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC),
	}
	center := astro.MustHorizontalDeg(180, 15)

	for _, day := range days {
		rise, set := sunrise.SunriseSunset(epfl.LatDeg(), epfl.LonDeg(), day.Year(), day.Month(), day.Day())
		require.False(t, rise.IsZero() || set.IsZero())

		checks := []struct {
			when  time.Time
			above bool
		}{
			{rise.Add(-20 * time.Minute), false},
			{rise.Add(20 * time.Minute), true},
			{rise.Add(set.Sub(rise) / 2), true},
			{set.Add(-20 * time.Minute), true},
			{set.Add(20 * time.Minute), false},
		}
		for _, c := range checks {
			s := newSky(t, c.when, center)
			hor := s.Horizontal(s.Sun())
			assert.Equal(t, c.above, hor.Alt() > 0, "%v: sun altitude %v°", c.when, hor.AltDeg())

			// The projected position maps back to the same direction.
			back := s.Projection().InverseApply(s.SunPosition())
			assert.InDelta(t, hor.Alt(), back.Alt(), 1e-9)
		}

		// Around the published rise time the computed altitude is close to
		// the -0.833° refraction-corrected horizon.
		s := newSky(t, rise, center)
		assert.InDelta(t, -0.833, s.Horizontal(s.Sun()).AltDeg(), 1.0, "%v", rise)
	}
}

func TestNew_SnapshotsAreIndependent(t *testing.T) {
	cat := builtin(t)
	when := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	a, err := New(when, epfl, astro.NewStereographic(astro.MustHorizontalDeg(0, 20)), cat)
	require.NoError(t, err)
	b, err := New(when.Add(time.Hour), epfl, astro.NewStereographic(astro.MustHorizontalDeg(0, 20)), cat)
	require.NoError(t, err)

	assert.Same(t, a.Catalogue(), b.Catalogue())
	assert.NotEqual(t, a.StarPositions(), b.StarPositions())
	assert.False(t, math.IsNaN(a.SunPosition().X))
}

func TestSolarSystem_Order(t *testing.T) {
	s := newSky(t, time.Date(2020, 2, 17, 20, 15, 0, 0, time.UTC), astro.MustHorizontalDeg(180, 45))

	objs := s.SolarSystem()
	require.Len(t, objs, 9)
	assert.Equal(t, body.KindSun, objs[0].Kind())
	assert.Equal(t, body.KindMoon, objs[1].Kind())
	for i, p := range s.Planets() {
		assert.Equal(t, p, objs[2+i])
	}
}

func TestBrightestStars(t *testing.T) {
	s := newSky(t, time.Date(2020, 2, 17, 20, 15, 0, 0, time.UTC), astro.MustHorizontalDeg(180, 45))

	idx := s.BrightestStars(5)
	require.Len(t, idx, 5)
	for k, i := range idx {
		star := s.Catalogue().Star(i)
		assert.GreaterOrEqual(t, s.Horizontal(star).Alt(), 0.0, star.Name())
		if k > 0 {
			assert.LessOrEqual(t, s.Catalogue().Star(idx[k-1]).Magnitude(), star.Magnitude())
		}
	}

	all := s.BrightestStars(s.Catalogue().Len() + 10)
	assert.Less(t, len(all), s.Catalogue().Len(), "some stars are always below the horizon")
	assert.Empty(t, s.BrightestStars(0))
	assert.Empty(t, s.BrightestStars(-1))
}
