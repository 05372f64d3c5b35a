package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/body"
)

func star(t *testing.T, hip int, name string, ra float64) body.Star {
	t.Helper()
	eq, err := astro.NewEquatorial(ra, 0.1)
	require.NoError(t, err)
	s, err := body.NewStar(hip, name, eq, 1, 0.2)
	require.NoError(t, err)
	return s
}

func TestNew_ResolvesAsterismIndices(t *testing.T) {
	a, b, c := star(t, 1, "a", 0.1), star(t, 2, "b", 0.2), star(t, 3, "c", 0.3)
	ast, err := body.NewAsterism([]body.Star{c, a})
	require.NoError(t, err)

	cat, err := New([]body.Star{a, b, c}, []body.Asterism{ast})
	require.NoError(t, err)

	assert.Equal(t, 3, cat.Len())
	assert.Equal(t, []body.Star{a, b, c}, cat.Stars())
	assert.Equal(t, 1, cat.NumAsterisms())
	assert.Equal(t, []int{2, 0}, cat.AsterismIndices(0))
}

func TestNew_UnknownReference(t *testing.T) {
	a, stray := star(t, 1, "a", 0.1), star(t, 9, "stray", 0.9)
	ast, err := body.NewAsterism([]body.Star{a, stray})
	require.NoError(t, err)

	_, err = New([]body.Star{a}, []body.Asterism{ast})
	require.ErrorIs(t, err, ErrUnknownReference)
	assert.Contains(t, err.Error(), "stray")
}

func TestBuilder_FrozenCatalogueIsIsolated(t *testing.T) {
	a, b := star(t, 1, "a", 0.1), star(t, 2, "b", 0.2)
	builder := NewBuilder().AddStar(a)

	cat, err := builder.Build()
	require.NoError(t, err)

	builder.AddStar(b)
	assert.Equal(t, 1, cat.Len(), "later builder changes must not leak into the catalogue")

	stars := cat.Stars()
	stars[0] = b
	assert.Equal(t, a, cat.Star(0), "Stars() must return a copy")
	assert.Len(t, builder.Stars(), 2)
}

func TestBuilder_AsterismIndicesCopy(t *testing.T) {
	a := star(t, 1, "a", 0.1)
	ast, err := body.NewAsterism([]body.Star{a})
	require.NoError(t, err)

	cat, err := NewBuilder().AddStar(a).AddAsterism(ast).Build()
	require.NoError(t, err)

	ids := cat.AsterismIndices(0)
	ids[0] = 42
	assert.Equal(t, []int{0}, cat.AsterismIndices(0))
	assert.Len(t, cat.Asterisms(), 1)
}

const hygHeader = "id,hip,hd,hr,gl,bf,proper,ra,dec,dist,pmra,pmdec,rv,mag,absmag,spect,ci,x,y,z,vx,vy,vz," +
	"rarad,decrad,pmrarad,pmdecrad,bayer,flam,con,comp,comp_primary,base,lum,var,var_min,var_max"

// hygRow builds a record with only the columns the loader reads filled in.
func hygRow(hip, proper, mag, ci, rarad, decrad, bayer, con string) string {
	f := make([]string, hygFields)
	f[hygHip], f[hygProper], f[hygMag], f[hygCI] = hip, proper, mag, ci
	f[hygRARad], f[hygDecRad], f[hygBayer], f[hygCon] = rarad, decrad, bayer, con
	return strings.Join(f, ",")
}

func TestHYGLoader(t *testing.T) {
	data := strings.Join([]string{
		hygHeader,
		hygRow("32349", "Sirius", "-1.44", "0.009", "1.7677953696021995", "-0.291751258517685", "Alp", "CMa"),
		hygRow("", "", "4.5", "", "0.5", "0.2", "", "Ori"),
		hygRow("1234", "", "5.1", "1.2", "3.0", "-0.4", "Bet", "Cru"),
	}, "\n")

	b := NewBuilder()
	require.NoError(t, b.LoadFrom(strings.NewReader(data), HYGLoader{}))

	stars := b.Stars()
	require.Len(t, stars, 3)

	assert.Equal(t, "Sirius", stars[0].Name())
	assert.Equal(t, 32349, stars[0].HipparcosID())
	assert.InDelta(t, -1.44, stars[0].Magnitude(), 1e-12)
	assert.InDelta(t, 1.7677953696021995, stars[0].Equatorial().RA(), 1e-15)

	assert.Equal(t, "? Ori", stars[1].Name())
	assert.Equal(t, 0, stars[1].HipparcosID())
	assert.Equal(t, 0.0, stars[1].ColorIndex())

	assert.Equal(t, "Bet Cru", stars[2].Name())
}

func TestHYGLoader_Errors(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"bad magnitude", hygRow("1", "x", "bright", "0", "0.1", "0.1", "", "")},
		{"bad hip", hygRow("x1", "x", "1", "0", "0.1", "0.1", "", "")},
		{"ra out of range", hygRow("1", "x", "1", "0", "7", "0.1", "", "")},
		{"color index out of range", hygRow("1", "x", "1", "9", "0.1", "0.1", "", "")},
		{"short record", "1,2,3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewBuilder().LoadFrom(strings.NewReader(hygHeader+"\n"+tt.row+"\n"), HYGLoader{})
			assert.Error(t, err)
		})
	}
}

func TestHYGLoader_EmptyInput(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.LoadFrom(strings.NewReader(""), HYGLoader{}))
	assert.Empty(t, b.Stars())
}

func TestAsterismLoader(t *testing.T) {
	b := NewBuilder().
		AddStar(star(t, 10, "a", 0.1)).
		AddStar(star(t, 20, "b", 0.2)).
		AddStar(star(t, 0, "anon", 0.3))

	err := b.LoadFrom(strings.NewReader("10,20\n\n20, 10, 20\n"), AsterismLoader{})
	require.NoError(t, err)

	cat, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, 2, cat.NumAsterisms())
	assert.Equal(t, []int{0, 1}, cat.AsterismIndices(0))
	assert.Equal(t, []int{1, 0, 1}, cat.AsterismIndices(1))
}

func TestAsterismLoader_Errors(t *testing.T) {
	b := NewBuilder().AddStar(star(t, 10, "a", 0.1)).AddStar(star(t, 0, "anon", 0.3))

	err := b.LoadFrom(strings.NewReader("10,99\n"), AsterismLoader{})
	require.ErrorIs(t, err, ErrUnknownReference)

	err = b.LoadFrom(strings.NewReader("10,0\n"), AsterismLoader{})
	require.ErrorIs(t, err, ErrUnknownReference, "stars without a Hipparcos number cannot be referenced")

	err = b.LoadFrom(strings.NewReader("10,abc\n"), AsterismLoader{})
	require.ErrorIs(t, err, ErrMalformedRecord)
}

func TestBuiltin(t *testing.T) {
	cat, err := Builtin()
	require.NoError(t, err)

	assert.Equal(t, len(builtinStars), cat.Len())
	assert.Equal(t, len(builtinAsterisms), cat.NumAsterisms())

	names := make(map[string]body.Star)
	for _, s := range cat.Stars() {
		names[s.Name()] = s
	}
	for _, name := range []string{"Sirius", "Polaris", "Betelgeuse", "Vega"} {
		assert.Contains(t, names, name)
	}
	assert.Greater(t, names["Polaris"].Equatorial().DecDeg(), 89.0)
	assert.Less(t, names["Betelgeuse"].ColorTemperature(), names["Rigel"].ColorTemperature())

	seen := make(map[int]bool)
	for _, s := range cat.Stars() {
		assert.False(t, seen[s.HipparcosID()], "duplicate HIP %d", s.HipparcosID())
		seen[s.HipparcosID()] = true
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	hyg := filepath.Join(dir, "hyg.csv")
	asterisms := filepath.Join(dir, "asterisms.txt")
	require.NoError(t, os.WriteFile(hyg, []byte(strings.Join([]string{
		hygHeader,
		hygRow("32349", "Sirius", "-1.44", "0.009", "1.7677953696021995", "-0.291751258517685", "Alp", "CMa"),
		hygRow("37279", "Procyon", "0.4", "0.43", "2.0040830888", "0.0911934", "Alp", "CMi"),
	}, "\n")), 0o600))
	require.NoError(t, os.WriteFile(asterisms, []byte("32349,37279\n"), 0o600))

	cat, err := Open(hyg, asterisms)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())
	assert.Equal(t, []int{0, 1}, cat.AsterismIndices(0))

	cat, err = Open(hyg, "")
	require.NoError(t, err)
	assert.Zero(t, cat.NumAsterisms())

	builtin, err := Open("", "")
	require.NoError(t, err)
	want, _ := Builtin()
	assert.Equal(t, want.Len(), builtin.Len())

	_, err = Open(filepath.Join(dir, "missing.csv"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(asterisms, []byte("32349,1\n"), 0o600))
	_, err = Open(hyg, asterisms)
	assert.ErrorIs(t, err, ErrUnknownReference)
}
