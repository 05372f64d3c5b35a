package ui

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/body"
	"github.com/litescript/ls-sky/internal/catalog"
	"github.com/litescript/ls-sky/internal/sky"
)

var testWhen = time.Date(2020, 2, 17, 20, 15, 0, 0, time.UTC)

func testSky(t *testing.T, center astro.Horizontal) *sky.ObservedSky {
	t.Helper()
	cat, err := catalog.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	s, err := sky.New(testWhen, astro.MustGeographicDeg(6.57, 46.52), astro.NewStereographic(center), cat)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// finishAnimation fast-forwards a running camera animation.
func finishAnimation(m SkyViewModel) SkyViewModel {
	m.animStart = time.Now().Add(-time.Second)
	m, _ = m.Update(animTickMsg(time.Now()))
	return m
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{0, 0},
		{180, 180},
		{-180, -180},
		{360, 0},
		{-360, 0},
		{350, -10},   // wraps to -10
		{370, 10},    // wraps to 10
		{-190, 170},  // wraps to 170
		{540, 180},   // multiple wraps
		{-540, -180}, // multiple wraps
	}

	for _, tt := range tests {
		got := normalizeAngle(tt.input)
		if math.Abs(got-tt.expected) > 0.001 {
			t.Errorf("normalizeAngle(%v) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestLerpAngle_ShortestPath(t *testing.T) {
	tests := []struct {
		from, to, t float64
		expected    float64
	}{
		{0, 90, 0.5, 45},
		{0, 180, 0.5, 90},
		// 350 to 10 goes +20, not -340
		{350, 10, 0.5, 360},
		{350, 10, 1.0, 370},
		// 10 to 350 goes -20
		{10, 350, 0.5, 0},
		{10, 350, 1.0, -10},
	}

	for _, tt := range tests {
		got := lerpAngle(tt.from, tt.to, tt.t)
		if math.Abs(got-tt.expected) > 0.001 {
			t.Errorf("lerpAngle(%v, %v, %v) = %v, want %v", tt.from, tt.to, tt.t, got, tt.expected)
		}
	}
}

func TestSkyView_PanWrapsAndClips(t *testing.T) {
	m := NewSkyViewModel(astro.MustHorizontalDeg(355, 88), 100)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if cmd == nil || !m.Animating() {
		t.Fatal("panning should start an animation")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = finishAnimation(m)

	if m.Animating() {
		t.Error("animation should be complete")
	}
	c := m.Center()
	if math.Abs(c.AzDeg()-5) > 1e-9 {
		t.Errorf("az = %v, want 5 (355+10 reduced)", c.AzDeg())
	}
	if math.Abs(c.AltDeg()-90) > 1e-9 {
		t.Errorf("alt = %v, want clipped to 90", c.AltDeg())
	}

	for i := 0; i < 30; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	m = finishAnimation(m)
	if got := m.Center().AltDeg(); math.Abs(got-5) > 1e-9 {
		t.Errorf("alt = %v, want clipped to 5", got)
	}

	for i := 0; i < 4; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	}
	m = finishAnimation(m)
	if got := m.Center().AzDeg(); math.Abs(got-325) > 1e-9 {
		t.Errorf("az = %v, want 325", got)
	}
}

func TestSkyView_FOVClips(t *testing.T) {
	m := NewSkyViewModel(astro.MustHorizontalDeg(180, 15), 100)

	m, _ = m.Update(keyRunes("+"))
	if m.FOV() != 90 {
		t.Errorf("FOV = %v, want 90", m.FOV())
	}
	for i := 0; i < 20; i++ {
		m, _ = m.Update(keyRunes("+"))
	}
	if m.FOV() != 30 {
		t.Errorf("FOV = %v, want clipped to 30", m.FOV())
	}
	for i := 0; i < 20; i++ {
		m, _ = m.Update(keyRunes("-"))
	}
	if m.FOV() != 150 {
		t.Errorf("FOV = %v, want clipped to 150", m.FOV())
	}

	if got := NewSkyViewModel(astro.MustHorizontalDeg(0, 0), 10); got.FOV() != 30 || math.Abs(got.Center().AltDeg()-5) > 1e-9 {
		t.Errorf("constructor should clip: fov=%v alt=%v", got.FOV(), got.Center().AltDeg())
	}
}

func TestSkyView_PlaneCellRoundTrip(t *testing.T) {
	center := astro.MustHorizontalDeg(180, 30)
	m := NewSkyViewModel(center, 90).SetSize(120, 44).SetSky(testSky(t, center))
	w, h := m.canvasSize()

	x, y, ok := m.planeToCell(astro.Cartesian{}, w, h)
	if !ok || x != w/2 || y != h/2 {
		t.Errorf("origin -> (%d, %d, %v), want canvas center (%d, %d)", x, y, ok, w/2, h/2)
	}

	// The field of view spans the canvas width.
	half := m.sky.Projection().ApplyToAngle(math.Pi/2) / 2
	if x, _, _ := m.planeToCell(astro.Cartesian{X: half}, w, h); x != w {
		t.Errorf("right edge of the fov -> column %d, want %d", x, w)
	}

	for _, cell := range [][2]int{{0, 0}, {10, 5}, {w - 1, h - 1}, {w / 2, 3}} {
		p := m.cellToPlane(cell[0], cell[1], w, h)
		x, y, ok := m.planeToCell(p, w, h)
		if !ok || x != cell[0] || y != cell[1] {
			t.Errorf("round trip of %v = (%d, %d, %v)", cell, x, y, ok)
		}
	}
}

func TestSkyView_HoverAndPick(t *testing.T) {
	probe := testSky(t, astro.MustHorizontalDeg(180, 30))
	sunHor := probe.Horizontal(probe.Sun())

	// Center the projection on the Sun so that it sits under the cursor.
	m := NewSkyViewModel(astro.MustHorizontalDeg(180, 30), 60).SetSize(120, 44).SetSky(testSky(t, sunHor))

	o, ok := m.hovered()
	if !ok || o.Kind() != body.KindSun {
		t.Fatalf("hovered = %v, %v; want the Sun", o, ok)
	}
	if !strings.Contains(m.renderStatus(), "Sun") {
		t.Errorf("status should describe the hovered object: %q", m.renderStatus())
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || !m.Animating() {
		t.Error("picking should swing the camera")
	}
	if sel, ok := m.Selected(); !ok || sel.Kind() != body.KindSun {
		t.Errorf("selected = %v, want the Sun", sel)
	}
	m = finishAnimation(m)
	if got, want := m.Center().AzDeg(), sunHor.AzDeg(); math.Abs(got-want) > 1e-6 {
		t.Errorf("camera az = %v, want %v", got, want)
	}
}

func TestSkyView_CursorStaysOnCanvas(t *testing.T) {
	m := NewSkyViewModel(astro.MustHorizontalDeg(180, 30), 90).SetSize(40, 14)
	w, h := m.canvasSize()
	for i := 0; i < 100; i++ {
		m, _ = m.Update(keyRunes("d"))
		m, _ = m.Update(keyRunes("s"))
	}
	if w/2+m.cursorX != w-1 || h/2+m.cursorY != h-1 {
		t.Errorf("cursor = (%d, %d), want the bottom-right cell", m.cursorX, m.cursorY)
	}
	m, _ = m.Update(keyRunes("x"))
	if m.cursorX != 0 || m.cursorY != 0 {
		t.Error("x should recenter the cursor")
	}
}

func TestSkyView_CanvasShowsHorizonAndOctants(t *testing.T) {
	center := astro.MustHorizontalDeg(180, 5)
	m := NewSkyViewModel(center, 150).SetSize(160, 44).SetSky(testSky(t, center))
	w, h := m.canvasSize()

	out := m.renderSkyCanvas(w, h).plain()
	if !strings.ContainsRune(out, glyphHorizon) {
		t.Error("horizon circle should be drawn")
	}
	if !strings.Contains(out, "S") {
		t.Error("south octant label should be visible looking south")
	}
	if strings.Contains(out, "NE") {
		t.Error("north-east lies behind the viewer")
	}

	view := m.View()
	if !strings.Contains(view, "Sky View") || !strings.Contains(view, "FOV:150°") {
		t.Errorf("header missing from view")
	}
}

func TestSkyView_SmallTerminal(t *testing.T) {
	m := NewSkyViewModel(astro.MustHorizontalDeg(180, 30), 90).SetSize(10, 5)
	if got := m.View(); got != "Sky view requires larger terminal" {
		t.Errorf("View = %q", got)
	}
}

func TestStarGlyph(t *testing.T) {
	tests := []struct {
		mag       float64
		tempK     int
		wantGlyph rune
	}{
		{-1.46, 9940, glyphStarBright},
		{2.0, 5800, glyphStarMedium},
		{3.5, 4000, glyphStarDim},
		{5.0, 3000, glyphStarVeryDim},
	}
	for _, tt := range tests {
		glyph, color := starGlyph(tt.mag, tt.tempK)
		if glyph != tt.wantGlyph {
			t.Errorf("starGlyph(%v) glyph = %q, want %q", tt.mag, glyph, tt.wantGlyph)
		}
		if tt.mag >= 4 && color != colorStarFaint {
			t.Errorf("faint stars should be gray, got %v", color)
		}
	}

	if temperatureColor(3000) == temperatureColor(20000) {
		t.Error("cool and hot stars should differ in color")
	}
}

func TestCanvas_LineAndDisk(t *testing.T) {
	c := newCanvas(10, 5)
	c.set(3, 0, 'X', "1")
	c.line(0, 0, 9, 0, '-', "2")
	if got := strings.Split(c.plain(), "\n")[0]; got != "---X------" {
		t.Errorf("line = %q, want it to skip occupied cells", got)
	}

	// Endpoints off the canvas are clipped.
	c.line(-5, 2, 20, 2, '=', "2")
	if got := strings.Split(c.plain(), "\n")[2]; got != "==========" {
		t.Errorf("clipped line = %q", got)
	}

	d := newCanvas(11, 5)
	d.disk(5, 2, 0.4, cellAspect, 'o', "3")
	if strings.Count(d.plain(), "o") != 1 {
		t.Error("sub-cell disks are a single rune")
	}
	d.disk(5, 2, 4, cellAspect, 'O', "3")
	if n := strings.Count(d.plain(), "O"); n < 9 {
		t.Errorf("large disk filled %d cells", n)
	}
}

func TestRenderAltitudeBar(t *testing.T) {
	tests := []struct {
		name       string
		altDeg     float64
		width      int
		wantFilled int
	}{
		{"horizon", 0, 10, 0},
		{"zenith", 90, 10, 10},
		{"half", 45, 10, 5},
		{"below", -20, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := renderAltitudeBar(tt.altDeg, tt.width)
			if !strings.HasPrefix(bar, "[") || !strings.HasSuffix(bar, "]") {
				t.Errorf("bar should have brackets, got %q", bar)
			}
			if got := strings.Count(bar, "█"); got != tt.wantFilled {
				t.Errorf("filled count = %d, want %d", got, tt.wantFilled)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Betelgeuse", 6); got != "Bet..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("Moon (50.0%)", 20); got != "Moon (50.0%)" {
		t.Errorf("truncate = %q", got)
	}
}
