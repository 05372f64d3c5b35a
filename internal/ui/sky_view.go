package ui

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/body"
	"github.com/litescript/ls-sky/internal/skymath"
	"github.com/litescript/ls-sky/internal/sky"
	"github.com/litescript/ls-sky/internal/state"
)

const (
	// Camera steps, in degrees
	azStepDeg  = 10.0
	altStepDeg = 5.0
	fovStepDeg = 10.0

	// Animation
	animDuration  = 400 * time.Millisecond
	animFrameRate = 30 * time.Millisecond

	// Terminal cells are roughly twice as tall as they are wide.
	cellAspect = 0.5

	// Cursor hit radius, in columns
	pickRadiusCells = 2.0

	// Octant labels sit just below the horizon.
	octantLabelAltDeg = -0.5

	// Body glyphs
	glyphSun    = '☼'
	glyphMoon   = '☾'
	glyphPlanet = '◆'

	// Star glyphs by magnitude
	glyphStarBright  = '✶' // mag < 1.5
	glyphStarMedium  = '✸' // mag 1.5-3.0
	glyphStarDim     = '•' // mag 3.0-4.0
	glyphStarVeryDim = '·' // mag > 4.0

	glyphAsterism = '·'
	glyphHorizon  = '─'

	colorBackground = "236"
	colorSun        = "226"
	colorMoon       = "254"
	colorPlanet     = "#d0c8ff"
	colorSelected   = "229" // bright gold
	colorAsterism   = "60"  // muted purple
	colorHorizon    = "60"
	colorOctant     = "252"
	colorLabel      = "146"
	colorStarFaint  = "240"
)

var (
	altInterval = skymath.MustClosed(5, 90)
	azInterval  = skymath.MustRightOpen(0, 360)
	magInterval = skymath.MustClosed(-2, 5)

	// Reference size for magnitude-scaled disks
	refDiskAngle = skymath.OfDeg(0.5)
)

// LabelMode controls which objects are labelled.
type LabelMode int

const (
	LabelNone        LabelMode = iota // No labels
	LabelSolarSystem                  // Sun, Moon and planets
	LabelAll                          // Solar system plus named stars
)

func (l LabelMode) String() string {
	switch l {
	case LabelSolarSystem:
		return "solar system"
	case LabelAll:
		return "all"
	default:
		return "off"
	}
}

// SkyViewModel renders an observed sky around a camera direction and lets
// the user pan, zoom and point at objects.
type SkyViewModel struct {
	width  int
	height int

	// Camera position (center of view), degrees
	camAz  float64
	camAlt float64
	fovDeg float64

	// Animation state
	animating    bool
	animStartAz  float64
	animStartAlt float64
	animTargAz   float64
	animTargAlt  float64
	animStart    time.Time

	// Cursor offset from the canvas center, in cells
	cursorX int
	cursorY int

	// Focus cycles through the solar system bodies above the horizon.
	focusIdx int

	labelMode     LabelMode
	showAsterisms bool

	sky      *sky.ObservedSky
	selected body.Object
}

// NewSkyViewModel creates a sky view looking at center.
func NewSkyViewModel(center astro.Horizontal, fovDeg float64) SkyViewModel {
	return SkyViewModel{
		camAz:         center.AzDeg(),
		camAlt:        altInterval.Clip(center.AltDeg()),
		fovDeg:        state.FOVInterval.Clip(fovDeg),
		labelMode:     LabelSolarSystem,
		showAsterisms: true,
	}
}

// SetSize updates the viewport size.
func (m SkyViewModel) SetSize(width, height int) SkyViewModel {
	m.width = width
	m.height = height
	return m
}

// SetSky replaces the rendered snapshot.
func (m SkyViewModel) SetSky(s *sky.ObservedSky) SkyViewModel {
	m.sky = s
	return m
}

// Center returns the current camera direction.
func (m SkyViewModel) Center() astro.Horizontal {
	return astro.MustHorizontalDeg(azInterval.Reduce(m.camAz), altInterval.Clip(m.camAlt))
}

// FOV returns the horizontal field of view in degrees.
func (m SkyViewModel) FOV() float64 { return m.fovDeg }

// Animating reports whether the camera is moving.
func (m SkyViewModel) Animating() bool { return m.animating }

// Selected returns the object last picked with the cursor.
func (m SkyViewModel) Selected() (body.Object, bool) { return m.selected, m.selected != nil }

// animTickMsg is sent during animation
type animTickMsg time.Time

func animTick() tea.Cmd {
	return tea.Tick(animFrameRate, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

// Update handles messages.
func (m SkyViewModel) Update(msg tea.Msg) (SkyViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left":
			return m.pan(-azStepDeg, 0)
		case "right":
			return m.pan(azStepDeg, 0)
		case "up":
			return m.pan(0, altStepDeg)
		case "down":
			return m.pan(0, -altStepDeg)
		case "+", "=":
			m.fovDeg = state.FOVInterval.Clip(m.fovDeg - fovStepDeg)
		case "-", "_":
			m.fovDeg = state.FOVInterval.Clip(m.fovDeg + fovStepDeg)
		case "w":
			m = m.moveCursor(0, -1)
		case "s":
			m = m.moveCursor(0, 1)
		case "a":
			m = m.moveCursor(-1, 0)
		case "d":
			m = m.moveCursor(1, 0)
		case "x":
			m.cursorX, m.cursorY = 0, 0
		case "enter":
			return m.pick()
		case "j":
			return m.focusNext()
		case "k":
			return m.focusPrev()
		case "l":
			m = m.cycleLabelMode()
		case "c":
			m.showAsterisms = !m.showAsterisms
		}

	case animTickMsg:
		if m.animating {
			return m.updateAnimation()
		}
	}

	return m, nil
}

func (m SkyViewModel) cycleLabelMode() SkyViewModel {
	m.labelMode = (m.labelMode + 1) % 3
	return m
}

// pan moves the camera target by the given steps. Repeated presses during
// an animation accumulate on the target.
func (m SkyViewModel) pan(dAz, dAlt float64) (SkyViewModel, tea.Cmd) {
	az, alt := m.camAz, m.camAlt
	if m.animating {
		az, alt = m.animTargAz, m.animTargAlt
	}
	return m.startAnimation(azInterval.Reduce(az+dAz), altInterval.Clip(alt+dAlt))
}

func (m SkyViewModel) moveCursor(dx, dy int) SkyViewModel {
	w, h := m.canvasSize()
	x, y := m.cursorX+dx, m.cursorY+dy
	if w/2+x >= 0 && w/2+x < w {
		m.cursorX = x
	}
	if h/2+y >= 0 && h/2+y < h {
		m.cursorY = y
	}
	return m
}

// focusTargets lists the Sun, the Moon and the planets above the horizon.
func (m SkyViewModel) focusTargets() []body.Object {
	if m.sky == nil {
		return nil
	}
	all := []body.Object{m.sky.Sun(), m.sky.Moon()}
	for _, p := range m.sky.Planets() {
		all = append(all, p)
	}
	targets := all[:0]
	for _, o := range all {
		if m.sky.Horizontal(o).Alt() >= 0 {
			targets = append(targets, o)
		}
	}
	return targets
}

func (m SkyViewModel) focusNext() (SkyViewModel, tea.Cmd) {
	targets := m.focusTargets()
	if len(targets) == 0 {
		return m, nil
	}
	m.focusIdx = (m.focusIdx + 1) % len(targets)
	return m.focusOn(targets[m.focusIdx])
}

func (m SkyViewModel) focusPrev() (SkyViewModel, tea.Cmd) {
	targets := m.focusTargets()
	if len(targets) == 0 {
		return m, nil
	}
	m.focusIdx--
	if m.focusIdx < 0 || m.focusIdx >= len(targets) {
		m.focusIdx = len(targets) - 1
	}
	return m.focusOn(targets[m.focusIdx])
}

// focusOn selects o and swings the camera onto it.
func (m SkyViewModel) focusOn(o body.Object) (SkyViewModel, tea.Cmd) {
	m.selected = o
	m.cursorX, m.cursorY = 0, 0
	h := m.sky.Horizontal(o)
	return m.startAnimation(h.AzDeg(), altInterval.Clip(h.AltDeg()))
}

// pick selects the object under the cursor and centers the camera on it.
func (m SkyViewModel) pick() (SkyViewModel, tea.Cmd) {
	o, ok := m.hovered()
	if !ok {
		m.selected = nil
		return m, nil
	}
	return m.focusOn(o)
}

// hovered returns the object under the cursor, if any.
func (m SkyViewModel) hovered() (body.Object, bool) {
	if m.sky == nil {
		return nil, false
	}
	w, h := m.canvasSize()
	if w <= 0 || h <= 0 {
		return nil, false
	}
	scale := m.scale(w)
	p := m.cellToPlane(w/2+m.cursorX, h/2+m.cursorY, w, h)
	return m.sky.ObjectClosestTo(p, pickRadiusCells/scale)
}

func (m SkyViewModel) startAnimation(az, alt float64) (SkyViewModel, tea.Cmd) {
	m.animating = true
	m.animStartAz = m.camAz
	m.animStartAlt = m.camAlt
	m.animTargAz = az
	m.animTargAlt = alt
	m.animStart = time.Now()

	return m, animTick()
}

func (m SkyViewModel) updateAnimation() (SkyViewModel, tea.Cmd) {
	elapsed := time.Since(m.animStart)
	t := float64(elapsed) / float64(animDuration)

	if t >= 1.0 {
		// Animation complete
		m.animating = false
		m.camAz = azInterval.Reduce(m.animTargAz)
		m.camAlt = m.animTargAlt
		return m, nil
	}

	// Ease-out cubic
	t = 1 - math.Pow(1-t, 3)

	// Interpolate azimuth with wrap-around handling
	m.camAz = azInterval.Reduce(lerpAngle(m.animStartAz, m.animTargAz, t))
	m.camAlt = lerp(m.animStartAlt, m.animTargAlt, t)

	return m, animTick()
}

// View renders the sky view.
func (m SkyViewModel) View() string {
	if m.width < 20 || m.height < 10 {
		return "Sky view requires larger terminal"
	}
	if m.sky == nil {
		return "Computing sky..."
	}

	w, h := m.canvasSize()

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderSkyCanvas(w, h).String())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())

	return b.String()
}

// canvasSize reserves lines for the header and the two status lines.
func (m SkyViewModel) canvasSize() (int, int) {
	return m.width, m.height - 4
}

func (m SkyViewModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135")) // violet
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))               // muted purple
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorPlanet))     // soft purple

	title := titleStyle.Render("Sky View")

	labelStr := dimStyle.Render("Labels: off")
	if m.labelMode != LabelNone {
		labelStr = accentStyle.Render("Labels: " + m.labelMode.String())
	}

	asterismStr := dimStyle.Render("Asterisms: off")
	if m.showAsterisms {
		asterismStr = accentStyle.Render("Asterisms: on")
	}

	compass := dimStyle.Render(fmt.Sprintf("Az:%.0f° Alt:%.0f° FOV:%.0f°", m.camAz, m.camAlt, m.fovDeg))

	return fmt.Sprintf("%s | %s | %s | %s", title, labelStr, asterismStr, compass)
}

func (m SkyViewModel) renderStatus() string {
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorSelected))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorPlanet))

	o, ok := m.hovered()
	prefix := "cursor"
	if !ok {
		o, ok = m.Selected()
		prefix = "selected"
	}
	if !ok {
		return dimStyle.Render("Nothing under the cursor") + "\n"
	}

	hor := m.sky.Horizontal(o)
	line1 := fmt.Sprintf(">>> %s: %s | mag %.2f", prefix, o.Info(), o.Magnitude())
	if star, isStar := o.(body.Star); isStar {
		line1 += fmt.Sprintf(" | HIP %d | %dK", star.HipparcosID(), star.ColorTemperature())
	}
	line2 := fmt.Sprintf("    %s | %s", hor.Sexagesimal(0), o.Equatorial().Sexagesimal(0))

	return accentStyle.Render(line1) + "\n" + dimStyle.Render(line2)
}

// scale converts plane distances to columns: the field of view spans the
// canvas width.
func (m SkyViewModel) scale(width int) float64 {
	return float64(width) / m.sky.Projection().ApplyToAngle(skymath.OfDeg(m.fovDeg))
}

// planeToCell maps a plane point to a canvas cell. The plane origin sits at
// the canvas center and y grows upwards.
func (m SkyViewModel) planeToCell(p astro.Cartesian, width, height int) (int, int, bool) {
	s := m.scale(width)
	x := int(math.Round(float64(width/2) + p.X*s))
	y := int(math.Round(float64(height/2) - p.Y*s*cellAspect))
	return x, y, x >= 0 && x < width && y >= 0 && y < height
}

// cellToPlane is the inverse of planeToCell for cell centers.
func (m SkyViewModel) cellToPlane(x, y, width, height int) astro.Cartesian {
	s := m.scale(width)
	return astro.Cartesian{
		X: float64(x-width/2) / s,
		Y: float64(height/2-y) / (s * cellAspect),
	}
}

// labelPos tracks a drawn object for label rendering
type labelPos struct {
	x, y     int
	name     string
	selected bool
}

func (m SkyViewModel) renderSkyCanvas(width, height int) *canvas {
	c := newCanvas(width, height)
	s := m.sky

	m.drawHorizon(c)

	if m.showAsterisms {
		m.drawAsterisms(c)
	}

	var labels []labelPos
	addLabel := func(o body.Object, x, y int) {
		labels = append(labels, labelPos{x: x, y: y, name: o.Name(), selected: m.isSelected(o)})
	}

	// Stars, faintest first so that bright ones win shared cells
	stars := s.Stars()
	order := make([]int, len(stars))
	for i := range order {
		order[i] = i
	}
	sortByMagnitudeDesc(order, stars)
	for _, i := range order {
		star := stars[i]
		if s.Horizontal(star).Alt() < 0 {
			continue
		}
		x, y, ok := m.planeToCell(s.StarPosition(i), width, height)
		if !ok {
			continue
		}
		glyph, color := starGlyph(star.Magnitude(), star.ColorTemperature())
		c.set(x, y, glyph, color)
		if m.labelMode == LabelAll && star.Name() != "" {
			addLabel(star, x, y)
		}
	}

	// Planets, then the Moon and the Sun on top
	proj := s.Projection()
	for i, p := range s.Planets() {
		if x, y, ok := m.drawBody(c, p, s.PlanetPosition(i), m.diskDiameter(p.Magnitude()), glyphPlanet, colorPlanet); ok && m.labelMode != LabelNone {
			addLabel(p, x, y)
		}
	}
	moon := s.Moon()
	if x, y, ok := m.drawBody(c, moon, s.MoonPosition(), proj.ApplyToAngle(moon.AngularSize()), glyphMoon, colorMoon); ok && m.labelMode != LabelNone {
		addLabel(moon, x, y)
	}
	sun := s.Sun()
	if x, y, ok := m.drawBody(c, sun, s.SunPosition(), proj.ApplyToAngle(sun.AngularSize()), glyphSun, colorSun); ok && m.labelMode != LabelNone {
		addLabel(sun, x, y)
	}

	m.renderLabels(c, labels)
	m.drawOctants(c)
	m.drawCursor(c)

	return c
}

// drawBody draws o as a disk of the given plane diameter.
func (m SkyViewModel) drawBody(c *canvas, o body.Object, p astro.Cartesian, diameter float64, glyph rune, color lipgloss.Color) (int, int, bool) {
	if m.sky.Horizontal(o).Alt() < 0 {
		return 0, 0, false
	}
	x, y, ok := m.planeToCell(p, c.w, c.h)
	if !ok {
		return 0, 0, false
	}
	if m.isSelected(o) {
		color = colorSelected
	}
	c.disk(x, y, diameter*m.scale(c.w)/2, cellAspect, glyph, color)
	return x, y, true
}

// diskDiameter returns the plane diameter of a star or planet of magnitude
// mag, relative to a 0.5° object.
func (m SkyViewModel) diskDiameter(mag float64) float64 {
	f := (99 - 17*magInterval.Clip(mag)) / 140
	return f * m.sky.Projection().ApplyToAngle(refDiskAngle)
}

func (m SkyViewModel) isSelected(o body.Object) bool {
	return m.selected != nil && o.Kind() == m.selected.Kind() && o.Name() == m.selected.Name()
}

// drawHorizon traces the image of the altitude-zero parallel, a circle on
// the plane.
func (m SkyViewModel) drawHorizon(c *canvas) {
	proj := m.sky.Projection()
	horizon := astro.MustHorizontalDeg(0, 0)
	center := proj.CircleCenterForParallel(horizon)
	radius := proj.CircleRadiusForParallel(horizon)

	steps := 8 * (c.w + c.h)
	for i := 0; i < steps; i++ {
		a := skymath.Tau * float64(i) / float64(steps)
		p := astro.Cartesian{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)}
		if x, y, ok := m.planeToCell(p, c.w, c.h); ok {
			c.set(x, y, glyphHorizon, colorHorizon)
		}
	}
}

// drawOctants writes the eight compass points just below the horizon.
func (m SkyViewModel) drawOctants(c *canvas) {
	proj := m.sky.Projection()
	for i := 0; i < 8; i++ {
		h := astro.MustHorizontalDeg(float64(i)*45, octantLabelAltDeg)
		x, y, ok := m.planeToCell(proj.Apply(h), c.w, c.h)
		if !ok {
			continue
		}
		name := h.AzOctantName("N", "E", "S", "W")
		c.text(x-len(name)/2, y, name, colorOctant)
	}
}

// drawAsterisms joins consecutive asterism stars. A segment is drawn when
// at least one of its ends is visible.
func (m SkyViewModel) drawAsterisms(c *canvas) {
	s := m.sky
	cat := s.Catalogue()
	for a := 0; a < cat.NumAsterisms(); a++ {
		idx := cat.AsterismIndices(a)
		for k := 1; k < len(idx); k++ {
			i, j := idx[k-1], idx[k]
			x0, y0, ok0 := m.planeToCell(s.StarPosition(i), c.w, c.h)
			x1, y1, ok1 := m.planeToCell(s.StarPosition(j), c.w, c.h)
			vis0 := ok0 && s.Horizontal(cat.Star(i)).Alt() >= 0
			vis1 := ok1 && s.Horizontal(cat.Star(j)).Alt() >= 0
			if !vis0 && !vis1 {
				continue
			}
			c.line(x0, y0, x1, y1, glyphAsterism, colorAsterism)
		}
	}
}

func (m SkyViewModel) drawCursor(c *canvas) {
	x, y := c.w/2+m.cursorX, c.h/2+m.cursorY
	c.setIfBlank(x-1, y, '[', colorSelected)
	c.setIfBlank(x+1, y, ']', colorSelected)
	c.setIfBlank(x, y, '+', colorSelected)
}

// renderLabels draws labels to the right of their objects. The selected
// object's label is placed first; other labels are skipped where they would
// cover something already drawn.
func (m SkyViewModel) renderLabels(c *canvas, labels []labelPos) {
	for _, l := range labels {
		if l.selected {
			c.text(l.x+2, l.y, "◄ "+l.name, colorSelected)
		}
	}
	for _, l := range labels {
		if !l.selected {
			c.textIfBlank(l.x+2, l.y, l.name, colorLabel)
		}
	}
}

// starGlyph returns the glyph for a star's magnitude and a color for its
// temperature. Faint stars stay gray.
func starGlyph(mag float64, tempK int) (rune, lipgloss.Color) {
	var glyph rune
	switch {
	case mag < 1.5:
		glyph = glyphStarBright
	case mag < 3.0:
		glyph = glyphStarMedium
	case mag < 4.0:
		glyph = glyphStarDim
	default:
		return glyphStarVeryDim, colorStarFaint
	}
	return glyph, temperatureColor(tempK)
}

// temperatureColor approximates the tint of a black body at tempK.
func temperatureColor(tempK int) lipgloss.Color {
	switch {
	case tempK < 3500:
		return "#ffb56c"
	case tempK < 5000:
		return "#ffd2a1"
	case tempK < 6000:
		return "#fff4e8"
	case tempK < 7500:
		return "#f8f7ff"
	case tempK < 10000:
		return "#cad7ff"
	default:
		return "#9bb0ff"
	}
}

func sortByMagnitudeDesc(order []int, stars []body.Star) {
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(stars[b].Magnitude(), stars[a].Magnitude())
	})
}

// normalizeAngle wraps angle to -180..+180 range
func normalizeAngle(a float64) float64 {
	for a > 180 {
		a -= 360
	}
	for a < -180 {
		a += 360
	}
	return a
}

// lerpAngle interpolates between angles, taking shortest path
func lerpAngle(a, b, t float64) float64 {
	diff := normalizeAngle(b - a)
	return a + diff*t
}

// lerp linear interpolation
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Init returns nil cmd
func (m SkyViewModel) Init() tea.Cmd {
	return nil
}
