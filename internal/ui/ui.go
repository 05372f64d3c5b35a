// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sky/internal/logging"
	"github.com/litescript/ls-sky/internal/sky"
	"github.com/litescript/ls-sky/internal/state"
	"github.com/litescript/ls-sky/internal/timeaccel"
	"github.com/litescript/ls-sky/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewSky ViewMode = iota
	ViewPositions
	ViewEvents
	numViews
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast updates while time runs.
	AnimTickMsg time.Time
)

// timeStep is the manual time step of the t/T keys.
const timeStep = time.Hour

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state  *state.Manager
	logger *logging.Logger

	// Simulated time
	animator *timeaccel.Animator
	accelIdx int

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int // Animation tick for the spinner

	// Sub-models
	skyView   SkyViewModel
	positions PositionsModel
	events    EventsModel

	// Current snapshot and the error of the last refresh
	sky     *sky.ObservedSky
	lastErr error
}

// New creates the root model over mgr. accel names the initial time
// accelerator; unknown names fall back to the first one.
func New(mgr *state.Manager, accel string, logger *logging.Logger) Model {
	if logger == nil {
		logger = logging.Discard()
	}
	accelIdx := 0
	for i, n := range timeaccel.All {
		if strings.EqualFold(n.Name, accel) {
			accelIdx = i
		}
	}

	p := mgr.Params()
	m := Model{
		state:     mgr,
		logger:    logger.WithPrefix("ui"),
		animator:  timeaccel.NewAnimator(timeaccel.All[accelIdx]),
		accelIdx:  accelIdx,
		viewMode:  ViewSky,
		skyView:   NewSkyViewModel(p.Center, p.FOVDeg),
		positions: NewPositionsModel(),
		events:    NewEventsModel(),
	}
	m.refresh(time.Now())
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	now := time.Now()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1":
			m.viewMode = ViewSky
		case "2":
			m.viewMode = ViewPositions
		case "3":
			m.viewMode = ViewEvents
		case "tab":
			// Cycle through views
			m.viewMode = (m.viewMode + 1) % numViews

		case " ":
			m.toggleTime(now)
		case "]":
			m.setAccelerator((m.accelIdx+1)%len(timeaccel.All), now)
		case "[":
			m.setAccelerator((m.accelIdx+len(timeaccel.All)-1)%len(timeaccel.All), now)
		case "t":
			m.stepTime(timeStep, now)
		case "T":
			m.stepTime(-timeStep, now)
		case "n":
			m.resetTime(now)

		default:
			// Pass to active view
			cmds = append(cmds, m.updateActiveView(msg))
		}
		m.refresh(now)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo takes ~10 lines, tabs and footer ~4
		contentHeight := msg.Height - 14
		m.skyView = m.skyView.SetSize(msg.Width, contentHeight)
		m.positions = m.positions.SetSize(msg.Width, contentHeight)
		m.events = m.events.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		m.refresh(now)

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		if m.animator.Running() {
			m.animTick++
			m.refresh(now)
		}

	default:
		cmds = append(cmds, m.updateActiveView(msg))
		m.refresh(now)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewSky:
		m.skyView, cmd = m.skyView.Update(msg)
	case ViewPositions:
		m.positions, cmd = m.positions.Update(msg)
	case ViewEvents:
		m.events, cmd = m.events.Update(msg)
	}
	// Camera animation frames arrive while other views are active.
	if _, ok := msg.(animTickMsg); ok && m.viewMode != ViewSky {
		m.skyView, cmd = m.skyView.Update(msg)
	}
	return cmd
}

// simTime returns the simulated instant at real time now.
func (m *Model) simTime(now time.Time) time.Time {
	if m.animator.Running() {
		return m.animator.Now(now)
	}
	return m.state.Params().When
}

func (m *Model) toggleTime(now time.Time) {
	if m.animator.Running() {
		sim := m.animator.Now(now)
		m.animator.Stop()
		m.setTime(sim)
		return
	}
	m.animator.Start(m.state.Params().When, now)
	m.statusMsg = ""
}

func (m *Model) setAccelerator(i int, now time.Time) {
	m.accelIdx = i
	m.animator.SetAccelerator(timeaccel.All[i], now)
	m.logger.Debug("accelerator %s", timeaccel.All[i].Name)
}

// stepTime moves simulated time by d, keeping the animation running if it
// was.
func (m *Model) stepTime(d time.Duration, now time.Time) {
	running := m.animator.Running()
	sim := m.simTime(now).Add(d)
	if !m.setTime(sim) {
		return
	}
	if running {
		m.animator.Start(sim, now)
	}
}

// resetTime stops the animation and returns to the real current time.
func (m *Model) resetTime(now time.Time) {
	m.animator.Stop()
	m.setTime(now)
}

// setTime commits sim to the state manager and reports success.
func (m *Model) setTime(sim time.Time) bool {
	if err := m.state.SetTime(sim); err != nil {
		m.statusMsg = err.Error()
		m.logger.Warn("set time: %v", err)
		return false
	}
	return true
}

// refresh fetches the snapshot for the simulated time and the camera. The
// camera and field of view are committed to the manager once the camera
// settles; a running animation only commits time when it stops.
func (m *Model) refresh(now time.Time) {
	p := m.state.Params()
	p.When = m.simTime(now)
	p.Center = m.skyView.Center()
	p.FOVDeg = m.skyView.FOV()

	s, err := m.state.SkyAt(p)
	if err != nil {
		m.lastErr = err
		if errors.Is(err, sky.ErrUnsupportedInstant) && m.animator.Running() {
			m.animator.Stop()
			m.statusMsg = "Time stopped at the edge of the supported range"
		}
		m.logger.Warn("refresh: %v", err)
		return
	}
	m.lastErr = nil
	m.sky = s
	m.skyView = m.skyView.SetSky(s)
	m.positions = m.positions.SetSky(s)
	m.events = m.events.SetEvents(m.state.RecentEvents(maxEventsShown))

	cur := m.state.Params()
	if !m.skyView.Animating() && cur.Center != p.Center {
		m.state.SetCenter(p.Center)
	}
	if cur.FOVDeg != p.FOVDeg {
		m.state.SetFOV(p.FOVDeg)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewSky:
		content = m.skyView.View()
	case ViewPositions:
		content = m.positions.View()
	case ViewEvents:
		content = m.events.View()
	}

	return m.renderFrame(content)
}

func (m Model) renderFrame(content string) string {
	header := m.renderHeader()
	footer := m.renderFooter()

	return header + "\n" + content + "\n" + footer
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

var logo = []string{
	`  ██╗     ███████╗      ███████╗██╗  ██╗██╗   ██╗`,
	`  ██║     ██╔════╝      ██╔════╝██║ ██╔╝╚██╗ ██╔╝`,
	`  ██║     ███████╗█████╗███████╗█████╔╝  ╚████╔╝ `,
	`  ██║     ╚════██║╚════╝╚════██║██╔═██╗   ╚██╔╝  `,
	`  ███████╗███████║      ███████║██║  ██╗   ██║   `,
	`  ╚══════╝╚══════╝      ╚══════╝╚═╝  ╚═╝   ╚═╝   `,
}

func (m Model) renderLogo() string {
	var b strings.Builder
	b.WriteString("\n")

	// Render each line with a horizontal truecolor gradient
	for row, line := range logo {
		runes := []rune(line)
		for col, r := range runes {
			color := gradientColor(float64(col)/float64(len(runes)), float64(row)/float64(len(logo)))
			style := lipgloss.NewStyle().Foreground(color)
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render("  Sun · Moon · Planets · Stars"))
	b.WriteString("\n")
	b.WriteString(muted.Render(fmt.Sprintf("  (c) 2025 litescript.net | v%s", version.Version)))
	b.WriteString("\n\n")

	return b.String()
}

// gradientStops run from deep blue through violet to dawn pink.
var gradientStops = [][3]float64{
	{30, 58, 138},
	{91, 33, 182},
	{192, 38, 211},
	{244, 114, 182},
}

// gradientColor returns the logo color at horizontal position x and
// vertical position y, both in [0, 1). Lines fade toward the bottom.
func gradientColor(x, y float64) lipgloss.Color {
	seg := x * float64(len(gradientStops)-1)
	i := min(int(seg), len(gradientStops)-2)
	t := seg - float64(i)
	a, b := gradientStops[i], gradientStops[i+1]

	fade := 1.0 - 0.5*y
	var rgb [3]int
	for k := range rgb {
		rgb[k] = max(0, min(255, int(lerp(a[k], b[k], t)*fade)))
	}
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", rgb[0], rgb[1], rgb[2]))
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Sky", "[2] Positions", "[3] Events"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	// Animated spinner frames
	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

	var status string
	switch {
	case m.lastErr != nil:
		status = errorStyle.Render("ERROR: " + m.lastErr.Error())
	case m.sky == nil:
		status = dimStyle.Render("No sky yet")
	default:
		where := m.sky.Where()
		status = accentStyle.Render(m.sky.When().UTC().Format("2006-01-02 15:04:05 MST")) +
			dimStyle.Render(fmt.Sprintf(" @ %.2f°, %.2f°", where.LonDeg(), where.LatDeg()))
	}

	accel := timeaccel.All[m.accelIdx].Name
	if m.animator.Running() {
		status += "  " + accentStyle.Render(spinnerFrames[m.animTick%len(spinnerFrames)]) + dimStyle.Render(" "+accel)
	} else {
		status += "  " + dimStyle.Render("❚❚ "+accel)
	}

	// View-specific help hints
	var help string
	switch m.viewMode {
	case ViewSky:
		help = dimStyle.Render("arrows: pan | +/-: zoom | wasd: cursor | enter: pick | j/k: focus | l: labels | c: asterisms")
	case ViewPositions:
		help = dimStyle.Render("↑↓: scroll | s: stars")
	default:
		help = dimStyle.Render("tab: switch view")
	}
	timeHelp := dimStyle.Render("space: run | [/]: speed | t/T: ±1h | n: now | q: quit")

	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + help + "\n  " + timeHelp

	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}

	return footer
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}
