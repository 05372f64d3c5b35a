package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sky/internal/body"
	"github.com/litescript/ls-sky/internal/sky"
)

// Styles for the tables
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	belowHorizonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))
)

// brightestStarsShown is the number of star rows in the positions table.
const brightestStarsShown = 15

// PositionsModel tabulates the solar system bodies and the brightest stars
// above the horizon.
type PositionsModel struct {
	width     int
	height    int
	cursor    int
	showStars bool
	sky       *sky.ObservedSky
}

// NewPositionsModel creates a new positions model.
func NewPositionsModel() PositionsModel {
	return PositionsModel{showStars: true}
}

// Init implements the Bubble Tea model interface.
func (m PositionsModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the viewport size.
func (m PositionsModel) SetSize(width, height int) PositionsModel {
	m.width = width
	m.height = height
	return m
}

// SetSky updates the tabulated snapshot.
func (m PositionsModel) SetSky(s *sky.ObservedSky) PositionsModel {
	m.sky = s
	if n := len(m.rows()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	return m
}

// Update handles messages.
func (m PositionsModel) Update(msg tea.Msg) (PositionsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		n := len(m.rows())
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < n-1 {
				m.cursor++
			}
		case "home":
			m.cursor = 0
		case "end":
			if n > 0 {
				m.cursor = n - 1
			}
		case "s":
			m.showStars = !m.showStars
			m.cursor = 0
		}
	}

	return m, nil
}

// rows returns the tabulated objects: solar system first, then stars.
func (m PositionsModel) rows() []body.Object {
	if m.sky == nil {
		return nil
	}
	rows := m.sky.SolarSystem()
	if m.showStars {
		for _, i := range m.sky.BrightestStars(brightestStarsShown) {
			rows = append(rows, m.sky.Catalogue().Star(i))
		}
	}
	return rows
}

// View renders the positions table.
func (m PositionsModel) View() string {
	if m.sky == nil {
		return "Computing sky...\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Positions"))
	b.WriteString("\n")

	header := fmt.Sprintf("%-16s %-7s %-30s %-28s %6s  %s",
		"Object", "Kind", "Equatorial", "Horizontal", "Mag", "Altitude")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	rows := m.rows()

	// Calculate visible rows based on height
	maxRows := max(m.height-4, 5)

	startIdx := 0
	if m.cursor >= maxRows {
		startIdx = m.cursor - maxRows + 1
	}
	endIdx := min(startIdx+maxRows, len(rows))

	for i := startIdx; i < endIdx; i++ {
		o := rows[i]
		hor := m.sky.Horizontal(o)

		row := fmt.Sprintf("%-16s %-7s %-30s %-28s %6.2f  %s",
			truncate(o.Info(), 16),
			o.Kind(),
			o.Equatorial().Sexagesimal(0),
			hor.Sexagesimal(0),
			o.Magnitude(),
			renderAltitudeBar(hor.AltDeg(), 10),
		)

		switch {
		case i == m.cursor:
			b.WriteString(selectedRowStyle.Render(row))
		case hor.Alt() < 0:
			b.WriteString(belowHorizonStyle.Render(row))
		default:
			b.WriteString(rowStyle.Render(row))
		}
		b.WriteString("\n")
	}

	// Scroll indicator
	if len(rows) > maxRows {
		b.WriteString(fmt.Sprintf("\n  Showing %d-%d of %d objects", startIdx+1, endIdx, len(rows)))
	}

	return b.String()
}

// renderAltitudeBar draws altitude over [0°, 90°] as a bar of width cells.
// Bodies below the horizon get an empty red bar.
func renderAltitudeBar(altDeg float64, width int) string {
	filled := min(max(int(altDeg/90*float64(width)), 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	var style lipgloss.Style
	switch {
	case altDeg < 0:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // red
	case altDeg < 10:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("226")) // yellow
	default:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("46")) // green
	}

	return "[" + style.Render(bar) + "]"
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
