package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sky/internal/state"
)

// maxEventsShown bounds the events kept by the events view.
const maxEventsShown = 50

var eventColors = map[state.EventType]lipgloss.Color{
	state.EventTimeChanged:     "39",
	state.EventLocationChanged: "46",
	state.EventViewChanged:     "135",
	state.EventBuildFailed:     "196",
}

// EventsModel lists the state manager's recent events, newest first.
type EventsModel struct {
	width  int
	height int
	events []state.Event
}

// NewEventsModel creates a new events model.
func NewEventsModel() EventsModel {
	return EventsModel{}
}

// SetSize updates the viewport size.
func (m EventsModel) SetSize(width, height int) EventsModel {
	m.width = width
	m.height = height
	return m
}

// SetEvents replaces the listed events, given oldest first.
func (m EventsModel) SetEvents(events []state.Event) EventsModel {
	m.events = events
	return m
}

// Update handles messages.
func (m EventsModel) Update(tea.Msg) (EventsModel, tea.Cmd) {
	return m, nil
}

// View renders the event log.
func (m EventsModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Events"))
	b.WriteString("\n")

	if len(m.events) == 0 {
		b.WriteString("  No events yet\n")
		return b.String()
	}

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	maxRows := max(m.height-2, 1)
	for i := len(m.events) - 1; i >= 0 && len(m.events)-i <= maxRows; i-- {
		e := m.events[i]
		typeStyle := lipgloss.NewStyle().Foreground(eventColors[e.Type]).Bold(true)
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			dimStyle.Render(e.Timestamp.Format("15:04:05")),
			typeStyle.Render(fmt.Sprintf("%-16s", e.Type)),
			rowStyle.Render(e.Detail)))
	}

	return b.String()
}
