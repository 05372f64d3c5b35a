package ui

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/catalog"
	"github.com/litescript/ls-sky/internal/state"
	"github.com/litescript/ls-sky/internal/timeaccel"
)

func newTestModel(t *testing.T) (Model, *state.Manager) {
	t.Helper()
	cat, err := catalog.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	mgr, err := state.NewManager(cat, state.Params{
		When:   testWhen,
		Where:  astro.MustGeographicDeg(6.57, 46.52),
		Center: astro.MustHorizontalDeg(180, 15),
		FOVDeg: 100,
	}, state.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return New(mgr, "300x", nil), mgr
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModel_New(t *testing.T) {
	m, _ := newTestModel(t)

	if m.sky == nil {
		t.Fatal("New should compute the first snapshot")
	}
	if got := timeaccel.All[m.accelIdx].Name; got != "300x" {
		t.Errorf("accelerator = %s, want 300x", got)
	}
	if m.View() != "Initializing..." {
		t.Error("view before the first window size should be a placeholder")
	}

	m = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 60})
	view := m.View()
	for _, want := range []string{"[1] Sky", "Sky View", "2020-02-17 20:15:00 UTC", "300x"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_UnknownAcceleratorFallsBack(t *testing.T) {
	_, mgr := newTestModel(t)
	m := New(mgr, "warp", nil)
	if m.accelIdx != 0 {
		t.Errorf("accelIdx = %d, want 0", m.accelIdx)
	}
}

func TestModel_SwitchViews(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 60})

	m = update(t, m, keyRunes("2"))
	if m.viewMode != ViewPositions || !strings.Contains(m.View(), "Positions") {
		t.Error("2 should show the positions table")
	}
	if !strings.Contains(m.View(), "Moon") {
		t.Error("positions should list the Moon")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.viewMode != ViewEvents {
		t.Errorf("tab: viewMode = %v, want events", m.viewMode)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.viewMode != ViewSky {
		t.Errorf("tab should wrap to the sky view")
	}
}

func TestModel_TimeControls(t *testing.T) {
	m, mgr := newTestModel(t)

	m = update(t, m, keyRunes("t"))
	if got := mgr.Params().When; !got.Equal(testWhen.Add(time.Hour)) {
		t.Errorf("t: When = %v, want +1h", got)
	}
	if !m.sky.When().Equal(testWhen.Add(time.Hour)) {
		t.Error("snapshot should follow the new time")
	}
	m = update(t, m, keyRunes("T"))
	if got := mgr.Params().When; !got.Equal(testWhen) {
		t.Errorf("T: When = %v, want back to start", got)
	}

	m = update(t, m, keyRunes(" "))
	if !m.animator.Running() {
		t.Fatal("space should start time")
	}
	time.Sleep(20 * time.Millisecond)
	m = update(t, m, keyRunes(" "))
	if m.animator.Running() {
		t.Fatal("space should stop time")
	}
	if got := mgr.Params().When; !got.After(testWhen) {
		t.Errorf("stopping should commit the simulated time, got %v", got)
	}

	m = update(t, m, keyRunes("]"))
	if got := timeaccel.All[m.accelIdx].Name; got != "3000x" {
		t.Errorf("] -> %s, want 3000x", got)
	}
	m = update(t, m, keyRunes("["))
	m = update(t, m, keyRunes("["))
	if got := timeaccel.All[m.accelIdx].Name; got != "30x" {
		t.Errorf("[[ -> %s, want 30x", got)
	}

	before := time.Now()
	update(t, m, keyRunes("n"))
	if got := mgr.Params().When; got.Before(before) {
		t.Errorf("n: When = %v, want the current time", got)
	}
}

func TestModel_TimeStepOutOfRange(t *testing.T) {
	m, mgr := newTestModel(t)
	if err := mgr.SetTime(time.Date(2099, 12, 31, 23, 30, 0, 0, time.UTC)); err != nil {
		t.Fatal(err)
	}

	m = update(t, m, keyRunes("t"))
	if m.statusMsg == "" {
		t.Error("stepping past the supported range should report it")
	}
	if got := mgr.Params().When; got.Year() != 2099 {
		t.Errorf("When = %v, should be unchanged", got)
	}
}

func TestModel_CameraCommitsWhenSettled(t *testing.T) {
	m, mgr := newTestModel(t)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if !m.skyView.Animating() {
		t.Fatal("camera should be animating")
	}
	if got := mgr.Params().Center.AzDeg(); math.Abs(got-180) > 1e-9 {
		t.Errorf("center committed mid-animation: %v", got)
	}

	m.skyView.animStart = time.Now().Add(-time.Second)
	m = update(t, m, animTickMsg(time.Now()))
	if got := mgr.Params().Center; got != m.skyView.Center() {
		t.Errorf("center = %v, want %v", got, m.skyView.Center())
	}

	m = update(t, m, keyRunes("-"))
	if got := mgr.Params().FOVDeg; got != 110 {
		t.Errorf("FOVDeg = %v, want 110", got)
	}
}

func TestEventsModel_NewestFirst(t *testing.T) {
	now := time.Now()
	m := NewEventsModel().SetSize(80, 20).SetEvents([]state.Event{
		{Type: state.EventTimeChanged, Timestamp: now, Detail: "first"},
		{Type: state.EventViewChanged, Timestamp: now, Detail: "second"},
	})
	view := m.View()
	if strings.Index(view, "second") > strings.Index(view, "first") {
		t.Error("newest event should be listed first")
	}
	if !strings.Contains(NewEventsModel().View(), "No events yet") {
		t.Error("empty log placeholder missing")
	}
}

func TestPositionsModel_Rows(t *testing.T) {
	s := testSky(t, astro.MustHorizontalDeg(180, 30))
	m := NewPositionsModel().SetSize(140, 40).SetSky(s)

	rows := m.rows()
	if len(rows) != 9+len(s.BrightestStars(brightestStarsShown)) {
		t.Errorf("rows = %d", len(rows))
	}

	m, _ = m.Update(keyRunes("s"))
	if len(m.rows()) != 9 {
		t.Errorf("without stars rows = %d, want 9", len(m.rows()))
	}

	for i := 0; i < 20; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.cursor != 8 {
		t.Errorf("cursor = %d, want clamped to 8", m.cursor)
	}
}
