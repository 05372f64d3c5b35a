package timeaccel

import (
	"testing"
	"time"
)

var start = time.Date(2020, 2, 17, 20, 15, 0, 0, time.UTC)

func TestContinuous_Adjust(t *testing.T) {
	tests := []struct {
		factor  int64
		elapsed time.Duration
		want    time.Time
	}{
		{1, time.Second, start.Add(time.Second)},
		{300, 2 * time.Second, start.Add(10 * time.Minute)},
		{3000, 0, start},
	}
	for _, tt := range tests {
		if got := (Continuous{Factor: tt.factor}).Adjust(start, tt.elapsed); !got.Equal(tt.want) {
			t.Errorf("Continuous(%d).Adjust(%v) = %v, want %v", tt.factor, tt.elapsed, got, tt.want)
		}
	}
}

func TestDiscrete_Adjust(t *testing.T) {
	day := Discrete{Step: 24 * time.Hour, Frequency: 60}
	tests := []struct {
		elapsed time.Duration
		steps   int
	}{
		{0, 0},
		{16 * time.Millisecond, 0},
		{17 * time.Millisecond, 1},
		{time.Second, 60},
		{1500 * time.Millisecond, 90},
	}
	for _, tt := range tests {
		want := start.Add(time.Duration(tt.steps) * 24 * time.Hour)
		if got := day.Adjust(start, tt.elapsed); !got.Equal(want) {
			t.Errorf("Adjust(%v) = %v, want %d steps", tt.elapsed, got, tt.steps)
		}
	}
}

func TestByName(t *testing.T) {
	n, ok := ByName("Sidereal-Day")
	if !ok {
		t.Fatal("sidereal-day not found")
	}
	if d, ok := n.Accelerator.(Discrete); !ok || d.Step != SiderealDay {
		t.Errorf("sidereal-day = %+v", n)
	}
	if _, ok := ByName("warp"); ok {
		t.Error("unexpected accelerator")
	}
	if got := Names(); len(got) != 6 || got[0] != "1x" || got[5] != "sidereal-day" {
		t.Errorf("Names() = %v", got)
	}
}

func TestAnimator(t *testing.T) {
	real0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := NewAnimator(Continuous{Factor: 30})

	if a.Running() {
		t.Fatal("animator should start stopped")
	}

	a.Start(start, real0)
	if got := a.Now(real0.Add(2 * time.Second)); !got.Equal(start.Add(time.Minute)) {
		t.Errorf("Now after 2s at 30x = %v", got)
	}

	// Switching accelerator keeps the simulated time continuous.
	a.SetAccelerator(Continuous{Factor: 1}, real0.Add(2*time.Second))
	if got := a.Now(real0.Add(3 * time.Second)); !got.Equal(start.Add(time.Minute + time.Second)) {
		t.Errorf("Now after switch = %v", got)
	}

	a.Toggle(time.Time{}, real0.Add(4*time.Second))
	if a.Running() {
		t.Error("Toggle should stop a running animator")
	}
	a.Toggle(start, real0)
	if !a.Running() {
		t.Error("Toggle should start a stopped animator")
	}
}
