// Package timeaccel maps real elapsed time to simulated time for animating
// the sky.
package timeaccel

import (
	"math"
	"strings"
	"time"
)

// Accelerator computes the simulated instant reached after elapsed real
// time, starting from start.
type Accelerator interface {
	Adjust(start time.Time, elapsed time.Duration) time.Time
}

// Continuous runs simulated time Factor times faster than real time.
type Continuous struct {
	Factor int64
}

func (c Continuous) Adjust(start time.Time, elapsed time.Duration) time.Time {
	return start.Add(time.Duration(c.Factor) * elapsed)
}

// Discrete advances simulated time by whole Steps, Frequency times per real
// second.
type Discrete struct {
	Step      time.Duration
	Frequency float64 // Hz
}

func (d Discrete) Adjust(start time.Time, elapsed time.Duration) time.Time {
	n := math.Floor(d.Frequency * elapsed.Seconds())
	return start.Add(time.Duration(n) * d.Step)
}

// SiderealDay is 23h56m04s.
const SiderealDay = 23*time.Hour + 56*time.Minute + 4*time.Second

// Named pairs an accelerator with its display name.
type Named struct {
	Name string
	Accelerator
}

// All lists the available accelerators, slowest first.
var All = []Named{
	{"1x", Continuous{Factor: 1}},
	{"30x", Continuous{Factor: 30}},
	{"300x", Continuous{Factor: 300}},
	{"3000x", Continuous{Factor: 3000}},
	{"day", Discrete{Step: 24 * time.Hour, Frequency: 60}},
	{"sidereal-day", Discrete{Step: SiderealDay, Frequency: 60}},
}

// ByName finds an accelerator, ignoring case.
func ByName(name string) (Named, bool) {
	for _, n := range All {
		if strings.EqualFold(n.Name, name) {
			return n, true
		}
	}
	return Named{}, false
}

// Names returns the accelerator names in All order.
func Names() []string {
	names := make([]string, len(All))
	for i, n := range All {
		names[i] = n.Name
	}
	return names
}

// Animator drives simulated time from a real clock. It is not safe for
// concurrent use; the UI owns it.
type Animator struct {
	accel     Accelerator
	running   bool
	realStart time.Time
	simStart  time.Time
}

func NewAnimator(a Accelerator) *Animator {
	return &Animator{accel: a}
}

func (a *Animator) Running() bool { return a.running }

// Start anchors simulated time sim to the real instant now.
func (a *Animator) Start(sim, now time.Time) {
	a.running = true
	a.simStart = sim
	a.realStart = now
}

func (a *Animator) Stop() { a.running = false }

// Toggle starts or stops the animation.
func (a *Animator) Toggle(sim, now time.Time) {
	if a.running {
		a.Stop()
		return
	}
	a.Start(sim, now)
}

// SetAccelerator swaps the accelerator. A running animation is re-anchored
// at its current simulated time so it does not jump.
func (a *Animator) SetAccelerator(acc Accelerator, now time.Time) {
	if a.running {
		a.simStart = a.Now(now)
		a.realStart = now
	}
	a.accel = acc
}

// Now returns the simulated time at real instant now. It is the anchor
// itself when the animation is stopped.
func (a *Animator) Now(now time.Time) time.Time {
	if !a.running {
		return a.simStart
	}
	return a.accel.Adjust(a.simStart, now.Sub(a.realStart))
}
