package astro

import "time"

const (
	msPerDay     = 24 * 60 * 60 * 1000.0
	msPerCentury = 36525 * msPerDay
	msPerHour    = 60 * 60 * 1000.0
)

// Epoch is a reference instant against which elapsed time is measured.
type Epoch struct {
	at time.Time
}

var (
	// J2000 is 2000-01-01 12:00 UTC.
	J2000 = Epoch{at: time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)}

	// J2010 is "January 0" 2010, i.e. 2009-12-31 00:00 UTC.
	J2010 = Epoch{at: time.Date(2009, time.December, 31, 0, 0, 0, 0, time.UTC)}
)

// Time returns the epoch instant.
func (e Epoch) Time() time.Time { return e.at }

// Days returns the days elapsed from the epoch to t (negative before it),
// measured at millisecond precision.
func (e Epoch) Days(t time.Time) float64 {
	return float64(t.Sub(e.at).Milliseconds()) / msPerDay
}

// JulianCenturies returns the Julian centuries elapsed from the epoch to t.
func (e Epoch) JulianCenturies(t time.Time) float64 {
	return float64(t.Sub(e.at).Milliseconds()) / msPerCentury
}
